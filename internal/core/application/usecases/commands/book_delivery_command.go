package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var ErrBookDeliveryCommandIsNotConstructed = errors.New(
	"BookDeliveryCommand must be created via NewBookDeliveryCommand constructor",
)

// BookDeliveryCommand asks to book and track the courier of a cooked order.
type BookDeliveryCommand struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewBookDeliveryCommand(orderID int64) (BookDeliveryCommand, error) {
	if err := validateOrderID(orderID); err != nil {
		return BookDeliveryCommand{}, err
	}
	return BookDeliveryCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c BookDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrBookDeliveryCommandIsNotConstructed)
}

func (c BookDeliveryCommand) OrderID() int64 {
	return c.orderID
}
