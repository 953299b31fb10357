package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var ErrScheduleOrderCommandIsNotConstructed = errors.New(
	"ScheduleOrderCommand must be created via NewScheduleOrderCommand constructor",
)

// ScheduleOrderCommand asks to fan a persisted order out to its restaurants.
type ScheduleOrderCommand struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewScheduleOrderCommand(orderID int64) (ScheduleOrderCommand, error) {
	if err := validateOrderID(orderID); err != nil {
		return ScheduleOrderCommand{}, err
	}
	return ScheduleOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ScheduleOrderCommand) Validate() error {
	return c.guard.Validate(ErrScheduleOrderCommandIsNotConstructed)
}

func (c ScheduleOrderCommand) OrderID() int64 {
	return c.orderID
}
