package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var ErrCheckAllCookedCommandIsNotConstructed = errors.New(
	"CheckAllCookedCommand must be created via NewCheckAllCookedCommand constructor",
)

// CheckAllCookedCommand asks whether every sub-order of an order is cooked.
type CheckAllCookedCommand struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewCheckAllCookedCommand(orderID int64) (CheckAllCookedCommand, error) {
	if err := validateOrderID(orderID); err != nil {
		return CheckAllCookedCommand{}, err
	}
	return CheckAllCookedCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckAllCookedCommand) Validate() error {
	return c.guard.Validate(ErrCheckAllCookedCommandIsNotConstructed)
}

func (c CheckAllCookedCommand) OrderID() int64 {
	return c.orderID
}
