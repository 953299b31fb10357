package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrUserIDIsInvalid           = errors.New("user id must be greater than 0")
	ErrOrderLinesAreRequired     = errors.New("at least one order line is required")
	ErrQuantityIsInvalid         = errors.New("quantity must be greater than 0")
	ErrDeliveryProviderIsMissing = errors.New("delivery provider is required")
)

// OrderLine is one requested dish with its quantity.
type OrderLine struct {
	DishID   int64
	Quantity int
}

// PlaceOrderCommand represents a customer submitting an order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(userID, []OrderLine{{DishID: 3, Quantity: 2}}, "uklon")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	userID           int64
	lines            []OrderLine
	deliveryProvider string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the submission. Lines for the same dish are kept
// separate, as the customer sent them.
func NewPlaceOrderCommand(userID int64, lines []OrderLine, deliveryProvider string) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setLines(lines),
		cmd.setDeliveryProvider(deliveryProvider),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) UserID() int64 {
	return c.userID
}

// Lines returns a copy of the requested lines.
func (c PlaceOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

func (c PlaceOrderCommand) DeliveryProvider() string {
	return c.deliveryProvider
}

// DishIDs returns the distinct dish ids in first-seen order.
func (c PlaceOrderCommand) DishIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.lines))
	ids := make([]int64, 0, len(c.lines))
	for _, line := range c.lines {
		if _, ok := seen[line.DishID]; ok {
			continue
		}
		seen[line.DishID] = struct{}{}
		ids = append(ids, line.DishID)
	}
	return ids
}

func (c *PlaceOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDIsInvalid
	}
	c.userID = userID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ErrQuantityIsInvalid
		}
	}
	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *PlaceOrderCommand) setDeliveryProvider(name string) error {
	if name == "" {
		return ErrDeliveryProviderIsMissing
	}
	c.deliveryProvider = name
	return nil
}
