package commands

import (
	"errors"

	"catering/internal/core/domain/model/provider"
	"catering/internal/core/ports"
	"catering/internal/pkg/guard"
)

var (
	ErrProcessSubOrderCommandIsNotConstructed = errors.New(
		"ProcessSubOrderCommand must be created via NewProcessSubOrderCommand constructor",
	)
	ErrRestaurantIDIsInvalid = errors.New("restaurant id must be greater than 0")
	ErrProviderIsRequired    = errors.New("provider is required")
	ErrItemsAreRequired      = errors.New("at least one item is required")
)

// ProcessSubOrderCommand drives one restaurant's share of an order.
type ProcessSubOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      int64
	restaurantID int64
	provider     provider.Name
	items        []ports.ProviderItem

	guard guard.ConstructorGuard
}

func NewProcessSubOrderCommand(
	orderID, restaurantID int64,
	name provider.Name,
	items []ports.ProviderItem,
) (ProcessSubOrderCommand, error) {
	cmd := ProcessSubOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setProvider(name),
		cmd.setItems(items),
	); err != nil {
		return ProcessSubOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessSubOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessSubOrderCommandIsNotConstructed)
}

func (c ProcessSubOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c ProcessSubOrderCommand) RestaurantID() int64 {
	return c.restaurantID
}

func (c ProcessSubOrderCommand) Provider() provider.Name {
	return c.provider
}

func (c ProcessSubOrderCommand) Items() []ports.ProviderItem {
	return append([]ports.ProviderItem(nil), c.items...)
}

func (c *ProcessSubOrderCommand) setOrderID(id int64) error {
	if err := validateOrderID(id); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ProcessSubOrderCommand) setRestaurantID(id int64) error {
	if id <= 0 {
		return ErrRestaurantIDIsInvalid
	}
	c.restaurantID = id
	return nil
}

func (c *ProcessSubOrderCommand) setProvider(name provider.Name) error {
	if name == "" {
		return ErrProviderIsRequired
	}
	c.provider = name
	return nil
}

func (c *ProcessSubOrderCommand) setItems(items []ports.ProviderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	c.items = append([]ports.ProviderItem(nil), items...)
	return nil
}
