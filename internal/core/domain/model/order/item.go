package order

import (
	"errors"
	"fmt"

	"catering/internal/core/domain/model/restaurant"
	"catering/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("item must be created via NewItem constructor")

// Item is one dish line of an order. It is immutable after creation.
type Item struct {
	id       int64
	dish     *restaurant.Dish
	quantity int

	isConstructed bool
}

// NewItem creates an order line. The id may be zero for lines that are not persisted yet.
func NewItem(id int64, dish *restaurant.Dish, quantity int) (*Item, error) {
	var problems []error
	if id < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is negative", id)))
	}
	if err := dish.Validate(); err != nil {
		problems = append(problems, err)
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Item{id: id, dish: dish, quantity: quantity, isConstructed: true}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() int64 {
	return i.id
}

func (i *Item) Dish() *restaurant.Dish {
	return i.dish
}

func (i *Item) Quantity() int {
	return i.quantity
}

// Restaurant returns the restaurant that owns the item's dish.
func (i *Item) Restaurant() *restaurant.Restaurant {
	return i.dish.Restaurant()
}

// Subtotal is price times quantity in minor units.
func (i *Item) Subtotal() int64 {
	return i.dish.Price() * int64(i.quantity)
}
