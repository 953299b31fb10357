package restaurant

import (
	"errors"
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

// ErrDishIsNotConstructed is returned when a Dish was not created via NewDish.
var ErrDishIsNotConstructed = errors.New("dish must be created via NewDish constructor")

// Dish belongs to exactly one restaurant. Price is kept in minor currency units.
type Dish struct {
	id         int64
	restaurant *Restaurant
	name       string
	price      int64

	isConstructed bool
}

func NewDish(id int64, owner *Restaurant, name string, price int64) (*Dish, error) {
	var problems []error
	if id <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id)))
	}
	if err := owner.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if price < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", price)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Dish{id: id, restaurant: owner, name: name, price: price, isConstructed: true}, nil
}

func (d *Dish) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDishIsNotConstructed
	}
	return nil
}

func (d *Dish) ID() int64 {
	return d.id
}

func (d *Dish) Restaurant() *Restaurant {
	return d.restaurant
}

func (d *Dish) Name() string {
	return d.name
}

func (d *Dish) Price() int64 {
	return d.price
}
