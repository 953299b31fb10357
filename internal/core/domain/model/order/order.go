package order

import (
	"errors"
	"fmt"
	"time"

	"catering/internal/core/domain/model/restaurant"
	"catering/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder constructor")

	// ErrOrderHasNoItems is returned when an order is submitted without any dish.
	ErrOrderHasNoItems = errors.New("order must contain at least one item")

	// ErrIDAlreadyAssigned is returned when AssignID is called on a persisted order.
	ErrIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Order is the aggregate root of a customer submission. It is fanned out into one
// sub-order per restaurant and carries the aggregate status the customer polls.
//
// Order follows these invariants:
//   - Belongs to a user and holds at least one item
//   - Total equals the sum of item subtotals at creation time
//   - Status only moves along the transitions allowed by Status.CanTransitionTo
//   - Must be created through NewOrder or RestoreOrder
type Order struct {
	// id is zero until the order is persisted
	id int64

	userID int64

	status Status

	// deliveryProvider names the hailing service that carries the order
	deliveryProvider string

	// eta is zero until a delivery is booked
	eta time.Time

	// total is kept in minor currency units
	total int64

	items []*Item

	isConstructed bool
}

// NewOrder creates a freshly submitted order in NotStarted status.
//
// Example:
//
//	item, _ := order.NewItem(0, dish, 2)
//	o, err := order.NewOrder(userID, []*order.Item{item}, "uklon")
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(userID int64, items []*Item, deliveryProvider string) (*Order, error) {
	var problems []error
	if userID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("userID", fmt.Errorf("%d is not greater than 0", userID)))
	}
	if len(items) == 0 {
		problems = append(problems, ErrOrderHasNoItems)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			problems = append(problems, err)
			break
		}
	}
	if deliveryProvider == "" {
		problems = append(problems, errs.NewValueIsRequiredError("deliveryProvider"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}

	return &Order{
		userID:           userID,
		status:           NotStarted,
		deliveryProvider: deliveryProvider,
		total:            total,
		items:            append([]*Item(nil), items...),
		isConstructed:    true,
	}, nil
}

// RestoreOrder rebuilds a persisted order. It trusts its input and is intended for
// repositories only.
func RestoreOrder(
	id, userID int64,
	status Status,
	deliveryProvider string,
	eta time.Time,
	total int64,
	items []*Item,
) *Order {
	return &Order{
		id:               id,
		userID:           userID,
		status:           status,
		deliveryProvider: deliveryProvider,
		eta:              eta,
		total:            total,
		items:            items,
		isConstructed:    true,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID sets the identity issued by storage. It may be called once.
func (o *Order) AssignID(id int64) error {
	if o.id != 0 {
		return ErrIDAlreadyAssigned
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) UserID() int64 {
	return o.userID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) DeliveryProvider() string {
	return o.deliveryProvider
}

func (o *Order) ETA() time.Time {
	return o.eta
}

func (o *Order) Total() int64 {
	return o.total
}

// Items returns a copy of the order lines.
func (o *Order) Items() []*Item {
	return append([]*Item(nil), o.items...)
}

// TransitionTo moves the order to target if the progression allows it.
//
// Returns an error wrapping errs.ErrValueIsInvalid when the move is not allowed,
// for example Cooked -> Cooking.
func (o *Order) TransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("cannot move from %s to %s", o.status, target))
	}
	o.status = target
	return nil
}

// SetETA records the expected delivery time reported by the hailing provider.
func (o *Order) SetETA(eta time.Time) {
	o.eta = eta
}

// SubOrder is the share of an order cooked by one restaurant.
type SubOrder struct {
	Restaurant *restaurant.Restaurant
	Items      []*Item
}

// ItemsByRestaurant groups items by the restaurant owning their dish, in the
// order restaurants first appear among the items.
func (o *Order) ItemsByRestaurant() []SubOrder {
	index := make(map[int64]int)
	var groups []SubOrder
	for _, item := range o.items {
		r := item.Restaurant()
		pos, ok := index[r.ID()]
		if !ok {
			pos = len(groups)
			index[r.ID()] = pos
			groups = append(groups, SubOrder{Restaurant: r})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

// PickupPoint is one stop the courier visits before delivering the order.
type PickupPoint struct {
	RestaurantName string
	Address        string
}

// DeliveryMeta returns one pickup point per restaurant in the order.
func (o *Order) DeliveryMeta() []PickupPoint {
	groups := o.ItemsByRestaurant()
	points := make([]PickupPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, PickupPoint{
			RestaurantName: g.Restaurant.Name(),
			Address:        g.Restaurant.Address(),
		})
	}
	return points
}
