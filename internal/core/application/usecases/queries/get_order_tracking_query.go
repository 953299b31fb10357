package queries

import (
	"errors"

	"catering/internal/pkg/guard"
)

var (
	ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
		"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
	)
	ErrOrderIDIsInvalid = errors.New("order id must be greater than 0")
)

// GetOrderTrackingQuery reads the live progress of one order.
type GetOrderTrackingQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewGetOrderTrackingQuery(orderID int64) (GetOrderTrackingQuery, error) {
	if orderID <= 0 {
		return GetOrderTrackingQuery{}, ErrOrderIDIsInvalid
	}
	return GetOrderTrackingQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

func (q GetOrderTrackingQuery) OrderID() int64 {
	return q.orderID
}
