// Package ports defines the contracts between the application core and its adapters.
package ports

import (
	"context"

	"catering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items and assigns the storage id to the aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items, dishes and restaurants.
	// Returns an errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// CompareAndSetStatus moves the order to `to` only if its current status is one
	// of `from`. It reports whether this call performed the write, so concurrent
	// callers racing on the same transition see exactly one winner.
	CompareAndSetStatus(ctx context.Context, id int64, from []order.Status, to order.Status) (bool, error)

	// GetLastDelivered returns up to limit delivered orders of a user, newest first.
	GetLastDelivered(ctx context.Context, userID int64, limit int) ([]*order.Order, error)
}
