package ports

import (
	"context"
	"errors"
	"time"

	"catering/internal/core/domain/model/tracking"
)

// Cache namespaces shared by the orchestration and recommendation flows.
const (
	OrdersNamespace         = "orders"
	ExternalOrdersNamespace = "kfc_orders"
)

// ErrCacheValueInvalid is returned when a cached value cannot be decoded into the
// requested shape.
var ErrCacheValueInvalid = errors.New("cached value has unexpected shape")

// Cache is a namespaced key-value store with TTL based expiry.
type Cache interface {
	// Get decodes the value stored under namespace/key into dst.
	// It returns false without error when the key is absent or expired.
	Get(ctx context.Context, namespace, key string, dst any) (bool, error)

	// Set stores value under namespace/key. A zero ttl applies the store default.
	Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) error
}

// TrackingStore persists TrackingOrder records under the orders namespace.
type TrackingStore interface {
	// Create writes a fresh record, replacing any previous one, with the given ttl.
	Create(ctx context.Context, orderID int64, record *tracking.TrackingOrder, ttl time.Duration) error

	// Get reads a record. Returns an errs.ObjectNotFoundError when absent or expired.
	Get(ctx context.Context, orderID int64) (*tracking.TrackingOrder, error)

	// Update applies mutate under optimistic concurrency and keeps the remaining ttl.
	// mutate may run more than once when concurrent writers conflict, so it must only
	// touch the record it is given. Returns an errs.ObjectNotFoundError when absent.
	Update(ctx context.Context, orderID int64, mutate tracking.Mutation) (*tracking.TrackingOrder, error)
}

// ExternalOrderRef links a provider's sub-order id back to the internal order.
// It is stored in ExternalOrdersNamespace so pushed status updates can be routed.
type ExternalOrderRef struct {
	OrderID      int64 `json:"internal_order_id"`
	RestaurantID int64 `json:"restaurant_id"`
}
