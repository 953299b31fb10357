package tracking

import (
	"errors"
	"fmt"
	"slices"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
)

// ErrEntryMissing is returned when a restaurant has no entry in the record.
var ErrEntryMissing = errors.New("tracking entry is missing")

// Point is a serializable coordinate pair reported by the hailing provider.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PointFrom converts a validated location into a Point.
func PointFrom(l kernel.Location) *Point {
	return &Point{Lat: l.Lat(), Lng: l.Lng()}
}

// RestaurantEntry is the live state of one sub-order.
type RestaurantEntry struct {
	// ExternalID is nil until the provider accepts the sub-order.
	ExternalID *string      `json:"external_id"`
	Status     order.Status `json:"status"`
}

// DeliveryEntry is the live state of the courier job.
type DeliveryEntry struct {
	Status   order.Status `json:"status"`
	Location *Point       `json:"location"`
}

// TrackingOrder aggregates every sub-order and the delivery of one order.
// Its Restaurants keys are fixed when the order is scheduled.
type TrackingOrder struct {
	Restaurants map[int64]RestaurantEntry `json:"restaurants"`
	Delivery    DeliveryEntry             `json:"delivery"`

	// Version is bumped by the store on every successful write.
	Version int64 `json:"version"`
}

// Mutation changes a record in place. Returning changed=false skips the write.
type Mutation func(t *TrackingOrder) (changed bool, err error)

// New creates a record with one NotStarted entry per restaurant.
func New(restaurantIDs []int64) *TrackingOrder {
	entries := make(map[int64]RestaurantEntry, len(restaurantIDs))
	for _, id := range restaurantIDs {
		entries[id] = RestaurantEntry{Status: order.NotStarted}
	}
	return &TrackingOrder{
		Restaurants: entries,
		Delivery:    DeliveryEntry{Status: order.NotStarted},
	}
}

// Entry returns the sub-order state for a restaurant.
func (t *TrackingOrder) Entry(restaurantID int64) (RestaurantEntry, error) {
	entry, ok := t.Restaurants[restaurantID]
	if !ok {
		return RestaurantEntry{}, fmt.Errorf("%w: restaurant %d", ErrEntryMissing, restaurantID)
	}
	return entry, nil
}

// SetEntry replaces the state of an existing restaurant entry. New keys are never added.
func (t *TrackingOrder) SetEntry(restaurantID int64, entry RestaurantEntry) error {
	if _, ok := t.Restaurants[restaurantID]; !ok {
		return fmt.Errorf("%w: restaurant %d", ErrEntryMissing, restaurantID)
	}
	t.Restaurants[restaurantID] = entry
	return nil
}

// AllCooked reports whether every restaurant entry is Cooked.
// A record without restaurants is never considered cooked.
func (t *TrackingOrder) AllCooked() bool {
	if len(t.Restaurants) == 0 {
		return false
	}
	for _, entry := range t.Restaurants {
		if entry.Status != order.Cooked {
			return false
		}
	}
	return true
}

// RestaurantIDs returns the tracked restaurant ids in ascending order.
func (t *TrackingOrder) RestaurantIDs() []int64 {
	ids := make([]int64, 0, len(t.Restaurants))
	for id := range t.Restaurants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UpdateDelivery stores a new delivery state and reports whether anything changed.
func (t *TrackingOrder) UpdateDelivery(status order.Status, location *Point) bool {
	if t.Delivery.Status == status && SamePoint(t.Delivery.Location, location) {
		return false
	}
	t.Delivery = DeliveryEntry{Status: status, Location: location}
	return true
}

// SamePoint reports whether a and b are both absent or equal.
func SamePoint(a, b *Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
