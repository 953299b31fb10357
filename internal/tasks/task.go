package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catering/internal/core/domain/model/provider"

	"github.com/google/uuid"
)

// ErrMalformedPayload is returned by Decode when a payload does not match its type.
var ErrMalformedPayload = errors.New("malformed task payload")

// Lane is a priority lane of the task queue.
type Lane string

const (
	// HighPriority carries per-restaurant cooking tasks.
	HighPriority Lane = "high_priority"
	// Default carries delivery and batch tasks.
	Default Lane = "default"
)

// Lanes lists every lane, highest priority first.
func Lanes() []Lane {
	return []Lane{HighPriority, Default}
}

// Type names the work a task carries and selects its handler.
type Type string

const (
	TypeProcessSubOrder         Type = "food.process_sub_order"
	TypeBookDelivery            Type = "food.book_delivery"
	TypeGenerateRecommendations Type = "food.generate_recommendations"
)

// Task is the envelope moved through a TaskQueue. Payload is JSON so the envelope
// can cross process boundaries unchanged.
type Task struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	Lane       Lane            `json:"lane"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// New wraps payload into an envelope with a fresh id.
func New(typ Type, lane Lane, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return Task{
		ID:         uuid.New(),
		Type:       typ,
		Lane:       lane,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the payload of t into T.
func Decode[T any](t Task) (T, error) {
	var payload T
	if err := json.Unmarshal(t.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, t.Type, err)
	}
	return payload, nil
}

// SubOrderItem is one dish line sent to a restaurant provider.
type SubOrderItem struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

// ProcessSubOrder drives one restaurant's share of an order to Cooked.
// Provider is resolved when the order is scheduled.
type ProcessSubOrder struct {
	OrderID      int64          `json:"order_id"`
	RestaurantID int64          `json:"restaurant_id"`
	Provider     provider.Name  `json:"provider"`
	Items        []SubOrderItem `json:"items"`
}

// BookDelivery books and tracks the courier for a cooked order.
type BookDelivery struct {
	OrderID int64 `json:"order_id"`
}

// GenerateRecommendations runs the daily recommendation batch.
type GenerateRecommendations struct{}
