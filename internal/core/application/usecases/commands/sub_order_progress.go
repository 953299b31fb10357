package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/metrics"
)

// subOrderProgress applies a new canonical status of one sub-order. Polling and
// pushed webhook updates share it.
type subOrderProgress struct {
	orders    ports.OrderRepository
	tracking  ports.TrackingStore
	allCooked *CheckAllCookedCommandHandler
	logger    *slog.Logger
}

// apply writes status into the restaurant entry and advances the order. Unchanged
// statuses and statuses behind the stored one are ignored without a write.
func (p subOrderProgress) apply(ctx context.Context, orderID, restaurantID int64, status order.Status) (bool, error) {
	var changed bool
	_, err := p.tracking.Update(ctx, orderID, func(t *tracking.TrackingOrder) (bool, error) {
		changed = false
		entry, err := t.Entry(restaurantID)
		if err != nil {
			return false, err
		}
		if entry.Status.Rank() >= status.Rank() {
			return false, nil
		}
		entry.Status = status
		changed = true
		return true, t.SetEntry(restaurantID, entry)
	})
	if err != nil {
		return false, trackingError(err, orderID)
	}
	if !changed {
		return false, nil
	}

	p.logger.InfoContext(ctx, "sub-order status changed",
		"order_id", orderID,
		"restaurant_id", restaurantID,
		"status", status,
	)
	return true, p.advance(ctx, orderID, status)
}

// advance moves the aggregate order after a sub-order reached status. The first
// sub-order to start cooking moves the order to Cooking; every sub-order reaching
// Cooked runs the aggregate check.
func (p subOrderProgress) advance(ctx context.Context, orderID int64, status order.Status) error {
	switch status {
	case order.Cooking:
		won, err := p.orders.CompareAndSetStatus(ctx, orderID, order.TransitionSources(order.Cooking), order.Cooking)
		if err != nil {
			return err
		}
		if won {
			metrics.OrderStatusTransitions.WithLabelValues(order.Cooking.String()).Inc()
			p.logger.InfoContext(ctx, "order is cooking", "order_id", orderID)
		}
	case order.Cooked:
		cmd, err := NewCheckAllCookedCommand(orderID)
		if err != nil {
			return err
		}
		if _, err = p.allCooked.Handle(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// trackingError translates store errors into the orchestration taxonomy.
func trackingError(err error, orderID int64) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("%w: order %d", ErrTrackingOrderMissing, orderID)
	case errors.Is(err, tracking.ErrEntryMissing):
		return fmt.Errorf("%w: order %d: %w", ErrTrackingEntryMissing, orderID, err)
	default:
		return err
	}
}
