package commands

import (
	"context"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/ports"
	"catering/internal/pkg/metrics"
	"catering/internal/tasks"
)

// CheckAllCookedCommandHandler is the join point of the per-restaurant tasks.
//
// It runs from every task whose sub-order reaches Cooked, so several callers may
// observe "all cooked" at once. The move to Cooked is a conditional status write
// that exactly one caller performs. Delivery booking is enqueued while the order
// is still Cooked, so a retried check recovers a failed enqueue; booking itself
// leaves Cooked conditionally and books a courier once.
//
// Example:
//
//	cmd, _ := NewCheckAllCookedCommand(orderID)
//	allCooked, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrTrackingOrderMissing) {
//	    // Tracking state expired, the order needs reconciliation
//	}
type CheckAllCookedCommandHandler struct {
	orders   ports.OrderRepository
	tracking ports.TrackingStore
	queue    ports.TaskQueue
	logger   *slog.Logger
}

func NewCheckAllCookedCommandHandler(
	orders ports.OrderRepository,
	tracking ports.TrackingStore,
	queue ports.TaskQueue,
	logger *slog.Logger,
) *CheckAllCookedCommandHandler {
	return &CheckAllCookedCommandHandler{
		orders:   orders,
		tracking: tracking,
		queue:    queue,
		logger:   logger.With("component", "cooked-check"),
	}
}

// Handle reports whether every restaurant entry is Cooked. When some entry is not,
// the order is left untouched.
func (h *CheckAllCookedCommandHandler) Handle(ctx context.Context, cmd CheckAllCookedCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	record, err := h.tracking.Get(ctx, cmd.OrderID())
	if err != nil {
		return false, trackingError(err, cmd.OrderID())
	}

	if !record.AllCooked() {
		h.logger.DebugContext(ctx, "not all sub-orders are cooked",
			"order_id", cmd.OrderID(),
			"restaurants", record.Restaurants,
		)
		return false, nil
	}

	won, err := h.orders.CompareAndSetStatus(ctx, cmd.OrderID(), order.TransitionSources(order.Cooked), order.Cooked)
	if err != nil {
		return true, err
	}
	if won {
		metrics.OrderStatusTransitions.WithLabelValues(order.Cooked.String()).Inc()
		h.logger.InfoContext(ctx, "order has been cooked", "order_id", cmd.OrderID())
	} else {
		current, err := h.orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return true, err
		}
		if current.Status() != order.Cooked {
			h.logger.DebugContext(ctx, "order already moved past cooked", "order_id", cmd.OrderID())
			return true, nil
		}
	}

	task, err := tasks.New(tasks.TypeBookDelivery, tasks.Default, tasks.BookDelivery{OrderID: cmd.OrderID()})
	if err != nil {
		return true, err
	}
	if err = h.queue.Enqueue(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue delivery booking",
			"order_id", cmd.OrderID(),
			"error", err,
		)
		return true, err
	}
	return true, nil
}
