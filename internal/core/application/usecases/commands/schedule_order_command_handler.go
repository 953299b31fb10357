package commands

import (
	"context"
	"fmt"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/ports"
	"catering/internal/tasks"
)

// ScheduleOrderCommandHandler splits an order into per-restaurant sub-orders.
//
// Every restaurant is resolved to its provider integration before anything is
// written, so an unsupported restaurant leaves no tracking state behind. The
// tracking record is then created with one NotStarted entry per restaurant, and
// only afterwards is one ProcessSubOrder task enqueued per restaurant on the high
// priority lane.
type ScheduleOrderCommandHandler struct {
	orders   ports.OrderRepository
	tracking ports.TrackingStore
	queue    ports.TaskQueue
	cfg      OrchestrationConfig
	logger   *slog.Logger
}

func NewScheduleOrderCommandHandler(
	orders ports.OrderRepository,
	tracking ports.TrackingStore,
	queue ports.TaskQueue,
	cfg OrchestrationConfig,
	logger *slog.Logger,
) *ScheduleOrderCommandHandler {
	return &ScheduleOrderCommandHandler{
		orders:   orders,
		tracking: tracking,
		queue:    queue,
		cfg:      cfg.withDefaults(),
		logger:   logger.With("component", "order-scheduler"),
	}
}

func (h *ScheduleOrderCommandHandler) Handle(ctx context.Context, cmd ScheduleOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	subOrders := aggregate.ItemsByRestaurant()
	if len(subOrders) == 0 {
		return order.ErrOrderHasNoItems
	}

	payloads := make([]tasks.ProcessSubOrder, 0, len(subOrders))
	restaurantIDs := make([]int64, 0, len(subOrders))
	for _, sub := range subOrders {
		kind, err := sub.Restaurant.Kind()
		if err != nil {
			return fmt.Errorf("schedule order %d: %w", aggregate.ID(), err)
		}
		name, err := provider.ForRestaurant(kind)
		if err != nil {
			return fmt.Errorf("schedule order %d: %w", aggregate.ID(), err)
		}

		items := make([]tasks.SubOrderItem, 0, len(sub.Items))
		for _, item := range sub.Items {
			items = append(items, tasks.SubOrderItem{Dish: item.Dish().Name(), Quantity: item.Quantity()})
		}

		restaurantIDs = append(restaurantIDs, sub.Restaurant.ID())
		payloads = append(payloads, tasks.ProcessSubOrder{
			OrderID:      aggregate.ID(),
			RestaurantID: sub.Restaurant.ID(),
			Provider:     name,
			Items:        items,
		})
	}

	if err = h.tracking.Create(ctx, aggregate.ID(), tracking.New(restaurantIDs), h.cfg.TrackingTTL); err != nil {
		return err
	}

	for _, payload := range payloads {
		task, err := tasks.New(tasks.TypeProcessSubOrder, tasks.HighPriority, payload)
		if err != nil {
			return err
		}
		if err = h.queue.Enqueue(ctx, task); err != nil {
			return fmt.Errorf("enqueue sub-order %d/%d: %w", payload.OrderID, payload.RestaurantID, err)
		}
	}

	h.logger.InfoContext(ctx, "order scheduled",
		"order_id", aggregate.ID(),
		"restaurants", restaurantIDs,
	)
	return nil
}
