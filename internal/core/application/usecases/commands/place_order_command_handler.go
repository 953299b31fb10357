package commands

import (
	"context"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/restaurant"
	"catering/internal/pkg/errs"
)

// OrderScheduler fans a persisted order out to its restaurants.
type OrderScheduler interface {
	Handle(ctx context.Context, cmd ScheduleOrderCommand) error
}

// PlaceOrderCommandHandler persists a customer order and schedules it.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, scheduleHandler, logger)
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// Sub-orders are now queued on the high priority lane
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	scheduler  OrderScheduler
	logger     *slog.Logger
}

func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	scheduler OrderScheduler,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		logger:     logger.With("component", "place-order"),
	}
}

// Handle loads the requested dishes, persists the order with its items inside one
// transaction, then schedules it. It returns the new order id, also when
// scheduling fails after the order was committed.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dishes, err := uow.DishRepository().GetByIDs(ctx, cmd.DishIDs())
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]*restaurant.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID()] = d
	}

	items := make([]*order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		dish, ok := byID[line.DishID]
		if !ok {
			return 0, errs.NewObjectNotFoundError("dish", line.DishID)
		}
		item, err := order.NewItem(0, dish, line.Quantity)
		if err != nil {
			return 0, err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(cmd.UserID(), items, cmd.DeliveryProvider())
	if err != nil {
		return 0, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", aggregate.ID(),
		"user_id", aggregate.UserID(),
		"total", aggregate.Total(),
	)

	schedule, err := NewScheduleOrderCommand(aggregate.ID())
	if err != nil {
		return aggregate.ID(), err
	}
	return aggregate.ID(), h.scheduler.Handle(ctx, schedule)
}
