package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/metrics"
)

// BookDeliveryCommandHandler books a courier for a cooked order and tracks it
// until the hailing provider reports the order delivered.
//
// Status progression of the order:
//
//	Cooked ──> DeliveryLookup ──(job booked)──> Delivery ──(provider reports delivered)──> Delivered
//
// Only the caller that moves the order out of Cooked books a courier, so a
// redelivered task never books twice. Delivered is written only after the
// tracking loop has observed it.
//
// Example:
//
//	cmd, _ := NewBookDeliveryCommand(orderID)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrPollingTimedOut) {
//	    // Courier did not arrive within DeliveryTimeout
//	}
type BookDeliveryCommandHandler struct {
	orders   ports.OrderRepository
	tracking ports.TrackingStore
	delivery ports.DeliveryProvider
	mapper   services.StatusMapper
	cfg      OrchestrationConfig
	logger   *slog.Logger
}

func NewBookDeliveryCommandHandler(
	orders ports.OrderRepository,
	trackingStore ports.TrackingStore,
	delivery ports.DeliveryProvider,
	mapper services.StatusMapper,
	cfg OrchestrationConfig,
	logger *slog.Logger,
) *BookDeliveryCommandHandler {
	return &BookDeliveryCommandHandler{
		orders:   orders,
		tracking: trackingStore,
		delivery: delivery,
		mapper:   mapper,
		cfg:      cfg.withDefaults(),
		logger:   logger.With("component", "delivery"),
	}
}

func (h *BookDeliveryCommandHandler) Handle(ctx context.Context, cmd BookDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	won, err := h.transition(ctx, cmd.OrderID(), order.DeliveryLookup)
	if err != nil {
		return err
	}
	if !won {
		metrics.Deliveries.WithLabelValues(metrics.ResultSkipped).Inc()
		h.logger.InfoContext(ctx, "delivery already booked", "order_id", cmd.OrderID())
		return nil
	}

	aggregate, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	job, err := callProvider(ctx, h.cfg, func(ctx context.Context) (ports.DeliveryJob, error) {
		return h.delivery.CreateOrder(ctx, newDeliveryRequest(aggregate.DeliveryMeta()))
	})
	if err != nil {
		metrics.Deliveries.WithLabelValues(metrics.ResultFailed).Inc()
		return fmt.Errorf("book %s delivery: %w", h.delivery.Name(), err)
	}

	status, err := h.mapper.Map(h.delivery.Name(), job.Status)
	if err != nil {
		return err
	}
	location := pointOf(job.Location, nil)

	if err = h.saveDelivery(ctx, cmd.OrderID(), order.Delivery, location); err != nil {
		return err
	}
	if _, err = h.transition(ctx, cmd.OrderID(), order.Delivery); err != nil {
		return err
	}

	metrics.Deliveries.WithLabelValues(metrics.ResultOK).Inc()
	h.logger.InfoContext(ctx, "delivery booked",
		"order_id", cmd.OrderID(),
		"provider", h.delivery.Name(),
		"job_id", job.ID,
		"status", status,
	)

	location, err = h.track(ctx, cmd.OrderID(), job.ID, status, location)
	if err != nil {
		return err
	}

	if _, err = h.transition(ctx, cmd.OrderID(), order.Delivered); err != nil {
		return err
	}
	if err = h.saveDelivery(ctx, cmd.OrderID(), order.Delivered, location); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "order delivered", "order_id", cmd.OrderID(), "location", location)
	return nil
}

// track polls the courier job until it is delivered and returns the last known
// location. The tracking record is written only when status or location changed.
func (h *BookDeliveryCommandHandler) track(
	ctx context.Context,
	orderID int64,
	jobID string,
	status order.Status,
	location *tracking.Point,
) (*tracking.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.DeliveryTimeout)
	defer cancel()

	for status != order.Delivered {
		if err := pause(ctx, h.cfg.PollInterval); err != nil {
			return location, h.timedOut(ctx, orderID, err)
		}

		job, err := callProvider(ctx, h.cfg, func(ctx context.Context) (ports.DeliveryJob, error) {
			return h.delivery.GetOrder(ctx, jobID)
		})
		metrics.ProviderPolls.WithLabelValues(h.delivery.Name().String()).Inc()
		if err != nil {
			return location, h.timedOut(ctx, orderID, fmt.Errorf("poll %s job %s: %w", h.delivery.Name(), jobID, err))
		}

		next, err := h.mapper.Map(h.delivery.Name(), job.Status)
		if err != nil {
			return location, err
		}
		nextLocation := pointOf(job.Location, location)

		if next == status && tracking.SamePoint(location, nextLocation) {
			continue
		}
		status, location = next, nextLocation

		h.logger.InfoContext(ctx, "courier update",
			"order_id", orderID,
			"job_id", jobID,
			"status", status,
			"location", location,
		)

		if status == order.Delivered {
			break
		}
		if err = h.saveDelivery(ctx, orderID, order.Delivery, location); err != nil {
			return location, err
		}
	}

	return location, nil
}

func (h *BookDeliveryCommandHandler) transition(ctx context.Context, orderID int64, to order.Status) (bool, error) {
	won, err := h.orders.CompareAndSetStatus(ctx, orderID, order.TransitionSources(to), to)
	if err != nil {
		return false, err
	}
	if won {
		metrics.OrderStatusTransitions.WithLabelValues(to.String()).Inc()
	}
	return won, nil
}

func (h *BookDeliveryCommandHandler) saveDelivery(
	ctx context.Context,
	orderID int64,
	status order.Status,
	location *tracking.Point,
) error {
	_, err := h.tracking.Update(ctx, orderID, func(t *tracking.TrackingOrder) (bool, error) {
		return t.UpdateDelivery(status, location), nil
	})
	if err != nil {
		return trackingError(err, orderID)
	}
	return nil
}

func (h *BookDeliveryCommandHandler) timedOut(ctx context.Context, orderID int64, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && errors.Is(err, context.DeadlineExceeded) {
		metrics.Deliveries.WithLabelValues(metrics.ResultFailed).Inc()
		return fmt.Errorf("%w: delivery of order %d after %s", ErrPollingTimedOut, orderID, h.cfg.DeliveryTimeout)
	}
	return err
}

func newDeliveryRequest(points []order.PickupPoint) ports.DeliveryRequest {
	req := ports.DeliveryRequest{
		Addresses: make([]string, 0, len(points)),
		Comments:  make([]string, 0, len(points)),
	}
	for _, p := range points {
		req.Addresses = append(req.Addresses, p.Address)
		req.Comments = append(req.Comments, "Delivery to the "+p.RestaurantName)
	}
	return req
}

// pointOf converts a reported location, keeping fallback when none was reported.
func pointOf(l *kernel.Location, fallback *tracking.Point) *tracking.Point {
	if l == nil {
		return fallback
	}
	return tracking.PointFrom(*l)
}
