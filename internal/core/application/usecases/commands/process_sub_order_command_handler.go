package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/metrics"
)

// ProcessSubOrderCommandHandler drives one restaurant sub-order until it is cooked.
//
// Each iteration reads the tracking entry of the restaurant:
//   - no external id: the sub-order is created at the provider and the returned
//     id and status are written into the entry
//   - external id present: the provider is polled and a changed status is applied
//
// Push providers stop after creation and report later changes through
// ApplyProviderStatusCommandHandler. Poll providers are polled every PollInterval
// until Cooked or until SubOrderTimeout elapses.
type ProcessSubOrderCommandHandler struct {
	registry ProviderRegistry
	mapper   services.StatusMapper
	tracking ports.TrackingStore
	cache    ports.Cache
	progress subOrderProgress
	cfg      OrchestrationConfig
	logger   *slog.Logger
}

func NewProcessSubOrderCommandHandler(
	registry ProviderRegistry,
	mapper services.StatusMapper,
	orders ports.OrderRepository,
	trackingStore ports.TrackingStore,
	cache ports.Cache,
	allCooked *CheckAllCookedCommandHandler,
	cfg OrchestrationConfig,
	logger *slog.Logger,
) *ProcessSubOrderCommandHandler {
	logger = logger.With("component", "sub-order")
	return &ProcessSubOrderCommandHandler{
		registry: registry,
		mapper:   mapper,
		tracking: trackingStore,
		cache:    cache,
		progress: subOrderProgress{
			orders:    orders,
			tracking:  trackingStore,
			allCooked: allCooked,
			logger:    logger,
		},
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

func (h *ProcessSubOrderCommandHandler) Handle(ctx context.Context, cmd ProcessSubOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	client, err := h.registry.Lookup(cmd.Provider())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.SubOrderTimeout)
	defer cancel()

	for {
		done, err := h.step(ctx, client, cmd)
		if err != nil {
			return h.timedOut(ctx, cmd, err)
		}
		if done {
			return nil
		}
		if err = pause(ctx, h.cfg.PollInterval); err != nil {
			return h.timedOut(ctx, cmd, err)
		}
	}
}

func (h *ProcessSubOrderCommandHandler) step(
	ctx context.Context,
	client ports.RestaurantProvider,
	cmd ProcessSubOrderCommand,
) (bool, error) {
	record, err := h.tracking.Get(ctx, cmd.OrderID())
	if err != nil {
		return false, trackingError(err, cmd.OrderID())
	}
	entry, err := record.Entry(cmd.RestaurantID())
	if err != nil {
		return false, trackingError(err, cmd.OrderID())
	}

	if entry.ExternalID == nil {
		return h.create(ctx, client, cmd)
	}
	if client.Mode() == provider.Push {
		return true, nil
	}
	return h.poll(ctx, client, cmd, *entry.ExternalID)
}

func (h *ProcessSubOrderCommandHandler) create(
	ctx context.Context,
	client ports.RestaurantProvider,
	cmd ProcessSubOrderCommand,
) (bool, error) {
	created, err := callProvider(ctx, h.cfg, func(ctx context.Context) (ports.ProviderOrder, error) {
		return client.CreateOrder(ctx, cmd.Items())
	})
	if err != nil {
		metrics.SubOrders.WithLabelValues(client.Name().String(), metrics.ResultFailed).Inc()
		return false, fmt.Errorf("create %s sub-order: %w", client.Name(), err)
	}

	status, err := h.mapper.Map(client.Name(), created.Status)
	if err != nil {
		return false, err
	}

	if client.Mode() == provider.Push {
		ref := ports.ExternalOrderRef{OrderID: cmd.OrderID(), RestaurantID: cmd.RestaurantID()}
		if err = h.cache.Set(ctx, ports.ExternalOrdersNamespace, created.ID, ref, h.cfg.TrackingTTL); err != nil {
			return false, err
		}
	}

	// A webhook may already have advanced the entry once the external id link is
	// visible, so the stored status never moves backwards.
	externalID := created.ID
	stored := status
	_, err = h.tracking.Update(ctx, cmd.OrderID(), func(t *tracking.TrackingOrder) (bool, error) {
		entry, err := t.Entry(cmd.RestaurantID())
		if err != nil {
			return false, err
		}
		stored = status
		if entry.Status.Rank() > stored.Rank() {
			stored = entry.Status
		}
		return true, t.SetEntry(cmd.RestaurantID(), tracking.RestaurantEntry{
			ExternalID: &externalID,
			Status:     stored,
		})
	})
	if err != nil {
		return false, trackingError(err, cmd.OrderID())
	}

	metrics.SubOrders.WithLabelValues(client.Name().String(), metrics.ResultOK).Inc()
	h.logger.InfoContext(ctx, "sub-order created",
		"order_id", cmd.OrderID(),
		"restaurant_id", cmd.RestaurantID(),
		"provider", client.Name(),
		"external_id", externalID,
		"status", stored,
	)

	if stored != order.NotStarted {
		if err = h.progress.advance(ctx, cmd.OrderID(), stored); err != nil {
			return false, err
		}
	}

	return stored.Rank() >= order.Cooked.Rank() || client.Mode() == provider.Push, nil
}

func (h *ProcessSubOrderCommandHandler) poll(
	ctx context.Context,
	client ports.RestaurantProvider,
	cmd ProcessSubOrderCommand,
	externalID string,
) (bool, error) {
	current, err := callProvider(ctx, h.cfg, func(ctx context.Context) (ports.ProviderOrder, error) {
		return client.GetOrder(ctx, externalID)
	})
	metrics.ProviderPolls.WithLabelValues(client.Name().String()).Inc()
	if err != nil {
		return false, fmt.Errorf("poll %s sub-order %s: %w", client.Name(), externalID, err)
	}

	status, err := h.mapper.Map(client.Name(), current.Status)
	if err != nil {
		return false, err
	}

	if _, err = h.progress.apply(ctx, cmd.OrderID(), cmd.RestaurantID(), status); err != nil {
		return false, err
	}

	return status.Rank() >= order.Cooked.Rank(), nil
}

// timedOut replaces a deadline error of the task context with ErrPollingTimedOut.
func (h *ProcessSubOrderCommandHandler) timedOut(ctx context.Context, cmd ProcessSubOrderCommand, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && errors.Is(err, context.DeadlineExceeded) {
		metrics.SubOrders.WithLabelValues(cmd.Provider().String(), metrics.ResultFailed).Inc()
		return fmt.Errorf("%w: sub-order of order %d at restaurant %d after %s",
			ErrPollingTimedOut, cmd.OrderID(), cmd.RestaurantID(), h.cfg.SubOrderTimeout)
	}
	return err
}
