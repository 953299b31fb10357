package commands

import (
	"context"
	"log/slog"

	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"
)

// ApplyProviderStatusCommandHandler is the entry point for statuses pushed by
// providers. It resolves the external sub-order id recorded at creation back to
// the order and restaurant, then applies the status exactly as a poll would.
type ApplyProviderStatusCommandHandler struct {
	mapper   services.StatusMapper
	cache    ports.Cache
	progress subOrderProgress
	logger   *slog.Logger
}

func NewApplyProviderStatusCommandHandler(
	mapper services.StatusMapper,
	orders ports.OrderRepository,
	trackingStore ports.TrackingStore,
	cache ports.Cache,
	allCooked *CheckAllCookedCommandHandler,
	logger *slog.Logger,
) *ApplyProviderStatusCommandHandler {
	logger = logger.With("component", "provider-webhook")
	return &ApplyProviderStatusCommandHandler{
		mapper: mapper,
		cache:  cache,
		progress: subOrderProgress{
			orders:    orders,
			tracking:  trackingStore,
			allCooked: allCooked,
			logger:    logger,
		},
		logger: logger,
	}
}

// Handle returns an errs.ObjectNotFoundError when the external id is unknown or
// its link expired.
func (h *ApplyProviderStatusCommandHandler) Handle(ctx context.Context, cmd ApplyProviderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var ref ports.ExternalOrderRef
	found, err := h.cache.Get(ctx, ports.ExternalOrdersNamespace, cmd.ExternalID(), &ref)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewObjectNotFoundError("external order", cmd.ExternalID())
	}

	status, err := h.mapper.Map(cmd.Provider(), cmd.Status())
	if err != nil {
		return err
	}

	changed, err := h.progress.apply(ctx, ref.OrderID, ref.RestaurantID, status)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "provider status received",
		"provider", cmd.Provider(),
		"external_id", cmd.ExternalID(),
		"order_id", ref.OrderID,
		"status", status,
		"changed", changed,
	)
	return nil
}
