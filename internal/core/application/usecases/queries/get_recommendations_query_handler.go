package queries

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"catering/internal/core/domain/model/recommendation"
	"catering/internal/core/ports"
)

// GetRecommendationsQueryHandler serves recommendations from the cache.
type GetRecommendationsQueryHandler struct {
	cache  ports.Cache
	logger *slog.Logger
}

func NewGetRecommendationsQueryHandler(cache ports.Cache, logger *slog.Logger) GetRecommendationsQueryHandler {
	return GetRecommendationsQueryHandler{cache: cache, logger: logger.With("component", "recommendations-query")}
}

// Handle returns the cached dishes, or an empty slice when nothing was generated
// for the user or the cached value no longer decodes.
func (h GetRecommendationsQueryHandler) Handle(
	ctx context.Context,
	query GetRecommendationsQuery,
) ([]recommendation.DishView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var set recommendation.Set
	found, err := h.cache.Get(ctx, recommendation.Namespace, strconv.FormatInt(query.UserID(), 10), &set)
	if errors.Is(err, ports.ErrCacheValueInvalid) {
		h.logger.WarnContext(ctx, "ignoring malformed recommendations", "user_id", query.UserID(), "error", err)
		return []recommendation.DishView{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !found || set.Dishes == nil {
		return []recommendation.DishView{}, nil
	}

	return set.Dishes, nil
}
