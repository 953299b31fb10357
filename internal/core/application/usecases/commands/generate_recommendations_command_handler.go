package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/recommendation"
	"catering/internal/core/ports"
	"catering/internal/pkg/metrics"
)

// RecommendationsReport summarises one batch run.
type RecommendationsReport struct {
	Generated int
	Skipped   int
	Failed    map[int64]error
}

// GenerateRecommendationsCommandHandler asks the language model for dishes each
// customer may like, based on their latest delivered orders.
//
// A failure for one customer, such as unparsable model output or ids missing from
// the catalog, is recorded in the report and the batch continues. Only failing to
// list customers aborts the run.
type GenerateRecommendationsCommandHandler struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	dishes ports.DishRepository
	model  ports.LanguageModel
	cache  ports.Cache
	logger *slog.Logger
}

func NewGenerateRecommendationsCommandHandler(
	users ports.UserRepository,
	orders ports.OrderRepository,
	dishes ports.DishRepository,
	model ports.LanguageModel,
	cache ports.Cache,
	logger *slog.Logger,
) *GenerateRecommendationsCommandHandler {
	return &GenerateRecommendationsCommandHandler{
		users:  users,
		orders: orders,
		dishes: dishes,
		model:  model,
		cache:  cache,
		logger: logger.With("component", "recommendations"),
	}
}

func (h *GenerateRecommendationsCommandHandler) Handle(
	ctx context.Context,
	cmd GenerateRecommendationsCommand,
) (RecommendationsReport, error) {
	report := RecommendationsReport{Failed: make(map[int64]error)}
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	customers, err := h.users.ListCustomers(ctx)
	if err != nil {
		return report, err
	}

	for _, userID := range customers {
		if err = ctx.Err(); err != nil {
			return report, err
		}

		history, err := h.orders.GetLastDelivered(ctx, userID, recommendation.OrdersLimit)
		if err != nil {
			h.fail(ctx, &report, userID, err)
			continue
		}
		if len(history) == 0 {
			report.Skipped++
			metrics.Recommendations.WithLabelValues(metrics.ResultSkipped).Inc()
			h.logger.DebugContext(ctx, "customer has no delivered orders", "user_id", userID)
			continue
		}

		if err = h.generate(ctx, userID, history); err != nil {
			h.fail(ctx, &report, userID, err)
			continue
		}

		report.Generated++
		metrics.Recommendations.WithLabelValues(metrics.ResultOK).Inc()
	}

	h.logger.InfoContext(ctx, "recommendations generated",
		"generated", report.Generated,
		"skipped", report.Skipped,
		"failed", len(report.Failed),
	)
	return report, nil
}

func (h *GenerateRecommendationsCommandHandler) generate(ctx context.Context, userID int64, history []*order.Order) error {
	answer, err := h.model.Ask(ctx, recommendation.BuildPrompt(history))
	if err != nil {
		return err
	}

	ids, err := recommendation.ParseDishIDs(answer)
	if err != nil {
		return err
	}

	dishes, err := h.dishes.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(dishes) != len(ids) {
		return fmt.Errorf("%w: requested %v, found %d", recommendation.ErrUnknownDishes, ids, len(dishes))
	}

	set := recommendation.Set{Dishes: make([]recommendation.DishView, 0, len(dishes))}
	for _, d := range dishes {
		set.Dishes = append(set.Dishes, recommendation.NewDishView(d))
	}

	if err = h.cache.Set(ctx, recommendation.Namespace, strconv.FormatInt(userID, 10), set, 0); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "recommendations cached", "user_id", userID, "dishes", ids)
	return nil
}

func (h *GenerateRecommendationsCommandHandler) fail(ctx context.Context, report *RecommendationsReport, userID int64, err error) {
	report.Failed[userID] = err
	metrics.Recommendations.WithLabelValues(metrics.ResultFailed).Inc()
	h.logger.ErrorContext(ctx, "recommendation generation failed", "user_id", userID, "error", err)
}
