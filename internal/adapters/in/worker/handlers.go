// Package worker turns queued tasks into application commands. It is the inbound
// side of the task queue; the same handlers serve the in-process runner and the
// RabbitMQ consumers.
package worker

import (
	"context"
	"errors"
	"fmt"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/ports"
	"catering/internal/tasks"
)

// ErrInvalidTask is returned when a task payload cannot be turned into a command.
var ErrInvalidTask = errors.New("invalid task")

type SubOrderProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessSubOrderCommand) error
}

type DeliveryBooker interface {
	Handle(ctx context.Context, cmd commands.BookDeliveryCommand) error
}

type RecommendationGenerator interface {
	Handle(ctx context.Context, cmd commands.GenerateRecommendationsCommand) (commands.RecommendationsReport, error)
}

// Handlers binds task types to command handlers.
type Handlers struct {
	subOrders       SubOrderProcessor
	deliveries      DeliveryBooker
	recommendations RecommendationGenerator
}

func NewHandlers(
	subOrders SubOrderProcessor,
	deliveries DeliveryBooker,
	recommendations RecommendationGenerator,
) *Handlers {
	return &Handlers{
		subOrders:       subOrders,
		deliveries:      deliveries,
		recommendations: recommendations,
	}
}

// Register installs every task handler on d.
func (h *Handlers) Register(d *tasks.Dispatcher) {
	d.Register(tasks.TypeProcessSubOrder, h.processSubOrder)
	d.Register(tasks.TypeBookDelivery, h.bookDelivery)
	d.Register(tasks.TypeGenerateRecommendations, h.generateRecommendations)
}

// Permanent reports task failures that must not be redelivered.
func Permanent(err error) bool {
	return errors.Is(err, ErrInvalidTask) ||
		errors.Is(err, tasks.ErrMalformedPayload) ||
		errors.Is(err, tasks.ErrUnknownTaskType) ||
		commands.IsPermanent(err)
}

func (h *Handlers) processSubOrder(ctx context.Context, t tasks.Task) error {
	payload, err := tasks.Decode[tasks.ProcessSubOrder](t)
	if err != nil {
		return err
	}

	items := make([]ports.ProviderItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ports.ProviderItem{Dish: item.Dish, Quantity: item.Quantity})
	}

	cmd, err := commands.NewProcessSubOrderCommand(payload.OrderID, payload.RestaurantID, payload.Provider, items)
	if err != nil {
		return invalid(t, err)
	}
	return h.subOrders.Handle(ctx, cmd)
}

func (h *Handlers) bookDelivery(ctx context.Context, t tasks.Task) error {
	payload, err := tasks.Decode[tasks.BookDelivery](t)
	if err != nil {
		return err
	}

	cmd, err := commands.NewBookDeliveryCommand(payload.OrderID)
	if err != nil {
		return invalid(t, err)
	}
	return h.deliveries.Handle(ctx, cmd)
}

func (h *Handlers) generateRecommendations(ctx context.Context, _ tasks.Task) error {
	_, err := h.recommendations.Handle(ctx, commands.NewGenerateRecommendationsCommand())
	return err
}

func invalid(t tasks.Task, err error) error {
	return fmt.Errorf("%w %s %s: %w", ErrInvalidTask, t.Type, t.ID, err)
}
