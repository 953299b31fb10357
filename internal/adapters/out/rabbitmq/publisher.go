package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"catering/internal/tasks"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is a ports.TaskQueue that publishes tasks to their lane queue.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger.With("component", "task-publisher")}
}

// Enqueue publishes t as a persistent JSON message.
func (p *Publisher) Enqueue(ctx context.Context, t tasks.Task) error {
	if !slices.Contains(tasks.Lanes(), t.Lane) {
		return fmt.Errorf("%w: %q", tasks.ErrUnknownLane, t.Lane)
	}

	msg, err := newPublishing(t)
	if err != nil {
		return err
	}

	return p.conn.WithChannel(func(ch *amqp.Channel) error {
		if err := ch.PublishWithContext(ctx, ExchangeTasks, RoutingKey(t.Lane), false, false, msg); err != nil {
			return fmt.Errorf("publish %s to %s: %w", t.Type, t.Lane, err)
		}

		p.logger.DebugContext(ctx, "task published", "task_id", t.ID, "type", t.Type, "lane", t.Lane)
		return nil
	})
}

func newPublishing(t tasks.Task) (amqp.Publishing, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal task: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    t.ID.String(),
		Type:         string(t.Type),
		Timestamp:    t.EnqueuedAt,
		Body:         body,
	}, nil
}
