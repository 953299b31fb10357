package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"catering/internal/tasks"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

// outcome is how a delivery is settled with the broker.
type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDeadLetter
)

func (o outcome) String() string {
	switch o {
	case outcomeAck:
		return "ack"
	case outcomeRequeue:
		return "requeue"
	default:
		return "dead-letter"
	}
}

// settle decides the outcome of a handled delivery. A transient failure is
// requeued once; a redelivered failure and a permanent one go to the DLQ.
// Tasks interrupted by shutdown always return to the queue.
func settle(ctx context.Context, err error, redelivered bool, permanent func(error) bool) outcome {
	switch {
	case err == nil:
		return outcomeAck
	case ctx.Err() != nil:
		return outcomeRequeue
	case permanent != nil && permanent(err):
		return outcomeDeadLetter
	case redelivered:
		return outcomeDeadLetter
	default:
		return outcomeRequeue
	}
}

// ConsumerConfig configures a lane Consumer.
type ConsumerConfig struct {
	Lane tasks.Lane
	// Handler runs each decoded task, usually Dispatcher.Dispatch.
	Handler tasks.Handler
	// Workers is both the prefetch count and the number of tasks handled at once.
	Workers int
	// Permanent reports errors that retrying cannot fix.
	Permanent func(error) bool
}

// Consumer reads one lane queue and hands tasks to a handler.
type Consumer struct {
	conn      *Connection
	logger    *slog.Logger
	queue     string
	handler   tasks.Handler
	workers   int
	permanent func(error) bool
}

func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queue := QueueName(cfg.Lane)
	return &Consumer{
		conn:      conn,
		logger:    logger.With("component", "task-consumer", "queue", queue),
		queue:     queue,
		handler:   cfg.Handler,
		workers:   workers,
		permanent: cfg.Permanent,
	}
}

// Run consumes until ctx is cancelled, resubscribing after every reconnect.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Error("failed to subscribe", "error", err)
		} else {
			c.logger.Info("consumer started", "workers", c.workers)
			err = c.process(ctx, deliveries)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("consumer interrupted, waiting for reconnect", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.ReconnectNotify():
		}
	}
}

func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}
	if err := ch.Qos(c.workers, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", c.queue, err)
	}
	return deliveries, nil
}

// process fans deliveries out to the workers and returns once they all exit.
func (c *Consumer) process(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	var (
		wg       sync.WaitGroup
		once     sync.Once
		finalErr error
	)
	for range c.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-deliveries:
					if !ok {
						once.Do(func() { finalErr = errDeliveriesClosed })
						return
					}
					c.handle(ctx, raw)
				}
			}
		}()
	}
	wg.Wait()
	return finalErr
}

func (c *Consumer) handle(ctx context.Context, raw amqp.Delivery) {
	var t tasks.Task
	if err := json.Unmarshal(raw.Body, &t); err != nil {
		c.logger.Error("malformed task", "message_id", raw.MessageId, "error", err)
		c.ack(raw, outcomeDeadLetter)
		return
	}

	err := c.handler(ctx, t)
	result := settle(ctx, err, raw.Redelivered, c.permanent)
	if err != nil {
		c.logger.Warn("task not completed",
			"task_id", t.ID,
			"type", t.Type,
			"redelivered", raw.Redelivered,
			"outcome", result.String(),
			"error", err,
		)
	}
	c.ack(raw, result)
}

func (c *Consumer) ack(raw amqp.Delivery, result outcome) {
	var err error
	switch result {
	case outcomeAck:
		err = raw.Ack(false)
	case outcomeRequeue:
		err = raw.Nack(false, true)
	case outcomeDeadLetter:
		err = raw.Nack(false, false)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery", "delivery_tag", raw.DeliveryTag, "outcome", result.String(), "error", err)
	}
}
