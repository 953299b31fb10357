package rabbitmq

import (
	"fmt"

	"catering/internal/tasks"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeTasks routes tasks to lane queues by lane name.
	ExchangeTasks = "catering.tasks"
	// ExchangeDLQ receives rejected tasks.
	ExchangeDLQ = "catering.dlq"
	// QueueDLQ holds rejected tasks for manual inspection.
	QueueDLQ = "tasks.dlq"

	routingKeyDLQ = "tasks"
)

// QueueName returns the queue serving a lane.
func QueueName(lane tasks.Lane) string {
	return "tasks." + string(lane)
}

// RoutingKey returns the routing key of a lane.
func RoutingKey(lane tasks.Lane) string {
	return string(lane)
}

// SetupTopology declares the exchanges, one queue per lane and the DLQ.
//
//	catering.tasks (direct)
//	├── tasks.high_priority [routing: high_priority]  DLQ: tasks.dlq
//	└── tasks.default       [routing: default]        DLQ: tasks.dlq
//	catering.dlq (direct)
//	└── tasks.dlq           [routing: tasks]
func SetupTopology(conn *Connection) error {
	return conn.WithChannel(func(ch *amqp.Channel) error {
		for _, name := range []string{ExchangeTasks, ExchangeDLQ} {
			if err := ch.ExchangeDeclare(name, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", name, err)
			}
		}

		if _, err := ch.QueueDeclare(QueueDLQ, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueDLQ, err)
		}
		if err := ch.QueueBind(QueueDLQ, routingKeyDLQ, ExchangeDLQ, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", QueueDLQ, err)
		}

		dlqArgs := amqp.Table{
			"x-dead-letter-exchange":    ExchangeDLQ,
			"x-dead-letter-routing-key": routingKeyDLQ,
		}
		for _, lane := range tasks.Lanes() {
			queue := QueueName(lane)
			if _, err := ch.QueueDeclare(queue, true, false, false, false, dlqArgs); err != nil {
				return fmt.Errorf("declare queue %s: %w", queue, err)
			}
			if err := ch.QueueBind(queue, RoutingKey(lane), ExchangeTasks, false, nil); err != nil {
				return fmt.Errorf("bind queue %s: %w", queue, err)
			}
		}

		return nil
	})
}
