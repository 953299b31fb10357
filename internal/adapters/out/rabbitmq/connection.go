// Package rabbitmq carries tasks between processes over RabbitMQ. Each task lane
// is a durable queue; failed deliveries end in a dead letter queue.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoChannel is returned while the connection is down.
var ErrNoChannel = errors.New("no amqp channel available")

// Connection wraps an AMQP connection and reconnects when the broker drops it.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	closed   bool
	closedCh chan struct{}

	reconnectMu sync.Mutex
	reconnectCh chan struct{}
}

// NewConnection dials url and starts watching the connection.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	c := &Connection{
		url:         url,
		logger:      logger.With("component", "rabbitmq"),
		closedCh:    make(chan struct{}),
		reconnectCh: make(chan struct{}),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	go c.watchConnection()

	return c, nil
}

func (c *Connection) connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("connected to RabbitMQ")
	return nil
}

func (c *Connection) watchConnection() {
	for {
		c.mu.RLock()
		if c.closed {
			c.mu.RUnlock()
			return
		}
		conn := c.conn
		c.mu.RUnlock()

		notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.closedCh:
			return
		case err := <-notifyClose:
			if err != nil {
				c.logger.Warn("connection closed", "error", err)
			}
			if !c.reconnect() {
				return
			}
		}
	}
}

// reconnect retries with exponential backoff capped at 30s until it succeeds or
// the connection is closed.
func (c *Connection) reconnect() bool {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.closedCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := backoff.RetryNotify(c.connect, backoff.WithContext(policy, ctx), func(err error, delay time.Duration) {
		c.logger.Warn("reconnect failed", "error", err, "next_attempt_in", delay)
	})
	if err != nil {
		return false
	}

	c.logger.Info("reconnected to RabbitMQ")

	c.reconnectMu.Lock()
	close(c.reconnectCh)
	c.reconnectCh = make(chan struct{})
	c.reconnectMu.Unlock()
	return true
}

// ReconnectNotify returns a channel closed after the next successful reconnect.
func (c *Connection) ReconnectNotify() <-chan struct{} {
	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()
	return c.reconnectCh
}

// Channel returns the current channel, nil while disconnected.
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// WithChannel runs fn with the current channel.
func (c *Connection) WithChannel(fn func(ch *amqp.Channel) error) error {
	ch := c.Channel()
	if ch == nil {
		return ErrNoChannel
	}
	return fn(ch)
}

// IsConnected reports whether the underlying connection is open.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close stops reconnecting and closes the channel and connection.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.closedCh)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	c.logger.Info("connection closed")
	return errors.Join(errs...)
}
