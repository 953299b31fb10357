package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrUnknownTaskType is returned when no handler is registered for a task type.
var ErrUnknownTaskType = errors.New("unknown task type")

// Handler executes one task.
type Handler func(ctx context.Context, t Task) error

// Dispatcher routes tasks to handlers by Type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type]Handler
	logger   *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[Type]Handler),
		logger:   logger.With("component", "task-dispatcher"),
	}
}

// Register binds h to typ, replacing any previous handler.
func (d *Dispatcher) Register(typ Type, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[typ] = h
}

// Types returns the registered task types.
func (d *Dispatcher) Types() []Type {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Type, 0, len(d.handlers))
	for typ := range d.handlers {
		out = append(out, typ)
	}
	return out
}

// Dispatch runs the handler registered for t.Type.
func (d *Dispatcher) Dispatch(ctx context.Context, t Task) error {
	d.mu.RLock()
	h, ok := d.handlers[t.Type]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTaskType, t.Type)
	}

	start := time.Now()
	d.logger.DebugContext(ctx, "task started", "task_id", t.ID, "type", t.Type, "lane", t.Lane)

	if err := h(ctx, t); err != nil {
		d.logger.ErrorContext(ctx, "task failed",
			"task_id", t.ID,
			"type", t.Type,
			"lane", t.Lane,
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}

	d.logger.InfoContext(ctx, "task completed",
		"task_id", t.ID,
		"type", t.Type,
		"duration", time.Since(start),
	)
	return nil
}
