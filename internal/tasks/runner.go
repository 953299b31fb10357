package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	defaultQueueSize      = 256
	defaultWorkersPerLane = 4
	defaultMaxConcurrent  = 16
)

var (
	// ErrRunnerStopped is returned by Enqueue after Stop.
	ErrRunnerStopped = errors.New("task runner is stopped")
	// ErrUnknownLane is returned when a task names a lane the runner does not serve.
	ErrUnknownLane = errors.New("unknown task lane")
)

// RunnerConfig configures the in-process Runner.
type RunnerConfig struct {
	QueueSize      int   // buffered tasks per lane (default: 256)
	WorkersPerLane int   // goroutines reading each lane (default: 4)
	MaxConcurrent  int64 // tasks executing at once across lanes (default: 16)
	Logger         *slog.Logger
}

// Runner is an in-process TaskQueue. Each lane has its own buffer and workers;
// a shared semaphore caps how many tasks execute at once, which bounds the number
// of worker slots held by long polling loops.
type Runner struct {
	dispatcher     *Dispatcher
	lanes          map[Lane]chan Task
	workersPerLane int
	sem            *semaphore.Weighted
	logger         *slog.Logger

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

func NewRunner(dispatcher *Dispatcher, cfg RunnerConfig) *Runner {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	workers := cfg.WorkersPerLane
	if workers <= 0 {
		workers = defaultWorkersPerLane
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lanes := make(map[Lane]chan Task, len(Lanes()))
	for _, lane := range Lanes() {
		lanes[lane] = make(chan Task, queueSize)
	}

	return &Runner{
		dispatcher:     dispatcher,
		lanes:          lanes,
		workersPerLane: workers,
		sem:            semaphore.NewWeighted(maxConcurrent),
		logger:         logger.With("component", "task-runner"),
	}
}

// Enqueue buffers t on its lane. It blocks while the lane is full.
func (r *Runner) Enqueue(ctx context.Context, t Task) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return ErrRunnerStopped
	}

	queue, ok := r.lanes[t.Lane]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLane, t.Lane)
	}

	select {
	case queue <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the lane workers. Tasks run with a context derived from ctx.
func (r *Runner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	r.mu.Lock()
	r.cancel = cancel
	r.group = group
	r.mu.Unlock()

	for lane, queue := range r.lanes {
		for range r.workersPerLane {
			group.Go(func() error {
				r.work(ctx, queue)
				return nil
			})
		}
		r.logger.Info("lane started", "lane", lane, "workers", r.workersPerLane)
	}
}

// Stop cancels running tasks and waits for the workers to exit. Buffered tasks
// that have not started are dropped.
func (r *Runner) Stop() error {
	r.mu.Lock()
	r.stopped = true
	cancel, group := r.cancel, r.group
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	err := group.Wait()
	r.logger.Info("task runner stopped")
	return err
}

func (r *Runner) work(ctx context.Context, queue <-chan Task) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-queue:
			if err := r.sem.Acquire(ctx, 1); err != nil {
				return
			}
			// failures are logged by the dispatcher; in-process tasks are not redelivered
			_ = r.dispatcher.Dispatch(ctx, t)
			r.sem.Release(1)
		}
	}
}
