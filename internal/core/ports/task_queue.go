package ports

import (
	"context"

	"catering/internal/tasks"
)

// TaskQueue schedules background work on a priority lane.
type TaskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}
