package jobs

import (
	"fmt"
	"log/slog"
)

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager starts and stops a set of jobs together.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *slog.Logger
}

func NewJobManager(logger *slog.Logger, jobs ...Job) *JobManager {
	return &JobManager{
		jobs:   jobs,
		logger: logger.With("component", "job_manager"),
	}
}

// StartAll starts every job. If one fails, the jobs already started are stopped.
func (m *JobManager) StartAll() error {
	for _, job := range m.jobs {
		if err := job.Start(); err != nil {
			m.StopAll()
			return fmt.Errorf("start job %s: %w", job.Name(), err)
		}
		m.started = append(m.started, job)
	}
	m.logger.Info("All jobs started", "count", len(m.started))
	return nil
}

// StopAll stops the started jobs in reverse order.
func (m *JobManager) StopAll() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.started[i].Stop()
	}
	m.started = nil
}
