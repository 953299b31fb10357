package jobs

import (
	"context"
	"log/slog"
	"time"

	"catering/internal/core/ports"
	"catering/internal/tasks"

	"github.com/robfig/cron/v3"
)

// DailyAtMidnight fires once a day at 00:00:00.
const DailyAtMidnight = "0 0 0 * * *"

// RecommendationJob enqueues the recommendation batch on a cron schedule.
type RecommendationJob struct {
	queue    ports.TaskQueue
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRecommendationJob creates a job firing on schedule (six fields, with
// seconds) in UTC. An empty schedule means DailyAtMidnight.
func NewRecommendationJob(queue ports.TaskQueue, schedule string, logger *slog.Logger) *RecommendationJob {
	if schedule == "" {
		schedule = DailyAtMidnight
	}
	return &RecommendationJob{
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		logger:   logger.With("component", "recommendation_job"),
	}
}

func (j *RecommendationJob) Name() string {
	return "recommendations"
}

// Start registers the schedule and starts the cron loop.
func (j *RecommendationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Recommendation job started", "schedule", j.schedule)
	return nil
}

// Run enqueues one recommendation batch.
func (j *RecommendationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	task, err := tasks.New(tasks.TypeGenerateRecommendations, tasks.Default, tasks.GenerateRecommendations{})
	if err != nil {
		j.logger.ErrorContext(ctx, "Recommendation task not built", "error", err)
		return
	}
	if err = j.queue.Enqueue(ctx, task); err != nil {
		j.logger.ErrorContext(ctx, "Recommendation task not enqueued", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Recommendation task enqueued", "task_id", task.ID)
}

// Stop stops the schedule and waits for a running enqueue to finish.
func (j *RecommendationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Recommendation job stopped")
}
