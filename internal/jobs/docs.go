// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// RecommendationJob runs daily at midnight UTC and enqueues one
// GenerateRecommendations task on the default lane. The batch itself runs in a
// task worker, so a slow language model never blocks the scheduler.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(logger, jobs.NewRecommendationJob(queue, "", logger))
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Cron expressions carry a seconds field, so DailyAtMidnight is "0 0 0 * * *".
package jobs
