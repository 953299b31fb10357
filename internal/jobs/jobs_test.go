package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"catering/internal/jobs"
	"catering/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskQueue struct{ mock.Mock }

func (m *MockTaskQueue) Enqueue(ctx context.Context, task tasks.Task) error {
	return m.Called(ctx, task).Error(0)
}

type fakeJob struct {
	name     string
	startErr error
	events   *[]string
}

func (j fakeJob) Name() string { return j.name }

func (j fakeJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	*j.events = append(*j.events, "start "+j.name)
	return nil
}

func (j fakeJob) Stop() { *j.events = append(*j.events, "stop "+j.name) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecommendationJob_RunEnqueuesBatchOnDefaultLane(t *testing.T) {
	queue := new(MockTaskQueue)
	queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(task tasks.Task) bool {
		return task.Type == tasks.TypeGenerateRecommendations && task.Lane == tasks.Default
	})).Return(nil).Once()

	jobs.NewRecommendationJob(queue, "", discardLogger()).Run()

	queue.AssertExpectations(t)
}

func TestRecommendationJob_RunSurvivesEnqueueError(t *testing.T) {
	queue := new(MockTaskQueue)
	queue.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	assert.NotPanics(t, func() {
		jobs.NewRecommendationJob(queue, "", discardLogger()).Run()
	})
	queue.AssertExpectations(t)
}

func TestRecommendationJob_StartRejectsInvalidSchedule(t *testing.T) {
	job := jobs.NewRecommendationJob(new(MockTaskQueue), "every day", discardLogger())

	assert.Error(t, job.Start())
}

func TestRecommendationJob_StartAndStop(t *testing.T) {
	job := jobs.NewRecommendationJob(new(MockTaskQueue), jobs.DailyAtMidnight, discardLogger())

	require.NoError(t, job.Start())
	job.Stop()
}

func TestJobManager_StopsStartedJobsInReverseOrder(t *testing.T) {
	var events []string
	m := jobs.NewJobManager(discardLogger(),
		fakeJob{name: "a", events: &events},
		fakeJob{name: "b", events: &events},
	)

	require.NoError(t, m.StartAll())
	m.StopAll()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
}

func TestJobManager_StartFailureStopsEarlierJobs(t *testing.T) {
	var events []string
	m := jobs.NewJobManager(discardLogger(),
		fakeJob{name: "a", events: &events},
		fakeJob{name: "b", startErr: errors.New("bad schedule"), events: &events},
	)

	err := m.StartAll()

	require.ErrorContains(t, err, "start job b")
	assert.Equal(t, []string{"start a", "stop a"}, events)
}
