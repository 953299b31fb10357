package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"catering/internal/tasks"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("permanent")

func isPermanent(err error) bool { return errors.Is(err, errPermanent) }

type settlement struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	got settlement
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.got.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.got.nacked = true
	f.got.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.got.nacked = true
	f.got.requeue = requeue
	return nil
}

func newTestConsumer(handler tasks.Handler) *Consumer {
	return NewConsumer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), ConsumerConfig{
		Lane:      tasks.Default,
		Handler:   handler,
		Permanent: isPermanent,
	})
}

func delivery(t *testing.T, ack amqp.Acknowledger, redelivered bool) amqp.Delivery {
	t.Helper()
	task, err := tasks.New(tasks.TypeBookDelivery, tasks.Default, tasks.BookDelivery{OrderID: 7})
	require.NoError(t, err)
	body, err := json.Marshal(task)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body, Redelivered: redelivered}
}

func TestTopologyNames(t *testing.T) {
	assert.Equal(t, "tasks.high_priority", QueueName(tasks.HighPriority))
	assert.Equal(t, "tasks.default", QueueName(tasks.Default))
	assert.Equal(t, "high_priority", RoutingKey(tasks.HighPriority))
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	transient := errors.New("timeout")

	tests := []struct {
		name        string
		ctx         context.Context
		err         error
		redelivered bool
		want        outcome
	}{
		{"success", ctx, nil, false, outcomeAck},
		{"transient first attempt", ctx, transient, false, outcomeRequeue},
		{"transient redelivered", ctx, transient, true, outcomeDeadLetter},
		{"permanent", ctx, errPermanent, false, outcomeDeadLetter},
		{"shutdown", cancelled, transient, true, outcomeRequeue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settle(tt.ctx, tt.err, tt.redelivered, isPermanent))
		})
	}
}

func TestConsumer_Handle_AcksSuccessfulTask(t *testing.T) {
	ack := &fakeAcknowledger{}
	var got tasks.Task
	c := newTestConsumer(func(_ context.Context, task tasks.Task) error {
		got = task
		return nil
	})

	c.handle(context.Background(), delivery(t, ack, false))

	assert.Equal(t, settlement{acked: true}, ack.got)
	assert.Equal(t, tasks.TypeBookDelivery, got.Type)
	payload, err := tasks.Decode[tasks.BookDelivery](got)
	require.NoError(t, err)
	assert.Equal(t, int64(7), payload.OrderID)
}

func TestConsumer_Handle_RequeuesTransientFailureOnce(t *testing.T) {
	c := newTestConsumer(func(context.Context, tasks.Task) error { return errors.New("provider down") })

	first := &fakeAcknowledger{}
	c.handle(context.Background(), delivery(t, first, false))
	assert.Equal(t, settlement{nacked: true, requeue: true}, first.got)

	second := &fakeAcknowledger{}
	c.handle(context.Background(), delivery(t, second, true))
	assert.Equal(t, settlement{nacked: true, requeue: false}, second.got)
}

func TestConsumer_Handle_DeadLettersPermanentFailure(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer(func(context.Context, tasks.Task) error { return errPermanent })

	c.handle(context.Background(), delivery(t, ack, false))

	assert.Equal(t, settlement{nacked: true, requeue: false}, ack.got)
}

func TestConsumer_Handle_DeadLettersMalformedBody(t *testing.T) {
	ack := &fakeAcknowledger{}
	called := false
	c := newTestConsumer(func(context.Context, tasks.Task) error {
		called = true
		return nil
	})

	c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.False(t, called)
	assert.Equal(t, settlement{nacked: true, requeue: false}, ack.got)
}

func TestNewPublishing(t *testing.T) {
	task := tasks.Task{
		ID:         uuid.New(),
		Type:       tasks.TypeProcessSubOrder,
		Lane:       tasks.HighPriority,
		Payload:    json.RawMessage(`{"order_id":3}`),
		EnqueuedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	msg, err := newPublishing(task)
	require.NoError(t, err)

	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, task.ID.String(), msg.MessageId)
	assert.Equal(t, "food.process_sub_order", msg.Type)
	var decoded tasks.Task
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.JSONEq(t, `{"order_id":3}`, string(decoded.Payload))
}

func TestPublisher_Enqueue_RejectsUnknownLane(t *testing.T) {
	p := NewPublisher(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := p.Enqueue(context.Background(), tasks.Task{Lane: "bulk"})

	assert.ErrorIs(t, err, tasks.ErrUnknownLane)
}
