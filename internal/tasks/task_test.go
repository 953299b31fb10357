package tasks_test

import (
	"testing"

	"catering/internal/core/domain/model/provider"
	"catering/internal/tasks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndDecode(t *testing.T) {
	payload := tasks.ProcessSubOrder{
		OrderID:      7,
		RestaurantID: 2,
		Provider:     provider.Silpo,
		Items:        []tasks.SubOrderItem{{Dish: "Borscht", Quantity: 2}},
	}

	task, err := tasks.New(tasks.TypeProcessSubOrder, tasks.HighPriority, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, tasks.TypeProcessSubOrder, task.Type)
	assert.Equal(t, tasks.HighPriority, task.Lane)
	assert.False(t, task.EnqueuedAt.IsZero())
	assert.JSONEq(t,
		`{"order_id":7,"restaurant_id":2,"provider":"silpo","items":[{"dish":"Borscht","quantity":2}]}`,
		string(task.Payload))

	decoded, err := tasks.Decode[tasks.ProcessSubOrder](task)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecode_InvalidPayload(t *testing.T) {
	task := tasks.Task{Type: tasks.TypeBookDelivery, Payload: []byte(`{"order_id":"x"}`)}

	_, err := tasks.Decode[tasks.BookDelivery](task)

	require.ErrorIs(t, err, tasks.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "food.book_delivery")
}

func TestNew_UnencodablePayload(t *testing.T) {
	_, err := tasks.New(tasks.TypeBookDelivery, tasks.Default, make(chan int))

	assert.Error(t, err)
}
