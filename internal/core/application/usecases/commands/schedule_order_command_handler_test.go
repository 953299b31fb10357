package commands_test

import (
	"testing"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/restaurant"
	"catering/internal/pkg/errs"
	"catering/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleOrderCommandHandler_Handle_TwoRestaurants(t *testing.T) {
	c := newCatalog(t)
	orders := newFakeOrders(newOrder(t, 7, order.NotStarted, c.twister, c.borscht, c.twister))
	o := newOrchestration(t, orders)

	o.scheduleOrder(t, 7)

	record, err := o.redis.tracking.Get(t.Context(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{kfcID, silpoID}, record.RestaurantIDs())
	for _, id := range record.RestaurantIDs() {
		assert.Nil(t, record.Restaurants[id].ExternalID)
		assert.Equal(t, order.NotStarted, record.Restaurants[id].Status)
	}
	assert.Equal(t, commands.DefaultTrackingTTL, o.redis.mr.TTL("catering:orders:7"))

	scheduled := o.queue.byType(tasks.TypeProcessSubOrder)
	require.Len(t, scheduled, 2)
	for _, task := range scheduled {
		assert.Equal(t, tasks.HighPriority, task.Lane)
	}

	byRestaurant := o.subOrderCommands(t)
	assert.Equal(t, provider.KFC, byRestaurant[kfcID].Provider())
	assert.Len(t, byRestaurant[kfcID].Items(), 2)
	assert.Equal(t, "Twister", byRestaurant[kfcID].Items()[0].Dish)
	assert.Equal(t, provider.Silpo, byRestaurant[silpoID].Provider())
	assert.Equal(t, 2, byRestaurant[silpoID].Items()[0].Quantity)
}

func TestScheduleOrderCommandHandler_Handle_UnsupportedRestaurant(t *testing.T) {
	c := newCatalog(t)
	orders := newFakeOrders(newOrder(t, 7, order.NotStarted, c.twister, c.pizza))
	o := newOrchestration(t, orders)

	cmd, _ := commands.NewScheduleOrderCommand(7)
	err := o.schedule.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, restaurant.ErrUnsupportedRestaurant)
	assert.True(t, commands.IsConfigurationError(err))
	_, err = o.redis.tracking.Get(t.Context(), 7)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Empty(t, o.queue.byType(tasks.TypeProcessSubOrder))
}

func TestScheduleOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	o := newOrchestration(t, newFakeOrders())

	cmd, _ := commands.NewScheduleOrderCommand(7)
	err := o.schedule.Handle(t.Context(), cmd)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestScheduleOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	o := newOrchestration(t, newFakeOrders())

	err := o.schedule.Handle(t.Context(), commands.ScheduleOrderCommand{})

	assert.ErrorIs(t, err, commands.ErrScheduleOrderCommandIsNotConstructed)
}
