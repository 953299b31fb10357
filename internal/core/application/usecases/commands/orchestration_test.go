package commands_test

import (
	"testing"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/tasks"

	"github.com/stretchr/testify/require"
)

// orchestration wires the order flow handlers over a fake order repository, a
// recording queue and a miniredis backed tracking store.
type orchestration struct {
	orders    *fakeOrders
	queue     *fakeQueue
	redis     redisFixture
	allCooked *commands.CheckAllCookedCommandHandler
	schedule  *commands.ScheduleOrderCommandHandler
	process   *commands.ProcessSubOrderCommandHandler
	webhook   *commands.ApplyProviderStatusCommandHandler
}

func newOrchestration(t *testing.T, orders *fakeOrders, providers ...ports.RestaurantProvider) orchestration {
	t.Helper()
	logger := discardLogger()
	cfg := fastConfig()
	mapper := services.NewStatusMapper()
	queue := &fakeQueue{}
	rf := newRedisFixture(t)

	allCooked := commands.NewCheckAllCookedCommandHandler(orders, rf.tracking, queue, logger)
	return orchestration{
		orders:    orders,
		queue:     queue,
		redis:     rf,
		allCooked: allCooked,
		schedule:  commands.NewScheduleOrderCommandHandler(orders, rf.tracking, queue, cfg, logger),
		process: commands.NewProcessSubOrderCommandHandler(
			commands.NewProviderRegistry(providers...), mapper, orders, rf.tracking, rf.cache, allCooked, cfg, logger),
		webhook: commands.NewApplyProviderStatusCommandHandler(mapper, orders, rf.tracking, rf.cache, allCooked, logger),
	}
}

func (o orchestration) scheduleOrder(t *testing.T, orderID int64) {
	t.Helper()
	cmd, err := commands.NewScheduleOrderCommand(orderID)
	require.NoError(t, err)
	require.NoError(t, o.schedule.Handle(t.Context(), cmd))
}

// subOrderCommands turns the enqueued ProcessSubOrder tasks into commands.
func (o orchestration) subOrderCommands(t *testing.T) map[int64]commands.ProcessSubOrderCommand {
	t.Helper()
	out := make(map[int64]commands.ProcessSubOrderCommand)
	for _, task := range o.queue.byType(tasks.TypeProcessSubOrder) {
		payload, err := tasks.Decode[tasks.ProcessSubOrder](task)
		require.NoError(t, err)

		items := make([]ports.ProviderItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, ports.ProviderItem{Dish: item.Dish, Quantity: item.Quantity})
		}
		cmd, err := commands.NewProcessSubOrderCommand(payload.OrderID, payload.RestaurantID, payload.Provider, items)
		require.NoError(t, err)
		out[payload.RestaurantID] = cmd
	}
	return out
}

func (o orchestration) push(t *testing.T, externalID, status string) error {
	t.Helper()
	cmd, err := commands.NewApplyProviderStatusCommand("kfc", externalID, status)
	require.NoError(t, err)
	return o.webhook.Handle(t.Context(), cmd)
}
