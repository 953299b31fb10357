package commands_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"catering/internal/adapters/out/cache"
	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/restaurant"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"
	"catering/internal/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	kfcID   int64 = 1
	silpoID int64 = 2
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastConfig() commands.OrchestrationConfig {
	return commands.OrchestrationConfig{
		PollInterval:    time.Millisecond,
		SubOrderTimeout: time.Second,
		DeliveryTimeout: time.Second,
		TrackingTTL:     time.Hour,
		MaxRetries:      2,
		RetryInterval:   time.Millisecond,
	}
}

type catalog struct {
	kfc, silpo, bueno *restaurant.Restaurant
	twister, borscht  *restaurant.Dish
	pizza             *restaurant.Dish
}

func newCatalog(t *testing.T) catalog {
	t.Helper()
	var c catalog
	var err error
	c.kfc, err = restaurant.NewRestaurant(kfcID, "KFC", "Khreshchatyk 1")
	require.NoError(t, err)
	c.silpo, err = restaurant.NewRestaurant(silpoID, "Silpo", "Antonovycha 176")
	require.NoError(t, err)
	c.bueno, err = restaurant.NewRestaurant(3, "Bueno", "Podil 5")
	require.NoError(t, err)
	c.twister, err = restaurant.NewDish(10, c.kfc, "Twister", 15000)
	require.NoError(t, err)
	c.borscht, err = restaurant.NewDish(20, c.silpo, "Borscht", 9000)
	require.NoError(t, err)
	c.pizza, err = restaurant.NewDish(30, c.bueno, "Pizza", 20000)
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, id int64, status order.Status, dishes ...*restaurant.Dish) *order.Order {
	t.Helper()
	items := make([]*order.Item, 0, len(dishes))
	for i, d := range dishes {
		item, err := order.NewItem(int64(i+1), d, i+1)
		require.NoError(t, err)
		items = append(items, item)
	}
	return order.RestoreOrder(id, 100, status, "uklon", time.Time{}, 0, items)
}

// fakeOrders is a stateful OrderRepository recording every status written.
type fakeOrders struct {
	mu        sync.Mutex
	orders    map[int64]*order.Order
	delivered map[int64][]*order.Order
	history   map[int64][]order.Status
	nextID    int64
}

var _ ports.OrderRepository = (*fakeOrders)(nil)

func newFakeOrders(orders ...*order.Order) *fakeOrders {
	f := &fakeOrders{
		orders:    make(map[int64]*order.Order),
		delivered: make(map[int64][]*order.Order),
		history:   make(map[int64][]order.Status),
		nextID:    1000,
	}
	for _, o := range orders {
		f.orders[o.ID()] = o
	}
	return f
}

func (f *fakeOrders) Add(_ context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if err := o.AssignID(f.nextID); err != nil {
		return err
	}
	f.orders[o.ID()] = o
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (f *fakeOrders) CompareAndSetStatus(_ context.Context, id int64, from []order.Status, to order.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return false, errs.NewObjectNotFoundError("order", id)
	}
	if !slices.Contains(from, o.Status()) {
		return false, nil
	}
	if err := o.TransitionTo(to); err != nil {
		return false, err
	}
	f.history[id] = append(f.history[id], to)
	return true, nil
}

func (f *fakeOrders) GetLastDelivered(_ context.Context, userID int64, limit int) ([]*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.delivered[userID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (f *fakeOrders) status(id int64) order.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status()
}

func (f *fakeOrders) transitions(id int64) []order.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Status(nil), f.history[id]...)
}

// fakeQueue records enqueued tasks instead of running them.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []tasks.Task
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, t tasks.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *fakeQueue) byType(typ tasks.Type) []tasks.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []tasks.Task
	for _, t := range q.tasks {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

type redisFixture struct {
	mr       *miniredis.Miniredis
	cache    *cache.Store
	tracking *cache.TrackingStore
}

func newRedisFixture(t *testing.T) redisFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewStore(client, cache.Config{})
	return redisFixture{mr: mr, cache: store, tracking: cache.NewTrackingStore(store)}
}

type MockRestaurantProvider struct{ mock.Mock }

func newMockRestaurantProvider(name provider.Name, mode provider.Mode) *MockRestaurantProvider {
	m := new(MockRestaurantProvider)
	m.On("Name").Return(name).Maybe()
	m.On("Mode").Return(mode).Maybe()
	return m
}

func (m *MockRestaurantProvider) Name() provider.Name {
	return m.Called().Get(0).(provider.Name)
}

func (m *MockRestaurantProvider) Mode() provider.Mode {
	return m.Called().Get(0).(provider.Mode)
}

func (m *MockRestaurantProvider) CreateOrder(ctx context.Context, items []ports.ProviderItem) (ports.ProviderOrder, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(ports.ProviderOrder), args.Error(1)
}

func (m *MockRestaurantProvider) GetOrder(ctx context.Context, id string) (ports.ProviderOrder, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.ProviderOrder), args.Error(1)
}

type MockDeliveryProvider struct{ mock.Mock }

func newMockDeliveryProvider() *MockDeliveryProvider {
	m := new(MockDeliveryProvider)
	m.On("Name").Return(provider.Uklon).Maybe()
	return m
}

func (m *MockDeliveryProvider) Name() provider.Name {
	return m.Called().Get(0).(provider.Name)
}

func (m *MockDeliveryProvider) CreateOrder(ctx context.Context, req ports.DeliveryRequest) (ports.DeliveryJob, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.DeliveryJob), args.Error(1)
}

func (m *MockDeliveryProvider) GetOrder(ctx context.Context, id string) (ports.DeliveryJob, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.DeliveryJob), args.Error(1)
}

type MockLanguageModel struct{ mock.Mock }

func (m *MockLanguageModel) Ask(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockDishRepository struct{ mock.Mock }

func (m *MockDishRepository) GetByIDs(ctx context.Context, ids []int64) ([]*restaurant.Dish, error) {
	args := m.Called(ctx, ids)
	dishes, _ := args.Get(0).([]*restaurant.Dish)
	return dishes, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) ListCustomers(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}
