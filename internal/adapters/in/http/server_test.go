package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "catering/internal/adapters/in/http"
	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/recommendation"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/domain/services"
	"catering/internal/pkg/errs"
	"catering/internal/tasks"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "5834eb6c-63b9-4018-b6d3-04e170278ec2"

type MockOrderPlacer struct{ mock.Mock }

func (m *MockOrderPlacer) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type MockProviderStatusApplier struct{ mock.Mock }

func (m *MockProviderStatusApplier) Handle(ctx context.Context, cmd commands.ApplyProviderStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockRecommendationsReader struct{ mock.Mock }

func (m *MockRecommendationsReader) Handle(
	ctx context.Context,
	query queries.GetRecommendationsQuery,
) ([]recommendation.DishView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]recommendation.DishView), args.Error(1)
}

type MockOrderTrackingReader struct{ mock.Mock }

func (m *MockOrderTrackingReader) Handle(
	ctx context.Context,
	query queries.GetOrderTrackingQuery,
) (queries.GetOrderTrackingQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderTrackingQueryResponse), args.Error(1)
}

type MockActiveOrdersReader struct{ mock.Mock }

func (m *MockActiveOrdersReader) Handle(
	ctx context.Context,
	query queries.GetActiveOrdersQuery,
) ([]queries.GetActiveOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetActiveOrdersQueryResponse), args.Error(1)
}

type MockTaskEnqueuer struct{ mock.Mock }

func (m *MockTaskEnqueuer) Enqueue(ctx context.Context, t tasks.Task) error {
	return m.Called(ctx, t).Error(0)
}

type fixture struct {
	echo            *echo.Echo
	placeOrder      *MockOrderPlacer
	applyStatus     *MockProviderStatusApplier
	recommendations *MockRecommendationsReader
	tracking        *MockOrderTrackingReader
	activeOrders    *MockActiveOrdersReader
	tasks           *MockTaskEnqueuer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	validator, err := httpin.NewSchemaValidator(context.Background())
	require.NoError(t, err)

	f := fixture{
		echo:            echo.New(),
		placeOrder:      new(MockOrderPlacer),
		applyStatus:     new(MockProviderStatusApplier),
		recommendations: new(MockRecommendationsReader),
		tracking:        new(MockOrderTrackingReader),
		activeOrders:    new(MockActiveOrdersReader),
		tasks:           new(MockTaskEnqueuer),
	}
	server := httpin.NewServer(httpin.Handlers{
		PlaceOrder:          f.placeOrder,
		ApplyProviderStatus: f.applyStatus,
		Recommendations:     f.recommendations,
		OrderTracking:       f.tracking,
		ActiveOrders:        f.activeOrders,
		Tasks:               f.tasks,
	}, validator, secret, slog.New(slog.NewTextHandler(io.Discard, nil)))
	server.RegisterRoutes(f.echo)
	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestKFCWebhook_AppliesStatus(t *testing.T) {
	f := newFixture(t)
	f.applyStatus.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ApplyProviderStatusCommand) bool {
		return cmd.Provider() == provider.KFC && cmd.ExternalID() == "kfc-1" && cmd.Status() == "cooked"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/webhooks/kfc/"+secret, `{"id":"kfc-1","status":"cooked"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.applyStatus.AssertExpectations(t)
}

func TestKFCWebhook_WrongSecretIsNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/webhooks/kfc/guess", `{"id":"kfc-1","status":"cooked"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.applyStatus.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestKFCWebhook_RejectsBodyOutsideSchema(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`{"id":"kfc-1"}`, `{"id":"","status":"cooked"}`, `{"id":1,"status":"cooked"}`, `nope`} {
		rec := f.do(http.MethodPost, "/webhooks/kfc/"+secret, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	f.applyStatus.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestKFCWebhook_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown external id", errs.NewObjectNotFoundError("external order", "kfc-9"), http.StatusNotFound},
		{"unmapped status", services.ErrUnmappedStatus, http.StatusUnprocessableEntity},
		{"store down", errors.New("redis: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.applyStatus.On("Handle", mock.Anything, mock.Anything).Return(tt.err).Once()

			rec := f.do(http.MethodPost, "/webhooks/kfc/"+secret, `{"id":"kfc-9","status":"cooked"}`)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPlaceOrder_Created(t *testing.T) {
	f := newFixture(t)
	f.placeOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PlaceOrderCommand) bool {
		return cmd.UserID() == 3 &&
			cmd.DeliveryProvider() == "uklon" &&
			assert.ObjectsAreEqual([]commands.OrderLine{{DishID: 1, Quantity: 2}, {DishID: 3, Quantity: 1}}, cmd.Lines())
	})).Return(int64(42), nil).Once()

	rec := f.do(http.MethodPost, "/food/orders",
		`{"user_id":3,"delivery_provider":"uklon","items":[{"dish":1,"quantity":2},{"dish":3,"quantity":1}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":42}`, rec.Body.String())
}

func TestPlaceOrder_InvalidBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{
		`{"user_id":3,"delivery_provider":"uklon","items":[]}`,
		`{"user_id":3,"delivery_provider":"bolt","items":[{"dish":1,"quantity":1}]}`,
		`{"user_id":3,"delivery_provider":"uklon","items":[{"dish":1,"quantity":0}]}`,
		`{"delivery_provider":"uklon","items":[{"dish":1,"quantity":1}]}`,
	} {
		rec := f.do(http.MethodPost, "/food/orders", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	f.placeOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPlaceOrder_UnknownDish(t *testing.T) {
	f := newFixture(t)
	f.placeOrder.On("Handle", mock.Anything, mock.Anything).
		Return(int64(0), errs.NewObjectNotFoundError("dish", 99)).Once()

	rec := f.do(http.MethodPost, "/food/orders",
		`{"user_id":3,"delivery_provider":"uklon","items":[{"dish":99,"quantity":1}]}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlaceOrder_PlacedButNotScheduled(t *testing.T) {
	f := newFixture(t)
	f.placeOrder.On("Handle", mock.Anything, mock.Anything).
		Return(int64(7), errors.New("queue full")).Once()

	rec := f.do(http.MethodPost, "/food/orders",
		`{"user_id":3,"delivery_provider":"uklon","items":[{"dish":1,"quantity":1}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order 7")
}

func TestGetOrderTracking(t *testing.T) {
	f := newFixture(t)
	external := "kfc-1"
	eta := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	f.tracking.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderTrackingQuery) bool {
		return q.OrderID() == 5
	})).Return(queries.GetOrderTrackingQueryResponse{
		OrderID: 5,
		Status:  order.Delivery,
		ETA:     &eta,
		Live:    true,
		Restaurants: []queries.RestaurantProgress{
			{RestaurantID: 1, ExternalID: &external, Status: order.Cooked},
		},
		Delivery: tracking.DeliveryEntry{Status: order.Delivery, Location: &tracking.Point{Lat: 50.45, Lng: 30.52}},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/food/orders/5/tracking", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpin.OrderTrackingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.ID)
	assert.Equal(t, order.Delivery, body.Status)
	assert.True(t, body.Live)
	require.Len(t, body.Restaurants, 1)
	assert.Equal(t, "kfc-1", *body.Restaurants[0].ExternalID)
	require.NotNil(t, body.Delivery)
	assert.InDelta(t, 50.45, body.Delivery.Location.Lat, 1e-9)
	assert.True(t, eta.Equal(*body.ETA))
}

func TestGetOrderTracking_Errors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/food/orders/abc/tracking", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/food/orders/0/tracking", "").Code)

	f.tracking.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order", int64(8))).Once()
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/food/orders/8/tracking", "").Code)
}

func TestGetActiveOrders(t *testing.T) {
	f := newFixture(t)
	f.activeOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetActiveOrdersQuery) bool {
		return q.UserID() == 3
	})).Return([]queries.GetActiveOrdersQueryResponse{
		{ID: 1, Status: order.Cooking, Total: 27000},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/food/users/3/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"status":"COOKING","total":27000,"eta":null}]`, rec.Body.String())
}

func TestGetRecommendations(t *testing.T) {
	f := newFixture(t)
	f.recommendations.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRecommendationsQuery) bool {
		return q.UserID() == 2
	})).Return([]recommendation.DishView{{ID: 20, Name: "Twister", Price: 15000, RestaurantID: 1}}, nil).Once()

	rec := f.do(http.MethodGet, "/food/recommendations/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recommendations":[{"id":20,"name":"Twister","price":15000,"restaurant":1}]}`, rec.Body.String())
}

func TestGetRecommendations_Empty(t *testing.T) {
	for name, dishes := range map[string][]recommendation.DishView{"empty": {}, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.recommendations.On("Handle", mock.Anything, mock.Anything).Return(dishes, nil).Once()

			rec := f.do(http.MethodGet, "/food/recommendations/2", "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"recommendations":[]}`, rec.Body.String())
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Enqueue", mock.Anything, mock.MatchedBy(func(task tasks.Task) bool {
		return task.Type == tasks.TypeGenerateRecommendations && task.Lane == tasks.Default
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/food/recommendations/generate", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	var body httpin.GenerateRecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.TaskID)
	f.tasks.AssertExpectations(t)
}

func TestGenerateRecommendations_EnqueueError(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	rec := f.do(http.MethodPost, "/food/recommendations/generate", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to start recommendation generation")
}
