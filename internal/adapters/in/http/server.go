package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/recommendation"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/pkg/errs"
	"catering/internal/tasks"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OrderPlacer interface {
	Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (int64, error)
}

type ProviderStatusApplier interface {
	Handle(ctx context.Context, cmd commands.ApplyProviderStatusCommand) error
}

type RecommendationsReader interface {
	Handle(ctx context.Context, query queries.GetRecommendationsQuery) ([]recommendation.DishView, error)
}

type OrderTrackingReader interface {
	Handle(ctx context.Context, query queries.GetOrderTrackingQuery) (queries.GetOrderTrackingQueryResponse, error)
}

type ActiveOrdersReader interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

type TaskEnqueuer interface {
	Enqueue(ctx context.Context, t tasks.Task) error
}

// Handlers groups the use cases behind the HTTP surface.
type Handlers struct {
	PlaceOrder          OrderPlacer
	ApplyProviderStatus ProviderStatusApplier
	Recommendations     RecommendationsReader
	OrderTracking       OrderTrackingReader
	ActiveOrders        ActiveOrdersReader
	Tasks               TaskEnqueuer
}

// Server implements the HTTP endpoints on top of command and query handlers.
type Server struct {
	handlers      Handlers
	validator     *SchemaValidator
	webhookSecret string
	logger        *slog.Logger
}

// NewServer creates a server. webhookSecret is the path segment providers must
// present on webhook calls.
func NewServer(handlers Handlers, validator *SchemaValidator, webhookSecret string, logger *slog.Logger) *Server {
	return &Server{
		handlers:      handlers,
		validator:     validator,
		webhookSecret: webhookSecret,
		logger:        logger.With("component", "http"),
	}
}

// RegisterRoutes mounts every endpoint on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/webhooks/kfc/:secret", s.KFCWebhook)

	food := e.Group("/food")
	food.POST("/orders", s.PlaceOrder)
	food.GET("/orders/:order_id/tracking", s.GetOrderTracking)
	food.GET("/users/:user_id/orders", s.GetActiveOrders)
	food.POST("/recommendations/generate", s.GenerateRecommendations)
	food.GET("/recommendations/:user_id", s.GetRecommendations)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// ProviderStatusUpdate is the body a provider pushes to its webhook.
type ProviderStatusUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// KFCWebhook handles POST /webhooks/kfc/:secret. A wrong secret looks like an
// unknown route.
func (s *Server) KFCWebhook(c echo.Context) error {
	secret := c.Param("secret")
	if s.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) != 1 {
		return errorResponse(c, http.StatusNotFound, "Not Found")
	}

	var body ProviderStatusUpdate
	if err := s.validator.Decode(c.Request().Body, schemaProviderStatusUpdate, &body); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	cmd, err := commands.NewApplyProviderStatusCommand(provider.KFC, body.ID, body.Status)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err = s.handlers.ApplyProviderStatus.Handle(ctx, cmd); err != nil {
		if commands.IsConfigurationError(err) {
			return errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		}
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			s.logger.ErrorContext(ctx, "webhook failed", "external_id", body.ID, "error", err)
			return errorResponse(c, code, "Failed to apply status")
		}
		return errorResponse(c, code, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// PlaceOrderRequest is the body of POST /food/orders.
type PlaceOrderRequest struct {
	UserID           int64       `json:"user_id"`
	DeliveryProvider string      `json:"delivery_provider"`
	Items            []OrderItem `json:"items"`
}

type OrderItem struct {
	Dish     int64 `json:"dish"`
	Quantity int   `json:"quantity"`
}

// PlaceOrderResponse carries the id of the created order.
type PlaceOrderResponse struct {
	ID int64 `json:"id"`
}

// PlaceOrder handles POST /food/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var body PlaceOrderRequest
	if err := s.validator.Decode(c.Request().Body, schemaPlaceOrderRequest, &body); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		lines = append(lines, commands.OrderLine{DishID: item.Dish, Quantity: item.Quantity})
	}
	cmd, err := commands.NewPlaceOrderCommand(body.UserID, lines, body.DeliveryProvider)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	ctx := c.Request().Context()
	orderID, err := s.handlers.PlaceOrder.Handle(ctx, cmd)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, PlaceOrderResponse{ID: orderID})
	case orderID != 0:
		s.logger.ErrorContext(ctx, "order placed but not scheduled", "order_id", orderID, "error", err)
		return errorResponse(c, http.StatusInternalServerError, fmt.Sprintf("Order %d was placed but not scheduled", orderID))
	case errors.Is(err, errs.ErrObjectNotFound), commands.IsConfigurationError(err):
		return errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case statusOf(err) == http.StatusUnprocessableEntity:
		return errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.ErrorContext(ctx, "order not placed", "user_id", body.UserID, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "Failed to place order")
	}
}

// DeliveryView is the delivery part of a tracking response.
type DeliveryView struct {
	Status   order.Status    `json:"status"`
	Location *tracking.Point `json:"location"`
}

type RestaurantView struct {
	Restaurant int64        `json:"restaurant"`
	ExternalID *string      `json:"external_id"`
	Status     order.Status `json:"status"`
}

// OrderTrackingResponse is the body of GET /food/orders/:order_id/tracking.
type OrderTrackingResponse struct {
	ID          int64            `json:"id"`
	Status      order.Status     `json:"status"`
	ETA         *time.Time       `json:"eta"`
	Live        bool             `json:"live"`
	Restaurants []RestaurantView `json:"restaurants"`
	Delivery    *DeliveryView    `json:"delivery"`
}

// GetOrderTracking handles GET /food/orders/:order_id/tracking.
func (s *Server) GetOrderTracking(c echo.Context) error {
	var orderID int64
	if err := bindPathParam(c, "order_id", &orderID); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	result, err := s.handlers.OrderTracking.Handle(ctx, query)
	if err != nil {
		return s.queryFailed(c, err, "Failed to retrieve order tracking")
	}

	response := OrderTrackingResponse{
		ID:          result.OrderID,
		Status:      result.Status,
		ETA:         result.ETA,
		Live:        result.Live,
		Restaurants: make([]RestaurantView, 0, len(result.Restaurants)),
	}
	for _, r := range result.Restaurants {
		response.Restaurants = append(response.Restaurants, RestaurantView{
			Restaurant: r.RestaurantID,
			ExternalID: r.ExternalID,
			Status:     r.Status,
		})
	}
	if result.Live {
		response.Delivery = &DeliveryView{Status: result.Delivery.Status, Location: result.Delivery.Location}
	}

	return c.JSON(http.StatusOK, response)
}

// ActiveOrderView is one element of GET /food/users/:user_id/orders.
type ActiveOrderView struct {
	ID     int64        `json:"id"`
	Status order.Status `json:"status"`
	Total  int64        `json:"total"`
	ETA    *time.Time   `json:"eta"`
}

// GetActiveOrders handles GET /food/users/:user_id/orders.
func (s *Server) GetActiveOrders(c echo.Context) error {
	var userID int64
	if err := bindPathParam(c, "user_id", &userID); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetActiveOrdersQuery(userID)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	orders, err := s.handlers.ActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err, "Failed to retrieve orders")
	}

	response := make([]ActiveOrderView, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrderView{ID: o.ID, Status: o.Status, Total: o.Total, ETA: o.ETA}
	}
	return c.JSON(http.StatusOK, response)
}

// RecommendationsResponse is the body of GET /food/recommendations/:user_id.
type RecommendationsResponse struct {
	Recommendations []recommendation.DishView `json:"recommendations"`
}

// GetRecommendations handles GET /food/recommendations/:user_id.
func (s *Server) GetRecommendations(c echo.Context) error {
	var userID int64
	if err := bindPathParam(c, "user_id", &userID); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetRecommendationsQuery(userID)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	dishes, err := s.handlers.Recommendations.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err, "Failed to retrieve recommendations")
	}
	if dishes == nil {
		dishes = []recommendation.DishView{}
	}

	return c.JSON(http.StatusOK, RecommendationsResponse{Recommendations: dishes})
}

// GenerateRecommendationsResponse identifies the enqueued batch.
type GenerateRecommendationsResponse struct {
	TaskID string `json:"task_id"`
}

// GenerateRecommendations handles POST /food/recommendations/generate. The
// batch runs on the default lane, the same way the nightly job starts it.
func (s *Server) GenerateRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	task, err := tasks.New(tasks.TypeGenerateRecommendations, tasks.Default, tasks.GenerateRecommendations{})
	if err == nil {
		err = s.handlers.Tasks.Enqueue(ctx, task)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "recommendation batch not enqueued", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "Failed to start recommendation generation")
	}

	return c.JSON(http.StatusAccepted, GenerateRecommendationsResponse{TaskID: task.ID.String()})
}

func (s *Server) queryFailed(c echo.Context, err error, message string) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "query failed", "path", c.Path(), "error", err)
		return errorResponse(c, code, message)
	}
	return errorResponse(c, code, err.Error())
}

func bindPathParam(c echo.Context, name string, dst any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), dst, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}
