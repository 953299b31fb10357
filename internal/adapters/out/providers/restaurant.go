package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"catering/internal/core/domain/model/provider"
	"catering/internal/core/ports"
)

var errEmptyOrderID = errors.New("provider returned an order without id")

type orderLine struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	Order []orderLine `json:"order"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RestaurantClient talks to a restaurant service exposing
// POST /api/orders and GET /api/orders/{id}. Silpo and KFC share this API and
// differ in how status changes reach us.
type RestaurantClient struct {
	name   provider.Name
	mode   provider.Mode
	client jsonClient
}

// NewSilpoClient returns the deli client. Silpo is polled for status changes.
func NewSilpoClient(cfg Config) *RestaurantClient {
	return &RestaurantClient{name: provider.Silpo, mode: provider.Poll, client: newJSONClient("silpo", cfg)}
}

// NewKFCClient returns the fast food client. KFC pushes status changes to our webhook.
func NewKFCClient(cfg Config) *RestaurantClient {
	return &RestaurantClient{name: provider.KFC, mode: provider.Push, client: newJSONClient("kfc", cfg)}
}

func (c *RestaurantClient) Name() provider.Name {
	return c.name
}

func (c *RestaurantClient) Mode() provider.Mode {
	return c.mode
}

func (c *RestaurantClient) CreateOrder(ctx context.Context, items []ports.ProviderItem) (ports.ProviderOrder, error) {
	req := createOrderRequest{Order: make([]orderLine, 0, len(items))}
	for _, item := range items {
		req.Order = append(req.Order, orderLine{Dish: item.Dish, Quantity: item.Quantity})
	}

	var resp orderResponse
	if err := c.client.post(ctx, "/api/orders", req, &resp); err != nil {
		return ports.ProviderOrder{}, err
	}
	if resp.ID == "" {
		return ports.ProviderOrder{}, fmt.Errorf("%w: %s: %w", ports.ErrOutcomeUnknown, c.name, errEmptyOrderID)
	}
	return ports.ProviderOrder{ID: resp.ID, Status: resp.Status}, nil
}

func (c *RestaurantClient) GetOrder(ctx context.Context, id string) (ports.ProviderOrder, error) {
	var resp orderResponse
	if err := c.client.get(ctx, "/api/orders/"+url.PathEscape(id), &resp); err != nil {
		return ports.ProviderOrder{}, err
	}
	return ports.ProviderOrder{ID: resp.ID, Status: resp.Status}, nil
}
