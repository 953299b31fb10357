package providers

import (
	"context"
	"fmt"
	"net/url"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/provider"
	"catering/internal/core/ports"
)

type deliveryRequest struct {
	Addresses []string `json:"addresses"`
	Comments  []string `json:"comments"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type deliveryResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Location *point `json:"location"`
}

// UklonClient books and tracks couriers through POST /drivers/orders and
// GET /drivers/orders/{id}.
type UklonClient struct {
	client jsonClient
}

func NewUklonClient(cfg Config) *UklonClient {
	return &UklonClient{client: newJSONClient("uklon", cfg)}
}

func (c *UklonClient) Name() provider.Name {
	return provider.Uklon
}

func (c *UklonClient) CreateOrder(ctx context.Context, req ports.DeliveryRequest) (ports.DeliveryJob, error) {
	var resp deliveryResponse
	body := deliveryRequest{Addresses: req.Addresses, Comments: req.Comments}
	if err := c.client.post(ctx, "/drivers/orders", body, &resp); err != nil {
		return ports.DeliveryJob{}, err
	}
	if resp.ID == "" {
		return ports.DeliveryJob{}, fmt.Errorf("uklon: %w", errEmptyOrderID)
	}
	return toJob(resp)
}

func (c *UklonClient) GetOrder(ctx context.Context, id string) (ports.DeliveryJob, error) {
	var resp deliveryResponse
	if err := c.client.get(ctx, "/drivers/orders/"+url.PathEscape(id), &resp); err != nil {
		return ports.DeliveryJob{}, err
	}
	return toJob(resp)
}

func toJob(resp deliveryResponse) (ports.DeliveryJob, error) {
	job := ports.DeliveryJob{ID: resp.ID, Status: resp.Status}
	if resp.Location == nil {
		return job, nil
	}
	loc, err := kernel.NewLocation(resp.Location.Lat, resp.Location.Lng)
	if err != nil {
		return ports.DeliveryJob{}, fmt.Errorf("uklon location: %w", err)
	}
	job.Location = &loc
	return job, nil
}
