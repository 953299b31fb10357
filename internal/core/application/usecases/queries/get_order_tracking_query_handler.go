package queries

import (
	"context"
	"errors"
	"time"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"

	"gorm.io/gorm"
)

// RestaurantProgress is the state of one sub-order.
type RestaurantProgress struct {
	RestaurantID int64
	ExternalID   *string
	Status       order.Status
}

// GetOrderTrackingQueryResponse combines the stored order status with the live
// tracking record. Live is false once the record expired; Restaurants and
// Delivery are then empty.
type GetOrderTrackingQueryResponse struct {
	OrderID     int64
	Status      order.Status
	ETA         *time.Time
	Live        bool
	Restaurants []RestaurantProgress
	Delivery    tracking.DeliveryEntry
}

// GetOrderTrackingQueryHandler reads the order row with plain SQL and the
// tracking record from the cache.
type GetOrderTrackingQueryHandler struct {
	db       *gorm.DB
	tracking ports.TrackingStore
}

func NewGetOrderTrackingQueryHandler(db *gorm.DB, store ports.TrackingStore) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db, tracking: store}
}

// Handle returns an errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	var row struct {
		Status string
		ETA    *time.Time `gorm:"column:eta"`
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			eta
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Scan(&row)
	if result.Error != nil {
		return GetOrderTrackingQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		OrderID:     query.OrderID(),
		Status:      status,
		ETA:         row.ETA,
		Restaurants: []RestaurantProgress{},
	}

	record, err := h.tracking.Get(ctx, query.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return response, nil
	}
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response.Live = true
	response.Delivery = record.Delivery
	for _, id := range record.RestaurantIDs() {
		entry := record.Restaurants[id]
		response.Restaurants = append(response.Restaurants, RestaurantProgress{
			RestaurantID: id,
			ExternalID:   entry.ExternalID,
			Status:       entry.Status,
		})
	}

	return response, nil
}
