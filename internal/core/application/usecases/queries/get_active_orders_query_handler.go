package queries

import (
	"context"

	"catering/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler lists in-flight orders with plain SQL.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for in-flight order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the user's orders in any status but DELIVERED, sorted by id.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			total,
			eta
		FROM orders
		WHERE user_id = ? AND status != ?
		ORDER BY id
	`, query.UserID(), order.Delivered.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp   GetActiveOrdersQueryResponse
			status string
		)
		if err = rows.Scan(&resp.ID, &status, &resp.Total, &resp.ETA); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
