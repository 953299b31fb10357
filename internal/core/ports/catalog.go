package ports

import (
	"context"

	"catering/internal/core/domain/model/restaurant"
)

// DishRepository reads the dish catalog.
type DishRepository interface {
	// GetByIDs returns the dishes that exist among ids. Missing ids are silently
	// absent from the result; callers compare lengths when they need all of them.
	GetByIDs(ctx context.Context, ids []int64) ([]*restaurant.Dish, error)
}

// UserRepository reads users relevant to background jobs.
type UserRepository interface {
	// ListCustomers returns the ids of every user with the customer role.
	ListCustomers(ctx context.Context) ([]int64, error)
}
