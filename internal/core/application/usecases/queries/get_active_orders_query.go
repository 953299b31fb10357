package queries

import (
	"errors"
	"time"

	"catering/internal/core/domain/model/order"
	"catering/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves the orders of a user that are not delivered yet.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(userID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
//	for _, o := range orders {
//	    fmt.Printf("Order %d is %s\n", o.ID, o.Status)
//	}
type GetActiveOrdersQuery struct {
	userID int64

	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery(userID int64) (GetActiveOrdersQuery, error) {
	if userID <= 0 {
		return GetActiveOrdersQuery{}, ErrUserIDIsInvalid
	}
	return GetActiveOrdersQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveOrdersQueryIsNotConstructed if validation fails.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) UserID() int64 {
	return q.userID
}

// GetActiveOrdersQueryResponse is one in-flight order.
type GetActiveOrdersQueryResponse struct {
	ID     int64
	Status order.Status
	Total  int64
	ETA    *time.Time
}
