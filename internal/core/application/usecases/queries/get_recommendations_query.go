// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"catering/internal/pkg/guard"
)

var (
	ErrGetRecommendationsQueryIsNotConstructed = errors.New(
		"GetRecommendationsQuery must be created via NewGetRecommendationsQuery constructor",
	)
	ErrUserIDIsInvalid = errors.New("user id must be greater than 0")
)

// GetRecommendationsQuery reads the dishes recommended to a customer by the
// nightly batch.
//
// Example:
//
//	query, err := NewGetRecommendationsQuery(userID)
//	if err != nil {
//	    return err
//	}
//	dishes, err := handler.Handle(ctx, query)
type GetRecommendationsQuery struct {
	userID int64

	guard guard.ConstructorGuard
}

func NewGetRecommendationsQuery(userID int64) (GetRecommendationsQuery, error) {
	if userID <= 0 {
		return GetRecommendationsQuery{}, ErrUserIDIsInvalid
	}
	return GetRecommendationsQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecommendationsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecommendationsQueryIsNotConstructed)
}

func (q GetRecommendationsQuery) UserID() int64 {
	return q.userID
}
