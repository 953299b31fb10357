package restaurant

import (
	"errors"
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

var (
	// ErrRestaurantIsNotConstructed is returned when a Restaurant was not created via NewRestaurant.
	ErrRestaurantIsNotConstructed = errors.New("restaurant must be created via NewRestaurant constructor")

	// ErrUnsupportedRestaurant is returned when no provider integration exists for the
	// restaurant. It is a configuration error and is never retried.
	ErrUnsupportedRestaurant = errors.New("unsupported restaurant")
)

// Kind identifies which provider integration serves a restaurant.
type Kind string

const (
	KindSilpo Kind = "silpo"
	KindKFC   Kind = "kfc"
)

// ParseKind resolves a restaurant name such as "KFC" or " Silpo " into its Kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindSilpo:
		return KindSilpo, nil
	case KindKFC:
		return KindKFC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedRestaurant, name)
	}
}

// Restaurant owns dishes and is the pickup point for its sub-order.
type Restaurant struct {
	id      int64
	name    string
	address string

	isConstructed bool
}

// NewRestaurant validates and creates a Restaurant. The kind is not resolved here
// so that catalog rows for restaurants without an integration can still be loaded.
func NewRestaurant(id int64, name, address string) (*Restaurant, error) {
	var problems []error
	if id <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id)))
	}
	if strings.TrimSpace(name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Restaurant{id: id, name: name, address: address, isConstructed: true}, nil
}

func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

func (r *Restaurant) ID() int64 {
	return r.id
}

func (r *Restaurant) Name() string {
	return r.name
}

func (r *Restaurant) Address() string {
	return r.address
}

// Kind resolves the provider integration for the restaurant.
func (r *Restaurant) Kind() (Kind, error) {
	return ParseKind(r.name)
}
