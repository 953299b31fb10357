package ports

import (
	"context"
	"errors"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/provider"
)

// ErrProviderRejected is returned by provider clients when the provider refused the
// request itself (4xx). Retrying cannot help.
var ErrProviderRejected = errors.New("provider rejected request")

// ErrOutcomeUnknown is returned when a request that creates something reached the
// provider but its answer was lost or failed. The provider may have acted on it,
// so the request is not repeated.
var ErrOutcomeUnknown = errors.New("provider outcome unknown")

// ProviderItem is one line of a sub-order in provider terms.
type ProviderItem struct {
	Dish     string
	Quantity int
}

// ProviderOrder is the provider's view of a sub-order. Status is in the
// provider's native vocabulary.
type ProviderOrder struct {
	ID     string
	Status string
}

// RestaurantProvider is a restaurant integration that cooks sub-orders.
type RestaurantProvider interface {
	Name() provider.Name
	Mode() provider.Mode
	CreateOrder(ctx context.Context, items []ProviderItem) (ProviderOrder, error)
	GetOrder(ctx context.Context, id string) (ProviderOrder, error)
}

// DeliveryRequest lists pickup addresses with one comment per address.
type DeliveryRequest struct {
	Addresses []string
	Comments  []string
}

// DeliveryJob is the hailing provider's view of a courier job.
type DeliveryJob struct {
	ID     string
	Status string
	// Location is nil while the provider has no courier position.
	Location *kernel.Location
}

// DeliveryProvider is a hailing integration that carries cooked orders.
type DeliveryProvider interface {
	Name() provider.Name
	CreateOrder(ctx context.Context, req DeliveryRequest) (DeliveryJob, error)
	GetOrder(ctx context.Context, id string) (DeliveryJob, error)
}

// LanguageModel answers free-form prompts.
type LanguageModel interface {
	// Ask returns the model answer. An empty answer is an error.
	Ask(ctx context.Context, prompt string) (string, error)
}
