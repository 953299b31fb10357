package commands

import (
	"fmt"

	"catering/internal/core/domain/model/provider"
	"catering/internal/core/ports"
)

// ProviderRegistry resolves restaurant integrations by provider name.
type ProviderRegistry struct {
	providers map[provider.Name]ports.RestaurantProvider
}

// NewProviderRegistry indexes the given integrations by their Name.
func NewProviderRegistry(providers ...ports.RestaurantProvider) ProviderRegistry {
	index := make(map[provider.Name]ports.RestaurantProvider, len(providers))
	for _, p := range providers {
		index[p.Name()] = p
	}
	return ProviderRegistry{providers: index}
}

// Lookup returns the integration registered under name.
func (r ProviderRegistry) Lookup(name provider.Name) (ports.RestaurantProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotRegistered, name)
	}
	return p, nil
}
