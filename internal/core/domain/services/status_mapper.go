package services

import (
	"errors"
	"fmt"
	"slices"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/provider"
	"catering/internal/pkg/errs"
)

var (
	// ErrUnknownProvider is returned when no vocabulary is declared for the provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnmappedStatus is returned when a provider reports a status outside its
	// declared vocabulary. It is a configuration error and is never retried.
	ErrUnmappedStatus = errors.New("unmapped provider status")
)

func defaultVocabularies() map[provider.Name]map[string]order.Status {
	return map[provider.Name]map[string]order.Status{
		provider.Silpo: {
			"not started": order.NotStarted,
			"cooking":     order.Cooking,
			"cooked":      order.Cooked,
			"finished":    order.Cooked,
		},
		provider.KFC: {
			"not started": order.NotStarted,
			"cooking":     order.Cooking,
			"cooked":      order.Cooked,
			"finished":    order.Cooked,
		},
		provider.Uklon: {
			"not started": order.DeliveryLookup,
			"delivery":    order.Delivery,
			"delivered":   order.Delivered,
		},
	}
}

// StatusMapper translates provider native statuses into the canonical order.Status.
//
// Each provider declares a closed vocabulary. Map is total over that vocabulary and
// fails loudly for anything else, so a provider API change surfaces as an error
// instead of a silently stuck order.
//
// Example usage:
//
//	mapper := services.NewStatusMapper()
//	status, err := mapper.Map(provider.Silpo, "cooking")
//	if errors.Is(err, services.ErrUnmappedStatus) {
//	    // Provider vocabulary drifted
//	}
type StatusMapper struct {
	vocabularies map[provider.Name]map[string]order.Status
}

// NewStatusMapper creates a mapper with the vocabularies of every integrated provider.
func NewStatusMapper() StatusMapper {
	return StatusMapper{vocabularies: defaultVocabularies()}
}

// Map returns the canonical status for a provider native status.
//
// Returns:
//   - ErrUnknownProvider if the provider has no declared vocabulary
//   - an errs.ValueIsInvalidError wrapping ErrUnmappedStatus for an undeclared status
func (m StatusMapper) Map(p provider.Name, native string) (order.Status, error) {
	vocabulary, ok := m.vocabularies[p]
	if !ok {
		return order.Unknown, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}

	status, ok := vocabulary[native]
	if !ok {
		return order.Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%w: %s reported %q", ErrUnmappedStatus, p, native))
	}

	return status, nil
}

// Statuses lists the declared native vocabulary of a provider, sorted.
func (m StatusMapper) Statuses(p provider.Name) []string {
	vocabulary := m.vocabularies[p]
	out := make([]string, 0, len(vocabulary))
	for native := range vocabulary {
		out = append(out, native)
	}
	slices.Sort(out)
	return out
}

// Providers lists every provider with a declared vocabulary, sorted.
func (m StatusMapper) Providers() []provider.Name {
	out := make([]provider.Name, 0, len(m.vocabularies))
	for p := range m.vocabularies {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
