package commands

import (
	"errors"

	"catering/internal/core/domain/model/recommendation"
	"catering/internal/core/domain/model/restaurant"
	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
)

var (
	// ErrTrackingOrderMissing is returned when the tracking record of an order is
	// absent, usually because its ttl expired mid-flight. The order needs manual
	// reconciliation.
	ErrTrackingOrderMissing = errors.New("tracking order is missing")

	// ErrTrackingEntryMissing is returned when the tracking record has no entry for
	// the restaurant a task is driving.
	ErrTrackingEntryMissing = errors.New("tracking entry is missing")

	// ErrPollingTimedOut is returned when a provider did not reach the awaited
	// status within the configured timeout.
	ErrPollingTimedOut = errors.New("polling timed out")

	// ErrProviderNotRegistered is returned when no client is registered for a provider.
	ErrProviderNotRegistered = errors.New("provider is not registered")
)

// IsConfigurationError reports whether err is caused by configuration or data that
// retrying cannot fix: unsupported restaurants, unmapped statuses, missing clients.
func IsConfigurationError(err error) bool {
	return errors.Is(err, restaurant.ErrUnsupportedRestaurant) ||
		errors.Is(err, services.ErrUnmappedStatus) ||
		errors.Is(err, services.ErrUnknownProvider) ||
		errors.Is(err, ErrProviderNotRegistered)
}

// IsPermanent reports whether a task failing with err must not be redelivered.
func IsPermanent(err error) bool {
	return IsConfigurationError(err) ||
		errors.Is(err, ErrTrackingOrderMissing) ||
		errors.Is(err, ErrTrackingEntryMissing) ||
		errors.Is(err, ErrPollingTimedOut) ||
		errors.Is(err, ports.ErrProviderRejected) ||
		errors.Is(err, ports.ErrOutcomeUnknown) ||
		errors.Is(err, recommendation.ErrInvalidRecommendation) ||
		errors.Is(err, recommendation.ErrUnknownDishes)
}
