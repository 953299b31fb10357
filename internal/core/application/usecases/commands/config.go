package commands

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultPollInterval    = time.Second
	DefaultSubOrderTimeout = 20 * time.Minute
	DefaultDeliveryTimeout = 40 * time.Minute
	DefaultTrackingTTL     = time.Hour
	DefaultMaxRetries      = 5
	DefaultRetryInterval   = 200 * time.Millisecond
)

// ErrTrackingTTLTooShort is returned when a tracking record could expire while
// its order is still in flight.
var ErrTrackingTTLTooShort = errors.New("tracking ttl is shorter than the longest in-flight order")

// OrchestrationConfig bounds every loop and retry of the order flow.
type OrchestrationConfig struct {
	// PollInterval is the pause between two status polls of the same provider.
	PollInterval time.Duration
	// SubOrderTimeout bounds one restaurant task from creation to Cooked.
	SubOrderTimeout time.Duration
	// DeliveryTimeout bounds the delivery tracking loop.
	DeliveryTimeout time.Duration
	// TrackingTTL is the lifetime of tracking records and external id links.
	TrackingTTL time.Duration
	// MaxRetries caps retries of one provider call on transient errors.
	MaxRetries uint64
	// RetryInterval is the first backoff interval of provider call retries.
	RetryInterval time.Duration
}

// DefaultOrchestrationConfig returns production defaults.
func DefaultOrchestrationConfig() OrchestrationConfig {
	return OrchestrationConfig{
		PollInterval:    DefaultPollInterval,
		SubOrderTimeout: DefaultSubOrderTimeout,
		DeliveryTimeout: DefaultDeliveryTimeout,
		TrackingTTL:     DefaultTrackingTTL,
		MaxRetries:      DefaultMaxRetries,
		RetryInterval:   DefaultRetryInterval,
	}
}

// withDefaults fills zero fields with defaults.
func (c OrchestrationConfig) withDefaults() OrchestrationConfig {
	d := DefaultOrchestrationConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.SubOrderTimeout <= 0 {
		c.SubOrderTimeout = d.SubOrderTimeout
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = d.DeliveryTimeout
	}
	if c.TrackingTTL <= 0 {
		c.TrackingTTL = d.TrackingTTL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = d.RetryInterval
	}
	return c
}

// Validate checks that tracking records outlive a sub-order followed by its
// delivery. Zero fields are validated as their defaults.
func (c OrchestrationConfig) Validate() error {
	c = c.withDefaults()
	if inFlight := c.SubOrderTimeout + c.DeliveryTimeout; inFlight > c.TrackingTTL {
		return fmt.Errorf("%w: ttl %s, sub-order %s plus delivery %s",
			ErrTrackingTTLTooShort, c.TrackingTTL, c.SubOrderTimeout, c.DeliveryTimeout)
	}
	return nil
}
