package commands

import (
	"context"
	"errors"
	"time"

	"catering/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

// callProvider runs op with bounded exponential backoff. Rejections, unknown
// outcomes of creating calls and configuration errors stop retrying immediately.
func callProvider[T any](ctx context.Context, cfg OrchestrationConfig, op func(ctx context.Context) (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.RetryInterval
	policy.MaxElapsedTime = 0

	return backoff.RetryWithData(func() (T, error) {
		result, err := op(ctx)
		if err != nil && (errors.Is(err, ports.ErrProviderRejected) ||
			errors.Is(err, ports.ErrOutcomeUnknown) ||
			IsConfigurationError(err)) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, cfg.MaxRetries), ctx))
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
