package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// retry defaults tuned for PostgREST/Bolt blips: a handful of quick
// attempts, then give up and let the driver record the item as failed.
const (
	retryMaxTries        = 4
	retryInitialInterval = 200 * time.Millisecond
)

// WithRetry runs op with exponential backoff. Context cancellation stops
// the retries immediately.
func WithRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = retryInitialInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(retryMaxTries),
	)
}
