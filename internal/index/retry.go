package index

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is the single backoff policy applied to every third-party call
// the pipeline makes (source fetch, embedding, upsert). Attempts counts the
// initial call, so MaxAttempts=1 disables retrying.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 4, InitialDelay: 500 * time.Millisecond}
}

func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = uint64(p.MaxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// retry runs fn with exponential backoff and jitter until it succeeds, the
// attempts are exhausted, or the context is cancelled.
func retry(ctx context.Context, p RetryPolicy, fn func() error) error {
	return backoff.Retry(fn, p.backoff(ctx))
}

func retryWithData[T any](ctx context.Context, p RetryPolicy, fn func() (T, error)) (T, error) {
	return backoff.RetryWithData(fn, p.backoff(ctx))
}
