package analysis

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy describes a bounded exponential backoff: Attempts total
// tries, sleeping BaseDelay, 2*BaseDelay, ... between them, capped at
// MaxDelay.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy matches the extraction service contract: 6 total
// attempts, 1s initial delay, 20s cap.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  6,
	BaseDelay: 1 * time.Second,
	MaxDelay:  20 * time.Second,
}

// WithRetry runs fn under the policy and returns its first success or the
// final attempt's error.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := policy.BaseDelay
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == policy.Attempts {
			break
		}
		slog.Warn("[Retry] Attempt failed, backing off",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}

		delay *= 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}

	return zero, lastErr
}
