package util

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// RetryPolicy retries an operation a bounded number of times with exponential
// backoff and jitter. Only errors the Retryable classifier accepts are retried;
// anything else fails immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy returns the policy used for external collaborator calls.
func DefaultRetryPolicy(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Retryable:   retryable,
	}
}

// Do runs fn until it succeeds, a non-retryable error occurs, attempts are
// exhausted, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := p.backoff(attempt - 1)
			slog.Warn("retrying", "op", op, "attempt", attempt, "max", attempts, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s: canceled during retry: %w", op, ctx.Err())
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: max attempts (%d) exceeded: %w", op, attempts, lastErr)
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}
