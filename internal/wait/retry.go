package wait

import (
	"context"
	"fmt"
	"math"
	"time"
)

const maxRetryDelay = 30 * time.Second

// Retry calls fn until it succeeds, returns an error rejected by retryable, or attempts run out.
// The delay doubles after every failed attempt starting from baseDelay.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, retryable func(error) bool, fn func() error) error {
	if attempts <= 0 {
		attempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if retryable != nil && !retryable(err) {
			return err
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
