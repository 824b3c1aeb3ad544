// Package wait polls browser state until a condition holds or a deadline passes.
package wait

import (
	"context"
	"fmt"
	"time"
)

// Condition reports whether the awaited state was reached. A non-nil error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

// TimeoutError is returned when a condition is not met in time.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("wait time-out: the condition was not met within the wait duration limit of %d milliseconds", e.Timeout.Milliseconds())
}

// Interval returns the polling period for a wait of the given length.
func Interval(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < 20*time.Second {
		return timeout / 5
	}
	return timeout / 10
}

// Until evaluates cond until it returns true. The condition is always evaluated at least once.
func Until(ctx context.Context, timeout time.Duration, cond Condition) error {
	_, err := UntilValue(ctx, timeout, func(ctx context.Context) (struct{}, bool, error) {
		ok, err := cond(ctx)
		return struct{}{}, ok, err
	})
	return err
}

// UntilValue evaluates fn until it reports ok and returns the value produced by that call.
func UntilValue[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, bool, error)) (T, error) {
	deadline := time.Now().Add(timeout)
	interval := Interval(timeout)

	for {
		v, ok, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if ok {
			return v, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, &TimeoutError{Timeout: timeout}
		}
		if interval > remaining {
			interval = remaining
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
