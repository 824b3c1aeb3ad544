package component

import (
	"context"
	"errors"
	"fmt"

	"pageObject/internal/browser"
	"pageObject/internal/wait"
)

// InAlert runs trigger, waits for the alert it opens and hands it to action. trigger runs in its
// own goroutine since some drivers block the action that opened a dialog until it is handled.
func InAlert(ctx context.Context, s *Session, trigger func(ctx context.Context) error, action func(ctx context.Context, a browser.Alert) error) error {
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- trigger(ctx) }()

	var triggered bool
	alert, err := wait.UntilValue(ctx, s.timeout, func(ctx context.Context) (browser.Alert, bool, error) {
		if !triggered {
			select {
			case terr := <-done:
				if terr != nil {
					return nil, false, fmt.Errorf("open alert: %w", terr)
				}
				triggered = true
			default:
			}
		}
		a, err := d.Alert(ctx)
		if errors.Is(err, browser.ErrNoAlert) {
			return nil, false, nil
		}
		return a, err == nil, err
	})
	if err != nil {
		return err
	}

	if err := action(ctx, alert); err != nil {
		return fmt.Errorf("in alert: %w", err)
	}
	if triggered {
		return nil
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
