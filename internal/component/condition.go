package component

import (
	"context"
)

// Condition is a state WaitFor waits for.
type Condition struct {
	failure string
	check   func(ctx context.Context, c *Component) (bool, error)
}

var (
	ToExist = Condition{
		failure: "component does not exist",
		check: func(ctx context.Context, c *Component) (bool, error) {
			return c.Exists(ctx)
		},
	}
	ToNotExist = Condition{
		failure: "component still exists",
		check: func(ctx context.Context, c *Component) (bool, error) {
			ok, err := c.Exists(ctx)
			return !ok, err
		},
	}
	ToBeDisplayed = Condition{
		failure: "component is not displayed",
		check: func(ctx context.Context, c *Component) (bool, error) {
			return c.IsDisplayed(ctx)
		},
	}
	ToBeHidden = Condition{
		failure: "component is not hidden",
		check: func(ctx context.Context, c *Component) (bool, error) {
			ok, err := c.IsDisplayed(ctx)
			return !ok, err
		},
	}
	ToBeEnabled = Condition{
		failure: "component is not enabled",
		check:   enabledIs(true),
	}
	ToBeDisabled = Condition{
		failure: "component is not disabled",
		check:   enabledIs(false),
	}
	ToStopAnimating = Condition{
		failure: "component is still animating",
		check: func(ctx context.Context, c *Component) (bool, error) {
			el, ok, err := c.lookup(ctx)
			if err != nil || !ok {
				return false, err
			}
			driver, err := c.session.Driver(ctx)
			if err != nil {
				return false, err
			}
			res, err := driver.ExecuteScript(ctx, animationScript, el)
			if isMissing(err) {
				return false, nil
			}
			done, _ := res.(bool)
			return done, err
		},
	}
)

const animationScript = `return !arguments[0].getAnimations().some(a => a.playState === 'running' || a.playState === 'pending');`

func enabledIs(want bool) func(ctx context.Context, c *Component) (bool, error) {
	return func(ctx context.Context, c *Component) (bool, error) {
		el, ok, err := c.lookup(ctx)
		if err != nil || !ok {
			return false, err
		}
		enabled, err := el.IsEnabled(ctx)
		if isMissing(err) {
			return false, nil
		}
		return enabled == want, err
	}
}
