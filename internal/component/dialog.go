package component

import (
	"context"
	"fmt"

	"pageObject/internal/selector"
)

// Dialog is an in-page modal. Dialog types embed it and narrow its rules.
type Dialog struct {
	*Component
}

func (Dialog) Rules(r *Rule) { r.Any() }

func NewDialog(scope Scope, sel selector.Selector) *Dialog {
	return As(scope, sel, func(c *Component) *Dialog { return &Dialog{c} })
}

// InDialog waits for the dialog to be displayed, runs action on it and waits for it to close.
func InDialog[T Definition](ctx context.Context, scope Scope, sel selector.Selector, build func(*Component) T, action func(T) error) error {
	d := As(scope, sel, build)
	c := d.base()
	if err := c.WaitFor(ctx, ToBeDisplayed); err != nil {
		return err
	}
	if err := action(d); err != nil {
		return fmt.Errorf("in dialog %s: %w", c.name, err)
	}
	return c.WaitFor(ctx, ToBeHidden)
}
