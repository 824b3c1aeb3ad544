package component

import (
	"context"

	"pageObject/internal/selector"
)

// Frame is a frame or iframe element.
type Frame struct {
	*Component
}

func (Frame) Rules(r *Rule) {
	r.Tag().IsOneOf("frame", "iframe")
}

func NewFrame(scope Scope, sel selector.Selector) *Frame {
	return As(scope, sel, func(c *Component) *Frame { return &Frame{c} })
}

// InFrame switches into the frame at sel, runs action in the page it shows and switches back
// to the parent frame.
func InFrame[T PageObject](ctx context.Context, scope Scope, sel selector.Selector, with PageBuilder[T], action func(T) error) (err error) {
	frame := NewFrame(scope, sel)
	if err := frame.WaitFor(ctx, ToBeDisplayed); err != nil {
		return err
	}
	el, err := frame.existingElement(ctx)
	if err != nil {
		return err
	}

	s := scope.Session()
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}
	if err := d.SwitchToFrame(ctx, el); err != nil {
		return err
	}
	defer func() {
		if perr := d.SwitchToParentFrame(ctx); perr != nil && err == nil {
			err = perr
		}
	}()
	return with.InPage(ctx, s, action)
}
