package component

import (
	"context"

	"pageObject/internal/browser"
)

type ScrollBehavior string

const (
	ScrollInstant ScrollBehavior = "instant"
	ScrollSmooth  ScrollBehavior = "smooth"
	ScrollAuto    ScrollBehavior = "auto"
)

type ScrollAlignment string

const (
	AlignStart   ScrollAlignment = "start"
	AlignCenter  ScrollAlignment = "center"
	AlignEnd     ScrollAlignment = "end"
	AlignNearest ScrollAlignment = "nearest"
)

// ScrollOptions mirrors the options of Element.scrollIntoView.
type ScrollOptions struct {
	Behavior ScrollBehavior
	Block    ScrollAlignment
	Inline   ScrollAlignment
}

var DefaultScrollOptions = ScrollOptions{Behavior: ScrollInstant, Block: AlignCenter, Inline: AlignCenter}

func (o ScrollOptions) args() map[string]string {
	if o.Behavior == "" {
		o.Behavior = DefaultScrollOptions.Behavior
	}
	if o.Block == "" {
		o.Block = DefaultScrollOptions.Block
	}
	if o.Inline == "" {
		o.Inline = DefaultScrollOptions.Inline
	}
	return map[string]string{
		"behavior": string(o.Behavior),
		"block":    string(o.Block),
		"inline":   string(o.Inline),
	}
}

const scrollScript = "arguments[0].scrollIntoView(arguments[1]);"

// ScrollIntoView scrolls the element into the viewport. Unset options take their default.
func (c *Component) ScrollIntoView(ctx context.Context, opts ...ScrollOptions) error {
	o := DefaultScrollOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	el, err := c.existingElement(ctx)
	if err != nil {
		return err
	}
	return c.scrollIntoView(ctx, el, o)
}

func (c *Component) scrollIntoView(ctx context.Context, el browser.Element, o ScrollOptions) error {
	driver, err := c.session.Driver(ctx)
	if err != nil {
		return err
	}
	_, err = driver.ExecuteScript(ctx, scrollScript, el, o.args())
	return err
}
