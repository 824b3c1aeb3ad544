package component

import (
	"context"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
)

// Generic accepts any element.
type Generic struct {
	*Component
}

func (Generic) Rules(r *Rule) { r.Any() }

func NewGeneric(scope Scope, sel selector.Selector) *Generic {
	return As(scope, sel, func(c *Component) *Generic { return &Generic{c} })
}

// Clickable waits for the element to be enabled before clicking it.
type Clickable struct {
	*Component
}

func (Clickable) Rules(r *Rule) { r.Any() }

func NewClickable(scope Scope, sel selector.Selector) *Clickable {
	return As(scope, sel, func(c *Component) *Clickable { return &Clickable{c} })
}

func (c Clickable) IsEnabled(ctx context.Context) (bool, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return false, err
	}
	return el.IsEnabled(ctx)
}

func (c Clickable) Click(ctx context.Context) error {
	if err := c.WaitFor(ctx, ToBeEnabled); err != nil {
		return err
	}
	return c.Component.Click(ctx)
}

func (c Clickable) DoubleClick(ctx context.Context) error {
	if err := c.WaitFor(ctx, ToBeEnabled); err != nil {
		return err
	}
	return c.Component.DoubleClick(ctx)
}

func (c Clickable) ClickAt(ctx context.Context, x, y int) error {
	if err := c.WaitFor(ctx, ToBeEnabled); err != nil {
		return err
	}
	return c.Component.ClickAt(ctx, x, y)
}

// Button is a button element or a button-like input.
type Button struct {
	Clickable
}

func (Button) Rules(r *Rule) {
	r.Tag().IsOneOf("button", "input")
	if r.TagName() == "input" {
		r.Type().IsOneOf("button", "submit", "reset")
	}
}

func NewButton(scope Scope, sel selector.Selector) *Button {
	return As(scope, sel, func(c *Component) *Button { return &Button{Clickable{c}} })
}

// Text returns the caption, which is the value of input buttons.
func (b Button) Text(ctx context.Context) (string, error) {
	tag, err := b.TagName(ctx)
	if err != nil {
		return "", err
	}
	if tag == "input" {
		v, _, err := b.Attr(ctx, "value")
		return v, err
	}
	return b.Component.Text(ctx)
}

type Link struct {
	Clickable
}

func (Link) Rules(r *Rule) { r.Tag().Is("a") }

func NewLink(scope Scope, sel selector.Selector) *Link {
	return As(scope, sel, func(c *Component) *Link { return &Link{Clickable{c}} })
}

// IsEnabled is always true, anchors have no disabled state.
func (l Link) IsEnabled(ctx context.Context) (bool, error) { return true, nil }

// Click does not wait for an enabled state.
func (l Link) Click(ctx context.Context) error { return l.Component.Click(ctx) }

func (l Link) DoubleClick(ctx context.Context) error { return l.Component.DoubleClick(ctx) }

func (l Link) ClickAt(ctx context.Context, x, y int) error { return l.Component.ClickAt(ctx, x, y) }

func (l Link) Href(ctx context.Context) (string, error) {
	v, _, err := l.Attr(ctx, "href")
	return v, err
}

// Download clicks the link and waits for the file it starts downloading. Files already in the
// download directory are ignored.
func (l Link) Download(ctx context.Context, q DownloadQuery) (*DownloadFile, error) {
	watch, err := WatchDownloads(l.session.downloadDir)
	if err != nil {
		return nil, err
	}
	if err := l.Click(ctx); err != nil {
		return nil, err
	}
	return watch.Wait(ctx, q, DownloadTimeout)
}

type Image struct {
	*Component
}

func (Image) Rules(r *Rule) { r.Tag().Is("img") }

func NewImage(scope Scope, sel selector.Selector) *Image {
	return As(scope, sel, func(c *Component) *Image { return &Image{c} })
}

func (i Image) Source(ctx context.Context) (string, error) {
	v, _, err := i.Attr(ctx, "src")
	return v, err
}

// Text returns the image source.
func (i Image) Text(ctx context.Context) (string, error) {
	return i.Source(ctx)
}

func (i Image) Alt(ctx context.Context) (string, error) {
	v, _, err := i.Attr(ctx, "alt")
	return v, err
}

type Draggable struct {
	*Component
}

func (Draggable) Rules(r *Rule) { r.Any() }

func NewDraggable(scope Scope, sel selector.Selector) *Draggable {
	return As(scope, sel, func(c *Component) *Draggable { return &Draggable{c} })
}

// DragTo drops the element at an offset from the top-left corner of target.
func (d Draggable) DragTo(ctx context.Context, target Element, offsetX, offsetY int) error {
	dst, err := target.base().displayedElement(ctx)
	if err != nil {
		return err
	}
	return d.act(ctx, "drag", func(el browser.Element) error {
		return el.DragTo(ctx, dst, offsetX, offsetY)
	})
}
