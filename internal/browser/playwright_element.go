package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"pageObject/internal/selector"
)

type pwElement struct {
	b      *Playwright
	handle playwright.ElementHandle
}

func (e *pwElement) FindElement(ctx context.Context, loc selector.Locator) (Element, error) {
	handle, err := e.handle.QuerySelector(playwrightSelector(loc))
	if err != nil {
		return nil, playwrightErr(err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, loc)
	}
	return &pwElement{b: e.b, handle: handle}, nil
}

func (e *pwElement) FindElements(ctx context.Context, loc selector.Locator) ([]Element, error) {
	handles, err := e.handle.QuerySelectorAll(playwrightSelector(loc))
	if err != nil {
		return nil, playwrightErr(err)
	}
	return e.b.wrap(handles), nil
}

func (e *pwElement) TagName(ctx context.Context) (string, error) {
	res, err := e.handle.Evaluate(`el => el.isConnected ? el.tagName.toLowerCase() : null`)
	if err != nil {
		return "", playwrightErr(err)
	}
	tag, ok := res.(string)
	if !ok {
		return "", ErrStaleElement
	}
	return tag, nil
}

func (e *pwElement) Text(ctx context.Context) (string, error) {
	text, err := e.handle.InnerText()
	return text, playwrightErr(err)
}

func (e *pwElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	res, err := e.handle.Evaluate(`(el, name) => el.getAttribute(name)`, name)
	if err != nil {
		return "", false, playwrightErr(err)
	}
	if res == nil {
		return "", false, nil
	}
	return fmt.Sprint(res), true, nil
}

func (e *pwElement) Property(ctx context.Context, name string) (any, error) {
	res, err := e.handle.Evaluate(`(el, name) => el[name]`, name)
	return res, playwrightErr(err)
}

func (e *pwElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.handle.IsVisible()
	return visible, playwrightErr(err)
}

func (e *pwElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.handle.IsEnabled()
	return enabled, playwrightErr(err)
}

func (e *pwElement) IsSelected(ctx context.Context) (bool, error) {
	res, err := e.handle.Evaluate(`el => !!(el.checked || el.selected)`)
	if err != nil {
		return false, playwrightErr(err)
	}
	selected, _ := res.(bool)
	return selected, nil
}

func (e *pwElement) Click(ctx context.Context) error {
	return playwrightErr(e.handle.Click())
}

func (e *pwElement) DoubleClick(ctx context.Context) error {
	return playwrightErr(e.handle.Dblclick())
}

func (e *pwElement) ClickAt(ctx context.Context, x, y int) error {
	return playwrightErr(e.handle.Click(playwright.ElementHandleClickOptions{
		Position: &playwright.Position{X: float64(x), Y: float64(y)},
	}))
}

func (e *pwElement) Hover(ctx context.Context) error {
	return playwrightErr(e.handle.Hover())
}

func (e *pwElement) Clear(ctx context.Context) error {
	return playwrightErr(e.handle.Fill(""))
}

func (e *pwElement) SendKeys(ctx context.Context, text string) error {
	page := e.b.getPage()
	if page == nil {
		return ErrNotStarted
	}
	if err := e.handle.Focus(); err != nil {
		return playwrightErr(err)
	}
	return page.Keyboard().Type(text)
}

func (e *pwElement) DragTo(ctx context.Context, target Element, offsetX, offsetY int) error {
	dst, ok := target.(*pwElement)
	if !ok {
		return fmt.Errorf("drag: unexpected target type %T", target)
	}
	page := e.b.getPage()
	if page == nil {
		return ErrNotStarted
	}

	if err := e.handle.ScrollIntoViewIfNeeded(); err != nil {
		return playwrightErr(err)
	}
	from, err := center(e.handle)
	if err != nil {
		return err
	}
	to, err := center(dst.handle)
	if err != nil {
		return err
	}

	mouse := page.Mouse()
	if err := mouse.Move(from.X, from.Y); err != nil {
		return err
	}
	if err := mouse.Down(); err != nil {
		return err
	}
	if err := mouse.Move(to.X+float64(offsetX), to.Y+float64(offsetY), playwright.MouseMoveOptions{Steps: playwright.Int(5)}); err != nil {
		return err
	}
	return mouse.Up()
}

func center(handle playwright.ElementHandle) (playwright.Position, error) {
	box, err := handle.BoundingBox()
	if err != nil {
		return playwright.Position{}, playwrightErr(err)
	}
	if box == nil {
		return playwright.Position{}, fmt.Errorf("element is not visible")
	}
	return playwright.Position{X: box.X + box.Width/2, Y: box.Y + box.Height/2}, nil
}
