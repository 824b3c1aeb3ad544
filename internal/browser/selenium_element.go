package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"pageObject/internal/selector"
)

type seleniumElement struct {
	s  *Selenium
	we selenium.WebElement
}

func (e *seleniumElement) FindElement(ctx context.Context, loc selector.Locator) (Element, error) {
	we, err := e.we.FindElement(by(loc), loc.Expression)
	if err != nil {
		return nil, seleniumErr(err)
	}
	return &seleniumElement{s: e.s, we: we}, nil
}

func (e *seleniumElement) FindElements(ctx context.Context, loc selector.Locator) ([]Element, error) {
	wes, err := e.we.FindElements(by(loc), loc.Expression)
	if err != nil {
		return nil, seleniumErr(err)
	}
	return e.s.wrap(wes), nil
}

func (e *seleniumElement) TagName(ctx context.Context) (string, error) {
	tag, err := e.we.TagName()
	if err != nil {
		return "", seleniumErr(err)
	}
	return strings.ToLower(tag), nil
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	text, err := e.we.Text()
	return text, seleniumErr(err)
}

// Attribute goes through a script because the WebDriver endpoint cannot tell a missing
// attribute from an empty one.
func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	res, err := e.s.ExecuteScript(ctx, "return arguments[0].getAttribute(arguments[1]);", e, name)
	if err != nil {
		return "", false, err
	}
	if res == nil {
		return "", false, nil
	}
	return fmt.Sprint(res), true, nil
}

func (e *seleniumElement) Property(ctx context.Context, name string) (any, error) {
	return e.s.ExecuteScript(ctx, "return arguments[0][arguments[1]];", e, name)
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	ok, err := e.we.IsDisplayed()
	return ok, seleniumErr(err)
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	ok, err := e.we.IsEnabled()
	return ok, seleniumErr(err)
}

func (e *seleniumElement) IsSelected(ctx context.Context) (bool, error) {
	ok, err := e.we.IsSelected()
	return ok, seleniumErr(err)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return seleniumErr(e.we.Click())
}

func (e *seleniumElement) DoubleClick(ctx context.Context) error {
	wd, err := e.s.driver()
	if err != nil {
		return err
	}
	if err := e.we.MoveTo(0, 0); err != nil {
		return seleniumErr(err)
	}
	return seleniumErr(wd.DoubleClick())
}

func (e *seleniumElement) ClickAt(ctx context.Context, x, y int) error {
	wd, err := e.s.driver()
	if err != nil {
		return err
	}
	if err := e.we.MoveTo(x, y); err != nil {
		return seleniumErr(err)
	}
	return seleniumErr(wd.Click(selenium.LeftButton))
}

func (e *seleniumElement) Hover(ctx context.Context) error {
	return seleniumErr(e.we.MoveTo(0, 0))
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return seleniumErr(e.we.Clear())
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return seleniumErr(e.we.SendKeys(text))
}

func (e *seleniumElement) DragTo(ctx context.Context, target Element, offsetX, offsetY int) error {
	dst, ok := target.(*seleniumElement)
	if !ok {
		return fmt.Errorf("drag: unexpected target type %T", target)
	}
	wd, err := e.s.driver()
	if err != nil {
		return err
	}

	if err := e.we.MoveTo(0, 0); err != nil {
		return seleniumErr(err)
	}
	if err := wd.ButtonDown(); err != nil {
		return seleniumErr(err)
	}
	if err := dst.we.MoveTo(offsetX, offsetY); err != nil {
		return seleniumErr(err)
	}
	return seleniumErr(wd.ButtonUp())
}
