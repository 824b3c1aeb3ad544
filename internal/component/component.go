// Package component models the parts of a web page as lazily resolved components.
//
// A component is a selector searched within a scope: the page, or the element of another
// component. The element is looked up when first needed, cached, and looked up again once it goes
// stale. Component types declare rules about the element they expect, and those rules are checked
// the first time the element is used.
package component

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
	"pageObject/internal/wait"
)

// Scope is where a component searches for its element.
type Scope interface {
	Session() *Session
	searchRoot(ctx context.Context) (browser.Element, error)
}

// Element is implemented by *Component and every type embedding it.
type Element interface {
	base() *Component
}

// Definition is a component type: a struct embedding *Component that declares its rules.
type Definition interface {
	Element
	Rules(r *Rule)
	Text(ctx context.Context) (string, error)
}

type Component struct {
	scope   Scope
	session *Session
	sel     selector.Selector
	name    string
	rules   func(*Rule)
	// locate replaces the selector search for collection entries.
	locate func(ctx context.Context) (browser.Element, error)

	mu       sync.Mutex
	element  browser.Element
	verified bool
}

func newComponent(scope Scope, sel selector.Selector) *Component {
	return &Component{scope: scope, session: scope.Session(), sel: sel, name: "component"}
}

// As builds a component type for sel within scope.
func As[T Definition](scope Scope, sel selector.Selector, build func(*Component) T) T {
	c := newComponent(scope, sel)
	t := build(c)
	c.rules = t.Rules
	c.name = typeName(t)
	return t
}

func typeName(v any) string {
	name := fmt.Sprintf("%T", v)
	return strings.TrimPrefix(name, "*")
}

func (c *Component) base() *Component { return c }

func (c *Component) Session() *Session { return c.session }

func (c *Component) Selector() selector.Selector { return c.sel }

func (c *Component) String() string {
	if c.sel == nil {
		return c.name
	}
	return c.name + " (" + c.sel.String() + ")"
}

func (c *Component) describe() string {
	if c.sel == nil {
		return "<no selector>"
	}
	return c.sel.String()
}

func (c *Component) logger() *zap.Logger {
	return c.session.log.With(zap.String("component", c.name), zap.String("selector", c.describe()))
}

func (c *Component) searchRoot(ctx context.Context) (browser.Element, error) {
	el, err := c.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.verify(ctx, el); err != nil {
		return nil, err
	}
	return el, nil
}

func (c *Component) find(ctx context.Context) (browser.Element, error) {
	if c.locate != nil {
		return c.locate(ctx)
	}
	if c.sel == nil {
		return nil, ErrNoSelector
	}

	driver, err := c.session.Driver(ctx)
	if err != nil {
		return nil, err
	}
	var root browser.Element
	if !c.sel.IsAbsolute() {
		if root, err = c.scope.searchRoot(ctx); err != nil {
			return nil, err
		}
	}
	if root == nil {
		loc, err := c.sel.Locate(false)
		if err != nil {
			return nil, err
		}
		return driver.FindElement(ctx, loc)
	}

	loc, err := c.sel.Locate(true)
	if err != nil {
		return nil, err
	}
	return root.FindElement(ctx, loc)
}

// resolve returns the cached element, looking it up again when it went stale.
func (c *Component) resolve(ctx context.Context) (browser.Element, error) {
	c.mu.Lock()
	el := c.element
	c.mu.Unlock()

	if el != nil {
		_, err := el.TagName(ctx)
		if err == nil {
			return el, nil
		}
		if !isMissing(err) {
			return nil, err
		}
		c.logger().Debug("element went stale")
	}

	el, err := c.find(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.element = el
	c.mu.Unlock()
	return el, nil
}

// lookup resolves the element once, reporting a missing element as not found instead of an error.
func (c *Component) lookup(ctx context.Context) (browser.Element, bool, error) {
	el, err := c.resolve(ctx)
	if err == nil {
		_, err = el.TagName(ctx)
	}
	if isMissing(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return el, true, nil
}

func (c *Component) verify(ctx context.Context, el browser.Element) error {
	c.mu.Lock()
	done := c.verified
	c.mu.Unlock()
	if done || c.rules == nil {
		return nil
	}

	if err := checkRules(ctx, c.name, el, c.rules); err != nil {
		return err
	}
	c.mu.Lock()
	c.verified = true
	c.mu.Unlock()
	return nil
}

// existingElement waits for the element to exist and checks the rules.
func (c *Component) existingElement(ctx context.Context) (browser.Element, error) {
	el, err := wait.UntilValue(ctx, c.session.timeout, c.lookup)
	if err != nil {
		var timeout *wait.TimeoutError
		if errors.As(err, &timeout) {
			return nil, &ElementNotFoundError{Component: c.name, Selector: c.describe(), Err: err}
		}
		return nil, err
	}
	if err := c.verify(ctx, el); err != nil {
		return nil, err
	}
	return el, nil
}

func (c *Component) displayedElement(ctx context.Context) (browser.Element, error) {
	if err := c.WaitFor(ctx, ToBeDisplayed); err != nil {
		return nil, err
	}
	return c.existingElement(ctx)
}

// Element returns the underlying element once it exists and satisfies the rules.
func (c *Component) Element(ctx context.Context) (browser.Element, error) {
	return c.existingElement(ctx)
}

func (c *Component) Exists(ctx context.Context) (bool, error) {
	_, ok, err := c.lookup(ctx)
	return ok, err
}

// IsDisplayed reports false for a component that does not exist.
func (c *Component) IsDisplayed(ctx context.Context) (bool, error) {
	el, ok, err := c.lookup(ctx)
	if err != nil || !ok {
		return false, err
	}
	displayed, err := el.IsDisplayed(ctx)
	if isMissing(err) {
		return false, nil
	}
	return displayed, err
}

// Text returns the visible text, trimmed.
func (c *Component) Text(ctx context.Context) (string, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Component) TagName(ctx context.Context) (string, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return "", err
	}
	return el.TagName(ctx)
}

// Attr returns an attribute value and whether the attribute is present.
func (c *Component) Attr(ctx context.Context, name string) (string, bool, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return "", false, err
	}
	return el.Attribute(ctx, name)
}

func (c *Component) ID(ctx context.Context) (string, bool, error) {
	return c.Attr(ctx, "id")
}

func (c *Component) CSSClasses(ctx context.Context) ([]string, error) {
	v, _, err := c.Attr(ctx, "class")
	if err != nil {
		return nil, err
	}
	return strings.Fields(v), nil
}

func (c *Component) stringProperty(ctx context.Context, name string) (string, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return "", err
	}
	v, err := el.Property(ctx, name)
	if err != nil || v == nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func (c *Component) InnerHTML(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, "innerHTML")
}

func (c *Component) InnerText(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, "innerText")
}

// OwnText returns the text of the element without the text of its children.
func (c *Component) OwnText(ctx context.Context) (string, error) {
	inner, err := c.InnerHTML(ctx)
	if err != nil {
		return "", err
	}
	return ownText(inner)
}

func (c *Component) act(ctx context.Context, action string, fn func(browser.Element) error) error {
	return wait.Retry(ctx, 3, 0, browser.IsRetryable, func() error {
		el, err := c.displayedElement(ctx)
		if err != nil {
			return err
		}
		if err := fn(el); err != nil {
			return browser.Classify(action, err)
		}
		return nil
	})
}

func (c *Component) Click(ctx context.Context) error {
	err := c.act(ctx, "click", func(el browser.Element) error {
		if err := c.scrollIntoView(ctx, el, DefaultScrollOptions); err != nil {
			return err
		}
		return el.Click(ctx)
	})
	if err != nil {
		return err
	}
	c.session.record(ctx, Interaction{Type: InteractionClick, Component: c.name, Selector: c.describe()})
	return nil
}

func (c *Component) DoubleClick(ctx context.Context) error {
	err := c.act(ctx, "double click", func(el browser.Element) error { return el.DoubleClick(ctx) })
	if err != nil {
		return err
	}
	c.session.record(ctx, Interaction{Type: InteractionClick, Component: c.name, Selector: c.describe(), Text: "double"})
	return nil
}

// ClickAt clicks at an offset from the element's top-left corner.
func (c *Component) ClickAt(ctx context.Context, x, y int) error {
	err := c.act(ctx, "click at", func(el browser.Element) error { return el.ClickAt(ctx, x, y) })
	if err != nil {
		return err
	}
	c.session.record(ctx, Interaction{Type: InteractionClick, Component: c.name, Selector: c.describe(), Text: fmt.Sprintf("%d,%d", x, y)})
	return nil
}

// Focus moves the mouse over the element.
func (c *Component) Focus(ctx context.Context) error {
	return c.act(ctx, "focus", func(el browser.Element) error { return el.Hover(ctx) })
}

func (c *Component) WaitFor(ctx context.Context, cond Condition) error {
	err := wait.Until(ctx, c.session.timeout, func(ctx context.Context) (bool, error) {
		return cond.check(ctx, c)
	})
	if err != nil {
		return &WaitError{Component: c.String(), Failure: cond.failure, Err: err}
	}
	return nil
}

// WaitForAnimation waits until the element has no running animation.
func (c *Component) WaitForAnimation(ctx context.Context) error {
	return c.WaitFor(ctx, ToStopAnimating)
}
