package component

import (
	"context"
	"strings"
	"time"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
)

var textInputTypes = []string{"text", "password", "email", "tel", "search", "number", "url", "hidden"}

// Textbox is a textarea or a text-like input. An input without a type attribute is a text input.
type Textbox struct {
	Clickable
}

func (Textbox) Rules(r *Rule) {
	r.Tag().IsOneOf("input", "textarea")
	if r.TagName() != "input" {
		return
	}
	if _, ok := r.AttrValue("type"); ok {
		r.Type().IsOneOf(textInputTypes...)
	}
}

func NewTextbox(scope Scope, sel selector.Selector) *Textbox {
	return As(scope, sel, func(c *Component) *Textbox { return &Textbox{Clickable{c}} })
}

// Text returns the current value.
func (t Textbox) Text(ctx context.Context) (string, error) {
	return t.stringProperty(ctx, "value")
}

func (t Textbox) Clear(ctx context.Context) error {
	return t.act(ctx, "clear", func(el browser.Element) error { return el.Clear(ctx) })
}

// EnterText replaces the value with text.
func (t Textbox) EnterText(ctx context.Context, text string) error {
	err := t.act(ctx, "enter text", func(el browser.Element) error {
		if err := el.Clear(ctx); err != nil {
			return err
		}
		if err := el.Click(ctx); err != nil {
			return err
		}
		return el.SendKeys(ctx, text)
	})
	if err != nil {
		return err
	}
	t.session.record(ctx, Interaction{Type: InteractionTextEntry, Component: t.name, Selector: t.describe(), Text: text})
	return nil
}

// DateTextbox is an input of type date.
type DateTextbox struct {
	Textbox
}

func (DateTextbox) Rules(r *Rule) {
	r.Tag().Is("input")
	r.Type().Is("date")
}

func NewDateTextbox(scope Scope, sel selector.Selector) *DateTextbox {
	return As(scope, sel, func(c *Component) *DateTextbox { return &DateTextbox{Textbox{Clickable{c}}} })
}

const dateValueLayout = "2006-01-02"

// EnterDate types d the way the running browser expects date inputs to be typed.
func (t DateTextbox) EnterDate(ctx context.Context, d time.Time) error {
	layout := "01022006"
	if t.session.driver.BrowserName() == browser.BrowserFirefox {
		layout = dateValueLayout
	}
	return t.EnterText(ctx, d.Format(layout))
}

// Date parses the value. An empty value is the zero time.
func (t DateTextbox) Date(ctx context.Context) (time.Time, error) {
	v, err := t.Text(ctx)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return time.Parse(dateValueLayout, v)
}

// selectableText returns the label of a checkbox or radio: the enclosing label, the label
// pointing at its id, or its value.
func selectableText(ctx context.Context, c *Component) (string, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return "", err
	}

	loc, err := selector.XPath.Parent("label").Locate(true)
	if err != nil {
		return "", err
	}
	label, err := el.FindElement(ctx, loc)
	if err == nil {
		text, err := label.Text(ctx)
		return strings.TrimSpace(text), err
	}
	if !isMissing(err) {
		return "", err
	}

	id, ok, err := el.Attribute(ctx, "id")
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		d, err := c.session.Driver(ctx)
		if err != nil {
			return "", err
		}
		loc, err := selector.CSS.Page("label", selector.Attr("for").Is(id)).Locate(false)
		if err != nil {
			return "", err
		}
		label, err := d.FindElement(ctx, loc)
		if err == nil {
			text, err := label.Text(ctx)
			return strings.TrimSpace(text), err
		}
		if !isMissing(err) {
			return "", err
		}
	}

	v, _, err := el.Attribute(ctx, "value")
	return v, err
}

type Checkbox struct {
	Clickable
}

func (Checkbox) Rules(r *Rule) {
	r.Tag().Is("input")
	r.Type().Is("checkbox")
}

func NewCheckbox(scope Scope, sel selector.Selector) *Checkbox {
	return As(scope, sel, func(c *Component) *Checkbox { return &Checkbox{Clickable{c}} })
}

func (c Checkbox) Text(ctx context.Context) (string, error) { return selectableText(ctx, c.Component) }

func (c Checkbox) IsSelected(ctx context.Context) (bool, error) {
	el, err := c.existingElement(ctx)
	if err != nil {
		return false, err
	}
	return el.IsSelected(ctx)
}

func (c Checkbox) setSelected(ctx context.Context, want bool) error {
	selected, err := c.IsSelected(ctx)
	if err != nil || selected == want {
		return err
	}
	if err := c.Clickable.Click(ctx); err != nil {
		return err
	}
	text, err := c.Text(ctx)
	if err != nil {
		return err
	}
	c.session.record(ctx, Interaction{Type: InteractionSelect, Component: c.name, Selector: c.describe(), Text: text})
	return nil
}

// Select checks the box unless it already is.
func (c Checkbox) Select(ctx context.Context) error { return c.setSelected(ctx, true) }

func (c Checkbox) Deselect(ctx context.Context) error { return c.setSelected(ctx, false) }

type Radio struct {
	Clickable
}

func (Radio) Rules(r *Rule) {
	r.Tag().Is("input")
	r.Type().Is("radio")
}

func NewRadio(scope Scope, sel selector.Selector) *Radio {
	return As(scope, sel, func(c *Component) *Radio { return &Radio{Clickable{c}} })
}

func (r Radio) Text(ctx context.Context) (string, error) { return selectableText(ctx, r.Component) }

func (r Radio) IsSelected(ctx context.Context) (bool, error) {
	el, err := r.existingElement(ctx)
	if err != nil {
		return false, err
	}
	return el.IsSelected(ctx)
}

func (r Radio) Select(ctx context.Context) error {
	selected, err := r.IsSelected(ctx)
	if err != nil || selected {
		return err
	}
	if err := r.Clickable.Click(ctx); err != nil {
		return err
	}
	text, err := r.Text(ctx)
	if err != nil {
		return err
	}
	r.session.record(ctx, Interaction{Type: InteractionSelect, Component: r.name, Selector: r.describe(), Text: text})
	return nil
}

// RadioGroup is the radios matched by one selector, keyed by their label.
type RadioGroup struct {
	radios *Collection[*Radio]
}

func NewRadioGroup(scope Scope, sel selector.Selector) *RadioGroup {
	return &RadioGroup{radios: NewCollection(scope, sel, func(c *Component) *Radio { return &Radio{Clickable{c}} })}
}

func (g *RadioGroup) Radios() *Collection[*Radio] { return g.radios }

func (g *RadioGroup) Texts(ctx context.Context) ([]string, error) {
	return g.radios.Keys(ctx)
}

// Select selects the radio labelled text.
func (g *RadioGroup) Select(ctx context.Context, text string) error {
	r, err := g.radios.Entry(ctx, text)
	if err != nil {
		return err
	}
	return r.Select(ctx)
}

// Selected returns the label of the selected radio, if any.
func (g *RadioGroup) Selected(ctx context.Context) (string, bool, error) {
	radios, err := g.radios.All(ctx)
	if err != nil {
		return "", false, err
	}
	for _, r := range radios {
		ok, err := r.IsSelected(ctx)
		if err != nil {
			return "", false, err
		}
		if ok {
			text, err := r.Text(ctx)
			return text, err == nil, err
		}
	}
	return "", false, nil
}
