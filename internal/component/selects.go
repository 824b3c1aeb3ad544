package component

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pageObject/internal/selector"
)

const (
	optionTextsScript   = `return Array.from(arguments[0].options).map(o => o.text.trim());`
	selectedTextsScript = `return Array.from(arguments[0].selectedOptions).map(o => o.text.trim());`
	setSelectedScript   = `const select = arguments[0], texts = arguments[1], on = arguments[2];
const changed = [];
for (const o of select.options) {
  if (texts.includes(o.text.trim())) {
    o.selected = on;
    changed.push(o.text.trim());
  }
}
select.dispatchEvent(new Event('input', {bubbles: true}));
select.dispatchEvent(new Event('change', {bubbles: true}));
return changed;`
)

// selectBase holds what single and multiple select elements share.
type selectBase struct {
	*Component
}

func (s selectBase) script(ctx context.Context, script string, args ...any) ([]string, error) {
	el, err := s.displayedElement(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.session.Driver(ctx)
	if err != nil {
		return nil, err
	}
	res, err := d.ExecuteScript(ctx, script, append([]any{el}, args...)...)
	if err != nil {
		return nil, err
	}
	return toStrings(res), nil
}

func toStrings(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, strings.TrimSpace(fmt.Sprint(item)))
		}
		return out
	default:
		return nil
	}
}

func (s selectBase) OptionTexts(ctx context.Context) ([]string, error) {
	return s.script(ctx, optionTextsScript)
}

func (s selectBase) SelectedTexts(ctx context.Context) ([]string, error) {
	return s.script(ctx, selectedTextsScript)
}

func (s selectBase) setSelected(ctx context.Context, texts []string, on bool) error {
	if len(texts) == 0 {
		return nil
	}
	options, err := s.OptionTexts(ctx)
	if err != nil {
		return err
	}
	for _, t := range texts {
		if !slices.Contains(options, t) {
			return &EntryNotFoundError{ByKey: true, Key: t}
		}
	}
	if _, err := s.script(ctx, setSelectedScript, texts, on); err != nil {
		return err
	}
	if on {
		s.session.record(ctx, Interaction{Type: InteractionSelect, Component: s.name, Selector: s.describe(), Text: strings.Join(texts, ", ")})
	}
	return nil
}

// matching returns the options re matches in full.
func (s selectBase) matching(ctx context.Context, re *regexp.Regexp) ([]string, error) {
	options, err := s.OptionTexts(ctx)
	if err != nil {
		return nil, err
	}
	whole, err := regexp.Compile(`^(?:` + re.String() + `)$`)
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, o := range options {
		if whole.MatchString(o) {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		return nil, &EntryNotFoundError{ByKey: true, Key: re.String()}
	}
	return matched, nil
}

// Dropdown is a single choice select element.
type Dropdown struct {
	selectBase
}

func (Dropdown) Rules(r *Rule) {
	r.Tag().Is("select")
	r.Attr("multiple").IsAbsent()
}

func NewDropdown(scope Scope, sel selector.Selector) *Dropdown {
	return As(scope, sel, func(c *Component) *Dropdown { return &Dropdown{selectBase{c}} })
}

// Text returns the selected option.
func (d Dropdown) Text(ctx context.Context) (string, error) {
	selected, err := d.SelectedTexts(ctx)
	if err != nil || len(selected) == 0 {
		return "", err
	}
	return selected[0], nil
}

func (d Dropdown) Select(ctx context.Context, text string) error {
	return d.setSelected(ctx, []string{text}, true)
}

// SelectMatching selects the first option matching re.
func (d Dropdown) SelectMatching(ctx context.Context, re *regexp.Regexp) error {
	matched, err := d.matching(ctx, re)
	if err != nil {
		return err
	}
	return d.Select(ctx, matched[0])
}

// MultiSelect is a select element with the multiple attribute.
type MultiSelect struct {
	selectBase
}

func (MultiSelect) Rules(r *Rule) {
	r.Tag().Is("select")
	r.Attr("multiple").IsPresent()
}

func NewMultiSelect(scope Scope, sel selector.Selector) *MultiSelect {
	return As(scope, sel, func(c *Component) *MultiSelect { return &MultiSelect{selectBase{c}} })
}

// Text returns the selected options joined by ", ".
func (m MultiSelect) Text(ctx context.Context) (string, error) {
	selected, err := m.SelectedTexts(ctx)
	return strings.Join(selected, ", "), err
}

func (m MultiSelect) Select(ctx context.Context, texts ...string) error {
	return m.setSelected(ctx, texts, true)
}

func (m MultiSelect) Deselect(ctx context.Context, texts ...string) error {
	return m.setSelected(ctx, texts, false)
}

func (m MultiSelect) SelectMatching(ctx context.Context, re *regexp.Regexp) error {
	matched, err := m.matching(ctx, re)
	if err != nil {
		return err
	}
	return m.Select(ctx, matched...)
}

func (m MultiSelect) DeselectMatching(ctx context.Context, re *regexp.Regexp) error {
	matched, err := m.matching(ctx, re)
	if err != nil {
		return err
	}
	return m.Deselect(ctx, matched...)
}

// Clear deselects every option.
func (m MultiSelect) Clear(ctx context.Context) error {
	selected, err := m.SelectedTexts(ctx)
	if err != nil {
		return err
	}
	return m.Deselect(ctx, selected...)
}
