package component

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pageObject/internal/browser"
)

// Rule collects the checks a component type declares about the element it targets.
// Any check that cannot read the element is reported as an error instead of a failure.
type Rule struct {
	ctx      context.Context
	el       browser.Element
	count    int
	failures []string
	err      error
}

// Any accepts every element.
func (r *Rule) Any() { r.count++ }

// TagName returns the element's lowercase tag for conditional rules.
func (r *Rule) TagName() string {
	if r.err != nil {
		return ""
	}
	tag, err := r.el.TagName(r.ctx)
	if err != nil {
		r.err = err
	}
	return tag
}

// AttrValue reads an attribute for conditional rules.
func (r *Rule) AttrValue(name string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok, err := r.el.Attribute(r.ctx, name)
	if err != nil {
		r.err = err
	}
	return v, ok
}

func (r *Rule) Tag() *ValueRule {
	tag := r.TagName()
	return &ValueRule{r: r, label: "tag", actual: tag, present: r.err == nil}
}

func (r *Rule) Attr(name string) *ValueRule {
	v, ok := r.AttrValue(name)
	return &ValueRule{r: r, label: fmt.Sprintf("'%s' attribute", name), actual: v, present: ok}
}

func (r *Rule) Type() *ValueRule  { return r.Attr("type") }
func (r *Rule) Name() *ValueRule  { return r.Attr("name") }
func (r *Rule) ID() *ValueRule    { return r.Attr("id") }
func (r *Rule) Href() *ValueRule  { return r.Attr("href") }
func (r *Rule) Title() *ValueRule { return r.Attr("title") }

// CSSClasses checks the class list. A missing class attribute is an empty list.
func (r *Rule) CSSClasses() *ClassRule {
	v, ok := r.AttrValue("class")
	return &ClassRule{r: r, classes: strings.Fields(v), present: ok}
}

func (r *Rule) check(ok bool, failure string) {
	r.count++
	if r.err != nil || ok {
		return
	}
	r.failures = append(r.failures, failure)
}

type ValueRule struct {
	r       *Rule
	label   string
	actual  string
	present bool
}

func (v *ValueRule) check(ok bool, cond string) {
	actual := "absent"
	if v.present {
		actual = "'" + v.actual + "'"
	}
	v.r.check(v.present && ok, fmt.Sprintf("expected that %s %s, but it is not. (actual: %s)", v.label, cond, actual))
}

func (v *ValueRule) IsPresent() { v.check(true, "is present") }

func (v *ValueRule) IsAbsent() {
	v.r.check(!v.present, fmt.Sprintf("expected that %s is absent, but it is not. (actual: '%s')", v.label, v.actual))
}

func (v *ValueRule) Is(want string) { v.check(v.actual == want, "is '"+want+"'") }

func (v *ValueRule) IsNot(want string) { v.check(v.actual != want, "is not '"+want+"'") }

func (v *ValueRule) IsOneOf(want ...string) {
	v.check(slices.Contains(want, v.actual), "is one of "+quoteAll(want))
}

func (v *ValueRule) Contains(s string) {
	v.check(strings.Contains(v.actual, s), "contains '"+s+"'")
}

func (v *ValueRule) DoesNotContain(s string) {
	v.check(!strings.Contains(v.actual, s), "does not contain '"+s+"'")
}

func (v *ValueRule) StartsWith(s string) {
	v.check(strings.HasPrefix(v.actual, s), "starts with '"+s+"'")
}

func (v *ValueRule) EndsWith(s string) {
	v.check(strings.HasSuffix(v.actual, s), "ends with '"+s+"'")
}

func (v *ValueRule) Matches(re *regexp.Regexp) {
	v.check(re.MatchString(v.actual), "matches '"+re.String()+"'")
}

type ClassRule struct {
	r       *Rule
	classes []string
	present bool
}

func (c *ClassRule) check(ok bool, cond string) {
	c.r.check(ok, fmt.Sprintf("expected that css classes %s, but it is not. (actual: '%s')", cond, strings.Join(c.classes, " ")))
}

func (c *ClassRule) IsPresent() { c.check(c.present, "are present") }
func (c *ClassRule) IsAbsent()  { c.check(!c.present, "are absent") }

func (c *ClassRule) Has(class string) {
	c.check(slices.Contains(c.classes, class), "have '"+class+"'")
}

func (c *ClassRule) DoesNotHave(class string) {
	c.check(!slices.Contains(c.classes, class), "do not have '"+class+"'")
}

func (c *ClassRule) HasAllOf(classes ...string) {
	ok := true
	for _, class := range classes {
		ok = ok && slices.Contains(c.classes, class)
	}
	c.check(ok, "have all of "+quoteAll(classes))
}

func (c *ClassRule) HasAnyOf(classes ...string) {
	c.check(slices.ContainsFunc(classes, func(s string) bool { return slices.Contains(c.classes, s) }), "have any of "+quoteAll(classes))
}

func (c *ClassRule) HasNoneOf(classes ...string) {
	c.check(!slices.ContainsFunc(classes, func(s string) bool { return slices.Contains(c.classes, s) }), "have none of "+quoteAll(classes))
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// checkRules runs rules against el.
func checkRules(ctx context.Context, name string, el browser.Element, rules func(*Rule)) error {
	r := &Rule{ctx: ctx, el: el}
	rules(r)
	if r.err != nil {
		return fmt.Errorf("verify rules for %s: %w", name, r.err)
	}
	if r.count == 0 {
		return &RulesError{Component: name}
	}
	if len(r.failures) > 0 {
		return &RulesError{Component: name, Failures: r.failures}
	}
	return nil
}
