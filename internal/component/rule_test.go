package component

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageObject/internal/browser"
	"pageObject/internal/browser/browsertest"
	"pageObject/internal/selector"
)

func rulesOf(node *browsertest.Node, rules func(*Rule)) error {
	return checkRules(context.Background(), "Row", node, rules)
}

func TestRulesPass(t *testing.T) {
	node := browsertest.NewNode("a", "", "href", "/docs/start", "class", "nav active", "title", "Docs")

	err := rulesOf(node, func(r *Rule) {
		r.Tag().Is("a")
		r.Tag().IsOneOf("a", "button")
		r.Href().StartsWith("/docs")
		r.Href().EndsWith("start")
		r.Href().Contains("docs/")
		r.Href().DoesNotContain("api")
		r.Href().Matches(regexp.MustCompile(`^/docs/\w+$`))
		r.Title().IsNot("API")
		r.ID().IsAbsent()
		r.Attr("href").IsPresent()
		r.CSSClasses().Has("nav")
		r.CSSClasses().DoesNotHave("hidden")
		r.CSSClasses().HasAllOf("nav", "active")
		r.CSSClasses().HasAnyOf("x", "active")
		r.CSSClasses().HasNoneOf("x", "y")
		r.CSSClasses().IsPresent()
	})
	assert.NoError(t, err)
}

func TestRulesContainsComparesActualAgainstExpected(t *testing.T) {
	node := browsertest.NewNode("a", "", "href", "/a")

	err := rulesOf(node, func(r *Rule) { r.Href().Contains("/about") })
	assert.Error(t, err)
}

func TestRulesFailures(t *testing.T) {
	node := browsertest.NewNode("div", "", "type", "text")

	err := rulesOf(node, func(r *Rule) {
		r.Tag().Is("tr")
		r.Name().Is("row")
		r.Type().IsAbsent()
		r.CSSClasses().Has("row")
	})

	var rulesErr *RulesError
	require.ErrorAs(t, err, &rulesErr)
	assert.Equal(t, "Row", rulesErr.Component)
	assert.Equal(t, []string{
		"expected that tag is 'tr', but it is not. (actual: 'div')",
		"expected that 'name' attribute is 'row', but it is not. (actual: absent)",
		"expected that 'type' attribute is absent, but it is not. (actual: 'text')",
		"expected that css classes have 'row', but it is not. (actual: '')",
	}, rulesErr.Failures)
	assert.Contains(t, err.Error(), "one or more component rules were violated, incorrect web element may have been targeted for Row\n . expected that tag is 'tr'")
}

func TestMissingValuePassesOnlyIsAbsent(t *testing.T) {
	node := browsertest.NewNode("div", "")

	assert.Error(t, rulesOf(node, func(r *Rule) { r.Name().IsNot("x") }))
	assert.Error(t, rulesOf(node, func(r *Rule) { r.Name().DoesNotContain("x") }))
	assert.NoError(t, rulesOf(node, func(r *Rule) { r.Name().IsAbsent() }))
}

func TestNoRules(t *testing.T) {
	err := rulesOf(browsertest.NewNode("div", ""), func(r *Rule) {})
	var rulesErr *RulesError
	require.ErrorAs(t, err, &rulesErr)
	assert.Equal(t, "at least one component rule must be specified for Row", err.Error())
}

func TestRulesStaleElement(t *testing.T) {
	node := browsertest.NewNode("div", "")
	node.Detach()
	err := rulesOf(node, func(r *Rule) { r.Tag().Is("div") })
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrStaleElement)
	var rulesErr *RulesError
	assert.NotErrorAs(t, err, &rulesErr)
}

type row struct {
	*Component
}

func (row) Rules(r *Rule) { r.Tag().Is("tr") }

func TestRulesCheckedOnFirstUse(t *testing.T) {
	d, s, _ := newSession(t)
	node := browsertest.NewNode("div", "x")
	d.Doc().Add("div", node)

	c := As(s.Page(), selector.CSS.Descendant("div"), func(c *Component) *row { return &row{c} })
	ctx := context.Background()

	ok, err := c.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.Text(ctx)
	var rulesErr *RulesError
	require.ErrorAs(t, err, &rulesErr)
	assert.Equal(t, "component.row", rulesErr.Component)

	d.Doc().Set("div", browsertest.NewNode("tr", "y"))
	node.Detach()
	text, err := c.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "y", text)
}

func TestChildFailsWhenParentViolatesRules(t *testing.T) {
	d, s, _ := newSession(t)
	parent := browsertest.NewNode("div", "")
	parent.Add("./descendant::td", browsertest.NewNode("td", "cell"))
	d.Doc().Add("div", parent)

	r := As(s.Page(), selector.CSS.Descendant("div"), func(c *Component) *row { return &row{c} })
	cell := NewGeneric(r, selector.XPath.Descendant("td"))

	_, err := cell.Text(context.Background())
	var rulesErr *RulesError
	assert.ErrorAs(t, err, &rulesErr)
}
