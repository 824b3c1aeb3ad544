package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSBuild(t *testing.T) {
	tests := []struct {
		name string
		sel  *CSSNode
		want string
	}{
		{"classes and child", CSS.Descendant("div", Classes("a", "b")).Child("span", Attr("data-x").Is("1")), "div.a.b > span[data-x='1']"},
		{"id only", CSS.Descendant("", ID("main")), "#main"},
		{"negated attribute", CSS.Descendant("input", Not(Attr("type").Is("hidden"))), "input:not([type='hidden'])"},
		{"nth child is one based", CSS.Descendant("li", NthChild(0)), "li:nth-child(1)"},
		{"nth last of type", CSS.Descendant("li", NthLastOfType(2)), "li:nth-last-of-type(3)"},
		{"negated classes", CSS.Descendant("p", Not(Classes("x"))), "p:not(.x)"},
		{"trimmed classes", CSS.Descendant("div", Classes(" card ", "wide\t")), "div.card.wide"},
		{"negated tag and presence", CSS.Descendant("", Not(Tag("div")), Attr("role").IsPresent()), ":not(div)[role]"},
		{"contains", CSS.Descendant("a", Attr("href").Contains("x")), "a[href*='x']"},
		{"starts with", CSS.Descendant("a", Attr("href").StartsWith("x")), "a[href^='x']"},
		{"ends with", CSS.Descendant("a", Attr("href").EndsWith("x")), "a[href$='x']"},
		{"has word", CSS.Descendant("a", Attr("rel").HasWord("nofollow")), "a[rel~='nofollow']"},
		{"quote escaping", CSS.Descendant("a", Attr("title").Is("it's")), `a[title='it\'s']`},
		{"sibling", CSS.Descendant("h2", ID("t")).Sibling("p", FirstOfType()), "h2#t ~ p:first-of-type"},
		{"next sibling", CSS.Descendant("h2", ID("t")).NextSibling("p", Not(LastChild())), "h2#t + p:not(:last-child)"},
		{"page root", CSS.Page("body").Descendant("main", NameAttr().Is("m")), "body main[name='m']"},
		{"raw", CSS.Raw("div > p:hover"), "div > p:hover"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, tt.sel.String())
		})
	}
}

func TestCSSBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		sel  *CSSNode
	}{
		{"no properties", CSS.Descendant("")},
		{"wildcard without properties", CSS.Descendant("*")},
		{"space in tag", CSS.Descendant("my tag", ID("x"))},
		{"space in attribute", CSS.Descendant("a", Attr("data x").IsPresent())},
		{"space in class", CSS.Descendant("a", Classes("a b"))},
		{"space in id", CSS.Descendant("", ID("a b"))},
		{"negative index", CSS.Descendant("li", NthChild(-1))},
		{"error in prior node", CSS.Descendant("").Child("span", ID("x"))},
		{"empty raw", CSS.Raw(" ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sel.Build()
			require.Error(t, err)
			var selErr *Error
			assert.ErrorAs(t, err, &selErr)

			_, err = tt.sel.Locate(false)
			assert.Error(t, err)
		})
	}
}

func TestXPathBuild(t *testing.T) {
	const cardClass = "[contains(concat(' ', normalize-space(@class), ' '), ' card ')]"

	tests := []struct {
		name string
		sel  *XPathNode
		want string
	}{
		{"class", XPath.Descendant("div", Classes("card")), "/descendant::div" + cardClass},
		{"starts with", XPath.Descendant("a", Attr("href").StartsWith("/docs")), "/descendant::a[starts-with(@href,'/docs')]"},
		{"contains", XPath.Descendant("a", Attr("href").Contains("docs")), "/descendant::a[contains(@href,'docs')]"},
		{"ends with", XPath.Descendant("img", Attr("src").EndsWith(".png")), "/descendant::img[substring(@src, string-length(@src) - string-length('.png')+1) = '.png']"},
		{"attribute word", XPath.Descendant("a", Attr("rel").HasWord("next")), "/descendant::a[contains(concat(' ', normalize-space(@rel), ' '), ' next ')]"},
		{"text is", XPath.Child("td", Text().Is("Total")), "/child::td[text()='Total']"},
		{"text word", XPath.Descendant("span", Text().HasWord("sale")), "/descendant::span[contains(concat(' ', normalize-space(text()), ' '), ' sale ')]"},
		{"text starts with", XPath.Descendant("span", Text().StartsWith("A")), "/descendant::span[starts-with(text(),'A')]"},
		{"index at", XPath.Descendant("tr", Index().At(2)), "/descendant::tr[position() = 3]"},
		{"index from", XPath.Descendant("tr", Index().From(1)), "/descendant::tr[position() >= 2]"},
		{"index to", XPath.Descendant("tr", Index().To(0)), "/descendant::tr[position() <= 1]"},
		{"index last", XPath.Descendant("tr", Index().Last()), "/descendant::tr[position() = last()]"},
		{"first", XPath.Descendant("tr", First()), "/descendant::tr[position() = 1]"},
		{"negated last", XPath.Descendant("tr", Not(Index().Last())), "/descendant::tr[not(position() = last())]"},
		{"negated presence", XPath.Descendant("input", Not(Attr("disabled").IsPresent())), "/descendant::input[not(@disabled)]"},
		{"negated classes", XPath.Descendant("li", Not(Classes("a", "b"))),
			"/descendant::li[not(contains(concat(' ', normalize-space(@class), ' '), ' a '))][not(contains(concat(' ', normalize-space(@class), ' '), ' b '))]"},
		{"child chain", XPath.Descendant("table", IDAttr().Is("t")).Child("tr", First()), "/descendant::table[@id='t']/child::tr[position() = 1]"},
		{"parent", XPath.Descendant("span", Text().Is("x")).Parent(""), "/descendant::span[text()='x']/parent::*"},
		{"sibling", XPath.Descendant("dt", Text().Is("k")).Sibling("dd", First()), "/descendant::dt[text()='k']/following-sibling::dd[position() = 1]"},
		{"preceding sibling", XPath.Descendant("dd", IDAttr().Is("v")).PrecedingSibling("dt", First()), "/descendant::dd[@id='v']/preceding-sibling::dt[position() = 1]"},
		{"following", XPath.Descendant("h2", IDAttr().Is("s")).Following("p", First()), "/descendant::h2[@id='s']/following::p[position() = 1]"},
		{"preceding", XPath.Descendant("h2", IDAttr().Is("s")).Preceding("p", First()), "/descendant::h2[@id='s']/preceding::p[position() = 1]"},
		{"root preceding sibling", XPath.PrecedingSibling("li", First()), "/preceding-sibling::li[position() = 1]"},
		{"root following", XPath.Following("li", First()), "/following::li[position() = 1]"},
		{"double quoted literal", XPath.Descendant("a", Attr("title").Is("it's")), `/descendant::a[@title="it's"]`},
		{"concat literal", XPath.Descendant("a", Attr("title").Is(`a'b"c`)), `/descendant::a[@title=concat('a', "'", 'b"c')]`},
		{"type shorthand", XPath.Descendant("input", TypeAttr().Is("text")), "/descendant::input[@type='text']"},
		{"raw", XPath.Raw("//div[@id='x']"), "//div[@id='x']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoPropertiesMessage(t *testing.T) {
	_, err := CSS.Descendant("").Build()
	assert.EqualError(t, err, "selector: No properties were provided. This would have matched with every tag on the page.")
	_, err = XPath.Descendant("*").Build()
	assert.EqualError(t, err, "selector: No properties were provided. This would have matched with every tag on the page.")
}

func TestXPathBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		sel  *XPathNode
	}{
		{"no properties", XPath.Descendant("")},
		{"wildcard without properties", XPath.Descendant("*")},
		{"space in tag", XPath.Descendant("my tag", Attr("x").IsPresent())},
		{"space in attribute", XPath.Descendant("a", Attr("x y").Is("1"))},
		{"negative index", XPath.Descendant("li", Index().At(-2))},
		{"relative boundary", XPath.Descendant("li", First()).Boundary(XPath.Descendant("div", First()))},
		{"relative boundary property", XPath.Descendant("li", Boundary(XPath.Descendant("div", First())))},
		{"nil boundary", XPath.Descendant("li", First()).Boundary(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sel.Build()
			var selErr *Error
			require.ErrorAs(t, err, &selErr)
		})
	}
}

func TestBoundary(t *testing.T) {
	end := XPath.Page("div", IDAttr().Is("end"))

	node := XPath.Descendant("li", Classes("item")).Boundary(end)
	got, err := node.Build()
	require.NoError(t, err)
	assert.Equal(t, "/descendant::li[contains(concat(' ', normalize-space(@class), ' '), ' item ')][following::div[@id='end']]", got)

	prop, err := XPath.Descendant("li", Not(Boundary(end))).Build()
	require.NoError(t, err)
	assert.Equal(t, "/descendant::li[not(following::div[@id='end'])]", prop)
}

func TestLocate(t *testing.T) {
	rel := XPath.Descendant("td", Classes("c"))
	loc, err := rel.Locate(true)
	require.NoError(t, err)
	assert.Equal(t, SyntaxXPath, loc.Syntax)
	assert.Equal(t, "./descendant::td[contains(concat(' ', normalize-space(@class), ' '), ' c ')]", loc.Expression)

	loc, err = rel.Locate(false)
	require.NoError(t, err)
	assert.Equal(t, "/descendant::td[contains(concat(' ', normalize-space(@class), ' '), ' c ')]", loc.Expression)

	abs := XPath.Page("td", First())
	loc, err = abs.Locate(true)
	require.NoError(t, err)
	assert.Equal(t, "/descendant::td[position() = 1]", loc.Expression)

	loc, err = XPath.Raw("//div").Locate(true)
	require.NoError(t, err)
	assert.Equal(t, ".//div", loc.Expression)

	loc, err = XPath.Raw("descendant::div").Locate(true)
	require.NoError(t, err)
	assert.Equal(t, "descendant::div", loc.Expression)

	css, err := CSS.Descendant("td", Classes("c")).Locate(true)
	require.NoError(t, err)
	assert.Equal(t, Locator{Syntax: SyntaxCSS, Expression: "td.c"}, css)
	assert.Equal(t, "css=td.c", css.String())
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, CSS.Page("body").Child("main", ID("m")).IsAbsolute())
	assert.False(t, CSS.Descendant("main", ID("m")).Child("p", FirstChild()).IsAbsolute())
	assert.False(t, CSS.Raw("main").IsAbsolute())
	assert.True(t, XPath.Page("body").Descendant("p", First()).IsAbsolute())
	assert.False(t, XPath.Child("p", First()).Parent("").IsAbsolute())
}

func TestNodesAreImmutable(t *testing.T) {
	base := CSS.Descendant("ul", Classes("menu"))
	first := base.Child("li", FirstChild())
	last := base.Child("li", LastChild())

	assert.Equal(t, "ul.menu > li:first-child", first.String())
	assert.Equal(t, "ul.menu > li:last-child", last.String())
	assert.Equal(t, "ul.menu", base.String())

	props := []CSSProperty{ID("a")}
	node := CSS.Descendant("div", props...)
	props[0] = ID("b")
	assert.Equal(t, "div#a", node.String())
}

func TestNotReturnsCopy(t *testing.T) {
	p := Attr("x").Is("1")
	n := Not(p)

	plain, err := p.build(SyntaxCSS)
	require.NoError(t, err)
	negated, err := n.build(SyntaxCSS)
	require.NoError(t, err)
	twice, err := Not(n).build(SyntaxCSS)
	require.NoError(t, err)

	assert.Equal(t, "[x='1']", plain)
	assert.Equal(t, ":not([x='1'])", negated)
	assert.Equal(t, plain, twice)
}

func TestStringOfInvalidSelector(t *testing.T) {
	assert.Contains(t, CSS.Descendant("").String(), "<invalid css")
	assert.Contains(t, XPath.Descendant("").String(), "<invalid xpath")
}
