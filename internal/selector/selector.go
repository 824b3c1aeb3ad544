// Package selector builds CSS and XPath locator expressions from immutable node chains.
//
// A chain starts at one of the builders (CSS or XPath) and every combinator method returns
// a new node pointing at its prior node, so partially built selectors can be shared freely.
package selector

import (
	"fmt"
	"strings"
)

type Syntax int

const (
	SyntaxCSS Syntax = iota
	SyntaxXPath
)

func (s Syntax) String() string {
	switch s {
	case SyntaxCSS:
		return "css"
	case SyntaxXPath:
		return "xpath"
	default:
		return "unknown"
	}
}

// Locator is the driver-facing form of a selector.
type Locator struct {
	Syntax     Syntax
	Expression string
}

func (l Locator) String() string {
	return l.Syntax.String() + "=" + l.Expression
}

// Selector is implemented by *CSSNode and *XPathNode.
type Selector interface {
	Build() (string, error)
	// Locate returns the locator to search with. relative is true when the search runs
	// under an already resolved parent element.
	Locate(relative bool) (Locator, error)
	IsAbsolute() bool
	Syntax() Syntax
	String() string
}

// Error reports a selector that cannot be rendered.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "selector: " + e.Msg
}

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

var errNoProperties = errorf("No properties were provided. This would have matched with every tag on the page.")

func stringOf(s Selector) string {
	v, err := s.Build()
	if err != nil {
		return "<invalid " + s.Syntax().String() + ": " + err.Error() + ">"
	}
	return v
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}

func cssString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

func xpathPredicate(expr string, negate bool) string {
	if negate {
		return "[not(" + expr + ")]"
	}
	return "[" + expr + "]"
}

func cssNot(expr string, negate bool) string {
	if negate {
		return ":not(" + expr + ")"
	}
	return expr
}
