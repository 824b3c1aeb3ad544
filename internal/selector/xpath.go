package selector

import (
	"strings"
	"sync"
)

type axis int

const (
	axisPage axis = iota
	axisDescendant
	axisChild
	axisFollowingSibling
	axisPrecedingSibling
	axisFollowing
	axisPreceding
	axisParent
	axisRaw
	axisBoundary
)

func (a axis) text() string {
	switch a {
	case axisPage, axisDescendant:
		return "/descendant::"
	case axisChild:
		return "/child::"
	case axisFollowingSibling:
		return "/following-sibling::"
	case axisPrecedingSibling:
		return "/preceding-sibling::"
	case axisFollowing:
		return "/following::"
	case axisPreceding:
		return "/preceding::"
	case axisParent:
		return "/parent::"
	default:
		return ""
	}
}

// XPathNode is one location step of an XPath chain.
type XPathNode struct {
	prior    *XPathNode
	axis     axis
	tag      string
	props    []XPathProperty
	raw      string
	boundary *XPathNode

	once  sync.Once
	built string
	err   error
}

type xpathBuilder struct{}

// XPath starts XPath selector chains. An empty tag means "*".
var XPath xpathBuilder

func (xpathBuilder) Descendant(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisDescendant, tag, props)
}

func (xpathBuilder) Child(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisChild, tag, props)
}

func (xpathBuilder) Sibling(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisFollowingSibling, tag, props)
}

func (xpathBuilder) PrecedingSibling(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisPrecedingSibling, tag, props)
}

func (xpathBuilder) Following(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisFollowing, tag, props)
}

func (xpathBuilder) Preceding(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisPreceding, tag, props)
}

func (xpathBuilder) Parent(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisParent, tag, props)
}

// Page starts a chain searched from the document root.
func (xpathBuilder) Page(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(nil, axisPage, tag, props)
}

// Raw wraps a hand written expression. It is not validated.
func (xpathBuilder) Raw(expr string) *XPathNode {
	return &XPathNode{axis: axisRaw, raw: expr}
}

func newXPath(prior *XPathNode, a axis, tag string, props []XPathProperty) *XPathNode {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = "*"
	}
	return &XPathNode{
		prior: prior,
		axis:  a,
		tag:   tag,
		props: append([]XPathProperty(nil), props...),
	}
}

func (n *XPathNode) Descendant(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisDescendant, tag, props)
}

func (n *XPathNode) Child(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisChild, tag, props)
}

func (n *XPathNode) Sibling(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisFollowingSibling, tag, props)
}

func (n *XPathNode) PrecedingSibling(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisPrecedingSibling, tag, props)
}

func (n *XPathNode) Following(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisFollowing, tag, props)
}

func (n *XPathNode) Preceding(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisPreceding, tag, props)
}

func (n *XPathNode) Parent(tag string, props ...XPathProperty) *XPathNode {
	return newXPath(n, axisParent, tag, props)
}

// Boundary limits the matches of n to elements placed before the page-rooted element x.
func (n *XPathNode) Boundary(x *XPathNode) *XPathNode {
	return &XPathNode{prior: n, axis: axisBoundary, boundary: x}
}

func (n *XPathNode) Syntax() Syntax { return SyntaxXPath }

func (n *XPathNode) IsAbsolute() bool {
	root := n
	for root.prior != nil {
		root = root.prior
	}
	return root.axis == axisPage
}

func (n *XPathNode) Build() (string, error) {
	n.once.Do(func() {
		n.built, n.err = n.render()
	})
	return n.built, n.err
}

func (n *XPathNode) render() (string, error) {
	var b strings.Builder
	if n.prior != nil {
		prior, err := n.prior.Build()
		if err != nil {
			return "", err
		}
		b.WriteString(prior)
	}

	switch n.axis {
	case axisRaw:
		if strings.TrimSpace(n.raw) == "" {
			return "", errorf("raw xpath is empty")
		}
		b.WriteString(n.raw)
		return b.String(), nil
	case axisBoundary:
		expr, err := boundaryExpr(n.boundary)
		if err != nil {
			return "", err
		}
		b.WriteString(xpathPredicate(expr, false))
		return b.String(), nil
	case axisParent:
	default:
		if err := n.validate(); err != nil {
			return "", err
		}
	}

	b.WriteString(n.axis.text())
	b.WriteString(n.tag)
	for _, p := range n.props {
		s, err := p.build(SyntaxXPath)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (n *XPathNode) validate() error {
	if strings.Contains(n.tag, " ") {
		return errorf("tag %q contains a space character", n.tag)
	}
	if n.tag == "*" && len(n.props) == 0 {
		return errNoProperties
	}
	return nil
}

// Locate prefixes relative expressions with "." so they are evaluated from the context element.
func (n *XPathNode) Locate(relative bool) (Locator, error) {
	s, err := n.Build()
	if err != nil {
		return Locator{}, err
	}
	if relative && !n.IsAbsolute() && strings.HasPrefix(s, "/") {
		s = "." + s
	}
	return Locator{Syntax: SyntaxXPath, Expression: s}, nil
}

func (n *XPathNode) String() string {
	return stringOf(n)
}
