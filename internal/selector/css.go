package selector

import (
	"strings"
	"sync"
)

type cssCombinator int

const (
	cssPage cssCombinator = iota
	cssDescendant
	cssChild
	cssSibling
	cssNextSibling
	cssRaw
)

func (c cssCombinator) text() string {
	switch c {
	case cssDescendant:
		return " "
	case cssChild:
		return " > "
	case cssSibling:
		return " ~ "
	case cssNextSibling:
		return " + "
	default:
		return ""
	}
}

// CSSNode is one step of a CSS selector chain.
type CSSNode struct {
	prior *CSSNode
	comb  cssCombinator
	tag   string
	props []CSSProperty
	raw   string

	once  sync.Once
	built string
	err   error
}

type cssBuilder struct{}

// CSS starts CSS selector chains.
var CSS cssBuilder

// Descendant starts a chain searched under the owning component.
// An empty tag leaves the element type unconstrained.
func (cssBuilder) Descendant(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(nil, cssDescendant, tag, props)
}

// Page starts a chain searched from the document root.
func (cssBuilder) Page(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(nil, cssPage, tag, props)
}

// Raw wraps a hand written selector. It is not validated.
func (cssBuilder) Raw(expr string) *CSSNode {
	return &CSSNode{comb: cssRaw, raw: expr}
}

func newCSS(prior *CSSNode, comb cssCombinator, tag string, props []CSSProperty) *CSSNode {
	return &CSSNode{
		prior: prior,
		comb:  comb,
		tag:   strings.TrimSpace(tag),
		props: append([]CSSProperty(nil), props...),
	}
}

func (n *CSSNode) Descendant(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(n, cssDescendant, tag, props)
}

func (n *CSSNode) Child(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(n, cssChild, tag, props)
}

// Sibling matches any following sibling (~).
func (n *CSSNode) Sibling(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(n, cssSibling, tag, props)
}

// NextSibling matches the immediately following sibling (+).
func (n *CSSNode) NextSibling(tag string, props ...CSSProperty) *CSSNode {
	return newCSS(n, cssNextSibling, tag, props)
}

func (n *CSSNode) Syntax() Syntax { return SyntaxCSS }

func (n *CSSNode) IsAbsolute() bool {
	root := n
	for root.prior != nil {
		root = root.prior
	}
	return root.comb == cssPage
}

func (n *CSSNode) Build() (string, error) {
	n.once.Do(func() {
		n.built, n.err = n.render()
	})
	return n.built, n.err
}

func (n *CSSNode) render() (string, error) {
	if n.comb == cssRaw {
		if strings.TrimSpace(n.raw) == "" {
			return "", errorf("raw css selector is empty")
		}
		return n.raw, nil
	}
	if err := n.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	if n.prior != nil {
		prior, err := n.prior.Build()
		if err != nil {
			return "", err
		}
		b.WriteString(prior)
		b.WriteString(n.comb.text())
	}
	b.WriteString(n.tag)
	for _, p := range n.props {
		s, err := p.build(SyntaxCSS)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (n *CSSNode) validate() error {
	if strings.Contains(n.tag, " ") {
		return errorf("tag %q contains a space character", n.tag)
	}
	if (n.tag == "" || n.tag == "*") && len(n.props) == 0 {
		return errNoProperties
	}
	return nil
}

func (n *CSSNode) Locate(bool) (Locator, error) {
	s, err := n.Build()
	if err != nil {
		return Locator{}, err
	}
	return Locator{Syntax: SyntaxCSS, Expression: s}, nil
}

func (n *CSSNode) String() string {
	return stringOf(n)
}
