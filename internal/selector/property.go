package selector

import (
	"regexp"
	"strconv"
	"strings"
)

// Property is a single predicate fragment of a node.
type Property interface {
	build(s Syntax) (string, error)
}

// CSSProperty can be attached to CSS nodes.
type CSSProperty interface {
	Property
	css()
}

// XPathProperty can be attached to XPath nodes.
type XPathProperty interface {
	Property
	xpath()
}

type negatable[P any] interface {
	negated() P
}

// Not returns a negated copy of p.
func Not[P negatable[P]](p P) P {
	return p.negated()
}

type matchOp int

const (
	opIs matchOp = iota
	opPresent
	opContains
	opStartsWith
	opEndsWith
	opHasWord
)

// xpathMatch renders the XPath condition of subject against value.
func xpathMatch(subject string, op matchOp, value string) string {
	lit := xpathLiteral(value)
	switch op {
	case opPresent:
		return subject
	case opContains:
		return "contains(" + subject + "," + lit + ")"
	case opStartsWith:
		return "starts-with(" + subject + "," + lit + ")"
	case opEndsWith:
		return "substring(" + subject + ", string-length(" + subject + ") - string-length(" + lit + ")+1) = " + lit
	case opHasWord:
		return "contains(concat(' ', normalize-space(" + subject + "), ' '), " + xpathLiteral(" "+value+" ") + ")"
	default:
		return subject + "=" + lit
	}
}

var cssOperators = map[matchOp]string{
	opIs:         "=",
	opContains:   "*=",
	opStartsWith: "^=",
	opEndsWith:   "$=",
	opHasWord:    "~=",
}

// AttrCondition selects the comparison applied to an attribute.
type AttrCondition struct {
	name string
}

// Attr starts an attribute property for the named attribute.
func Attr(name string) AttrCondition {
	return AttrCondition{name: name}
}

func IDAttr() AttrCondition   { return Attr("id") }
func NameAttr() AttrCondition { return Attr("name") }
func TypeAttr() AttrCondition { return Attr("type") }

func (a AttrCondition) Is(v string) AttrProperty { return AttrProperty{name: a.name, op: opIs, value: v} }
func (a AttrCondition) IsPresent() AttrProperty  { return AttrProperty{name: a.name, op: opPresent} }
func (a AttrCondition) Contains(v string) AttrProperty {
	return AttrProperty{name: a.name, op: opContains, value: v}
}
func (a AttrCondition) StartsWith(v string) AttrProperty {
	return AttrProperty{name: a.name, op: opStartsWith, value: v}
}
func (a AttrCondition) EndsWith(v string) AttrProperty {
	return AttrProperty{name: a.name, op: opEndsWith, value: v}
}

// HasWord matches when v is one of the whitespace separated words of the attribute.
func (a AttrCondition) HasWord(v string) AttrProperty {
	return AttrProperty{name: a.name, op: opHasWord, value: v}
}

type AttrProperty struct {
	name   string
	op     matchOp
	value  string
	negate bool
}

func (AttrProperty) css()   {}
func (AttrProperty) xpath() {}

func (p AttrProperty) negated() AttrProperty {
	p.negate = !p.negate
	return p
}

func (p AttrProperty) build(s Syntax) (string, error) {
	if strings.Contains(p.name, " ") {
		return "", errorf("attribute %q contains a space character", p.name)
	}
	if p.name == "" {
		return "", errorf("attribute name is empty")
	}

	if s == SyntaxXPath {
		return xpathPredicate(xpathMatch("@"+p.name, p.op, p.value), p.negate), nil
	}

	expr := "[" + p.name
	if p.op != opPresent {
		expr += cssOperators[p.op] + cssString(p.value)
	}
	expr += "]"
	return cssNot(expr, p.negate), nil
}

// ClassesProperty matches elements carrying every listed CSS class.
type ClassesProperty struct {
	classes []string
	negate  bool
}

// Classes matches elements carrying every class. Surrounding whitespace is trimmed.
func Classes(classes ...string) ClassesProperty {
	trimmed := make([]string, len(classes))
	for i, c := range classes {
		trimmed[i] = strings.TrimSpace(c)
	}
	return ClassesProperty{classes: trimmed}
}

func (ClassesProperty) css()   {}
func (ClassesProperty) xpath() {}

func (p ClassesProperty) negated() ClassesProperty {
	p.negate = !p.negate
	return p
}

func (p ClassesProperty) build(s Syntax) (string, error) {
	if len(p.classes) == 0 {
		return "", errorf("no css classes were provided")
	}
	for _, c := range p.classes {
		if c == "" || strings.Contains(c, " ") {
			return "", errorf("css class %q is empty or contains a space character", c)
		}
	}

	if s == SyntaxXPath {
		var b strings.Builder
		for _, c := range p.classes {
			b.WriteString(xpathPredicate(xpathMatch("@class", opHasWord, c), p.negate))
		}
		return b.String(), nil
	}
	return cssNot("."+strings.Join(p.classes, "."), p.negate), nil
}

// TagProperty is a CSS type selector usable inside :not().
type TagProperty struct {
	tag    string
	negate bool
}

func Tag(tag string) TagProperty {
	return TagProperty{tag: strings.TrimSpace(tag)}
}

func (TagProperty) css() {}

func (p TagProperty) negated() TagProperty {
	p.negate = !p.negate
	return p
}

func (p TagProperty) build(Syntax) (string, error) {
	if p.tag == "" || strings.Contains(p.tag, " ") {
		return "", errorf("tag %q is empty or contains a space character", p.tag)
	}
	return cssNot(p.tag, p.negate), nil
}

type IDProperty struct {
	id     string
	negate bool
}

// ID matches the element id with the CSS # syntax.
func ID(id string) IDProperty {
	return IDProperty{id: id}
}

func (IDProperty) css() {}

func (p IDProperty) negated() IDProperty {
	p.negate = !p.negate
	return p
}

func (p IDProperty) build(Syntax) (string, error) {
	if p.id == "" || strings.Contains(p.id, " ") {
		return "", errorf("id %q is empty or contains a space character", p.id)
	}
	return cssNot("#"+p.id, p.negate), nil
}

// TextCondition compares the text node children of an element.
type TextCondition struct{}

func Text() TextCondition { return TextCondition{} }

func (TextCondition) Is(v string) TextProperty         { return TextProperty{op: opIs, value: v} }
func (TextCondition) Contains(v string) TextProperty   { return TextProperty{op: opContains, value: v} }
func (TextCondition) StartsWith(v string) TextProperty { return TextProperty{op: opStartsWith, value: v} }
func (TextCondition) EndsWith(v string) TextProperty   { return TextProperty{op: opEndsWith, value: v} }
func (TextCondition) HasWord(v string) TextProperty    { return TextProperty{op: opHasWord, value: v} }

type TextProperty struct {
	op     matchOp
	value  string
	negate bool
}

func (TextProperty) xpath() {}

func (p TextProperty) negated() TextProperty {
	p.negate = !p.negate
	return p
}

func (p TextProperty) build(Syntax) (string, error) {
	return xpathPredicate(xpathMatch("text()", p.op, p.value), p.negate), nil
}

type indexOp int

const (
	indexAt indexOp = iota
	indexFrom
	indexTo
	indexLast
)

// IndexCondition filters by position. Indexes are zero based.
type IndexCondition struct{}

func Index() IndexCondition { return IndexCondition{} }

func (IndexCondition) At(i int) IndexProperty   { return IndexProperty{op: indexAt, index: i} }
func (IndexCondition) From(i int) IndexProperty { return IndexProperty{op: indexFrom, index: i} }
func (IndexCondition) To(i int) IndexProperty   { return IndexProperty{op: indexTo, index: i} }
func (IndexCondition) Last() IndexProperty      { return IndexProperty{op: indexLast} }

// First is shorthand for Index().At(0).
func First() IndexProperty { return Index().At(0) }

type IndexProperty struct {
	op     indexOp
	index  int
	negate bool
}

func (IndexProperty) xpath() {}

func (p IndexProperty) negated() IndexProperty {
	p.negate = !p.negate
	return p
}

func (p IndexProperty) build(Syntax) (string, error) {
	if p.index < 0 {
		return "", errorf("index %d is negative", p.index)
	}
	n := strconv.Itoa(p.index + 1)

	var expr string
	switch p.op {
	case indexFrom:
		expr = "position() >= " + n
	case indexTo:
		expr = "position() <= " + n
	case indexLast:
		expr = "position() = last()"
	default:
		expr = "position() = " + n
	}
	return xpathPredicate(expr, p.negate), nil
}

// PseudoClassProperty is a structural CSS pseudo-class.
type PseudoClassProperty struct {
	name   string
	index  int
	hasArg bool
	negate bool
}

func nth(name string, i int) PseudoClassProperty {
	return PseudoClassProperty{name: name, index: i, hasArg: true}
}

func NthChild(i int) PseudoClassProperty      { return nth("nth-child", i) }
func NthLastChild(i int) PseudoClassProperty  { return nth("nth-last-child", i) }
func NthOfType(i int) PseudoClassProperty     { return nth("nth-of-type", i) }
func NthLastOfType(i int) PseudoClassProperty { return nth("nth-last-of-type", i) }
func FirstChild() PseudoClassProperty         { return PseudoClassProperty{name: "first-child"} }
func LastChild() PseudoClassProperty          { return PseudoClassProperty{name: "last-child"} }
func FirstOfType() PseudoClassProperty        { return PseudoClassProperty{name: "first-of-type"} }
func LastOfType() PseudoClassProperty         { return PseudoClassProperty{name: "last-of-type"} }

func (PseudoClassProperty) css() {}

func (p PseudoClassProperty) negated() PseudoClassProperty {
	p.negate = !p.negate
	return p
}

func (p PseudoClassProperty) build(Syntax) (string, error) {
	expr := ":" + p.name
	if p.hasArg {
		if p.index < 0 {
			return "", errorf("index %d is negative", p.index)
		}
		expr += "(" + strconv.Itoa(p.index+1) + ")"
	}
	return cssNot(expr, p.negate), nil
}

var leadingAxis = regexp.MustCompile(`^/[a-z-]+`)

// BoundaryProperty keeps only elements located before the boundary element.
type BoundaryProperty struct {
	boundary *XPathNode
	negate   bool
}

// Boundary requires a page-rooted XPath.
func Boundary(x *XPathNode) BoundaryProperty {
	return BoundaryProperty{boundary: x}
}

func (BoundaryProperty) xpath() {}

func (p BoundaryProperty) negated() BoundaryProperty {
	p.negate = !p.negate
	return p
}

func (p BoundaryProperty) build(Syntax) (string, error) {
	expr, err := boundaryExpr(p.boundary)
	if err != nil {
		return "", err
	}
	return xpathPredicate(expr, p.negate), nil
}

func boundaryExpr(x *XPathNode) (string, error) {
	if x == nil || !x.IsAbsolute() {
		return "", errorf("xpath for boundary must be based on page")
	}
	s, err := x.Build()
	if err != nil {
		return "", err
	}
	return leadingAxis.ReplaceAllString(s, "following"), nil
}
