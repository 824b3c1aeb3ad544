package browsertest

import (
	"context"
	"fmt"
	"sync"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
)

// Node is a fake element.
type Node struct {
	mu       sync.Mutex
	tag      string
	text     string
	attrs    map[string]string
	props    map[string]any
	children map[string][]*Node
	hidden   bool
	disabled bool
	selected bool
	detached bool

	clicks       int
	doubleClicks int
	clickedAt    [][2]int
	hovered      int
	draggedTo    *Node
	dragOffset   [2]int

	// Content is the document shown by a frame element.
	Content *Document
	// OnClick runs after every click.
	OnClick func()
}

var _ browser.Element = (*Node)(nil)

// NewNode builds a node from a tag, its text and attribute name/value pairs.
func NewNode(tag, text string, attrs ...string) *Node {
	n := &Node{
		tag:      tag,
		text:     text,
		attrs:    map[string]string{},
		props:    map[string]any{},
		children: map[string][]*Node{},
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.attrs[attrs[i]] = attrs[i+1]
	}
	if v, ok := n.attrs["value"]; ok {
		n.props["value"] = v
	}
	return n
}

// Add registers the nodes returned for a locator expression searched under n.
func (n *Node) Add(expr string, nodes ...*Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[expr] = append(n.children[expr], nodes...)
	return n
}

func (n *Node) SetText(text string) {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()
}

func (n *Node) SetAttr(name, value string) {
	n.mu.Lock()
	n.attrs[name] = value
	n.mu.Unlock()
}

func (n *Node) RemoveAttr(name string) {
	n.mu.Lock()
	delete(n.attrs, name)
	n.mu.Unlock()
}

func (n *Node) SetProp(name string, value any) {
	n.mu.Lock()
	n.props[name] = value
	n.mu.Unlock()
}

func (n *Node) Prop(name string) any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.props[name]
}

func (n *Node) SetHidden(v bool) {
	n.mu.Lock()
	n.hidden = v
	n.mu.Unlock()
}

func (n *Node) SetDisabled(v bool) {
	n.mu.Lock()
	n.disabled = v
	n.mu.Unlock()
}

func (n *Node) SetSelected(v bool) {
	n.mu.Lock()
	n.selected = v
	n.mu.Unlock()
}

// Detach makes every later call on n fail with browser.ErrStaleElement.
func (n *Node) Detach() {
	n.mu.Lock()
	n.detached = true
	n.mu.Unlock()
}

func (n *Node) Clicks() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.clicks
}

func (n *Node) DoubleClicks() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.doubleClicks
}

func (n *Node) ClickedAt() [][2]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][2]int(nil), n.clickedAt...)
}

func (n *Node) Hovered() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hovered
}

func (n *Node) DraggedTo() (*Node, [2]int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.draggedTo, n.dragOffset
}

func (n *Node) Value() string {
	v, _ := n.Prop("value").(string)
	return v
}

func (n *Node) stale() error {
	if n.detached {
		return browser.ErrStaleElement
	}
	return nil
}

func (n *Node) FindElement(ctx context.Context, loc selector.Locator) (browser.Element, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return nil, err
	}
	nodes := n.children[loc.Expression]
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, loc)
	}
	return nodes[0], nil
}

func (n *Node) FindElements(ctx context.Context, loc selector.Locator) ([]browser.Element, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return nil, err
	}
	return toElements(n.children[loc.Expression]), nil
}

func toElements(nodes []*Node) []browser.Element {
	elements := make([]browser.Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, node)
	}
	return elements
}

func (n *Node) TagName(ctx context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return "", err
	}
	return n.tag, nil
}

func (n *Node) Text(ctx context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return "", err
	}
	return n.text, nil
}

func (n *Node) Attribute(ctx context.Context, name string) (string, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return "", false, err
	}
	v, ok := n.attrs[name]
	return v, ok, nil
}

func (n *Node) Property(ctx context.Context, name string) (any, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.stale(); err != nil {
		return nil, err
	}
	return n.props[name], nil
}

func (n *Node) IsDisplayed(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.hidden, n.stale()
}

func (n *Node) IsEnabled(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.disabled, n.stale()
}

func (n *Node) IsSelected(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selected, n.stale()
}

func (n *Node) Click(ctx context.Context) error {
	n.mu.Lock()
	if err := n.stale(); err != nil {
		n.mu.Unlock()
		return err
	}
	n.clicks++
	onClick := n.OnClick
	n.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (n *Node) DoubleClick(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.doubleClicks++
	return n.stale()
}

func (n *Node) ClickAt(ctx context.Context, x, y int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clickedAt = append(n.clickedAt, [2]int{x, y})
	return n.stale()
}

func (n *Node) Hover(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hovered++
	return n.stale()
}

func (n *Node) Clear(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props["value"] = ""
	return n.stale()
}

func (n *Node) SendKeys(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, _ := n.props["value"].(string)
	n.props["value"] = v + text
	return n.stale()
}

func (n *Node) DragTo(ctx context.Context, target browser.Element, offsetX, offsetY int) error {
	dst, ok := target.(*Node)
	if !ok {
		return fmt.Errorf("unexpected target %T", target)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.draggedTo = dst
	n.dragOffset = [2]int{offsetX, offsetY}
	return n.stale()
}
