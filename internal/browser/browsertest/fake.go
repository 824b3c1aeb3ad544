// Package browsertest provides an in-memory browser.Driver for tests.
//
// Documents do not evaluate selectors. Tests register the exact locator expressions a component
// is expected to search with, which doubles as a check of the selector a component builds.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
)

// Document is the content of a window or frame.
type Document struct {
	mu         sync.Mutex
	Title      string
	URL        string
	ReadyState string
	matches    map[string][]*Node
}

func NewDocument(title string) *Document {
	return &Document{Title: title, ReadyState: "complete", matches: map[string][]*Node{}}
}

// Add registers the nodes returned for a locator expression searched from the document.
func (d *Document) Add(expr string, nodes ...*Node) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.matches[expr] = append(d.matches[expr], nodes...)
	return d
}

func (d *Document) SetReadyState(state string) {
	d.mu.Lock()
	d.ReadyState = state
	d.mu.Unlock()
}

// Set replaces the nodes returned for a locator expression.
func (d *Document) Set(expr string, nodes ...*Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.matches[expr] = nodes
}

func (d *Document) find(expr string) []*Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Node(nil), d.matches[expr]...)
}

type window struct {
	handle string
	doc    *Document
}

type ScriptCall struct {
	Script string
	Args   []any
}

type scriptHandler struct {
	contains string
	fn       func(args []any) (any, error)
}

type Driver struct {
	mu        sync.Mutex
	name      string
	windows   []*window
	current   *window
	frames    []*Document
	alerts    []*Alert
	handlers  []scriptHandler
	scripts   []ScriptCall
	navigated []string
	launched  bool
	closed    bool

	// switchLag makes WindowHandle report the previous window for that many calls after a switch.
	switchLag int
	lagLeft   int
	lagFrom   *window
}

var _ browser.Driver = (*Driver)(nil)

// New returns a driver with one window named "main".
func New() *Driver {
	main := &window{handle: "main", doc: NewDocument("main")}
	return &Driver{name: browser.BrowserChrome, windows: []*window{main}, current: main}
}

func (d *Driver) SetBrowserName(name string) {
	d.mu.Lock()
	d.name = name
	d.mu.Unlock()
}

// Doc returns the document lookups currently run against.
func (d *Driver) Doc() *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.docLocked()
}

func (d *Driver) docLocked() *Document {
	if len(d.frames) > 0 {
		return d.frames[len(d.frames)-1]
	}
	if d.current == nil {
		return NewDocument("")
	}
	return d.current.doc
}

// OpenWindow simulates a popup. It does not switch to the new window.
func (d *Driver) OpenWindow(handle string) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc := NewDocument(handle)
	d.windows = append(d.windows, &window{handle: handle, doc: doc})
	return doc
}

// QueueAlert opens an alert with the given message.
func (d *Driver) QueueAlert(text string) *Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := &Alert{d: d, message: text}
	d.alerts = append(d.alerts, a)
	return a
}

// HandleScript answers scripts containing substr.
func (d *Driver) HandleScript(substr string, fn func(args []any) (any, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, scriptHandler{contains: substr, fn: fn})
}

func (d *Driver) Scripts() []ScriptCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ScriptCall(nil), d.scripts...)
}

func (d *Driver) Navigated() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigated...)
}

func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) Launched() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.launched
}

func (d *Driver) FrameDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *Driver) Launch(ctx context.Context) error {
	d.mu.Lock()
	d.launched = true
	d.mu.Unlock()
	return nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	d.frames = nil
	if d.current != nil {
		d.current.doc.URL = url
	}
	return nil
}

func (d *Driver) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = nil
	return nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	return d.Doc().URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	return d.Doc().Title, nil
}

func (d *Driver) FindElement(ctx context.Context, loc selector.Locator) (browser.Element, error) {
	nodes := d.Doc().find(loc.Expression)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, loc)
	}
	return nodes[0], nil
}

func (d *Driver) FindElements(ctx context.Context, loc selector.Locator) ([]browser.Element, error) {
	return toElements(d.Doc().find(loc.Expression)), nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	d.mu.Lock()
	d.scripts = append(d.scripts, ScriptCall{Script: script, Args: args})
	handlers := append([]scriptHandler(nil), d.handlers...)
	doc := d.docLocked()
	d.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if strings.Contains(script, handlers[i].contains) {
			return handlers[i].fn(args)
		}
	}
	if strings.Contains(script, "document.readyState") {
		doc.mu.Lock()
		defer doc.mu.Unlock()
		return doc.ReadyState, nil
	}
	return nil, nil
}

// SetSwitchLag delays window switches as seen by WindowHandle.
func (d *Driver) SetSwitchLag(calls int) {
	d.mu.Lock()
	d.switchLag = calls
	d.mu.Unlock()
}

func (d *Driver) WindowHandle(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lagLeft > 0 {
		d.lagLeft--
		if d.lagFrom == nil {
			return "", browser.ErrNoSuchWindow
		}
		return d.lagFrom.handle, nil
	}
	if d.current == nil {
		return "", browser.ErrNoSuchWindow
	}
	return d.current.handle, nil
}

func (d *Driver) WindowHandles(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	handles := make([]string, 0, len(d.windows))
	for _, w := range d.windows {
		handles = append(handles, w.handle)
	}
	return handles, nil
}

func (d *Driver) SwitchToWindow(ctx context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w.handle == handle {
			if d.switchLag > 0 {
				d.lagFrom, d.lagLeft = d.current, d.switchLag
			}
			d.current = w
			d.frames = nil
			return nil
		}
	}
	return fmt.Errorf("%w: %s", browser.ErrNoSuchWindow, handle)
}

func (d *Driver) CloseWindow(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return browser.ErrNoSuchWindow
	}
	for i, w := range d.windows {
		if w == d.current {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			break
		}
	}
	d.current = nil
	d.frames = nil
	return nil
}

func (d *Driver) SwitchToFrame(ctx context.Context, frame browser.Element) error {
	n, ok := frame.(*Node)
	if !ok || n.Content == nil {
		return fmt.Errorf("element is not a frame")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, n.Content)
	return nil
}

func (d *Driver) SwitchToParentFrame(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) > 0 {
		d.frames = d.frames[:len(d.frames)-1]
	}
	return nil
}

func (d *Driver) Alert(ctx context.Context) (browser.Alert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.alerts) == 0 {
		return nil, browser.ErrNoAlert
	}
	return d.alerts[0], nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (d *Driver) BrowserName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

func (d *Driver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

type Alert struct {
	d         *Driver
	message   string
	mu        sync.Mutex
	accepted  bool
	dismissed bool
	prompt    string
}

func (a *Alert) close() {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	for i, open := range a.d.alerts {
		if open == a {
			a.d.alerts = append(a.d.alerts[:i], a.d.alerts[i+1:]...)
			return
		}
	}
}

func (a *Alert) Text(ctx context.Context) (string, error) {
	return a.message, nil
}

func (a *Alert) Accept(ctx context.Context) error {
	a.mu.Lock()
	a.accepted = true
	a.mu.Unlock()
	a.close()
	return nil
}

func (a *Alert) Dismiss(ctx context.Context) error {
	a.mu.Lock()
	a.dismissed = true
	a.mu.Unlock()
	a.close()
	return nil
}

func (a *Alert) SendText(ctx context.Context, text string) error {
	a.mu.Lock()
	a.prompt = text
	a.mu.Unlock()
	return nil
}

func (a *Alert) Accepted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accepted
}

func (a *Alert) Dismissed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dismissed
}

func (a *Alert) Prompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prompt
}
