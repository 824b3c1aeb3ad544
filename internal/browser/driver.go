// Package browser adapts browser automation libraries to the small driver surface the component
// model needs: locating elements, reading their state, acting on them and switching browsing
// contexts.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pageObject/internal/selector"
)

var (
	ErrNotStarted    = errors.New("browser not started")
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
	ErrNoSuchWindow  = errors.New("no such window")
	ErrNoAlert       = errors.New("no alert is open")
)

type Driver interface {
	Launch(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	FindElement(ctx context.Context, loc selector.Locator) (Element, error)
	FindElements(ctx context.Context, loc selector.Locator) ([]Element, error)
	// ExecuteScript runs a function body that receives args through `arguments`.
	// Elements passed in args are handed to the page as DOM nodes.
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	WindowHandle(ctx context.Context) (string, error)
	WindowHandles(ctx context.Context) ([]string, error)
	SwitchToWindow(ctx context.Context, handle string) error
	CloseWindow(ctx context.Context) error

	SwitchToFrame(ctx context.Context, frame Element) error
	SwitchToParentFrame(ctx context.Context) error

	// Alert returns the open alert or ErrNoAlert.
	Alert(ctx context.Context) (Alert, error)

	Screenshot(ctx context.Context) ([]byte, error)
	BrowserName() string
	Close() error
}

type Element interface {
	FindElement(ctx context.Context, loc selector.Locator) (Element, error)
	FindElements(ctx context.Context, loc selector.Locator) ([]Element, error)

	// TagName returns the lower case tag name or ErrStaleElement once the node left the document.
	TagName(ctx context.Context) (string, error)
	Text(ctx context.Context) (string, error)
	// Attribute reports whether the attribute is present along with its value.
	Attribute(ctx context.Context, name string) (string, bool, error)
	Property(ctx context.Context, name string) (any, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsSelected(ctx context.Context) (bool, error)

	Click(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	ClickAt(ctx context.Context, x, y int) error
	Hover(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	DragTo(ctx context.Context, target Element, offsetX, offsetY int) error
}

type Alert interface {
	Text(ctx context.Context) (string, error)
	Accept(ctx context.Context) error
	Dismiss(ctx context.Context) error
	SendText(ctx context.Context, text string) error
}

const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserEdge    = "edge"
	BrowserSafari  = "safari"
)

const (
	EnginePlaywright = "playwright"
	EngineSelenium   = "selenium"
)

type Config struct {
	Engine          string
	Browser         string
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Display         string
	SeleniumURL     string
	DownloadDir     string
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Browser == "" {
		c.Browser = BrowserChrome
	}
	c.Browser = strings.ToLower(c.Browser)
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.NavigateTimeout == 0 {
		c.NavigateTimeout = 60 * time.Second
	}
}

// New returns an unlaunched driver for the configured engine.
func New(cfg Config) (Driver, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", EnginePlaywright:
		return NewPlaywright(cfg), nil
	case EngineSelenium:
		return NewSelenium(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported browser engine %q", cfg.Engine)
	}
}
