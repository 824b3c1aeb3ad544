package component

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"pageObject/internal/browser"
)

type InteractionType string

const (
	InteractionStart      InteractionType = "start"
	InteractionEnd        InteractionType = "end"
	InteractionError      InteractionType = "error"
	InteractionClick      InteractionType = "click"
	InteractionSelect     InteractionType = "select"
	InteractionTextEntry  InteractionType = "text_entry"
	InteractionNavigateTo InteractionType = "navigate_to"
)

type Interaction struct {
	Type       InteractionType
	Component  string
	Selector   string
	Text       string
	Screenshot string
	At         time.Time
}

// Recorder receives every user-visible interaction of a session.
type Recorder interface {
	Record(ctx context.Context, in Interaction)
}

// Session owns the driver shared by every page and component of a test.
// The driver is launched on first use.
type Session struct {
	driver        browser.Driver
	log           *zap.Logger
	timeout       time.Duration
	recorder      Recorder
	screenshotDir string
	downloadDir   string

	mu      sync.Mutex
	started bool
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithTimeout sets how long components wait for elements and states. Negative values mean zero.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d < 0 {
			d = 0
		}
		s.timeout = d
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func WithScreenshotDir(dir string) Option {
	return func(s *Session) { s.screenshotDir = dir }
}

func WithDownloadDir(dir string) Option {
	return func(s *Session) { s.downloadDir = dir }
}

func NewSession(driver browser.Driver, opts ...Option) *Session {
	s := &Session{
		driver:  driver,
		log:     zap.NewNop(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Timeout() time.Duration { return s.timeout }

func (s *Session) Logger() *zap.Logger { return s.log }

func (s *Session) DownloadDir() string { return s.downloadDir }

// Driver returns the launched driver.
func (s *Session) Driver(ctx context.Context) (browser.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return s.driver, nil
	}
	if err := s.driver.Launch(ctx); err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	s.started = true
	s.log.Info("browser launched", zap.String("browser", s.driver.BrowserName()))
	return s.driver, nil
}

// Page returns the document scope of the current window or frame.
func (s *Session) Page() *Page {
	return &Page{session: s}
}

func (s *Session) Open(ctx context.Context, url string) error {
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}
	s.log.Debug("open", zap.String("url", url))
	if err := d.Navigate(ctx, url); err != nil {
		return err
	}
	s.record(ctx, Interaction{Type: InteractionNavigateTo, Text: url})
	return nil
}

func (s *Session) OpenBlank(ctx context.Context) error {
	return s.Open(ctx, "about:blank")
}

// Quit closes the browser. The session can be used again and relaunches it.
func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	return s.driver.Close()
}

// ExecuteScript runs script with components in args replaced by their elements.
func (s *Session) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	converted := make([]any, len(args))
	for i, a := range args {
		if e, ok := a.(Element); ok {
			el, err := e.base().existingElement(ctx)
			if err != nil {
				return nil, err
			}
			converted[i] = el
			continue
		}
		converted[i] = a
	}

	d, err := s.Driver(ctx)
	if err != nil {
		return nil, err
	}
	return d.ExecuteScript(ctx, script, converted...)
}

// Screenshot saves a PNG named after name into the screenshot directory and returns its path.
func (s *Session) Screenshot(ctx context.Context, name string) (string, error) {
	d, err := s.Driver(ctx)
	if err != nil {
		return "", err
	}
	png, err := d.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("take screenshot: %w", err)
	}

	dir := s.screenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

func (s *Session) record(ctx context.Context, in Interaction) {
	if s.recorder == nil {
		return
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}
	s.recorder.Record(ctx, in)
}
