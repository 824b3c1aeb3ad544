package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"pageObject/internal/selector"
)

// Selenium drives a browser through a remote WebDriver endpoint.
type Selenium struct {
	cfg Config

	mu     sync.RWMutex
	wd     selenium.WebDriver
	frames []selenium.WebElement
}

func NewSelenium(cfg Config) *Selenium {
	cfg.setDefaults()
	if cfg.SeleniumURL == "" {
		cfg.SeleniumURL = "http://localhost:4444/wd/hub"
	}
	return &Selenium{cfg: cfg}
}

func (s *Selenium) BrowserName() string {
	return s.cfg.Browser
}

func (s *Selenium) driver() (selenium.WebDriver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wd == nil {
		return nil, ErrNotStarted
	}
	return s.wd, nil
}

func (s *Selenium) capabilities() selenium.Capabilities {
	var args []string
	if s.cfg.Headless {
		args = append(args, "--headless")
	}

	switch s.cfg.Browser {
	case BrowserFirefox:
		caps := selenium.Capabilities{"browserName": "firefox"}
		prefs := map[string]interface{}{}
		if s.cfg.DownloadDir != "" {
			prefs["browser.download.folderList"] = 2
			prefs["browser.download.dir"] = s.cfg.DownloadDir
		}
		caps.AddFirefox(firefox.Capabilities{Args: args, Prefs: prefs})
		return caps
	case BrowserSafari:
		return selenium.Capabilities{"browserName": "safari"}
	case BrowserEdge:
		return selenium.Capabilities{"browserName": "MicrosoftEdge"}
	default:
		caps := selenium.Capabilities{"browserName": "chrome"}
		chromeCaps := chrome.Capabilities{
			Args: append(args, "--no-sandbox", "--disable-dev-shm-usage"),
		}
		if s.cfg.DownloadDir != "" {
			chromeCaps.Prefs = map[string]interface{}{
				"download.default_directory": s.cfg.DownloadDir,
			}
		}
		caps.AddChrome(chromeCaps)
		return caps
	}
}

func (s *Selenium) Launch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wd != nil {
		return nil
	}
	if err := ensureDir(s.cfg.DownloadDir); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	wd, err := selenium.NewRemote(s.capabilities(), s.cfg.SeleniumURL)
	if err != nil {
		return fmt.Errorf("failed to create webdriver: %w", err)
	}
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		_ = wd.Quit()
		return fmt.Errorf("reset implicit wait: %w", err)
	}
	s.wd = wd
	return nil
}

func (s *Selenium) Navigate(ctx context.Context, url string) error {
	wd, err := s.driver()
	if err != nil {
		return notStarted("navigate")
	}
	if err := wd.Get(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	s.resetFrames()
	return nil
}

func (s *Selenium) Reload(ctx context.Context) error {
	wd, err := s.driver()
	if err != nil {
		return notStarted("reload")
	}
	if err := wd.Refresh(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	s.resetFrames()
	return nil
}

func (s *Selenium) CurrentURL(ctx context.Context) (string, error) {
	wd, err := s.driver()
	if err != nil {
		return "", err
	}
	return wd.CurrentURL()
}

func (s *Selenium) Title(ctx context.Context) (string, error) {
	wd, err := s.driver()
	if err != nil {
		return "", err
	}
	return wd.Title()
}

func by(loc selector.Locator) string {
	if loc.Syntax == selector.SyntaxXPath {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

func (s *Selenium) FindElement(ctx context.Context, loc selector.Locator) (Element, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}
	we, err := wd.FindElement(by(loc), loc.Expression)
	if err != nil {
		return nil, seleniumErr(err)
	}
	return &seleniumElement{s: s, we: we}, nil
}

func (s *Selenium) FindElements(ctx context.Context, loc selector.Locator) ([]Element, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}
	wes, err := wd.FindElements(by(loc), loc.Expression)
	if err != nil {
		return nil, seleniumErr(err)
	}
	return s.wrap(wes), nil
}

func (s *Selenium) wrap(wes []selenium.WebElement) []Element {
	elements := make([]Element, 0, len(wes))
	for _, we := range wes {
		elements = append(elements, &seleniumElement{s: s, we: we})
	}
	return elements
}

func (s *Selenium) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}

	converted := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*seleniumElement); ok {
			converted[i] = el.we
			continue
		}
		converted[i] = a
	}

	res, err := wd.ExecuteScript(script, converted)
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", seleniumErr(err))
	}
	return res, nil
}

func (s *Selenium) WindowHandle(ctx context.Context) (string, error) {
	wd, err := s.driver()
	if err != nil {
		return "", err
	}
	h, err := wd.CurrentWindowHandle()
	return h, seleniumErr(err)
}

func (s *Selenium) WindowHandles(ctx context.Context) ([]string, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}
	hs, err := wd.WindowHandles()
	return hs, seleniumErr(err)
}

func (s *Selenium) SwitchToWindow(ctx context.Context, handle string) error {
	wd, err := s.driver()
	if err != nil {
		return err
	}
	if err := wd.SwitchWindow(handle); err != nil {
		return fmt.Errorf("switch to window %s: %w", handle, seleniumErr(err))
	}
	s.resetFrames()
	return nil
}

func (s *Selenium) CloseWindow(ctx context.Context) error {
	wd, err := s.driver()
	if err != nil {
		return notStarted("close window")
	}
	h, err := wd.CurrentWindowHandle()
	if err != nil {
		return seleniumErr(err)
	}
	if err := wd.CloseWindow(h); err != nil {
		return fmt.Errorf("close window: %w", seleniumErr(err))
	}
	s.resetFrames()
	return nil
}

func (s *Selenium) SwitchToFrame(ctx context.Context, frame Element) error {
	el, ok := frame.(*seleniumElement)
	if !ok {
		return fmt.Errorf("switch to frame: unexpected element type %T", frame)
	}
	wd, err := s.driver()
	if err != nil {
		return err
	}
	if err := wd.SwitchFrame(el.we); err != nil {
		return fmt.Errorf("switch to frame: %w", seleniumErr(err))
	}
	s.mu.Lock()
	s.frames = append(s.frames, el.we)
	s.mu.Unlock()
	return nil
}

// SwitchToParentFrame returns to the top document and re-enters every frame but the last.
func (s *Selenium) SwitchToParentFrame(ctx context.Context) error {
	wd, err := s.driver()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	path := append([]selenium.WebElement(nil), s.frames...)
	s.mu.Unlock()

	if err := wd.SwitchFrame(nil); err != nil {
		return fmt.Errorf("switch to top frame: %w", seleniumErr(err))
	}
	for _, f := range path {
		if err := wd.SwitchFrame(f); err != nil {
			return fmt.Errorf("switch to parent frame: %w", seleniumErr(err))
		}
	}
	return nil
}

func (s *Selenium) resetFrames() {
	s.mu.Lock()
	s.frames = nil
	s.mu.Unlock()
}

func (s *Selenium) Alert(ctx context.Context) (Alert, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}
	if _, err := wd.AlertText(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAlert, err)
	}
	return &seleniumAlert{wd: wd}, nil
}

func (s *Selenium) Screenshot(ctx context.Context) ([]byte, error) {
	wd, err := s.driver()
	if err != nil {
		return nil, err
	}
	return wd.Screenshot()
}

func (s *Selenium) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wd == nil {
		return nil
	}
	err := s.wd.Quit()
	s.wd = nil
	s.frames = nil
	return err
}

func seleniumErr(err error) error {
	if err == nil {
		return nil
	}

	code := strings.ToLower(err.Error())
	var se *selenium.Error
	if errors.As(err, &se) {
		code = se.Err
	}

	switch {
	case strings.Contains(code, "no such element"):
		return fmt.Errorf("%w: %v", ErrNoSuchElement, err)
	case strings.Contains(code, "stale element"):
		return fmt.Errorf("%w: %v", ErrStaleElement, err)
	case strings.Contains(code, "no such window"):
		return fmt.Errorf("%w: %v", ErrNoSuchWindow, err)
	case strings.Contains(code, "no such alert"):
		return fmt.Errorf("%w: %v", ErrNoAlert, err)
	}
	return err
}

type seleniumAlert struct {
	wd selenium.WebDriver
}

func (a *seleniumAlert) Text(ctx context.Context) (string, error) {
	text, err := a.wd.AlertText()
	return text, seleniumErr(err)
}

func (a *seleniumAlert) Accept(ctx context.Context) error {
	return seleniumErr(a.wd.AcceptAlert())
}

func (a *seleniumAlert) Dismiss(ctx context.Context) error {
	return seleniumErr(a.wd.DismissAlert())
}

func (a *seleniumAlert) SendText(ctx context.Context, text string) error {
	return seleniumErr(a.wd.SetAlertText(text))
}
