package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"pageObject/internal/selector"
)

// scriptWrapper runs a WebDriver style function body inside Evaluate.
const scriptWrapper = `([body, args]) => new Function(body).apply(null, args)`

// Playwright drives a browser through playwright-go. Every page of the context is a window.
type Playwright struct {
	cfg Config

	mu      sync.RWMutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	frame   playwright.Frame
	handles map[playwright.Page]string
	nextID  int

	dialogs chan *pwAlert
}

func NewPlaywright(cfg Config) *Playwright {
	cfg.setDefaults()
	return &Playwright{
		cfg:     cfg,
		handles: make(map[playwright.Page]string),
		dialogs: make(chan *pwAlert),
	}
}

func (b *Playwright) BrowserName() string {
	return b.cfg.Browser
}

func (b *Playwright) getPage() playwright.Page {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.page
}

// currentFrame returns the frame scripts and lookups run in.
func (b *Playwright) currentFrame() (playwright.Frame, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.page == nil {
		return nil, ErrNotStarted
	}
	if b.frame != nil {
		return b.frame, nil
	}
	return b.page.MainFrame(), nil
}

func (b *Playwright) browserType() (playwright.BrowserType, *string) {
	switch b.cfg.Browser {
	case BrowserFirefox:
		return b.pw.Firefox, nil
	case BrowserSafari:
		return b.pw.WebKit, nil
	case BrowserEdge:
		return b.pw.Chromium, playwright.String("msedge")
	default:
		return b.pw.Chromium, nil
	}
}

func (b *Playwright) getEnvMap() map[string]string {
	env := map[string]string{}
	if b.cfg.Display != "" {
		env["DISPLAY"] = b.cfg.Display
	}
	if b.cfg.BrowsersPath != "" {
		env["PLAYWRIGHT_BROWSERS_PATH"] = b.cfg.BrowsersPath
	}
	if len(env) == 0 {
		return nil
	}
	return env
}

func (b *Playwright) Launch(ctx context.Context) error {
	if b.getPage() != nil {
		return nil
	}
	if err := ensureDir(b.cfg.DownloadDir); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	b.pw = pw

	browserType, channel := b.browserType()
	var bc playwright.BrowserContext
	if b.cfg.UserDataDir != "" {
		bc, err = browserType.LaunchPersistentContext(b.cfg.UserDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless:        playwright.Bool(b.cfg.Headless),
			Channel:         channel,
			Env:             b.getEnvMap(),
			AcceptDownloads: playwright.Bool(true),
		})
	} else {
		var br playwright.Browser
		br, err = browserType.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(b.cfg.Headless),
			Channel:  channel,
			Env:      b.getEnvMap(),
		})
		if err == nil {
			b.mu.Lock()
			b.browser = br
			b.mu.Unlock()
			bc, err = br.NewContext(playwright.BrowserNewContextOptions{
				AcceptDownloads: playwright.Bool(true),
			})
		}
	}
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("launch %s: %w", b.cfg.Browser, err)
	}

	bc.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))
	bc.OnPage(b.watchPage)

	pages := bc.Pages()
	var page playwright.Page
	if len(pages) == 0 {
		page, err = bc.NewPage()
		if err != nil {
			return fmt.Errorf("open page: %w", err)
		}
	} else {
		page = pages[0]
		b.watchPage(page)
	}

	b.mu.Lock()
	b.context = bc
	b.page = page
	b.mu.Unlock()
	return nil
}

// watchPage registers a newly opened page as a window and routes its dialogs and downloads.
func (b *Playwright) watchPage(page playwright.Page) {
	b.handleOf(page)

	page.OnDialog(func(d playwright.Dialog) {
		go func() {
			select {
			case b.dialogs <- &pwAlert{dialog: d}:
			case <-time.After(b.cfg.Timeout):
				_ = d.Dismiss()
			}
		}()
	})

	if b.cfg.DownloadDir != "" {
		page.OnDownload(func(d playwright.Download) {
			_ = d.SaveAs(filepath.Join(b.cfg.DownloadDir, d.SuggestedFilename()))
		})
	}
}

func (b *Playwright) handleOf(page playwright.Page) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h, ok := b.handles[page]; ok {
		return h
	}
	b.nextID++
	h := fmt.Sprintf("page-%d", b.nextID)
	b.handles[page] = h
	return h
}

func (b *Playwright) Navigate(ctx context.Context, url string) error {
	page := b.getPage()
	if page == nil {
		return notStarted("navigate")
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavigateTimeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(b.cfg.NavigateTimeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("navigate timeout after %v", b.cfg.NavigateTimeout)
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("navigate to %s: %w", url, err)
		}
	}

	b.mu.Lock()
	b.frame = nil
	b.mu.Unlock()
	return nil
}

func (b *Playwright) Reload(ctx context.Context) error {
	page := b.getPage()
	if page == nil {
		return notStarted("reload")
	}
	if _, err := page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	b.mu.Lock()
	b.frame = nil
	b.mu.Unlock()
	return nil
}

func (b *Playwright) CurrentURL(ctx context.Context) (string, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return "", err
	}
	return frame.URL(), nil
}

func (b *Playwright) Title(ctx context.Context) (string, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return "", err
	}
	return frame.Title()
}

func playwrightSelector(loc selector.Locator) string {
	return loc.String()
}

func (b *Playwright) FindElement(ctx context.Context, loc selector.Locator) (Element, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return nil, err
	}
	handle, err := frame.QuerySelector(playwrightSelector(loc))
	if err != nil {
		return nil, playwrightErr(err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, loc)
	}
	return &pwElement{b: b, handle: handle}, nil
}

func (b *Playwright) FindElements(ctx context.Context, loc selector.Locator) ([]Element, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return nil, err
	}
	handles, err := frame.QuerySelectorAll(playwrightSelector(loc))
	if err != nil {
		return nil, playwrightErr(err)
	}
	return b.wrap(handles), nil
}

func (b *Playwright) wrap(handles []playwright.ElementHandle) []Element {
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &pwElement{b: b, handle: h})
	}
	return elements
}

func (b *Playwright) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return nil, err
	}

	converted := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*pwElement); ok {
			converted[i] = el.handle
			continue
		}
		converted[i] = a
	}

	res, err := frame.Evaluate(scriptWrapper, []any{script, converted})
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", playwrightErr(err))
	}
	return res, nil
}

func (b *Playwright) WindowHandle(ctx context.Context) (string, error) {
	page := b.getPage()
	if page == nil {
		return "", ErrNotStarted
	}
	return b.handleOf(page), nil
}

func (b *Playwright) openPages() []playwright.Page {
	b.mu.RLock()
	bc := b.context
	b.mu.RUnlock()
	if bc == nil {
		return nil
	}

	var pages []playwright.Page
	for _, p := range bc.Pages() {
		if !p.IsClosed() {
			pages = append(pages, p)
		}
	}
	return pages
}

func (b *Playwright) WindowHandles(ctx context.Context) ([]string, error) {
	if b.getPage() == nil {
		return nil, ErrNotStarted
	}
	var handles []string
	for _, p := range b.openPages() {
		handles = append(handles, b.handleOf(p))
	}
	return handles, nil
}

func (b *Playwright) SwitchToWindow(ctx context.Context, handle string) error {
	for _, p := range b.openPages() {
		if b.handleOf(p) != handle {
			continue
		}
		if err := p.BringToFront(); err != nil {
			return fmt.Errorf("switch to window %s: %w", handle, err)
		}
		b.mu.Lock()
		b.page = p
		b.frame = nil
		b.mu.Unlock()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoSuchWindow, handle)
}

func (b *Playwright) CloseWindow(ctx context.Context) error {
	page := b.getPage()
	if page == nil {
		return notStarted("close window")
	}
	if err := page.Close(); err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	b.mu.Lock()
	delete(b.handles, page)
	b.frame = nil
	b.mu.Unlock()
	return nil
}

func (b *Playwright) SwitchToFrame(ctx context.Context, frame Element) error {
	el, ok := frame.(*pwElement)
	if !ok {
		return fmt.Errorf("switch to frame: unexpected element type %T", frame)
	}
	content, err := el.handle.ContentFrame()
	if err != nil {
		return fmt.Errorf("switch to frame: %w", playwrightErr(err))
	}
	if content == nil {
		return fmt.Errorf("switch to frame: element has no content frame")
	}
	b.mu.Lock()
	b.frame = content
	b.mu.Unlock()
	return nil
}

func (b *Playwright) SwitchToParentFrame(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return ErrNotStarted
	}
	if b.frame == nil {
		return nil
	}
	parent := b.frame.ParentFrame()
	if parent == nil || parent == b.page.MainFrame() {
		b.frame = nil
		return nil
	}
	b.frame = parent
	return nil
}

func (b *Playwright) Alert(ctx context.Context) (Alert, error) {
	if b.getPage() == nil {
		return nil, ErrNotStarted
	}
	select {
	case a := <-b.dialogs:
		return a, nil
	default:
		return nil, ErrNoAlert
	}
}

func (b *Playwright) Screenshot(ctx context.Context) ([]byte, error) {
	page := b.getPage()
	if page == nil {
		return nil, ErrNotStarted
	}
	return page.Screenshot()
}

func (b *Playwright) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = nil
	b.frame = nil
	if b.context != nil {
		if err := b.context.Close(); err != nil {
			return err
		}
		b.context = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
		b.browser = nil
	}
	if b.pw != nil {
		err := b.pw.Stop()
		b.pw = nil
		return err
	}
	return nil
}

func playwrightErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "not attached to the DOM") || strings.Contains(msg, "Element is detached") {
		return fmt.Errorf("%w: %s", ErrStaleElement, msg)
	}
	return err
}

type pwAlert struct {
	dialog playwright.Dialog
	prompt *string
}

func (a *pwAlert) Text(ctx context.Context) (string, error) {
	return a.dialog.Message(), nil
}

func (a *pwAlert) Accept(ctx context.Context) error {
	if a.prompt != nil {
		return a.dialog.Accept(*a.prompt)
	}
	return a.dialog.Accept()
}

func (a *pwAlert) Dismiss(ctx context.Context) error {
	return a.dialog.Dismiss()
}

// SendText stores the prompt answer. It is submitted by Accept.
func (a *pwAlert) SendText(ctx context.Context, text string) error {
	a.prompt = &text
	return nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
