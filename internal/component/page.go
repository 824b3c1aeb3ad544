package component

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pageObject/internal/browser"
	"pageObject/internal/wait"
)

// Page is the document scope of the current window or frame. Page objects embed it.
type Page struct {
	session *Session
}

func (p *Page) Session() *Session { return p.session }

func (p *Page) page() *Page { return p }

func (p *Page) searchRoot(ctx context.Context) (browser.Element, error) { return nil, nil }

func (p *Page) Title(ctx context.Context) (string, error) {
	d, err := p.session.Driver(ctx)
	if err != nil {
		return "", err
	}
	return d.Title(ctx)
}

func (p *Page) URL(ctx context.Context) (string, error) {
	d, err := p.session.Driver(ctx)
	if err != nil {
		return "", err
	}
	return d.CurrentURL(ctx)
}

func (p *Page) Reload(ctx context.Context) error {
	d, err := p.session.Driver(ctx)
	if err != nil {
		return err
	}
	return d.Reload(ctx)
}

// WaitForReady waits for document.readyState to become "complete".
func (p *Page) WaitForReady(ctx context.Context) error {
	d, err := p.session.Driver(ctx)
	if err != nil {
		return err
	}
	return wait.Until(ctx, p.session.timeout, func(ctx context.Context) (bool, error) {
		state, err := d.ExecuteScript(ctx, "return document.readyState;")
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	})
}

// PageObject is a page type: a struct embedding *Page that knows when it is displayed.
type PageObject interface {
	page() *Page
	WaitForDisplayed(ctx context.Context) error
}

type PageBuilder[T PageObject] struct {
	build func(*Page) T
}

// With describes the page object built by build.
func With[T PageObject](build func(*Page) T) PageBuilder[T] {
	return PageBuilder[T]{build: build}
}

// InPage waits for the page to be ready and displayed, then runs action on it.
func (b PageBuilder[T]) InPage(ctx context.Context, s *Session, action func(T) error) error {
	p := b.build(s.Page())
	name := typeName(p)
	if err := waitForPage(ctx, p); err != nil {
		return &UnexpectedPageError{Page: name, Err: err}
	}
	s.log.Debug("in page", zap.String("page", name))
	if err := action(p); err != nil {
		return fmt.Errorf("in page %s: %w", name, err)
	}
	return nil
}

// Open navigates to url and runs action in the page.
func (b PageBuilder[T]) Open(ctx context.Context, s *Session, url string, action func(T) error) error {
	if err := s.Open(ctx, url); err != nil {
		return err
	}
	return b.InPage(ctx, s, action)
}

func waitForPage(ctx context.Context, p PageObject) error {
	if err := p.page().WaitForReady(ctx); err != nil {
		return err
	}
	return p.WaitForDisplayed(ctx)
}
