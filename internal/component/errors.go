package component

import (
	"errors"
	"fmt"
	"strings"

	"pageObject/internal/browser"
)

// ErrNoSelector is returned when a component has neither a selector nor a fixed element.
var ErrNoSelector = errors.New("selector is not present")

type ElementNotFoundError struct {
	Component string
	Selector  string
	Err       error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("web element for %s (%s) was not found: %v", e.Component, e.Selector, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// RulesError reports a component whose element failed its rules, or whose rules are empty.
type RulesError struct {
	Component string
	Failures  []string
}

func (e *RulesError) Error() string {
	if len(e.Failures) == 0 {
		return "at least one component rule must be specified for " + e.Component
	}
	var b strings.Builder
	b.WriteString("one or more component rules were violated, incorrect web element may have been targeted for ")
	b.WriteString(e.Component)
	for _, f := range e.Failures {
		b.WriteString("\n . ")
		b.WriteString(f)
	}
	return b.String()
}

// EntryNotFoundError reports a collection entry missing by key, or by index unless ByKey is set.
type EntryNotFoundError struct {
	ByKey bool
	Key   string
	Index int
}

func (e *EntryNotFoundError) Error() string {
	if e.ByKey {
		return "unable to find entry with key: " + e.Key
	}
	return fmt.Sprintf("unable to find entry with index: %d", e.Index)
}

// WaitError is returned when a component does not reach a state in time.
type WaitError struct {
	Component string
	Failure   string
	Err       error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Failure, e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

type UnexpectedPageError struct {
	Page string
	Err  error
}

func (e *UnexpectedPageError) Error() string {
	return fmt.Sprintf("expected page %s is not displayed: %v", e.Page, e.Err)
}

func (e *UnexpectedPageError) Unwrap() error { return e.Err }

type WindowError struct {
	Msg string
	Err error
}

func (e *WindowError) Error() string {
	if e.Err == nil {
		return "window: " + e.Msg
	}
	return fmt.Sprintf("window: %s: %v", e.Msg, e.Err)
}

func (e *WindowError) Unwrap() error { return e.Err }

func isMissing(err error) bool {
	return errors.Is(err, browser.ErrNoSuchElement) || errors.Is(err, browser.ErrStaleElement)
}
