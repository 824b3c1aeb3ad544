package component

import (
	"context"
	"fmt"
	"regexp"

	"pageObject/internal/browser"
	"pageObject/internal/selector"
	"pageObject/internal/wait"
)

// Keyer lets a component type pick the key a collection indexes it by. Text is used otherwise.
type Keyer interface {
	Key(ctx context.Context) (string, error)
}

// KeyOf returns the collection key of d.
func KeyOf(ctx context.Context, d Definition) (string, error) {
	if k, ok := d.(Keyer); ok {
		return k.Key(ctx)
	}
	return d.Text(ctx)
}

// Collection is every element matching a selector within a scope, each as a T.
// Entries keep their position: an entry that went stale is looked up again by index.
type Collection[T Definition] struct {
	scope Scope
	sel   selector.Selector
	build func(*Component) T
}

func NewCollection[T Definition](scope Scope, sel selector.Selector, build func(*Component) T) *Collection[T] {
	return &Collection[T]{scope: scope, sel: sel, build: build}
}

func (c *Collection[T]) Selector() selector.Selector { return c.sel }

func (c *Collection[T]) elements(ctx context.Context) ([]browser.Element, error) {
	session := c.scope.Session()
	driver, err := session.Driver(ctx)
	if err != nil {
		return nil, err
	}

	var root browser.Element
	if !c.sel.IsAbsolute() {
		if root, err = c.scope.searchRoot(ctx); err != nil {
			return nil, err
		}
	}
	if root == nil {
		loc, err := c.sel.Locate(false)
		if err != nil {
			return nil, err
		}
		return driver.FindElements(ctx, loc)
	}
	loc, err := c.sel.Locate(true)
	if err != nil {
		return nil, err
	}
	return root.FindElements(ctx, loc)
}

func (c *Collection[T]) entry(i int, el browser.Element) T {
	return As(c.scope, c.sel, func(comp *Component) T {
		comp.element = el
		comp.locate = func(ctx context.Context) (browser.Element, error) {
			els, err := c.elements(ctx)
			if err != nil {
				return nil, err
			}
			if i >= len(els) {
				return nil, fmt.Errorf("%w: entry %d of %s", browser.ErrNoSuchElement, i, c.sel)
			}
			return els[i], nil
		}
		return c.build(comp)
	})
}

// All returns the current entries. A missing parent yields no entries.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	els, err := c.elements(ctx)
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entries := make([]T, len(els))
	for i, el := range els {
		entries[i] = c.entry(i, el)
	}
	return entries, nil
}

func (c *Collection[T]) Len(ctx context.Context) (int, error) {
	entries, err := c.All(ctx)
	return len(entries), err
}

func (c *Collection[T]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := c.Len(ctx)
	return n == 0, err
}

// WaitForEntries waits until the collection holds at least one entry.
func (c *Collection[T]) WaitForEntries(ctx context.Context) error {
	err := wait.Until(ctx, c.scope.Session().timeout, func(ctx context.Context) (bool, error) {
		n, err := c.Len(ctx)
		return n > 0, err
	})
	if err != nil {
		return &WaitError{Component: c.sel.String(), Failure: "collection is empty", Err: err}
	}
	return nil
}

// At returns the entry at index i.
func (c *Collection[T]) At(ctx context.Context, i int) (T, error) {
	var zero T
	entries, err := c.All(ctx)
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(entries) {
		return zero, &EntryNotFoundError{Index: i}
	}
	return entries[i], nil
}

func (c *Collection[T]) First(ctx context.Context) (T, error) {
	return c.At(ctx, 0)
}

func (c *Collection[T]) Last(ctx context.Context) (T, error) {
	n, err := c.Len(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.At(ctx, n-1)
}

func (c *Collection[T]) Keys(ctx context.Context) ([]string, error) {
	entries, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		if keys[i], err = KeyOf(ctx, e); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func (c *Collection[T]) Texts(ctx context.Context) ([]string, error) {
	entries, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		if texts[i], err = e.Text(ctx); err != nil {
			return nil, err
		}
	}
	return texts, nil
}

// Entry returns the first entry whose key equals key.
func (c *Collection[T]) Entry(ctx context.Context, key string) (T, error) {
	return c.find(ctx, key, func(k string) bool { return k == key })
}

// EntryMatching returns the first entry whose key matches re.
func (c *Collection[T]) EntryMatching(ctx context.Context, re *regexp.Regexp) (T, error) {
	return c.find(ctx, re.String(), re.MatchString)
}

func (c *Collection[T]) find(ctx context.Context, desc string, match func(string) bool) (T, error) {
	var zero T
	entries, err := c.All(ctx)
	if err != nil {
		return zero, err
	}
	for _, e := range entries {
		k, err := KeyOf(ctx, e)
		if err != nil {
			return zero, err
		}
		if match(k) {
			return e, nil
		}
	}
	return zero, &EntryNotFoundError{ByKey: true, Key: desc}
}

func (c *Collection[T]) ContainsKey(ctx context.Context, key string) (bool, error) {
	keys, err := c.Keys(ctx)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k == key {
			return true, nil
		}
	}
	return false, nil
}

// Filter returns the entries keep accepts.
func (c *Collection[T]) Filter(ctx context.Context, keep func(ctx context.Context, entry T) (bool, error)) ([]T, error) {
	entries, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var kept []T
	for _, e := range entries {
		ok, err := keep(ctx, e)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}
