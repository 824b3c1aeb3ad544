package component

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"pageObject/internal/browser"
	"pageObject/internal/wait"
)

// WindowController is handed to actions running in a window opened by InWindow.
type WindowController struct {
	session *Session
	main    string
}

// MainWindow returns the handle of the window InWindow was started from.
func (w *WindowController) MainWindow() string { return w.main }

func (w *WindowController) WindowCount(ctx context.Context) (int, error) {
	d, err := w.session.Driver(ctx)
	if err != nil {
		return 0, err
	}
	handles, err := d.WindowHandles(ctx)
	return len(handles), err
}

// InOtherWindow runs action in the window at index and switches back afterwards.
func (w *WindowController) InOtherWindow(ctx context.Context, index int, action func(ctx context.Context) error) (err error) {
	d, err := w.session.Driver(ctx)
	if err != nil {
		return err
	}
	current, err := d.WindowHandle(ctx)
	if err != nil {
		return err
	}
	handles, err := d.WindowHandles(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(handles) {
		return &WindowError{Msg: "no window at the requested index"}
	}
	if err := d.SwitchToWindow(ctx, handles[index]); err != nil {
		return &WindowError{Msg: "switch to window", Err: err}
	}
	defer func() {
		if serr := d.SwitchToWindow(ctx, current); serr != nil && err == nil {
			err = &WindowError{Msg: "switch back to window", Err: serr}
		}
	}()
	return action(ctx)
}

// InWindow waits for a new window to open after the current one, runs action in the page it
// shows, then closes it and returns to the original window.
func InWindow[T PageObject](ctx context.Context, s *Session, with PageBuilder[T], action func(T, *WindowController) error) error {
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}
	main, err := d.WindowHandle(ctx)
	if err != nil {
		return &WindowError{Msg: "read current window", Err: err}
	}
	handles, err := d.WindowHandles(ctx)
	if err != nil {
		return &WindowError{Msg: "read windows", Err: err}
	}
	index := slices.Index(handles, main)

	handles, err = wait.UntilValue(ctx, s.timeout, func(ctx context.Context) ([]string, bool, error) {
		hs, err := d.WindowHandles(ctx)
		return hs, len(hs) >= index+2, err
	})
	if err != nil {
		return &WindowError{Msg: "new window has not opened", Err: err}
	}
	opened := len(handles)
	target := handles[opened-1]
	if target == main {
		return &WindowError{Msg: "no window is opened for switching"}
	}
	if err := d.SwitchToWindow(ctx, target); err != nil {
		return &WindowError{Msg: "switch to window", Err: err}
	}
	s.log.Debug("switched window", zap.String("from", main), zap.String("to", target))

	wc := &WindowController{session: s, main: main}
	if err := with.InPage(ctx, s, func(p T) error { return action(p, wc) }); err != nil {
		_ = d.SwitchToWindow(ctx, main)
		return &WindowError{Msg: "error while in external window", Err: err}
	}

	handles, err = d.WindowHandles(ctx)
	if err != nil {
		return &WindowError{Msg: "read windows", Err: err}
	}
	if slices.Contains(handles, target) {
		if err := d.SwitchToWindow(ctx, target); err != nil {
			return &WindowError{Msg: "switch to window", Err: err}
		}
		if err := d.CloseWindow(ctx); err != nil {
			return &WindowError{Msg: "close window", Err: err}
		}
		if handles, err = d.WindowHandles(ctx); err != nil {
			return &WindowError{Msg: "read windows", Err: err}
		}
	}
	if len(handles) != opened-1 {
		_ = d.SwitchToWindow(ctx, main)
		return &WindowError{Msg: "unexpected window count after closing the external window"}
	}

	if err := d.SwitchToWindow(ctx, main); err != nil {
		return &WindowError{Msg: "switch back to window", Err: err}
	}
	err = wait.Until(ctx, s.timeout, func(ctx context.Context) (bool, error) {
		current, err := d.WindowHandle(ctx)
		if errors.Is(err, browser.ErrNoSuchWindow) {
			return false, nil
		}
		return current == main, err
	})
	if err != nil {
		return &WindowError{Msg: "main window is not current", Err: err}
	}
	return nil
}
