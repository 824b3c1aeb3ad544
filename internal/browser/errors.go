package browser

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrorTypeTemporary ErrorType = iota
	ErrorTypeCritical
	ErrorTypeRetryable
)

func (e ErrorType) String() string {
	switch e {
	case ErrorTypeTemporary:
		return "temporary"
	case ErrorTypeCritical:
		return "critical"
	case ErrorTypeRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// ActionError wraps a driver failure of a named action.
type ActionError struct {
	Type   ErrorType
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Action, e.Type, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Classify sorts driver errors by whether repeating the action may help.
func Classify(action string, err error) *ActionError {
	if err == nil {
		return nil
	}

	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr
	}

	errType := ErrorTypeCritical
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, ErrStaleElement), errors.Is(err, ErrNoSuchElement):
		errType = ErrorTypeTemporary
	case strings.Contains(msg, "intercepted"),
		strings.Contains(msg, "not interactable"),
		strings.Contains(msg, "not attached"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection"):
		errType = ErrorTypeRetryable
	}

	return &ActionError{Type: errType, Action: action, Err: err}
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify("", err).Type != ErrorTypeCritical
}

func notStarted(action string) error {
	return &ActionError{Type: ErrorTypeCritical, Action: action, Err: ErrNotStarted}
}
