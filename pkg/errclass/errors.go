// Package errclass defines the stable error classes reported by snaptyx.
package errclass

import "fmt"

// Error is a stable, machine-readable error class with an optional cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithMessage returns a new Error with the same Code but a specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg}
}

// WithMessagef returns a new Error with a formatted message.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new Error with the same Code that carries err as its cause.
func (e *Error) Wrap(err error, msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: err}
}

// Wrapf is Wrap with a formatted message.
func (e *Error) Wrapf(err error, format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: err}
}

// All stable error classes.
var (
	ErrInvalidSource   = &Error{Code: "E_INVALID_SOURCE"}
	ErrInvalidSnapshot = &Error{Code: "E_INVALID_SNAPSHOT"}
	ErrIO              = &Error{Code: "E_IO"}
	ErrPathEscape      = &Error{Code: "E_PATH_ESCAPE"}
	ErrConfigInvalid   = &Error{Code: "E_CONFIG_INVALID"}
)
