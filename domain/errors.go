package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The dispatcher picks the response status from it.
type Kind string

const (
	KindMalformedRequest    Kind = "MalformedRequest"
	KindInvalidToken        Kind = "InvalidToken"
	KindUnauthorized        Kind = "Unauthorized"
	KindEmptyUpdate         Kind = "EmptyUpdate"
	KindAuthenticationError Kind = "AuthenticationError"
	KindUnsupportedRoute    Kind = "UnsupportedRoute"
	KindNotFound            Kind = "NotFound"
	KindConflict            Kind = "Conflict"
	KindBackendFailure      Kind = "BackendFailure"
)

// Error is the only failure shape that reaches a response body. Err is kept
// for logging and errors.Is/As but is never serialized.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindBackendFailure when err carries no
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackendFailure
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func MalformedRequest(format string, args ...any) *Error {
	return newError(KindMalformedRequest, format, args...)
}

// InvalidToken wraps the verification failure so it shows up in logs.
func InvalidToken(err error) *Error {
	return &Error{Kind: KindInvalidToken, Message: "invalid token", Err: err}
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func EmptyUpdate(id string) *Error {
	return newError(KindEmptyUpdate, "missing content to update in post %s", id)
}

func AuthenticationError() *Error {
	return newError(KindAuthenticationError, "authentication_error")
}

func UnsupportedRoute(route string) *Error {
	return newError(KindUnsupportedRoute, "unsupported route: %q", route)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}
