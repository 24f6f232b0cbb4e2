package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for boundary mapping. Services return these typed
// errors; handlers translate them to HTTP status codes and never swallow them.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidTransition
	KindValidation
	KindUnauthorized
	KindConflict
	KindInternal
)

// Error carries a kind and a caller-facing message
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// Is matches errors of the same kind, so errors.Is(err, apperr.NotFound(""))
// style checks work through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NotFound: referenced entity does not exist (404)
func NotFound(msg string) *Error { return newError(KindNotFound, msg) }

// NotFoundf formats a NotFound error
func NotFoundf(format string, args ...any) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, args...))
}

// InvalidTransition: requested status change not in the transition table (400)
func InvalidTransition(msg string) *Error { return newError(KindInvalidTransition, msg) }

// InvalidTransitionf formats an InvalidTransition error
func InvalidTransitionf(format string, args ...any) *Error {
	return newError(KindInvalidTransition, fmt.Sprintf(format, args...))
}

// Validation: bad field values or locked state (400)
func Validation(msg string) *Error { return newError(KindValidation, msg) }

// Validationf formats a Validation error
func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

// Unauthorized: the authorization evaluator denied the action (403)
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }

// Conflict: optimistic-lock version mismatch; caller should reload and retry (409)
func Conflict(msg string) *Error { return newError(KindConflict, msg) }

// Wrap attaches an underlying cause to a typed error
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, err: err}
}

// KindOf extracts the kind of err, or KindInternal for untyped errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the API surface reports
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
