// Package apperr defines the client-visible error categories shared by the
// catalog, favorites and auth services.
package apperr

import (
	"errors"
	"net/http"
)

// Kind enumerates the error categories a handler can report.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindConflict
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the status code written to clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a fixed human-readable message and the underlying
// cause. Only Message is ever written to a client.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad input for the named field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound reports an absence confirmed by the store or the upstream.
func NotFound(message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: cause}
}

// Upstream reports any other failure talking to the movie data source.
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: cause}
}

// Conflict reports a uniqueness violation.
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// Auth reports a missing or invalid credential.
func Auth(message string, cause error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: cause}
}

// Internal reports an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
