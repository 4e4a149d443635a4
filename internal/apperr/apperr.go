// Package apperr defines the error taxonomy shared by services, handlers and the
// API client. Every error that crosses the HTTP boundary is classified into one
// of a small set of kinds, and each kind maps to exactly one status code.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
	// KindUnavailable marks an optional dependency that is not configured.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "server"
	}
}

// Error is a classified error. Message is safe to show to clients; Err is the
// internal cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with a client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err. The message is what the client sees.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// WithDetails returns a copy of e carrying details. The receiver is left
// untouched so sentinel values stay immutable.
func (e *Error) WithDetails(details ...string) *Error {
	cp := *e
	cp.Details = append([]string(nil), details...)
	return &cp
}

// Is reports whether target is the same sentinel. Copies made by WithDetails
// still match the sentinel they were derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// KindOf returns the kind of the first *Error in err's chain, or KindServer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the inverse of HTTPStatus, used by the API client.
func FromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusServiceUnavailable:
		return KindUnavailable
	default:
		return KindServer
	}
}
