// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
)

// Kind classifies a failure at the API boundary.
type Kind string

const (
	KindUnauthenticated Kind = envelope.KindUnauthenticated
	KindUnauthorized    Kind = envelope.KindUnauthorized
	KindValidation      Kind = envelope.KindValidation
	KindNotFound        Kind = envelope.KindNotFound
	KindDataStore       Kind = envelope.KindDataStore
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed, user-presentable failure. Err, when set, is logged but
// never shown to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "You must be signed in."}
}

func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "You do not have permission to do that."
	}
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// DataStore wraps a backend failure behind a generic message.
func DataStore(msg string, err error) *Error {
	return &Error{Kind: KindDataStore, Message: msg, Err: err}
}

// KindOf returns the kind of err. Untyped errors are data-store errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindDataStore
}
