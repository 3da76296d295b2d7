// Package apperr classifies every failure the fetch pipeline can hit so
// callers can decide between retrying, surfacing, or treating the outcome
// as an empty result.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the failure class independent of the wrapped cause.
type Code string

const (
	// CodeParam marks configuration or parameter errors (malformed URI,
	// missing field, bad enum). Never retried.
	CodeParam Code = "param"
	// CodeTransport marks connection/TLS/timeout failures. Retryable.
	CodeTransport Code = "transport"
	// CodeRemote marks a non-zero error envelope from the graph store.
	CodeRemote Code = "remote"
	// CodeParse marks an undecodable response body.
	CodeParse Code = "parse"
	// CodeContract marks a caller ordering bug, e.g. an edge referencing
	// a vertex that was never upserted.
	CodeContract Code = "contract"
)

// ErrNotFound is the sentinel for "looked and found nothing". It is a
// success-shaped outcome and must never be conflated with a failed lookup.
var ErrNotFound = errors.New("not found")

type Error struct {
	Status int
	Code   Code
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return string(e.Code)
	}
	return fmt.Sprintf("error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code Code, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Param(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeParam, fmt.Errorf(format, args...))
}

func Transport(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, CodeTransport, fmt.Errorf(format, args...))
}

// Remote wraps the store's own error envelope; status carries the original
// HTTP status so read handlers can pass it through.
func Remote(status int, format string, args ...any) *Error {
	return New(status, CodeRemote, fmt.Errorf(format, args...))
}

func Parse(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeParse, fmt.Errorf(format, args...))
}

func Contract(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, CodeContract, fmt.Errorf(format, args...))
}

func codeOf(err error) (Code, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

func IsParam(err error) bool     { c, ok := codeOf(err); return ok && c == CodeParam }
func IsTransport(err error) bool { c, ok := codeOf(err); return ok && c == CodeTransport }
func IsRemote(err error) bool    { c, ok := codeOf(err); return ok && c == CodeRemote }
func IsContract(err error) bool  { c, ok := codeOf(err); return ok && c == CodeContract }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// HTTPStatus extracts the HTTP-equivalent classification, defaulting to 500.
func HTTPStatus(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	if IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
