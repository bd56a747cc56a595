// Package apperr holds the error kinds shared by the content pipeline and the HTTP layer.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failure so handlers can pick a status without inspecting messages
type Kind int

const (
	KindInternal Kind = iota
	KindNotConfigured
	KindInvalidInput
	KindMissingInput
	KindUpstreamFetch
	KindAIProvider
	KindGateway
	KindUpstreamStatus
	KindNoImageInResponse
	KindTimeout
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

var kindNames = map[Kind]string{
	KindInternal:          "Internal",
	KindNotConfigured:     "NotConfigured",
	KindInvalidInput:      "InvalidInput",
	KindMissingInput:      "MissingInput",
	KindUpstreamFetch:     "UpstreamFetchError",
	KindAIProvider:        "AIProviderError",
	KindGateway:           "GatewayError",
	KindUpstreamStatus:    "UpstreamStatus",
	KindNoImageInResponse: "NoImageInResponse",
	KindTimeout:           "Timeout",
	KindNotFound:          "NotFound",
	KindConflict:          "Conflict",
	KindUnauthorized:      "Unauthorized",
	KindForbidden:         "Forbidden",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindStatus = map[Kind]int{
	KindInternal:          http.StatusInternalServerError,
	KindNotConfigured:     http.StatusServiceUnavailable,
	KindInvalidInput:      http.StatusBadRequest,
	KindMissingInput:      http.StatusBadRequest,
	KindUpstreamFetch:     http.StatusBadRequest,
	KindAIProvider:        http.StatusInternalServerError,
	KindGateway:           http.StatusBadGateway,
	KindNoImageInResponse: http.StatusInternalServerError,
	KindTimeout:           http.StatusGatewayTimeout,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
}

// Error is a classified failure. Status is only meaningful for KindUpstreamStatus
// and for UpstreamFetch errors that carry the remote status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err and prefixes it with a message
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Upstream forwards a non-2xx status and body from a provider
func Upstream(status int, body string) *Error {
	return &Error{Kind: KindUpstreamStatus, Message: body, Status: status}
}

// FetchFailed reports a remote image that answered with a non-200 status
func FetchFailed(status int) *Error {
	return &Error{
		Kind:    KindUpstreamFetch,
		Message: fmt.Sprintf("Failed to fetch imageUrl: %d", status),
		Status:  status,
	}
}

// KindOf returns the kind of err, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps err to the HTTP status the API answers with
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.Kind == KindUpstreamStatus && e.Status > 0 {
		return e.Status
	}
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Transport classifies a failed outbound call: an expired deadline becomes KindTimeout,
// anything else keeps the given kind.
func Transport(kind Kind, err error, format string, args ...any) *Error {
	if isTimeout(err) {
		return Wrap(KindTimeout, err, format, args...)
	}
	return Wrap(kind, err, format, args...)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
