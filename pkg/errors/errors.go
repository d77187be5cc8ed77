package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for reporting and retry decisions
type Kind string

const (
	KindValidation  Kind = "validation"
	KindTransport   Kind = "transport"
	KindAPI         Kind = "api"
	KindNotFound    Kind = "not_found"
	KindRateLimit   Kind = "rate_limit"
	KindUnavailable Kind = "unavailable"
	KindParse       Kind = "parse"
	KindUnknown     Kind = "unknown"
)

// Error represents a classified API error
type Error struct {
	Kind       Kind
	StatusCode int
	// Code is the machine-readable error code reported by the API, if any
	Code    string
	Message string
	// RetryAfter is the server-supplied retry hint; zero means no hint
	RetryAfter time.Duration
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidation creates a client-side validation error. It is raised before
// any network call and is never retried.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewTransport creates an error for a network-level failure (connection
// refused, timeout). There is no status code for these.
func NewTransport(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, cause: cause}
}

// NewAPI creates an error for a non-2xx response without a recognized
// retryable shape.
func NewAPI(statusCode int, code, message string) *Error {
	return &Error{Kind: KindAPI, StatusCode: statusCode, Code: code, Message: message}
}

// NewNotFound creates an error for a missing resource.
func NewNotFound(resource string) *Error {
	return &Error{
		Kind:       KindNotFound,
		StatusCode: 404,
		Message:    fmt.Sprintf("resource not found: %s", resource),
	}
}

// NewRateLimit creates an error for a 429 response. retryAfter carries the
// server's Retry-After hint when present.
func NewRateLimit(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, StatusCode: 429, Message: message, RetryAfter: retryAfter}
}

// NewUnavailable creates an error for a 5xx response that carried a
// Retry-After hint.
func NewUnavailable(statusCode int, message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindUnavailable, StatusCode: statusCode, Message: message, RetryAfter: retryAfter}
}

// NewParse creates an error for a body that could not be decoded.
func NewParse(message string, cause error) *Error {
	return &Error{Kind: KindParse, Message: message, cause: cause}
}

// KindOf returns the classification of err, or KindUnknown when err is not
// a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// RetryAfterOf returns the server retry hint carried by err, or zero.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// retryableKinds is the canonical set of error kinds worth retrying.
// The retry engine's default configuration is derived from it.
var retryableKinds = map[Kind]struct{}{
	KindTransport:   {},
	KindRateLimit:   {},
	KindUnavailable: {},
}

// retryableStatusCodes is the canonical set of HTTP statuses worth retrying
var retryableStatusCodes = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

// IsRetryable reports whether an error kind should be retried
func IsRetryable(kind Kind) bool {
	_, ok := retryableKinds[kind]
	return ok
}

// IsRetryableStatusCode reports whether a status code should be retried.
// Zero means no status is available; transport failures carry no status
// and are judged by kind through IsRetryable instead.
func IsRetryableStatusCode(statusCode int) bool {
	_, ok := retryableStatusCodes[statusCode]
	return ok
}

// RetryableKinds returns a copy of the canonical retryable kind set
func RetryableKinds() map[Kind]struct{} {
	kinds := make(map[Kind]struct{}, len(retryableKinds))
	for kind := range retryableKinds {
		kinds[kind] = struct{}{}
	}
	return kinds
}

// RetryableStatusCodes returns a copy of the canonical retryable status set
func RetryableStatusCodes() map[int]struct{} {
	codes := make(map[int]struct{}, len(retryableStatusCodes))
	for code := range retryableStatusCodes {
		codes[code] = struct{}{}
	}
	return codes
}
