package domain

import (
	"errors"
	"fmt"
	"time"
)

// Machine-readable codes carried by transport-level failures.
const (
	CodeNetworkError    = "NETWORK_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeCanceled        = "CANCELED"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// Error is the single failure type returned by every client operation.
//
// Validation failures carry neither Status nor Code. Failures reported by the
// API carry the HTTP status. Failures where no response was obtained carry a
// Code (NETWORK_ERROR, TIMEOUT, CANCELED).
//
// RetryAfter is the server's Retry-After hint on 429 and 503 responses. The
// client never retries on its own.
type Error struct {
	Message    string
	Status     int
	Code       string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates an error raised before any network activity.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// NewStatusError creates an error for a completed call that reported failure.
func NewStatusError(status int, msg string) *Error {
	return &Error{Message: msg, Status: status}
}

// NewTimeoutError creates the error returned when the per-call deadline fires.
func NewTimeoutError(timeout time.Duration, err error) *Error {
	return &Error{
		Message: fmt.Sprintf("request timeout after %dms", timeout.Milliseconds()),
		Code:    CodeTimeout,
		Err:     err,
	}
}

// NewNetworkError creates the error returned when no HTTP response was obtained.
func NewNetworkError(err error) *Error {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return &Error{
		Message: "network error: " + detail,
		Code:    CodeNetworkError,
		Err:     err,
	}
}

// NewCanceledError creates the error returned when the caller's context ends first.
func NewCanceledError(err error) *Error {
	return &Error{
		Message: "request canceled: " + err.Error(),
		Code:    CodeCanceled,
		Err:     err,
	}
}

// AsError reports whether err is (or wraps) an *Error and returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidation reports whether err was raised before any network activity.
func IsValidation(err error) bool {
	e, ok := AsError(err)
	return ok && e.Status == 0 && e.Code == ""
}

// IsTimeout reports whether err is a per-call timeout.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == CodeTimeout
}

// IsNetwork reports whether err is a generic transport failure.
func IsNetwork(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == CodeNetworkError
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	if e, ok := AsError(err); ok {
		return e.Status
	}
	return 0
}
