// Package errors provides the standardized error envelope for the
// submission flow and the normalizer that folds remote error payloads
// back into the form's field-keyed error map.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failures. A sentinel status code of 0 accompanies these
	// so the UI can say "cannot reach server" instead of a generic
	// failure.
	ErrCodeServiceUnreachable ErrorCode = "SERVICE_UNREACHABLE"
	ErrCodeRequestTimeout     ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeRequestCancelled   ErrorCode = "REQUEST_CANCELLED"

	// The service answered.
	ErrCodeRemoteValidation  ErrorCode = "REMOTE_VALIDATION_FAILED"
	ErrCodeRemoteServerError ErrorCode = "REMOTE_SERVER_ERROR"
	ErrCodeModelNotLoaded    ErrorCode = "MODEL_NOT_LOADED"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// Local infrastructure.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// StandardError is a structured application error.
type StandardError struct {
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	StatusCode int               `json:"statusCode"` // HTTP status; 0 = transport failure
	Retryable  bool              `json:"retryable"`
	Fields     map[string]string `json:"fields,omitempty"` // normalized field errors, if any
	Timestamp  time.Time         `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// Constructors
// ==========================

// NewServiceUnreachableError marks a connection-level failure (no
// response at all: refused, DNS, reset).
func NewServiceUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:       ErrCodeServiceUnreachable,
		Message:    "Cannot reach the prediction service",
		Details:    err.Error(),
		StatusCode: 0,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRequestTimeoutError marks a request that exceeded its deadline.
// A zero timeout means the deadline came from the caller's context and
// is not known here.
func NewRequestTimeoutError(timeout time.Duration) *StandardError {
	details := ""
	if timeout > 0 {
		details = fmt.Sprintf("no response within %s", timeout)
	}
	return &StandardError{
		Code:       ErrCodeRequestTimeout,
		Message:    "Prediction request timed out",
		Details:    details,
		StatusCode: 0,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRequestCancelledError marks a user-initiated abort. It exists so
// cancellation can be filtered out of error reporting, never shown.
func NewRequestCancelledError() *StandardError {
	return &StandardError{
		Code:       ErrCodeRequestCancelled,
		Message:    "Request cancelled",
		StatusCode: 0,
		Retryable:  false,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRemoteValidationError wraps a 422 from the service with the
// normalized field error map.
func NewRemoteValidationError(fields map[string]string) *StandardError {
	return &StandardError{
		Code:       ErrCodeRemoteValidation,
		Message:    "The service rejected the application data",
		StatusCode: 422,
		Retryable:  false,
		Fields:     fields,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRemoteServerError marks a reachable service that failed internally.
func NewRemoteServerError(statusCode int, details string) *StandardError {
	return &StandardError{
		Code:       ErrCodeRemoteServerError,
		Message:    "The prediction service failed to process the request",
		Details:    details,
		StatusCode: statusCode,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewModelNotLoadedError marks the service's degraded state (up, but
// scoring model unavailable).
func NewModelNotLoadedError(details string) *StandardError {
	return &StandardError{
		Code:       ErrCodeModelNotLoaded,
		Message:    "The prediction service has no scoring model loaded",
		Details:    details,
		StatusCode: 503,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewMalformedResponseError marks a 2xx response whose body failed the
// shape check; treated like a server error despite the status code.
func NewMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:       ErrCodeMalformedResponse,
		Message:    "The prediction service returned an unusable response",
		Details:    details,
		StatusCode: 200,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewStoreUnavailableError wraps a persistence failure. Not fatal to a
// submission; the result is still shown, just not saved.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:       ErrCodeStoreUnavailable,
		Message:    "Local storage is unavailable",
		Details:    err.Error(),
		StatusCode: 0,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// ==========================
// Classification helpers
// ==========================

// AsStandard extracts a *StandardError from err, or wraps err in a
// generic one so callers always have a code to switch on.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:       "INTERNAL_ERROR",
		Message:    "Unexpected error",
		Details:    err.Error(),
		StatusCode: 0,
		Retryable:  false,
		Timestamp:  time.Now().UTC(),
	}
}

// IsCancelled reports whether err is a user-initiated abort. Aborts are
// no-ops from the UI's perspective, never failures to report.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	return AsStandard(err).Code == ErrCodeRequestCancelled
}

// IsFallbackEligible reports whether the offline estimator should take
// over: the service could not be reached at all or the request timed
// out. Validation rejections and server errors are answered, not
// estimated around.
func IsFallbackEligible(err error) bool {
	if err == nil {
		return false
	}
	switch AsStandard(err).Code {
	case ErrCodeServiceUnreachable, ErrCodeRequestTimeout:
		return true
	}
	return false
}
