// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingParameter indicates a required request parameter was absent or blank.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidParameter indicates a request parameter was present but malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the supplied link token does not grant access to the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrLinkExpired indicates the link token itself carries an expiry that has passed.
	// It is distinct from the business Expired status derived from a quote's validity date.
	ErrLinkExpired = errors.New("link expired")

	// ErrAuthFailure indicates the upstream OAuth refresh call failed.
	ErrAuthFailure = errors.New("upstream auth failure")

	// ErrCooldownActive indicates a previous refresh was rate limited and the cooldown window
	// has not elapsed yet.
	ErrCooldownActive = errors.New("token refresh cooldown active")

	// ErrUpstreamTokenInvalid indicates the upstream rejected the cached access token.
	ErrUpstreamTokenInvalid = errors.New("upstream access token invalid")

	// ErrUpstreamRejected indicates the upstream refused a write.
	ErrUpstreamRejected = errors.New("upstream rejected")

	// ErrUpstreamFailure indicates an upstream call failed for a reason not covered above.
	ErrUpstreamFailure = errors.New("upstream failure")
)

// UpstreamError carries the raw upstream reply next to the classified domain error so callers
// can surface it for diagnosis.
type UpstreamError struct {
	Err        error
	StatusCode int
	Code       string
	Raw        json.RawMessage
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status=%d code=%s)", e.Err, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (status=%d)", e.Err, e.StatusCode)
}

// Unwrap returns the classified domain error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RawPayload returns the raw upstream payload attached anywhere in err's chain, or nil.
func RawPayload(err error) json.RawMessage {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Raw
	}
	return nil
}

// RetryLaterError marks an error the client may retry after a known delay.
type RetryLaterError struct {
	Err   error
	After time.Duration
}

// Error implements the error interface.
func (e *RetryLaterError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *RetryLaterError) Unwrap() error {
	return e.Err
}

// RetryAfter returns the retry delay attached anywhere in err's chain, or zero.
func RetryAfter(err error) time.Duration {
	var retryErr *RetryLaterError
	if errors.As(err, &retryErr) {
		return retryErr.After
	}
	return 0
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
