package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// ValidationError is returned for caller-side input problems (blank shop id,
// blank query, no usable concept groups, out-of-range result size). It is
// raised before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// APIError is returned when the search service is reachable but responds with
// a non-2xx status. Status and body are preserved verbatim for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error (status %d): %s", e.StatusCode, e.Body)
}

// NetworkError is returned for transport-level failures (DNS, connection
// refused, timeout). Timeout is reported separately from other transport
// failures so the caller can tell a slow backend from an unreachable one.
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network error: request to the search API timed out: %v", e.Err)
	}
	return fmt.Sprintf("network error: could not reach the search API: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// EmptyResultsError is returned when the search service answers successfully
// but with zero products. This is an informational finding, not a crash: the
// query itself may be the problem rather than the service.
type EmptyResultsError struct {
	Query string
}

func (e *EmptyResultsError) Error() string {
	return fmt.Sprintf("no products were returned for the search term %q", e.Query)
}
