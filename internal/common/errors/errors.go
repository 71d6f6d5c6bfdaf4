// Package errors provides standardized error handling for the search
// service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCatalogQueryFailed    ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeCatalogTimeout        ErrorCode = "CATALOG_TIMEOUT"
	ErrCodePriceBoundsUnresolved ErrorCode = "PRICE_BOUNDS_UNRESOLVED"
	ErrCodeInvalidFilterFormat   ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidBookingMode    ErrorCode = "INVALID_BOOKING_MODE"
	ErrCodeConflictCheckFailed   ErrorCode = "CONFLICT_CHECK_FAILED"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches contextual key/value pairs to the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// NewCatalogQueryError wraps a catalog fetch failure. Retryable: the
// catalog is a network collaborator and the next fetch may succeed.
func NewCatalogQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogQueryFailed,
		Message:   "Failed to query property catalog",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterFormatError flags a malformed search request.
func NewInvalidFilterFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterFormat,
		Message:   "Search filters are malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidBookingModeError flags an unsupported booking mode value.
func NewInvalidBookingModeError(mode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidBookingMode,
		Message:   "Unsupported booking mode",
		Details:   fmt.Sprintf("booking mode %q is not one of daily, monthly, flexible", mode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictCheckError wraps a booking-conflict lookup failure.
func NewConflictCheckError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConflictCheckFailed,
		Message:   "Failed to check booking conflicts",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports request-schema validation failures.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError is the catch-all for unexpected failures.
func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
