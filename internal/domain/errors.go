package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDeliveryMethod is returned when a delivery method is not
	// one of the supported exercise formats.
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")

	// ErrInvalidScore is returned when a score is outside the 0-100 range.
	ErrInvalidScore = errors.New("score must be between 0 and 100")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrUnauthorized is returned when a request lacks a valid
	// authenticated user.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a validation failure for a named field.
// It wraps a sentinel error so callers can use errors.Is for
// classification while still seeing which field was at fault.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel error to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
