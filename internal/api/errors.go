package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/parlato/parlato-api/internal/api/shared"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/service/answer"
	"github.com/parlato/parlato-api/internal/service/attempt"
	"github.com/parlato/parlato-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, store.ErrVariantNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, answer.ErrQuestionNotFound),
		errors.Is(err, attempt.ErrQuestionNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDeliveryMethod),
		errors.Is(err, answer.ErrMethodNotSupported),
		errors.Is(err, attempt.ErrInvalidInput):
		return http.StatusBadRequest

	// Upstream dependency failures
	case errors.Is(err, answer.ErrAssessmentUnavailable):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, answer.ErrQuestionNotFound),
		errors.Is(err, attempt.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrVariantNotFound),
		errors.Is(err, answer.ErrMethodNotSupported):
		return "Delivery method not supported for this question"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, domain.ErrInvalidDeliveryMethod):
		return "Invalid delivery method"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, attempt.ErrInvalidInput):
		return "Invalid request data"

	case errors.Is(err, answer.ErrAssessmentUnavailable):
		return "Pronunciation assessment is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the sanitized error response for err, logging
// the full detail. A non-empty fallbackMessage overrides the generic
// message for internal server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" && status == http.StatusInternalServerError {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'ValidateAnswerRequest.Answer' Error:Field
		// validation for 'Answer' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}
