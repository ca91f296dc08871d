package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "UpstreamError")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, upstream detail, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError":
		return http.StatusBadRequest
	case "Unauthorized":
		return http.StatusUnauthorized
	case "ProductNotFound", "ResourceNotFound":
		return http.StatusNotFound
	case "MutationPending":
		return http.StatusConflict
	case "UpstreamError":
		return http.StatusBadGateway
	case "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewMutationPending(name string) *StandardError {
	return NewStandardError("MutationPending", "a change for this product is already in progress", fmt.Sprintf("Product: %s", name))
}

// NewUpstreamError wraps a failure talking to the Inventory API.
func NewUpstreamError(operation string, err error) *StandardError {
	return NewStandardError("UpstreamError", fmt.Sprintf("inventory API request failed: %s", operation), err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}
