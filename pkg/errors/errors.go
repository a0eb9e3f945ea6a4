package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of domain error
type ErrorType string

const (
	// ErrorTypeValidation indicates input validation failure
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"

	// ErrorTypeNotFound indicates an operation referenced a bubble id
	// absent from the store
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates a conflict with existing board state
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeIllegalConnection indicates a connection attempt that
	// violates the connection policy
	ErrorTypeIllegalConnection ErrorType = "ILLEGAL_CONNECTION"

	// ErrorTypeConfirmationRequired indicates an operation that is
	// suspended until the user explicitly confirms it
	ErrorTypeConfirmationRequired ErrorType = "CONFIRMATION_REQUIRED"

	// ErrorTypeInternal indicates an unexpected engine failure
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// DomainError represents a board-engine error with rich context
type DomainError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StatusCode int                    `json:"-"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		StatusCode: errorTypeToStatusCode(errorType),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// WithStatusCode sets a custom HTTP status code
func (e *DomainError) WithStatusCode(code int) *DomainError {
	e.StatusCode = code
	return e
}

// Is checks if the error is of a specific type and code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// errorTypeToStatusCode maps error types to HTTP status codes
func errorTypeToStatusCode(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeIllegalConnection:
		return http.StatusUnprocessableEntity
	case ErrorTypeConfirmationRequired:
		return http.StatusPreconditionRequired
	default:
		return http.StatusInternalServerError
	}
}

// Constructor functions for the engine's error taxonomy

// NewValidationError creates a validation error
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrorTypeValidation, "VALIDATION_FAILED", message)
}

// NewNotFoundError creates a not found error for a resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource))
}

// NewDuplicateConnectionError reports an edge that already exists
// between a pair of bubbles, in either direction
func NewDuplicateConnectionError(sourceID, targetID string) *DomainError {
	return NewDomainError(ErrorTypeConflict, "DUPLICATE_CONNECTION", "connection already exists").
		WithDetail("source_id", sourceID).
		WithDetail("target_id", targetID)
}

// NewIllegalConnectionError reports a connection rejected by policy
func NewIllegalConnectionError(reason string) *DomainError {
	return NewDomainError(ErrorTypeIllegalConnection, "ILLEGAL_CONNECTION", reason)
}

// NewConfirmationRequiredError reports an operation suspended until the
// user confirms it
func NewConfirmationRequiredError(operation string) *DomainError {
	return NewDomainError(ErrorTypeConfirmationRequired, "CONFIRMATION_REQUIRED",
		fmt.Sprintf("%s requires explicit confirmation", operation))
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, "INTERNAL_ERROR", message).WithCause(cause)
}

// Predicates used by call sites that recover locally

// IsNotFound reports whether err is a NotFound domain error
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsDuplicateConnection reports whether err is a duplicate-connection conflict
func IsDuplicateConnection(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeConflict && de.Code == "DUPLICATE_CONNECTION"
	}
	return false
}

// IsIllegalConnection reports whether err is a policy rejection
func IsIllegalConnection(err error) bool {
	return isType(err, ErrorTypeIllegalConnection)
}

// IsConfirmationRequired reports whether err is a suspended confirmation guard
func IsConfirmationRequired(err error) bool {
	return isType(err, ErrorTypeConfirmationRequired)
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

func isType(err error, t ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == t
	}
	return false
}

// GetDomainError extracts a DomainError from an error chain, or nil
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}
