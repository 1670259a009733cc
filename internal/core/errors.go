package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input or configuration
	ErrCatExecution  ErrorCategory = "execution"  // Agent process failure
	ErrCatTimeout    ErrorCategory = "timeout"    // Agent exceeded its deadline
	ErrCatStorage    ErrorCategory = "storage"    // Persistence failure
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{Category: ErrCatValidation, Code: code, Message: message}
}

// ErrExecution creates an execution error.
func ErrExecution(code, message string) *DomainError {
	return &DomainError{Category: ErrCatExecution, Code: code, Message: message}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{Category: ErrCatTimeout, Code: "TIMEOUT", Message: message}
}

// ErrStorage creates a storage error.
func ErrStorage(code, message string) *DomainError {
	return &DomainError{Category: ErrCatStorage, Code: code, Message: message}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category: ErrCatNotFound,
		Code:     "NOT_FOUND",
		Message:  fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// IsNotFound reports whether an error is a not-found condition.
func IsNotFound(err error) bool {
	return IsCategory(err, ErrCatNotFound)
}

// Predefined error codes
const (
	CodeEmptyTopic      = "EMPTY_TOPIC"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeInvalidRole     = "INVALID_ROLE"
	CodeDuplicateRole   = "DUPLICATE_ROLE"
	CodeWrongAgentCount = "WRONG_AGENT_COUNT"
	CodeInvalidTimeout  = "INVALID_TIMEOUT"

	CodeAgentNotFound = "AGENT_CLI_NOT_FOUND"
	CodeAgentFailed   = "AGENT_FAILED"

	CodeSaveFailed   = "SAVE_FAILED"
	CodeIndexFailed  = "INDEX_FAILED"
	CodeDecodeFailed = "DECODE_FAILED"
)
