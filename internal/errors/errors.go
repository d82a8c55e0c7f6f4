package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service layer
const (
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeValidation        = "VALIDATION_FAILED"
	CodeIncorrectPassword = "INCORRECT_PASSWORD"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeDeleteFailed      = "DELETE_FAILED"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets wrapped copies of a predefined error match the original
// through errors.Is by comparing codes.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// NewValidationError builds a field-level validation failure
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Predefined domain errors
var (
	ErrUserNotFound      = NewDomainError(CodeUserNotFound, "User not found")
	ErrEmailExists       = NewDomainError(CodeEmailExists, "email has already been taken")
	ErrIncorrectPassword = NewDomainError(CodeIncorrectPassword, "Incorrect password")
	ErrUnauthorized      = NewDomainError(CodeUnauthorized, "Unauthorized")
	ErrDeleteFailed      = NewDomainError(CodeDeleteFailed, "delete failed")
	ErrInternal          = NewDomainError(CodeInternal, "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case CodeValidation, CodeEmailExists, CodeDeleteFailed:
		return http.StatusBadRequest

	case CodeIncorrectPassword, CodeUnauthorized:
		return http.StatusUnauthorized

	case CodeUserNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage extracts the message exposed to API clients. Internal
// errors surface the underlying error text verbatim; existing clients
// depend on seeing the raw message, so it is not redacted here.
func ClientMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == CodeInternal && domainErr.Err != nil {
			return domainErr.Err.Error()
		}
		return domainErr.Message
	}

	return err.Error()
}
