// Package errors defines the application error type returned by services and
// rendered by the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	CodeRecipeNotFound ErrorCode = "RECIPE_NOT_FOUND"
	CodeAlreadyRated   ErrorCode = "ALREADY_RATED"
)

// AppError is an error with a stable code and a client-safe message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeRecipeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyRated:
		return http.StatusConflict
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewValidationError(details string) *AppError {
	return &AppError{Code: CodeValidationFailed, Message: "Validation failed", Details: details}
}

func NewNotFoundError(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "Access forbidden"
	}
	return New(CodeForbidden, message)
}

func NewInternalError(message string, cause error) *AppError {
	return New(CodeInternal, message).WithCause(cause)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
