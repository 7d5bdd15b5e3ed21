package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes. Stable across releases; clients branch on
// these, not on messages.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBusiness     = "BUSINESS"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// AppError carries a stable code, a human-readable message, and optional
// structured details (e.g. {"max": 2, "current": 2} for a ceiling breach).
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewBusinessError(message string, details map[string]interface{}) *AppError {
	return &AppError{Code: CodeBusiness, Message: message, Details: details}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message}
}

// HTTPStatus maps an error code to the transport status the handlers return.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeBusiness:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError unwraps err into an AppError, or wraps it as INTERNAL. Callers
// must not see raw driver errors: a mid-transaction abort surfaces as one
// INTERNAL error with no partial effect.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("unexpected error")
}
