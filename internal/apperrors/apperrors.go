package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ValidationError    ErrorCode = "validation_error"
	PersistenceError   ErrorCode = "persistence_error"
	IntegrityError     ErrorCode = "integrity_error"
	UnknownTransaction ErrorCode = "unknown_transaction"
	InternalError      ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps an error code to the response status handlers should use.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ValidationError, IntegrityError:
		return http.StatusBadRequest
	case UnknownTransaction:
		return http.StatusNotFound
	case PersistenceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
