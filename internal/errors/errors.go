package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a mail record was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates a malformed body or a non-positive identifier
	ErrInvalidInput = errors.New("invalid input")

	// ErrMethodNotAllowed indicates the route does not support the request method
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrStorageUnavailable indicates the database could not be reached
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageFault indicates a statement failed after the connection succeeded
	ErrStorageFault = errors.New("storage fault")
)

// Error codes for API responses
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeStorageFault       = "STORAGE_FAULT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorageUnavailable checks if the database could not be reached
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsStorageFault checks if a statement failed against a reachable database
func IsStorageFault(err error) bool {
	return errors.Is(err, ErrStorageFault)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}

	switch {
	case IsNotFound(err):
		return CodeNotFound
	case IsInvalidInput(err):
		return CodeInvalidInput
	case errors.Is(err, ErrMethodNotAllowed):
		return CodeMethodNotAllowed
	case IsStorageUnavailable(err):
		return CodeStorageUnavailable
	case IsStorageFault(err):
		return CodeStorageFault
	default:
		return CodeInternalError
	}
}

// HTTPStatus maps an error code to its HTTP status.
// Unsupported methods answer 400 unless strict method checking is enabled.
func HTTPStatus(code string, strictMethods bool) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeMethodNotAllowed:
		if strictMethods {
			return http.StatusMethodNotAllowed
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API clients for an error code
func PublicMessage(code string) string {
	switch code {
	case CodeNotFound:
		return "Not found"
	case CodeInvalidInput:
		return "Bad request"
	case CodeMethodNotAllowed:
		return "Method not allowed"
	case CodeStorageUnavailable:
		return "Database connection failed"
	default:
		return "Internal server error"
	}
}
