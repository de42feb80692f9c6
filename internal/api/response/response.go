package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/welldanyogia/mailstore/internal/errors"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// DeletedResponse is returned after a successful delete
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// OK returns a 200 response with data as the raw JSON body
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created returns a 201 Created response
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// Deleted returns 200 with {"deleted":true}
func Deleted(c echo.Context) error {
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: message,
		Code:  apperrors.CodeInvalidInput,
	})
}

// NotFound returns a 404 Not Found response
func NotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Error: message,
		Code:  apperrors.CodeNotFound,
	})
}

// InternalError returns a 500 Internal Server Error response
func InternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: message,
		Code:  apperrors.CodeInternalError,
	})
}

// StorageUnavailable returns the 500 sent when the database cannot be reached
func StorageUnavailable(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: apperrors.PublicMessage(apperrors.CodeStorageUnavailable),
		Code:  apperrors.CodeStorageUnavailable,
	})
}

// MethodNotAllowed rejects an unsupported method. With strict checking the
// response is a 405 carrying an Allow header, otherwise a plain 400.
func MethodNotAllowed(c echo.Context, strict bool, allowed ...string) error {
	if strict && len(allowed) > 0 {
		c.Response().Header().Set(echo.HeaderAllow, strings.Join(allowed, ", "))
	}
	return c.JSON(apperrors.HTTPStatus(apperrors.CodeMethodNotAllowed, strict), ErrorResponse{
		Error: apperrors.PublicMessage(apperrors.CodeMethodNotAllowed),
		Code:  apperrors.CodeMethodNotAllowed,
	})
}

// Error returns an error response with appropriate status code.
// Client errors may carry the AppError message; server errors never leak details.
func Error(c echo.Context, err error, strictMethods bool) error {
	code := apperrors.GetErrorCode(err)
	status := apperrors.HTTPStatus(code, strictMethods)

	message := apperrors.PublicMessage(code)
	var appErr *apperrors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	return c.JSON(status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// HTTPErrorHandler renders errors escaping handlers (unknown routes, panics
// turned into errors by Recover) in the same shape as ErrorResponse
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := apperrors.PublicMessage(apperrors.CodeInternalError)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error("unhandled error",
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorResponse{Error: message})
		}
		if writeErr != nil {
			logger.Error("failed to write error response", slog.Any("error", writeErr))
		}
	}
}
