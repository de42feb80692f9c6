package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppError_CreatesErrorWithCorrectFields(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := NewAppError(baseErr, "custom message", CodeNotFound)

	assert.Equal(t, baseErr, appErr.Err)
	assert.Equal(t, "custom message", appErr.Message)
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestAppError_Error_ReturnsBaseErrorWhenNoMessage(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := NewAppError(baseErr, "", CodeNotFound)

	assert.Equal(t, "base error", appErr.Error())
	assert.Equal(t, baseErr, appErr.Unwrap())
}

func TestWrap_ReturnsNilForNilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	wrapped := Wrap(ErrNotFound, "context")
	assert.Contains(t, wrapped.Error(), "context")
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestGetErrorCode(t *testing.T) {
	driverErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", ErrNotFound, CodeNotFound},
		{"wrapped invalid input", Wrap(ErrInvalidInput, "subject is required"), CodeInvalidInput},
		{"method not allowed", ErrMethodNotAllowed, CodeMethodNotAllowed},
		{"unavailable with driver cause", fmt.Errorf("failed to get mail: %w: %w", ErrStorageUnavailable, driverErr), CodeStorageUnavailable},
		{"fault", Wrap(ErrStorageFault, "failed to delete mail"), CodeStorageFault},
		{"app error code wins", NewAppError(errors.New("x"), "", CodeInvalidInput), CodeInvalidInput},
		{"unknown", errors.New("other"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCode(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound, false))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidInput, false))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeMethodNotAllowed, false))
	assert.Equal(t, http.StatusMethodNotAllowed, HTTPStatus(CodeMethodNotAllowed, true))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeStorageUnavailable, false))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeStorageFault, true))
}

func TestPublicMessage_StorageUnavailable(t *testing.T) {
	assert.Equal(t, "Database connection failed", PublicMessage(CodeStorageUnavailable))
	assert.Equal(t, "Internal server error", PublicMessage(CodeStorageFault))
}
