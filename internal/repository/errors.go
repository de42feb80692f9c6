package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	apperrors "github.com/welldanyogia/mailstore/internal/errors"
)

// Common repository errors
var (
	ErrStorageUnavailable = apperrors.ErrStorageUnavailable
	ErrStorageFault       = apperrors.ErrStorageFault
)

// storageError wraps a driver error with the storage error kind it belongs to.
// The driver error stays reachable through errors.Is / errors.As.
func storageError(op string, err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, ErrStorageFault, err)
}

// isConnectionError checks if the error means the database could not be reached
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "bad connection") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "server closed the connection") ||
		strings.Contains(errStr, "sqlstate 08") // PostgreSQL connection exception class
}
