package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/welldanyogia/mailstore/internal/api/response"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RequireDatabaseConfig configures RequireDatabaseWithConfig
type RequireDatabaseConfig struct {
	// Skipper bypasses the check, e.g. for requests rejected without storage
	Skipper echomw.Skipper
	Pinger  Pinger
	Logger  *slog.Logger
}

// RequireDatabase aborts the request with 500 "Database connection failed"
// before any handler logic runs when the database cannot be reached
func RequireDatabase(db Pinger, logger *slog.Logger) echo.MiddlewareFunc {
	return RequireDatabaseWithConfig(RequireDatabaseConfig{Pinger: db, Logger: logger})
}

// RequireDatabaseWithConfig is RequireDatabase with a skipper
func RequireDatabaseWithConfig(cfg RequireDatabaseConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomw.DefaultSkipper
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}
			if err := cfg.Pinger.PingContext(c.Request().Context()); err != nil {
				cfg.Logger.Error("database connection failed",
					slog.String("path", c.Request().URL.Path),
					slog.Any("error", err),
				)
				return response.StorageUnavailable(c)
			}
			return next(c)
		}
	}
}
