// Package logger builds the structured loggers used by the mailstore service.
package logger

import (
	"io"
	"log/slog"
	"os"

	gormlogger "gorm.io/gorm/logger"
)

// New creates a JSON slog.Logger writing to stdout at the given level
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON slog.Logger writing to w
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// GormLevel maps the application log level onto GORM's SQL logger.
// SQL statements are only traced at debug level.
func GormLevel(level slog.Level) gormlogger.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return gormlogger.Info
	case level >= slog.LevelError:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
