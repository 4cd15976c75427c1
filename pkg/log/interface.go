// Package log provides structured logging for trendline.
//
// Two front ends are available. SetupLogger configures the process-wide
// log/slog default with a JSON handler that adds cockroachdb/errors stack
// traces. The Logger interface is a small slog-compatible abstraction that
// packages accept as a dependency; the default implementation is backed by
// zerolog.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("pipeline")
//	logger.Info("Trendline fitted",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 213,
//	    log.SlopeKey, 0.42,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. For Error, an error value may be
// passed as the first field; it is logged under the "error" key.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates named loggers. It lets tests swap the backend.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
