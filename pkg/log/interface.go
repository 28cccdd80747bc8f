// Package log provides structured logging for winebench evaluation runs.
//
// The interface is deliberately small and slog-shaped: leveled methods that
// accept alternating key/value fields, plus With for contextual loggers.
// The only implementation is backed by zerolog; swapping the backend means
// implementing Logger and LoggerProvider.
package log

import "context"

// Logger is a leveled, structured logger. Fields are alternating key/value
// pairs; an error passed as a value is rendered with its type information
// when the concrete backend supports it.
type Logger interface {
	// Debug logs detailed diagnostic information, such as per-fold metric
	// values or chosen hyperparameters.
	Debug(msg string, fields ...any)

	// Info logs run-level progress: dataset sizes, model start/finish.
	Info(msg string, fields ...any)

	// Warn logs recoverable conditions, e.g. a skipped degenerate fold.
	Warn(msg string, fields ...any)

	// Error logs failures that abort a model's evaluation.
	Error(msg string, fields ...any)

	// With returns a Logger that includes the given fields in every
	// subsequent message.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with slog-compatible values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the level name.
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
