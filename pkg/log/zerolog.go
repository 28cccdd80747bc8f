package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oenolab/winebench/pkg/errors"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger Logger = &zerologLogger{
		zl: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel),
	}
)

// Setup configures the default logger to write console-formatted output at
// the given level ("debug", "info", "warn", "error") and routes pkg/errors
// warnings through it.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		With().Timestamp().Logger().
		Level(toZerologLevel(level))

	logger := &zerologLogger{zl: zl}

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()

	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("warning")
			return
		}
		ev.Err(warning).Msg("warning")
	})
}

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger with a component field set.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With("component", name)
}

func toZerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toLevel(l.zl.GetLevel()) <= level
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case float64:
			ev = ev.Float64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func toLevel(zl zerolog.Level) Level {
	switch zl {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}
