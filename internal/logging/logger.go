// Package logging provides the structured logger used across the service.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with field helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a text logger at debug level in development and a JSON
// logger at info level otherwise. Output goes to stdout.
func NewLogger(isDevelopment bool) *Logger {
	return NewLoggerWithWriter(os.Stdout, isDevelopment)
}

// NewLoggerWithWriter is NewLogger with an explicit destination.
func NewLoggerWithWriter(w io.Writer, isDevelopment bool) *Logger {
	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// WithFields returns a child logger that always includes the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithError returns a child logger carrying err under the "error" key.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With("error", err.Error())}
}
