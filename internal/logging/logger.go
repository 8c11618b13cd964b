// Package logging builds the structured logger shared by all components.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a JSON logger at Info level for env "prod" and a text
// logger at Debug level otherwise. Output goes to stderr so that stdout
// stays free for answers.
func NewLogger(env string) *Logger {
	return New(env, os.Stderr)
}

// New is NewLogger with an explicit writer.
func New(env string, w io.Writer) *Logger {
	var handler slog.Handler

	if env == "prod" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything. Used as the default
// when a component is built without a logger.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a logger with additional context attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}
