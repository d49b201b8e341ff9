// Package clientlog provides the compiler's pluggable logging seam. Earlier
// revisions of this codebase resolved a logger from a package-level
// singleton reachable through context.Context; a library embedded in a
// caller's own process can't dictate how that caller logs, so every
// component here instead takes a Logger value explicitly (Client, the
// endpoint driver) and a NopLogger is used when none is given.
package clientlog

import (
	"log/slog"
	"os"
)

// Logger is the minimal structured logging surface the compiler needs.
// SlogLogger satisfies it directly; callers can adapt any other logger of
// their own to it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogLogger adapts log/slog.Logger to the Logger interface.
type SlogLogger struct {
	*slog.Logger
}

// NewSlogLogger builds a SlogLogger writing JSON or text to stdout,
// mirroring the level/format configuration shape of this project's earlier
// server-side logging config.
func NewSlogLogger(level string, format string) *SlogLogger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelError}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &SlogLogger{Logger: slog.New(handler)}
}

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{Logger: l.Logger.With(args...)}
}

// NopLogger discards everything; it's the zero-value default for a Client
// built without an explicit Logger.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
func (n NopLogger) With(...any) Logger { return n }
