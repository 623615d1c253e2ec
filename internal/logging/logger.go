// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zerolog implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "capsule scheduled", "capsule_id", id, "open_date", openDate)
type Logger interface {
	// Debug logs a diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds the logger selected by format: "console" writes human readable
// zerolog output, anything else writes slog JSON.
func New(format string, w io.Writer) Logger {
	if strings.EqualFold(format, "console") {
		return NewConsoleLogger(w)
	}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
