package logging

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Attr is re-exported so call sites do not need to import log/slog directly.
type Attr = slog.Attr

func String(key, value string) Attr          { return slog.String(key, value) }
func Int(key string, value int) Attr         { return slog.Int(key, value) }
func Int64(key string, value int64) Attr     { return slog.Int64(key, value) }
func Float64(key string, value float64) Attr { return slog.Float64(key, value) }
func Bool(key string, value bool) Attr       { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Attr {
	return slog.Duration(key, value)
}
func Any(key string, value any) Attr { return slog.Any(key, value) }

// Error returns a standard attribute for error values.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Shared attribute keys used across components.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldBackend   = "backend"
	FieldQuery     = "query"
	FieldKind      = "kind"
	FieldCount     = "count"
	FieldDuration  = "duration"
)

// NewComponentLogger tags every record with a component name for the console
// prefix.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NewNop returns a logger that discards everything. Useful in tests and as a
// nil-safe fallback.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }

// NewWriterLogger builds a console-format logger writing to w. Tests use it to
// capture output.
func NewWriterLogger(w io.Writer, level string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(w, levelVar))
}
