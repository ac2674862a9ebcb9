package core

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by core and the packages built on
// it (control, telemetry, rendering). Passing nil restores the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (trail rebuilds, star respawns)
//   - [slog.LevelInfo]: lifecycle (bodies added, server started)
//   - [slog.LevelWarn]: recoverable problems (bad client edits, GL errors)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
