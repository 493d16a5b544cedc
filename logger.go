package buddhabrot

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so disabled calls
// never format their attributes.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discard{}))
}

// SetLogger sets the logger used by the renderer. Nothing is logged until
// SetLogger is called; nil restores that silent default. It may be called
// while a render is running.
//
// Levels:
//   - [slog.LevelDebug]: pass timings and throttled sampling progress
//   - [slog.LevelInfo]: phase boundaries (good points found, sampling done)
//   - [slog.LevelWarn]: fallback to uniform proposals
//
// Example:
//
//	buddhabrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}

// phaseLogger tags records with the pipeline phase they come from.
func phaseLogger(phase string) *slog.Logger {
	return Logger().With("phase", phase)
}
