package buddhabrot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

var allLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func TestDiscardHandler(t *testing.T) {
	var h slog.Handler = discard{}
	for _, level := range allLevels {
		if h.Enabled(context.Background(), level) {
			t.Errorf("discard.Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("discard.Handle() = %v", err)
	}
	if _, ok := h.WithAttrs(nil).(discard); !ok {
		t.Error("WithAttrs() changed the handler type")
	}
	if _, ok := h.WithGroup("g").(discard); !ok {
		t.Error("WithGroup() changed the handler type")
	}
}

func TestLogger_SilentByDefault(t *testing.T) {
	for _, level := range allLevels {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("default logger enabled for %v", level)
		}
	}
}

// captureLogs installs a debug-level text logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestSetLogger(t *testing.T) {
	buf := captureLogs(t)

	phaseLogger("sample").Info("hello", "n", 3)
	out := buf.String()
	for _, want := range []string{"hello", "phase=sample", "n=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestSetLogger_Nil(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(slog.Default())
	SetLogger(nil)

	if Logger() == nil {
		t.Fatal("SetLogger(nil) stored a nil logger")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestSetLogger_Concurrent(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			phaseLogger("raster").Debug("tick")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
