// Package testlog routes component logs through the test runner, so they
// interleave with test output and stay silent on passing quiet runs.
package testlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Testing is the subset of testing.TB the logger needs.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
}

// Logger builds a log.Logger that writes through t at the given minimum
// level.
func Logger(t Testing, level slog.Level) log.Logger {
	return log.NewLogger(&handler{t: t, level: level})
}

type handler struct {
	t     Testing
	level slog.Level
	attrs []slog.Attr
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	h.t.Helper()
	var sb strings.Builder
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	h.t.Logf("%-5s %s", levelLabel(r.Level), sb.String())
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &handler{t: h.t, level: h.level, attrs: merged}
}

func (h *handler) WithGroup(string) slog.Handler { return h }

func levelLabel(level slog.Level) string {
	switch {
	case level >= log.LevelCrit:
		return "CRIT"
	case level >= log.LevelError:
		return "ERROR"
	case level >= log.LevelWarn:
		return "WARN"
	case level >= log.LevelInfo:
		return "INFO"
	case level >= log.LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}
