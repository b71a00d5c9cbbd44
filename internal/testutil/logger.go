// Package testutil holds shared test helpers.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger builds a debug-level slog.Logger routed through t.Log,
// so forwarder and script output surfaces only for failing tests or
// under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// logWriter adapts testing.TB to io.Writer for the slog handler.
type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
