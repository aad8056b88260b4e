// Package testutil provides test helpers shared by package tests.
package testutil

import (
	"log/slog"
	"testing"
	"time"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// RecordingLogger collects the statements passed to a fluentdao Logger.
// Entries carry Database as it was when they were logged.
type RecordingLogger struct {
	Database string
	Entries  []Entry
}

// Entry is one logged statement.
type Entry struct {
	Database string
	Query    string
	Args     []any
	Duration time.Duration
	Err      error
}

// Log implements fluentdao.Logger.
func (r *RecordingLogger) Log(query string, args []any, d time.Duration, err error) {
	r.Entries = append(r.Entries, Entry{Database: r.Database, Query: query, Args: args, Duration: d, Err: err})
}
