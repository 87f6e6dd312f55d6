// Package testutil provides testing utilities for tablefactory
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/tablefactory/pkg/logger"
)

// UseTestLogger routes the global logger to the test output until the test ends.
func UseTestLogger(t testing.TB) *zap.Logger {
	t.Helper()
	l := zaptest.NewLogger(t)
	logger.Set(l)
	t.Cleanup(func() { logger.Set(nil) })
	return l
}

// ObserveLogs installs a global logger that records entries at level and
// above, and returns the recorded entries. The previous logger is dropped
// when the test ends.
func ObserveLogs(t testing.TB, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })
	return logs
}

// TestContext returns a context cancelled after 30 seconds or when the test ends.
func TestContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
