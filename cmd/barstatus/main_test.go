package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/genricoloni/barstatus/internal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	if err := fx.ValidateApp(AppOptions); err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	t.Setenv("BARSTATUS_LOG_LEVEL", "")
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug logging should be off by default")
	}
}

// TestNewLogger_InvalidLevel verifies a bad level falls back to warn
// instead of failing the graph and leaving the bar empty
func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Setenv("BARSTATUS_LOG_LEVEL", "chatty")
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Invalid level should not fail: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Info logging should be off after fallback")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("Warn logging should be on after fallback")
	}
}

func TestEndToEndStartup_InvalidLogLevel(t *testing.T) {
	t.Setenv("BARSTATUS_LOG_LEVEL", "chatty")
	t.Setenv("BARSTATUS_BACKEND", "")

	var buf bytes.Buffer
	app := fx.New(
		AppOptions,
		fx.Decorate(func(domain.Player) domain.Player { return fakePlayer{} }),
		fx.Decorate(func(io.Writer) io.Writer { return &buf }),
		fx.NopLogger,
	)

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}
	if err := app.Stop(context.Background()); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected a bar line despite the invalid log level")
	}
}

type fakePlayer struct{}

func (fakePlayer) Status(context.Context) (string, error) { return "Paused", nil }
func (fakePlayer) Position(context.Context) (string, error) {
	return "125.9", nil
}
func (fakePlayer) Metadata(context.Context) (domain.TrackMetadata, error) {
	return domain.NewTrackMetadata(map[string]string{
		domain.KeyTitle:  "Foo",
		domain.KeyAlbum:  "Bar",
		domain.KeyLength: "125000000",
	}), nil
}

// TestEndToEndStartup runs one full render through the real graph with the
// player and stdout swapped out
func TestEndToEndStartup(t *testing.T) {
	for _, key := range []string{"BARSTATUS_SHOW_PROGRESS", "BARSTATUS_MAX_LENGTH", "BARSTATUS_BACKEND"} {
		t.Setenv(key, "")
	}

	var buf bytes.Buffer
	app := fx.New(
		AppOptions,
		fx.Decorate(func(domain.Player) domain.Player { return fakePlayer{} }),
		fx.Decorate(func(io.Writer) io.Writer { return &buf }),
		fx.NopLogger, // Silence Fx logs during tests
	)

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}
	if err := app.Stop(context.Background()); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}

	if got := buf.String(); got != "⏸  Bar — Foo (2:05 / 2:05)\n#e3a600\n" {
		t.Errorf("unexpected output %q", got)
	}
}
