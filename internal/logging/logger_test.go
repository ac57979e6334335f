package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"beacon/internal/services"
)

func newBufferLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(io.Writer(&buf), levelVar)), &buf
}

func TestConsoleHandlerFormatsAttrs(t *testing.T) {
	logger, buf := newBufferLogger(t)
	logger.Info("candidate scored",
		String("name", "John Doe"),
		Float64(FieldConfidence, 97.5),
		Int("rank", 1),
	)
	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Fatalf("missing level: %q", line)
	}
	if !strings.Contains(line, `name="John Doe"`) {
		t.Fatalf("expected quoted string attr: %q", line)
	}
	if !strings.Contains(line, "confidence=97.5") {
		t.Fatalf("expected confidence attr: %q", line)
	}
}

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	logger, buf := newBufferLogger(t)
	NewComponentLogger(logger, "resolution").Info("pass started")
	line := buf.String()
	if !strings.Contains(line, "resolution: pass started") {
		t.Fatalf("component prefix missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as attr: %q", line)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logger, buf := newBufferLogger(t)
	ctx := services.WithResolutionID(context.Background(), "res-1")
	ctx = services.WithIndividualID(ctx, "ind-9")
	WithContext(ctx, logger).Info("merged")
	line := buf.String()
	if !strings.Contains(line, "resolution_id=res-1") || !strings.Contains(line, "individual_id=ind-9") {
		t.Fatalf("context fields missing: %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug level")
	}
	if parseLevel("") != slog.LevelInfo {
		t.Fatal("default level should be info")
	}
	if parseLevel("bogus") != slog.LevelInfo {
		t.Fatal("unknown level should fall back to info")
	}
}
