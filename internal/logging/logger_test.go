package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("session created", "session_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug should be filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "session created" || entry["session_id"] != "abc" {
		t.Errorf("entry = %v", entry)
	}
}

func TestFromContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	SetupWriter(&buf, "info", "text")
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "table", "candidates").Info("loaded")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "table=candidates") {
		t.Errorf("log line missing fields: %q", out)
	}
}

func TestIntoContext(t *testing.T) {
	var buf bytes.Buffer
	stored := New(&buf, "info", "text").With("component", "tui")

	ctx := IntoContext(context.Background(), stored)
	// A stored logger wins over the request id fallback
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-7")
	WithFields(ctx, "table", "employees").Info("opened")

	out := buf.String()
	if !strings.Contains(out, "component=tui") || !strings.Contains(out, "table=employees") {
		t.Errorf("log line missing fields: %q", out)
	}
	if strings.Contains(out, "req-7") {
		t.Errorf("stored logger picked up request id: %q", out)
	}
}

func TestNew_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("trace")

	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("debug entry has no source: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not be enabled at any level
	l := Discard()
	l.Error("dropped")
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger is enabled")
	}
}
