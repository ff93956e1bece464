package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewDefaultsToConsole(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" DEBUG ": slog.LevelDebug,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-123")
	id, ok := CorrelationIDFromContext(ctx)
	if !ok || id != "req-123" {
		t.Fatalf("correlation id = %q, ok = %v", id, ok)
	}
	if fields := ContextFields(ctx); len(fields) != 1 || fields[0].Key != FieldCorrelationID {
		t.Fatalf("unexpected context fields: %v", fields)
	}
	if logger := WithContext(ctx, NewNop()); logger == nil {
		t.Fatal("expected logger")
	}
}

func TestWithContextNilSafe(t *testing.T) {
	if logger := WithContext(context.Background(), nil); logger == nil {
		t.Fatal("expected no-op logger")
	}
}
