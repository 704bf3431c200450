package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithSessionID(ctx, "sess-9")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("missing request_id, got %v", entry["request_id"])
	}
	if entry["quote_session_id"] != "sess-9" {
		t.Fatalf("missing quote_session_id, got %v", entry["quote_session_id"])
	}
	if entry["service"] != "test" {
		t.Fatalf("missing service field, got %v", entry["service"])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("bogus") != zerolog.InfoLevel {
		t.Fatal("expected info fallback")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("expected debug")
	}
}
