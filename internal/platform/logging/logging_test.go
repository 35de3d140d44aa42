package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "dashboard", "info")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info().Msg("started")

	output := buf.String()
	if !strings.Contains(output, `"service":"dashboard"`) {
		t.Fatalf("expected service field, got %s", output)
	}
	if !strings.Contains(output, `"message":"started"`) {
		t.Fatalf("expected message field, got %s", output)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "dashboard", "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %s", buf.String())
	}

	logger.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn output, got %s", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(nil, "dashboard", "shout"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
