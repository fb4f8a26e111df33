package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	logger := New(Options{})
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected debug disabled by default")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Error("expected info enabled by default")
	}
}

func TestNewDebugEnablesDebugLevel(t *testing.T) {
	logger := New(Options{Debug: true})
	if !logger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected debug enabled when Debug is set")
	}
}

func TestFormatFromEnv(t *testing.T) {
	old, had := os.LookupEnv("AGENTAUDIT_LOG_FORMAT")
	t.Cleanup(func() {
		if had {
			os.Setenv("AGENTAUDIT_LOG_FORMAT", old)
		} else {
			os.Unsetenv("AGENTAUDIT_LOG_FORMAT")
		}
	})

	os.Unsetenv("AGENTAUDIT_LOG_FORMAT")
	if FormatFromEnv() {
		t.Error("expected false when unset")
	}

	os.Setenv("AGENTAUDIT_LOG_FORMAT", "json")
	if !FormatFromEnv() {
		t.Error("expected true when set to json")
	}

	os.Setenv("AGENTAUDIT_LOG_FORMAT", "text")
	if FormatFromEnv() {
		t.Error("expected false for any non-json value")
	}
}

func TestJSONHandlerProducesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("audit started", "model", "claude-sonnet-4-5")
	if !strings.Contains(buf.String(), `"model":"claude-sonnet-4-5"`) {
		t.Errorf("expected JSON-encoded attribute, got %s", buf.String())
	}
}
