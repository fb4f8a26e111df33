// Package logging configures the process-wide structured logger using
// log/slog: text handler by default, JSON when requested for
// machine-readable CI logs.
package logging

import (
	"log/slog"
	"os"
)

// Options controls logger construction.
type Options struct {
	Debug bool
	JSON  bool
}

// New builds a slog.Logger writing to stderr. Debug enables Debug-level
// output; JSON switches to a JSON handler for CI log ingestion. No handler
// configuration here ever receives a raw provider API key — callers must log
// ProviderEntry.EnvVar (the env var name) rather than a resolved secret value.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	return slog.New(handler)
}

// FormatFromEnv returns true if AGENTAUDIT_LOG_FORMAT=json is set.
func FormatFromEnv() bool {
	return os.Getenv("AGENTAUDIT_LOG_FORMAT") == "json"
}
