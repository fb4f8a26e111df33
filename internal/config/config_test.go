package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audit.DefaultModel != "" {
		t.Errorf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	contents := `
audit:
  default_model: claude-sonnet-4-5
  preferred_provider: anthropic
  verify_mode: self
output:
  format: sarif
  directory: ./reports
collector:
  extra_exclude_dirs:
    - vendor
  per_file_cap_bytes: 100000
suppress:
  - pattern_id: PS_003
    path: "test/**"
    reason: "test fixture"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audit.DefaultModel != "claude-sonnet-4-5" {
		t.Errorf("unexpected default model: %q", cfg.Audit.DefaultModel)
	}
	if cfg.Audit.VerifyMode != "self" {
		t.Errorf("unexpected verify mode: %q", cfg.Audit.VerifyMode)
	}
	if cfg.Output.Format != "sarif" {
		t.Errorf("unexpected output format: %q", cfg.Output.Format)
	}
	if len(cfg.Collector.ExtraExcludeDirs) != 1 || cfg.Collector.ExtraExcludeDirs[0] != "vendor" {
		t.Errorf("unexpected exclude dirs: %v", cfg.Collector.ExtraExcludeDirs)
	}
	if len(cfg.Suppress) != 1 || cfg.Suppress[0].PatternID != "PS_003" {
		t.Errorf("unexpected suppress entries: %+v", cfg.Suppress)
	}
}

func TestLoadParsesDiscoverEndpoints(t *testing.T) {
	dir := t.TempDir()
	contents := `
discover:
  endpoints:
    - name: filesystem
      transport: stdio
      target: "npx -y @modelcontextprotocol/server-filesystem /data"
    - name: weather
      transport: http
      target: "https://mcp.example.com/weather"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Discover.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(cfg.Discover.Endpoints))
	}
	if cfg.Discover.Endpoints[0].Name != "filesystem" || cfg.Discover.Endpoints[0].Transport != "stdio" {
		t.Errorf("unexpected first endpoint: %+v", cfg.Discover.Endpoints[0])
	}
	if cfg.Discover.Endpoints[1].Target != "https://mcp.example.com/weather" {
		t.Errorf("unexpected second endpoint target: %q", cfg.Discover.Endpoints[1].Target)
	}
}

func TestLoadMalformedYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("audit: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error for malformed YAML")
	}
}

func TestWatchReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("audit:\n  default_model: gpt-4o\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	closer, err := Watch(dir, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	if err != nil {
		t.Fatalf("unexpected error starting watch: %v", err)
	}
	defer closer()

	if err := os.WriteFile(path, []byte("audit:\n  default_model: claude-sonnet-4-5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Audit.DefaultModel != "claude-sonnet-4-5" {
			t.Errorf("expected reloaded model, got %q", cfg.Audit.DefaultModel)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
