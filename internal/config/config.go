// Package config loads project-level defaults from .agentaudit.yaml. A
// missing file is not an error: it yields a zero-value Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config holds the parsed contents of .agentaudit.yaml.
type Config struct {
	Audit     AuditSettings      `yaml:"audit"`
	Output    OutputSettings     `yaml:"output"`
	Collector CollectorSettings  `yaml:"collector"`
	Suppress  []SuppressionEntry `yaml:"suppress"`
	Discover  DiscoverSettings   `yaml:"discover"`
}

// DiscoverSettings lists the MCP endpoints the discover command surfaces.
// Nothing in this build probes them over the network — discover only
// reports what the project has declared in its own config.
type DiscoverSettings struct {
	Endpoints []MCPEndpoint `yaml:"endpoints"`
}

// MCPEndpoint names one configured MCP server for the discover command.
type MCPEndpoint struct {
	Name      string `yaml:"name"`
	Transport string `yaml:"transport"` // "stdio", "http", or "sse"
	Target    string `yaml:"target"`    // command line, URL, or socket path
}

// AuditSettings controls default model/provider/verification behaviour for
// the audit command.
type AuditSettings struct {
	DefaultModel      string `yaml:"default_model"`
	PreferredProvider string `yaml:"preferred_provider"`
	VerifyMode        string `yaml:"verify_mode"` // "", "self", "cross", or an explicit model id
}

// OutputSettings controls default report format/directory.
type OutputSettings struct {
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"`
}

// CollectorSettings holds collector overrides parsed from the config file.
// collector.Collect does not read them: the walker's fixed exclusions and
// size caps apply unchanged.
type CollectorSettings struct {
	ExtraExcludeDirs []string `yaml:"extra_exclude_dirs"`
	PerFileCapBytes  int      `yaml:"per_file_cap_bytes"`
	TotalCapBytes    int      `yaml:"total_cap_bytes"`
}

// SuppressionEntry marks findings matching PatternID (and optionally a file
// glob) as by-design, giving Finding.by_design a configuration-driven
// producer in addition to the LLM's own judgement.
type SuppressionEntry struct {
	PatternID string `yaml:"pattern_id"`
	PathGlob  string `yaml:"path,omitempty"`
	Reason    string `yaml:"reason,omitempty"`
}

// FileName is the project config file name.
const FileName = ".agentaudit.yaml"

// Load reads FileName from root. A missing file returns a zero-value Config
// and no error.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// Watch starts a goroutine that reloads the config from root whenever
// FileName changes, invoking onReload with the freshly parsed Config. No
// command in this CLI calls Watch; scan and audit load the config once with
// Load. The returned closer stops the watch.
func Watch(root string, onReload func(*Config, error)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting config watcher: %w", err)
	}

	path := filepath.Join(root, FileName)
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, loadErr := Load(root)
				onReload(cfg, loadErr)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onReload(nil, err)
			}
		}
	}()

	return watcher.Close, nil
}
