// Package config loads the monitor's YAML configuration: where it
// writes logs, which route it is checking, and how much concurrency
// internal/parallel may use.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the monitor's top-level configuration.
type Config struct {
	// LogRoot is the directory under which every route's violations
	// and stats.json are written.
	LogRoot string `yaml:"log_root"`
	// Route names the subdirectory (and the monitored scenario) this
	// run's frames belong to.
	Route string `yaml:"route"`
	// MaxConcurrency bounds how many independent routes RunStreams may
	// process at once. Zero means "let internal/parallel pick".
	MaxConcurrency int `yaml:"max_concurrency"`
	// CacheSizeHint is an advisory bound on the number of entries a
	// scenegraph.Graph's per-frame cache is expected to hold; it is not
	// enforced (the cache is cleared every frame by construction) but
	// is surfaced so deployments can size monitoring dashboards.
	CacheSizeHint int `yaml:"cache_size_hint"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		LogRoot:        "logs",
		Route:          "default",
		MaxConcurrency: 0,
		CacheSizeHint:  256,
	}
}

// Load reads and parses a YAML configuration file at path. A missing
// file is not an error, Default is returned unchanged, matching the
// "config is optional, sensible defaults apply" convention.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if cfg.LogRoot == "" {
		return nil, fmt.Errorf("config: %q: log_root must not be empty", path)
	}
	if cfg.Route == "" {
		return nil, fmt.Errorf("config: %q: route must not be empty", path)
	}
	return cfg, nil
}
