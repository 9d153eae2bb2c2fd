// Package config defines riskboard configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and RISKBOARD_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Config contains process configuration for both the dashboard console and
// the stub backend.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the backend origin the dashboard talks to.
	BaseURL string `koanf:"base_url"`

	// RequestTimeoutMS bounds each backend request. Zero leaves requests
	// unbounded, which is how the page behaves.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// Addr configures the stub backend listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// FixturesPath points the stub backend at a YAML file of canned responses.
	// Empty uses the built-in responses.
	FixturesPath string `koanf:"fixtures_path"`

	// DefaultStatsAttribute is charted when the statistics page has no selection.
	DefaultStatsAttribute string `koanf:"default_stats_attribute"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		BaseURL:               "http://localhost:5000",
		RequestTimeoutMS:      0,
		Addr:                  ":5000",
		FixturesPath:          "",
		DefaultStatsAttribute: "gender",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
