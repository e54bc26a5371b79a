package config

import "time"

// Config holds runtime settings for the Jotter CLI.
//
// Units: all intervals are time.Durations (e.g. 300*time.Millisecond).
type Config struct {
	// ServerBaseURL is the root of the journal API, e.g. "http://127.0.0.1:8080".
	ServerBaseURL string
	// DatabasePath locates the local SQLite database (session persistence).
	DatabasePath string
	// RequestTimeout caps every single HTTP call.
	RequestTimeout time.Duration
	// AutosaveDelay is the quiet period before a draft is saved automatically.
	AutosaveDelay time.Duration
	// SearchDebounce is the quiet period before a suggestion query fires.
	SearchDebounce time.Duration
	// SearchMinQuery is the minimum query length that triggers suggestions.
	SearchMinQuery int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "jotter.db"
	c.RequestTimeout = 10 * time.Second
	c.AutosaveDelay = 1000 * time.Millisecond
	c.SearchDebounce = 300 * time.Millisecond
	c.SearchMinQuery = 2
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
