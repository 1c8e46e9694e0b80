// Package config handles configuration for the client: defaults, JSON
// overlay, and command-line flags, with later sources taking precedence.
package config

import "time"

// Config holds runtime settings for the FoodShare client.
//
// Fields:
//   - ServerAddr: base URL of the backend HTTP API.
//   - DatabasePath: sqlite file for local drafts, session and cache.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SubmitTimeout: client-side deadline for publishing a listing.
type Config struct {
	ServerAddr          string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	SubmitTimeout       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "foodshare.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.SubmitTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
