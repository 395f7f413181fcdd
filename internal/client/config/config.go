// Package config holds runtime settings for the client. Values are layered:
// defaults, then environment (a .env file is honored), then a JSON config
// file, then command-line flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the data layer and the demo CLI.
//
// Fields:
//   - APIBaseURL: versioned base URL of the backend REST API.
//   - RequestTimeout: per-request round-trip bound.
//   - CredentialsDSN: sqlite DSN for persisted credentials; empty keeps the
//     session credential in memory only.
//   - LogLevel: zerolog level name (debug, info, warn, error).
type Config struct {
	APIBaseURL     string        `env:"FOLIO_API_BASE_URL"`
	RequestTimeout time.Duration `env:"FOLIO_REQUEST_TIMEOUT"`
	CredentialsDSN string        `env:"FOLIO_CREDENTIALS_DSN"`
	LogLevel       string        `env:"FOLIO_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 30 * time.Second
	c.CredentialsDSN = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given via -c/-config), and
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
