package config

import (
	"encoding/json"
	"os"

	"github.com/foliotrack/folio/internal/flagx"
	"github.com/foliotrack/folio/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds.
type jsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	CredentialsDSN *string         `json:"credentials_dsn"`
	LogLevel       *string         `json:"log_level"`
}

// parseJSON overlays Config with values from the JSON file given via the
// -c/-config flag. No flag means no JSON layer. Only fields present in the
// file override the current values.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}
	if err := fromJSONFile(cfg, path); err != nil {
		panic(err)
	}
}

func fromJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CredentialsDSN != nil {
		cfg.CredentialsDSN = *jc.CredentialsDSN
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
