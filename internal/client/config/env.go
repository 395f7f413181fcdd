package config

import (
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with FOLIO_* environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env entries. Variables that are not set leave the
// current values untouched.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()
	_ = envdecode.Decode(cfg)
}
