package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/paramita-auth/internal/timex"
)

// parseEnv overlays the AUTHCTL_* variables that are set. The CLI reads no
// dotenv file; it runs from arbitrary directories.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, timex.EnvOptions()); err != nil {
		panic(err)
	}
}
