package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/paramita-auth/internal/flagx"
	"github.com/dmitrijs2005/paramita-auth/internal/timex"
	"github.com/joho/godotenv"
)

// parseEnv loads a dotenv file (the -envfile flag, else ./.env if present)
// into the process environment without overriding variables that are
// already set, then overlays every variable named in Config's env tags.
// Unset variables leave the current values alone.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.ParseWithOptions(config, timex.EnvOptions()); err != nil {
		panic(err)
	}
}
