package config

import (
	"github.com/caarlos0/env/v11"
)

// FromEnv overlays RELAY_* environment variables onto cfg. Unset variables
// leave the existing values in place.
func FromEnv(cfg *Config) error {
	return env.Parse(cfg)
}
