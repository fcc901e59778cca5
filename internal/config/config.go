package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds service settings, loaded from MERITPOINT_* environment
// variables. The JWT secret is shared with the identity service that
// issues access tokens.
type Config struct {
	Port      string `env:"MERITPOINT_PORT" envDefault:"8080"`
	DBPath    string `env:"MERITPOINT_DB_PATH" envDefault:"meritpoint.db"`
	LogLevel  string `env:"MERITPOINT_LOG_LEVEL" envDefault:"info"`
	JWTSecret string `env:"MERITPOINT_JWT_SECRET,notEmpty"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
