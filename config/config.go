/*
Package config loads runtime configuration from the environment.

PURPOSE:
  One flat struct, parsed once at startup. Anything a deployment might
  tune (port, database path, cache address, log level) comes from the
  environment; the engine packages themselves take no configuration.
*/
package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/debts.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	// RedisAddr enables the projection cache when non-empty. An empty
	// address runs the server without caching.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// AllowedOrigins is the CORS allowlist, comma-separated.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	ShutdownTimeoutS int `env:"SHUTDOWN_TIMEOUT_S" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
