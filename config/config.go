/*
Package config loads server configuration from the environment.

PURPOSE:
  One struct, parsed once at startup. Command-line flags in cmd/server may
  override individual fields for local development.

ENVIRONMENT VARIABLES:
  SERVER_PORT                     HTTP port (default 8080)
  SERVER_READ_TIMEOUT             Seconds (default 15)
  SERVER_WRITE_TIMEOUT            Seconds (default 15)
  SERVER_SHUTDOWN_TIMEOUT         Seconds (default 30)
  DATABASE_PATH                   SQLite path, ":memory:" allowed (default shifts.db)
  ENGINE_VACATION_FAIL_MODE       "open" or "closed" (default open)
  ENGINE_WRITE_TIMEOUT            Seconds per store write (default 5)
  ENGINE_REFRESH_INTERVAL         Snapshot refresh seconds (default 30)
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/warp/shift-engine/schedule"
)

type Config struct {
	Server struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"15"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
	} `envPrefix:"SERVER_"`

	Database struct {
		Path string `env:"PATH" envDefault:"shifts.db"`
	} `envPrefix:"DATABASE_"`

	Engine struct {
		VacationFailMode string `env:"VACATION_FAIL_MODE" envDefault:"open"`
		WriteTimeout     int    `env:"WRITE_TIMEOUT" envDefault:"5"`
		RefreshInterval  int    `env:"REFRESH_INTERVAL" envDefault:"30"`
	} `envPrefix:"ENGINE_"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.Engine.VacationFailMode != "open" && cfg.Engine.VacationFailMode != "closed" {
		return nil, fmt.Errorf("ENGINE_VACATION_FAIL_MODE must be \"open\" or \"closed\", got %q", cfg.Engine.VacationFailMode)
	}
	return cfg, nil
}

// FailMode maps the configured string onto the engine's policy type.
func (c *Config) FailMode() schedule.FailMode {
	if c.Engine.VacationFailMode == "closed" {
		return schedule.FailClosed
	}
	return schedule.FailOpen
}
