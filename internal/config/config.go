// Package config reads process settings from the environment, after loading
// any .env file present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseURL selects Postgres; when empty, data lives in the SQLite
	// file at DataPath.
	DatabaseURL string `env:"DATABASE_URL"`
	DataPath    string `env:"PORTAL_DATA_PATH" envDefault:"portal.db"`

	JWTSecret string `env:"JWT_SECRET"`
	Port      string `env:"PORT"     envDefault:"50051"`
	WebPort   string `env:"WEB_PORT" envDefault:"8080"`

	AuthDelay     time.Duration `env:"PORTAL_AUTH_DELAY" envDefault:"1s"`
	RateLimit     float64       `env:"LOGIN_RATE_LIMIT"  envDefault:"5"`
	RateBurst     int           `env:"LOGIN_RATE_BURST"  envDefault:"10"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN"`
}

// Load reads the given .env files (".env" when none are named) and then
// parses the environment. Missing .env files are not an error; variables
// already set win over file values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse reads configuration from environment variables only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AuthDelay < 0 {
		return Config{}, fmt.Errorf("PORTAL_AUTH_DELAY must not be negative")
	}
	return cfg, nil
}

// ServerReady checks the settings only the network server needs.
func (c Config) ServerReady() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_BURST must be positive")
	}
	return nil
}
