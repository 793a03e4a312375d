// Package config captures process configuration so main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is parsed from the environment. Defaults suit local development;
// the hashing secret must be overridden in production.
type Config struct {
	Addr    string `env:"UPCHECK_ADDR" envDefault:":8080"`
	OpsAddr string `env:"UPCHECK_OPS_ADDR" envDefault:":9090"`
	DataDir string `env:"UPCHECK_DATA_DIR" envDefault:".data"`

	// HashingSecret keys the credential digest. Use a default for
	// development - should be overridden in production.
	HashingSecret string `env:"UPCHECK_HASHING_SECRET" envDefault:"dev-secret-change-in-production"`

	// TokenTTL is the validity window granted on token issue and renew.
	TokenTTL time.Duration `env:"UPCHECK_TOKEN_TTL" envDefault:"1h"`

	// MaxChecks caps the number of checks a single account may own.
	MaxChecks int `env:"UPCHECK_MAX_CHECKS" envDefault:"5"`

	LogLevel string `env:"UPCHECK_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("token ttl must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.MaxChecks <= 0 {
		return Config{}, fmt.Errorf("max checks must be positive, got %d", cfg.MaxChecks)
	}
	return cfg, nil
}
