// Package config loads settings from a TOML secrets file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultSecretsPath is read when no other secrets file is given.
const DefaultSecretsPath = "secrets.toml"

// Config holds every runtime setting. Environment variables override the secrets file.
type Config struct {
	Token          string        `toml:"GITHUB_ACCESS_TOKEN" env:"GITHUB_ACCESS_TOKEN"`
	DefaultOrg     string        `toml:"DEFAULT_ORG" env:"MERGED_PRS_DEFAULT_ORG" env-default:"PolicyEngine"`
	API            string        `toml:"API" env:"MERGED_PRS_API" env-default:"rest"`
	BaseURL        string        `toml:"GITHUB_BASE_URL" env:"GITHUB_BASE_URL"`
	RetryAttempts  int           `toml:"RETRY_ATTEMPTS" env:"MERGED_PRS_RETRY_ATTEMPTS" env-default:"5"`
	RetryInterval  time.Duration `toml:"RETRY_INTERVAL" env:"MERGED_PRS_RETRY_INTERVAL" env-default:"2s"`
	RateLimitSleep time.Duration `toml:"RATE_LIMIT_SLEEP" env:"MERGED_PRS_RATE_LIMIT_SLEEP" env-default:"1m"`
	HTTPAddr       string        `toml:"HTTP_ADDR" env:"MERGED_PRS_HTTP_ADDR" env-default:":8501"`
}

// Load reads secretsPath when it exists and then the environment.
// A missing token is not an error here; it is reported when a run is requested.
func Load(secretsPath string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(secretsPath)
	switch {
	case secretsPath != "" && err == nil:
		if err := cleanenv.ReadConfig(secretsPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read secrets file %s: %w", secretsPath, err)
		}
	case secretsPath == "" || errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat secrets file %s: %w", secretsPath, err)
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("retry attempts must be at least 1, got %d", cfg.RetryAttempts)
	}
	return &cfg, nil
}
