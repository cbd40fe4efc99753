package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL, default=warn"`
	LogFile     string `env:"LOG_FILE"`

	Session SessionConfig
}

// SessionConfig controls remembered sessions.
type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	Issuer string        `env:"SESSION_ISSUER, default=gestionrh"`
	TTL    time.Duration `env:"SESSION_TTL, default=8h"`
	File   string        `env:"SESSION_FILE"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load(ctx context.Context) (Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit variable source.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.Session.Secret = strings.TrimSpace(cfg.Session.Secret)
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 8 * time.Hour
	}
	if cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}
	return cfg, nil
}

// RememberEnabled reports whether session tickets can be signed.
func (c Config) RememberEnabled() bool {
	return c.Session.Secret != ""
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gestionrh", "session")
}
