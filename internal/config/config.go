// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string        `env:"ARB_DB_PATH" envDefault:"./data/arboretum.db"`
	SessionSecret string        `env:"ARB_SESSION_SECRET,required"`
	ServerHost    string        `env:"ARB_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int           `env:"ARB_SERVER_PORT" envDefault:"8080"`
	Env           string        `env:"ARB_ENV" envDefault:"development"`
	LogLevel      string        `env:"ARB_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"ARB_LOG_FORMAT" envDefault:"text"`
	UploadsDir    string        `env:"ARB_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadSize int64         `env:"ARB_MAX_UPLOAD_SIZE" envDefault:"5242880"` // 5 MiB
	SessionLife   time.Duration `env:"ARB_SESSION_LIFETIME" envDefault:"24h"`

	// Cache configuration
	RedisURL    string `env:"ARB_REDIS_URL"`                      // Optional Redis URL for shared caching
	CachePrefix string `env:"ARB_CACHE_PREFIX" envDefault:"arb:"` // Redis key prefix
	CacheTTL    int    `env:"ARB_CACHE_TTL" envDefault:"300"`     // Cache TTL in seconds

	// Seeding configuration
	DoSeed        bool   `env:"ARB_DO_SEED" envDefault:"false"`
	AdminUsername string `env:"ARB_ADMIN_USERNAME" envDefault:"aboretum"`
	AdminEmail    string `env:"ARB_ADMIN_EMAIL" envDefault:"admin@nairobi-arboretum.com"`
	AdminPassword string `env:"ARB_ADMIN_PASSWORD"`

	SweepSchedule  string `env:"ARB_SWEEP_SCHEDULE" envDefault:"@hourly"` // empty disables the sweep
	MetricsEnabled bool   `env:"ARB_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ARB_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ARB_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ARB_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("ARB_MAX_UPLOAD_SIZE must be positive, got %d", cfg.MaxUploadSize)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("ARB_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
