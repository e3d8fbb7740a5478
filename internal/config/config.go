// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string `env:"HL_DATABASE_URL,required"`
	SessionSecret string `env:"HL_SESSION_SECRET,required"`
	ServerHost    string `env:"HL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"HL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"HL_ENV" envDefault:"development"`
	LogLevel      string `env:"HL_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public base URL, used in sitemaps and rehosted image URLs.
	SiteURL    string `env:"HL_SITE_URL" envDefault:"http://localhost:8080"`
	UploadsDir string `env:"HL_UPLOADS_DIR" envDefault:"./uploads"`

	// AdminEmails is a comma-separated allow-list; matching accounts are
	// treated as superadmins regardless of their stored role.
	AdminEmails []string `env:"HL_ADMIN_EMAILS" envSeparator:","`

	// UploadSecret is the shared bearer token for the image upload endpoint.
	// Optional: when unset the endpoint is open and a warning is logged.
	UploadSecret string `env:"HL_UPLOAD_SECRET"`

	// Cache configuration
	RedisURL     string `env:"HL_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"HL_CACHE_PREFIX" envDefault:"hl:"`     // Redis key prefix
	CacheTTL     int    `env:"HL_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"HL_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Maintenance configuration
	DraftRetentionDays int `env:"HL_DRAFT_RETENTION_DAYS" envDefault:"90"`
	AuditRetentionDays int `env:"HL_AUDIT_RETENTION_DAYS" envDefault:"365"`

	// Seeding configuration
	DoSeed bool `env:"HL_DO_SEED" envDefault:"false"`
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

// UploadBaseURL returns the public base URL uploaded images are served from.
// Re-hosting short-circuits for source URLs under this prefix.
func (c Config) UploadBaseURL() string {
	return strings.TrimRight(c.SiteURL, "/") + "/uploads/"
}

// IsSuperadminEmail reports whether the email is on the superadmin allow-list.
func (c Config) IsSuperadminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("HL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("HL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") &&
		!strings.Contains(cfg.DatabaseURL, "dbname=") {
		return nil, fmt.Errorf("HL_DATABASE_URL must be a postgres:// URL or a key=value DSN")
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("HL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.UploadSecret == "" {
		slog.Warn("HL_UPLOAD_SECRET is not set; the image upload endpoint accepts unauthenticated requests")
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
