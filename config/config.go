// Package config loads the mock placements backend configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the backend's runtime settings.
type Config struct {
	Port             string        // Listen port
	TokenSecret      string        // HS256 signing secret
	TokenIssuer      string        // JWT issuer claim
	AccessTokenTTL   time.Duration // Access token lifetime
	RefreshTokenTTL  time.Duration // Refresh token lifetime
	ProfileShape     string        // User endpoint response layout
	SessionRetention time.Duration // How long session audit entries are kept
	LoginRatePerSec  float64       // Per-IP rate limit on credential endpoints
	LoginRateBurst   int
}

// Load reads configuration from a .env file (if present) and the environment,
// applying defaults where unset.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8000"),
		TokenSecret:      getEnv("TOKEN_SECRET", "dev-only-secret-change-me"),
		TokenIssuer:      getEnv("TOKEN_ISSUER", "placements-hub"),
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		ProfileShape:     getEnv("PROFILE_SHAPE", "standard"),
		SessionRetention: 24 * time.Hour,
		LoginRatePerSec:  2,
		LoginRateBurst:   5,
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return nil, err
	}
	if cfg.SessionRetention, err = durationEnv("SESSION_RETENTION", cfg.SessionRetention); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET cannot be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL")
	}
	switch c.ProfileShape {
	case "standard", "permissions", "minimal":
	default:
		return fmt.Errorf("PROFILE_SHAPE must be standard, permissions or minimal, got %q", c.ProfileShape)
	}
	return nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a fallback. A KEY_FILE
// variant pointing at a readable file takes precedence, for secret mounts.
func getEnv(key, fallback string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
