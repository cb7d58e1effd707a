// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	Archive ArchiveConfig
	Media   MediaConfig
	Cache   CacheConfig
	Session SessionConfig
	Station StationConfig

	Environment string
}

// ServerConfig holds HTTP server and CORS configuration.
type ServerConfig struct {
	Address string
	// AllowedOrigins is a comma-separated list of allowed origins for CORS
	AllowedOrigins string
}

// ArchiveConfig holds connection parameters for the Studio Creek archive API.
type ArchiveConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	// MaxAttempts caps retries for idempotent archive fetches
	MaxAttempts int
}

// MediaConfig holds the base URL of the audio hosting bucket used for
// constructed (guessed) media URLs.
type MediaConfig struct {
	BaseURL string
}

// CacheConfig holds the archive cache time-to-live and the snapshot store location.
type CacheConfig struct {
	TTL time.Duration
	// SnapshotPath is the SQLite file holding the last good snapshot.
	// An empty value disables persistence.
	SnapshotPath string
}

// SessionConfig holds cookie session configuration.
type SessionConfig struct {
	// Secret must be changed from default in production
	Secret     string
	CookieName string
}

// StationConfig holds station-level constants.
type StationConfig struct {
	// Timezone is the IANA name of the station's local time zone
	Timezone string
}

// Load reads configuration from environment variables and creates the
// snapshot directory if persistence is enabled.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address:        getEnv("SHOWPICKER_SERVER_ADDRESS", ":8080"),
			AllowedOrigins: getEnv("SHOWPICKER_ALLOWED_ORIGINS", ""),
		},
		Archive: ArchiveConfig{
			BaseURL:        getEnv("SHOWPICKER_ARCHIVE_BASE_URL", "https://kzfr.studio.creek.org"),
			RequestTimeout: getEnvDuration("SHOWPICKER_HTTP_TIMEOUT", 30*time.Second),
			MaxAttempts:    3,
		},
		Media: MediaConfig{
			BaseURL: getEnv("SHOWPICKER_MEDIA_BASE_URL", "https://kzfr-media.s3.us-west-000.backblazeb2.com/audio"),
		},
		Cache: CacheConfig{
			TTL:          getEnvDuration("SHOWPICKER_CACHE_TTL", 15*time.Minute),
			SnapshotPath: getEnv("SHOWPICKER_SNAPSHOT_PATH", "./data/snapshot.db"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SHOWPICKER_SESSION_SECRET", "your-secret-key-change-in-production"),
			CookieName: "showpicker_session",
		},
		Station: StationConfig{
			Timezone: getEnv("SHOWPICKER_TIMEZONE", "America/Los_Angeles"),
		},
		Environment: getEnv("SHOWPICKER_ENV", "development"),
	}

	if cfg.Cache.SnapshotPath != "" {
		dir := filepath.Dir(cfg.Cache.SnapshotPath)
		// #nosec G301 - 0755 is appropriate for the snapshot directory
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// Location resolves the station time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Station.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid station timezone %q: %w", c.Station.Timezone, err)
	}
	return loc, nil
}

// getEnv returns the value of the environment variable key, or defaultValue if unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns the environment variable key parsed as a duration,
// or defaultValue if unset or unparseable.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
