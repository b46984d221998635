// Package config loads application configuration from an optional YAML file
// and environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Logger   LoggerConfig   `yaml:"logger"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `yaml:"environment" env:"ENV" env-default:"development"`
	// DataPath is the base directory for the database, cache and index.
	DataPath string `yaml:"data_path" env:"DATA_PATH" env-default:"~/.mediadiet"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	// RateLimitPerMinute and RateLimitBurst throttle, per user, the
	// operations that reach an external catalog.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"60"`
	RateLimitBurst     int `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	// Path defaults to {data}/mediadiet.db.
	Path         string `yaml:"path" env:"DATABASE_PATH"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"8"`
}

// CatalogConfig holds external metadata provider configuration.
type CatalogConfig struct {
	TMDBAPIKey         string        `yaml:"tmdb_api_key" env:"TMDB_API_KEY"`
	TMDBBaseURL        string        `yaml:"tmdb_base_url" env:"TMDB_BASE_URL" env-default:"https://api.themoviedb.org/3"`
	OpenLibraryBaseURL string        `yaml:"openlibrary_base_url" env:"OPENLIBRARY_BASE_URL" env-default:"https://openlibrary.org"`
	Timeout            time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT" env-default:"10s"`
	// RequestsPerSecond limits each provider client independently.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"CATALOG_RPS" env-default:"10"`
	Burst             int     `yaml:"burst" env:"CATALOG_BURST" env-default:"5"`
}

// CacheConfig holds the catalog detail cache configuration.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	// Path defaults to {data}/cache.
	Path string        `yaml:"path" env:"CACHE_PATH"`
	TTL  time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"24h"`
}

// SearchConfig holds the local media index configuration.
type SearchConfig struct {
	// Path defaults to {data}/search.bleve.
	Path string `yaml:"path" env:"SEARCH_PATH"`
}

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	// AccessTokenKey is the hex-encoded PASETO v4 symmetric key shared with
	// the identity provider. When empty the key is loaded from KeyFile,
	// which is generated on first start.
	AccessTokenKey      string        `yaml:"access_token_key" env:"AUTH_ACCESS_TOKEN_KEY"`
	KeyFile             string        `yaml:"key_file" env:"AUTH_KEY_FILE"`
	AccessTokenDuration time.Duration `yaml:"access_token_duration" env:"AUTH_ACCESS_TOKEN_DURATION" env-default:"24h"`
}

// LoadConfig reads configuration with precedence: environment variables,
// then the YAML file at path (if any), then struct defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage returns a description of every supported environment variable.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvs, c.App.Environment) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)", c.App.Environment, strings.Join(validEnvs, ", "))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.Logger.Level)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logger.Level, strings.Join(validLevels, ", "))
	}

	if c.Logger.Format != "" && c.Logger.Format != "json" && c.Logger.Format != "pretty" {
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", c.Logger.Format)
	}

	if c.Catalog.Timeout <= 0 {
		return errors.New("catalog timeout must be positive")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return errors.New("catalog requests per second must be positive")
	}

	if c.Auth.AccessTokenKey != "" {
		key, err := hex.DecodeString(c.Auth.AccessTokenKey)
		if err != nil || len(key) != 32 {
			return errors.New("auth access token key must be 64 hex characters")
		}
	}

	if c.App.Environment == "production" && c.Catalog.TMDBAPIKey == "" {
		return errors.New("TMDB_API_KEY is required in production")
	}

	return nil
}

func (c *Config) expandPaths() error {
	base, err := expandPath(c.App.DataPath, "")
	if err != nil {
		return err
	}
	c.App.DataPath = base

	for _, p := range []struct {
		target *string
		def    string
	}{
		{&c.Database.Path, filepath.Join(base, "mediadiet.db")},
		{&c.Cache.Path, filepath.Join(base, "cache")},
		{&c.Search.Path, filepath.Join(base, "search.bleve")},
		{&c.Auth.KeyFile, filepath.Join(base, "auth.key")},
	} {
		expanded, err := expandPath(*p.target, p.def)
		if err != nil {
			return err
		}
		*p.target = expanded
	}

	if c.Logger.File != "" {
		expanded, err := expandPath(c.Logger.File, "")
		if err != nil {
			return err
		}
		c.Logger.File = expanded
	}
	return nil
}

// expandPath expands ~ and makes path absolute, falling back to def when empty.
func expandPath(path, def string) (string, error) {
	if path == "" {
		path = def
	}
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}
