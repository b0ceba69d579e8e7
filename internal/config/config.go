// Package config provides configuration loading and structs for the cinematch server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig says where the movie catalog comes from.
// Format is one of csv, xlsx, sqlite; empty means detect from the file extension.
type CatalogConfig struct {
	MoviesPath  string `yaml:"movies_path"`
	RatingsPath string `yaml:"ratings_path"`
	Format      string `yaml:"format"`
	Sheet       string `yaml:"sheet"`
	Table       string `yaml:"table"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	DefaultN        int `yaml:"default_n"`
	MaxN            int `yaml:"max_n"`
	Workers         int `yaml:"workers"`
	SuggestionLimit int `yaml:"suggestion_limit"`
}

// HTTPConfig holds CORS and rate limit settings for the API.
type HTTPConfig struct {
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	RateLimitRequests  int           `yaml:"rate_limit_requests"`
	RateLimitWindow    time.Duration `yaml:"rate_limit_window"`
	RateLimitDisabled  bool          `yaml:"rate_limit_disabled"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.MoviesPath = expandPath(cfg.Catalog.MoviesPath, configDir)
	if cfg.Catalog.RatingsPath != "" {
		cfg.Catalog.RatingsPath = expandPath(cfg.Catalog.RatingsPath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" paths are relative to the home directory; anything else is returned unchanged.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
