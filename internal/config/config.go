// Package config provides configuration loading and structs for the movierec server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Features  FeaturesConfig  `yaml:"features"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	FrontendURL    string          `yaml:"frontend_url"`
	RequestTimeout time.Duration   `yaml:"request_timeout"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds per-client request limits. Requests <= 0 disables limiting.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	Sheet string `yaml:"sheet"`
	// Watch rebuilds the engine when the catalog file changes.
	Watch bool `yaml:"watch"`
}

// FeaturesConfig tunes the TF-IDF feature space.
type FeaturesConfig struct {
	MaxFeatures    int  `yaml:"max_features"`
	MinTermLength  int  `yaml:"min_token_length"`
	GenreNamesOnly bool `yaml:"genre_names_only"`
}

// RecommendConfig holds request defaults and limits.
type RecommendConfig struct {
	DefaultCount        int `yaml:"default_count"`
	MaxCount            int `yaml:"max_count"`
	CandidateMultiplier int `yaml:"candidate_multiplier"`
	SearchLimit         int `yaml:"search_limit"`
}

// Load reads and parses the config file at path, applies defaults and environment
// overrides, and expands paths. Returns an error if the file cannot be read or parsed.
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
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, filepath.Dir(path))
	return &cfg, nil
}

// Default returns the built-in configuration plus environment overrides. Relative
// paths resolve against the working directory.
func Default() (*Config, error) {
	var cfg Config
	ApplyDefaults(&cfg)
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, cwd)
	return &cfg, nil
}

// ApplyEnv overrides cfg from PORT, FRONTEND_URL, MOVIE_CATALOG_PATH and MOVIEREC_DEBUG.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.Server.FrontendURL = v
	}
	if v := os.Getenv("MOVIE_CATALOG_PATH"); v != "" {
		// relative to the working directory, not the config file
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("invalid MOVIE_CATALOG_PATH %q: %w", v, err)
		}
		cfg.Catalog.Path = abs
	}
	if v := os.Getenv("MOVIEREC_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MOVIEREC_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to baseDir;
// other relative paths are relative to the home directory.
func expandPath(path string, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(baseDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
