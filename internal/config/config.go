// Package config handles application configuration loading from environment
// variables, an optional .env file and an optional YAML site file. It
// provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"portfolio/internal/blog"
	"portfolio/internal/section"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Site content
	SiteFile string
	Owner    string
	Sections []string
	Seed     []blog.Post

	// Valkey (Redis-compatible page cache). Empty host disables caching.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Operator API. Empty hash disables the API.
	OperatorTokenHash string
	OperatorRateLimit int // requests per minute per client IP
}

// ClientConfig holds the settings of the CLI commands that call a running
// server's operator API.
type ClientConfig struct {
	URL   string
	Token string
}

// Site is the optional YAML file describing the site content.
type Site struct {
	Owner    string      `yaml:"owner"`
	Sections []string    `yaml:"sections"`
	Posts    []blog.Post `yaml:"posts"`
}

// Load reads configuration from the environment, applying defaults for
// development where appropriate. A .env file in the working directory is
// loaded first if present; variables already set take precedence. Returns
// an error if the site file is invalid or a production value is unsafe.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		SiteFile: os.Getenv("SITE_FILE"),
		Owner:    "Boril Koralski",
		Sections: section.DefaultNames,
		Seed:     blog.DefaultSeed(),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		OperatorTokenHash: os.Getenv("OPERATOR_TOKEN_HASH"),
	}

	if cfg.SiteFile != "" {
		site, err := LoadSite(cfg.SiteFile)
		if err != nil {
			return nil, err
		}
		cfg.applySite(site)
	}

	if owner := os.Getenv("SITE_OWNER"); owner != "" {
		cfg.Owner = owner
	}
	if raw := os.Getenv("SECTIONS"); raw != "" {
		cfg.Sections = strings.Split(raw, ",")
	}
	if _, err := section.NewSet(cfg.Sections...); err != nil {
		return nil, fmt.Errorf("SECTIONS: %w", err)
	}

	limit, err := strconv.Atoi(envOrDefault("OPERATOR_RATE_LIMIT", "30"))
	if err != nil || limit < 1 {
		return nil, fmt.Errorf("OPERATOR_RATE_LIMIT must be a positive integer")
	}
	cfg.OperatorRateLimit = limit

	if cfg.OperatorTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.OperatorTokenHash)); err != nil {
			return nil, fmt.Errorf("OPERATOR_TOKEN_HASH is not a bcrypt hash: %w", err)
		}
	}

	return cfg, nil
}

// LoadClient reads PORTFOLIO_URL and OPERATOR_TOKEN, loading .env first
// like Load does.
func LoadClient() (*ClientConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return &ClientConfig{
		URL:   envOrDefault("PORTFOLIO_URL", "http://localhost:8080"),
		Token: os.Getenv("OPERATOR_TOKEN"),
	}, nil
}

// LoadDotEnv loads .env from the working directory when it exists.
// Variables already present in the environment are left untouched.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadSite parses a YAML site file and validates its seed posts.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse site file %s: %w", path, err)
	}
	if err := blog.ValidateSeed(site.Posts); err != nil {
		return nil, fmt.Errorf("site file %s: %w", path, err)
	}
	return &site, nil
}

func (c *Config) applySite(site *Site) {
	if site.Owner != "" {
		c.Owner = site.Owner
	}
	if len(site.Sections) > 0 {
		c.Sections = site.Sections
	}
	if site.Posts != nil {
		c.Seed = site.Posts
	}
}

// SectionSet returns the configured sections. Load has already validated
// them, so this only fails for hand-built configs.
func (c *Config) SectionSet() (*section.Set, error) {
	return section.NewSet(c.Sections...)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey page cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// OperatorEnabled reports whether the operator API should be mounted.
func (c *Config) OperatorEnabled() bool {
	return c.OperatorTokenHash != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
