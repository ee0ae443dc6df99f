// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"SITE_FILE", "SITE_OWNER", "SECTIONS",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"OPERATOR_TOKEN_HASH", "OPERATOR_RATE_LIMIT",
	"PORTFOLIO_URL", "OPERATOR_TOKEN",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeSite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write site file: %v", err)
	}
	return path
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("Owner", cfg.Owner, "Boril Koralski")
	check("Sections", strings.Join(cfg.Sections, ","), "home,blog,contact")
	check("ValkeyHost", cfg.ValkeyHost, "")
	check("ValkeyPort", cfg.ValkeyPort, "6379")

	if cfg.OperatorRateLimit != 30 {
		t.Errorf("OperatorRateLimit = %d, want 30", cfg.OperatorRateLimit)
	}
	if len(cfg.Seed) != 2 {
		t.Errorf("len(Seed) = %d, want 2", len(cfg.Seed))
	}
	if cfg.CacheEnabled() {
		t.Error("CacheEnabled() = true without VALKEY_HOST")
	}
	if cfg.OperatorEnabled() {
		t.Error("OperatorEnabled() = true without OPERATOR_TOKEN_HASH")
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
}

// TestLoad_EnvOverrides verifies that environment variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SITE_OWNER", "Jane Doe")
	t.Setenv("SECTIONS", "home,work,blog,contact")
	t.Setenv("VALKEY_HOST", "cache")
	t.Setenv("OPERATOR_RATE_LIMIT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:3000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.IsDev() {
		t.Error("IsDev() = true in production")
	}
	if cfg.Owner != "Jane Doe" {
		t.Errorf("Owner = %q", cfg.Owner)
	}
	set, err := cfg.SectionSet()
	if err != nil {
		t.Fatalf("SectionSet() error: %v", err)
	}
	if set.Len() != 4 {
		t.Errorf("SectionSet().Len() = %d, want 4", set.Len())
	}
	if !cfg.CacheEnabled() {
		t.Error("CacheEnabled() = false with VALKEY_HOST set")
	}
	if cfg.OperatorRateLimit != 5 {
		t.Errorf("OperatorRateLimit = %d, want 5", cfg.OperatorRateLimit)
	}
}

func TestLoad_InvalidSections(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECTIONS", "home,home")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for duplicate sections")
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	for _, v := range []string{"zero", "0", "-3"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPERATOR_RATE_LIMIT", v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for OPERATOR_RATE_LIMIT=%q", v)
			}
		})
	}
}

func TestLoad_OperatorTokenHash(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPERATOR_TOKEN_HASH", "plaintext-secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-bcrypt token hash")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	t.Setenv("OPERATOR_TOKEN_HASH", string(hash))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.OperatorEnabled() {
		t.Error("OperatorEnabled() = false with a valid hash")
	}
}

func TestLoad_SiteFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_FILE", writeSite(t, `
owner: Site Owner
sections: [home, projects, blog]
posts:
  - title: Hello
    date: 2025-02-03
    excerpt: First post
    slug: hello
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Owner != "Site Owner" {
		t.Errorf("Owner = %q", cfg.Owner)
	}
	if got := strings.Join(cfg.Sections, ","); got != "home,projects,blog" {
		t.Errorf("Sections = %q", got)
	}
	if len(cfg.Seed) != 1 {
		t.Fatalf("len(Seed) = %d, want 1", len(cfg.Seed))
	}
	if got := cfg.Seed[0].Date.String(); got != "2025-02-03" {
		t.Errorf("Seed[0].Date = %q", got)
	}
}

func TestLoad_SiteFileEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_FILE", writeSite(t, "owner: From File\n"))
	t.Setenv("SITE_OWNER", "From Env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Owner != "From Env" {
		t.Errorf("Owner = %q, want env value", cfg.Owner)
	}
	if len(cfg.Seed) != 2 {
		t.Errorf("missing posts key should keep the default seed, got %d posts", len(cfg.Seed))
	}
}

func TestLoadSite_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "owner: [unterminated"},
		{"post without title", "posts:\n  - excerpt: x\n    date: 2024-01-01\n"},
		{"post without date", "posts:\n  - title: x\n    excerpt: y\n"},
		{"bad date", "posts:\n  - title: x\n    excerpt: y\n    date: 15/01/2024\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSite(writeSite(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadSite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadClient(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() returned unexpected error: %v", err)
	}
	if cfg.URL != "http://localhost:8080" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Token != "" {
		t.Errorf("Token = %q, want empty", cfg.Token)
	}

	t.Setenv("PORTFOLIO_URL", "https://example.com")
	t.Setenv("OPERATOR_TOKEN", "secret")
	cfg, err = LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() returned unexpected error: %v", err)
	}
	if cfg.URL != "https://example.com" || cfg.Token != "secret" {
		t.Errorf("LoadClient() = %+v", cfg)
	}
}
