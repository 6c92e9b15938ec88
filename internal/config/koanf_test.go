// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("Server.BasePath = %q, want /api", cfg.Server.BasePath)
	}
	if cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("Server.MaxBodyBytes = %d, want 10MiB", cfg.Server.MaxBodyBytes)
	}
	if cfg.Database.Driver != "badger" {
		t.Errorf("Database.Driver = %q, want badger", cfg.Database.Driver)
	}
	if cfg.Security.TokenTTL != 7*24*time.Hour {
		t.Errorf("Security.TokenTTL = %v, want 168h", cfg.Security.TokenTTL)
	}
	if cfg.API.DefaultPageSize != 10 || cfg.API.MaxPageSize != 100 {
		t.Errorf("API page sizes = %d/%d, want 10/100", cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	}
	if cfg.Uploads.URLPrefix != "/uploads" {
		t.Errorf("Uploads.URLPrefix = %q, want /uploads", cfg.Uploads.URLPrefix)
	}
	if cfg.Security.JWTSecret != "" {
		t.Error("JWTSecret must not have a built-in default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"JWT_EXPIRES_IN", "security.token_ttl"},
		{"MONGODB_URI", "database.mongo.uri"},
		{"NODE_ENV", "server.environment"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"S3_BUCKET", "uploads.s3.bucket"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

// isolate points config discovery at an empty directory so a developer's
// local config.yaml or .env does not leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	orig := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = orig })
	return dir
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !cfg.GeneratedJWTSecret {
		t.Error("expected an ephemeral JWT secret in development")
	}
	if len(cfg.Security.JWTSecret) != 64 {
		t.Errorf("generated secret length = %d, want 64 hex chars", len(cfg.Security.JWTSecret))
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "a-test-secret-that-is-long-enough-123456")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("API_BASE_PATH", "v1/")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.GeneratedJWTSecret {
		t.Error("configured secret should not be replaced")
	}
	if cfg.Security.TokenTTL != 48*time.Hour {
		t.Errorf("TokenTTL = %v, want 48h", cfg.Security.TokenTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Server.BasePath != "/v1" {
		t.Errorf("BasePath = %q, want /v1", cfg.Server.BasePath)
	}
}

func TestLoadWithKoanfYAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("database:\n  driver: badger\n  badger:\n    in_memory: true\napi:\n  default_page_size: 25\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("API_DEFAULT_PAGE_SIZE", "30")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !cfg.Database.Badger.InMemory {
		t.Error("expected in_memory from file")
	}
	if cfg.API.DefaultPageSize != 30 {
		t.Errorf("DefaultPageSize = %d, want env override 30", cfg.API.DefaultPageSize)
	}
}

func TestLoadWithKoanfDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(DotEnvPathEnvVar, envFile)
	// godotenv writes into the process environment; restore it afterwards.
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from .env", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfBadDayDuration(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_EXPIRES_IN", "xd")
	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for malformed day duration")
	}
}
