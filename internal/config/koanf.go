// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviehub/config.yaml",
	"/etc/moviehub/config.yml",
}

const (
	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotEnvPathEnvVar overrides the .env location.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			BasePath:        "/api",
			MaxBodyBytes:    10 << 20,
		},
		Database: DatabaseConfig{
			Driver: "badger",
			Badger: BadgerConfig{
				Path: "./data/moviehub",
			},
			Mongo: MongoConfig{
				URI:                 "mongodb://localhost:27017",
				Database:            "moviehub",
				Timeout:             10 * time.Second,
				BreakerMaxRequests:  3,
				BreakerInterval:     time.Minute,
				BreakerTimeout:      30 * time.Second,
				BreakerFailureRatio: 0.6,
				BreakerMinRequests:  5,
			},
		},
		Security: SecurityConfig{
			TokenTTL:               7 * 24 * time.Hour,
			BcryptCost:             12,
			AdminName:              "Administrator",
			RateLimitReqs:          100,
			RateLimitWindow:        time.Minute,
			LoginAttemptsPerMinute: 10,
			CORSOrigins:            []string{"http://localhost:3000"},
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Uploads: UploadsConfig{
			Driver:       "disk",
			Dir:          "./uploads",
			URLPrefix:    "/uploads",
			MaxBytes:     5 << 20,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with the following precedence
// (highest last):
//  1. built-in defaults
//  2. YAML config file, if one is found
//  3. environment variables, including those from a .env file
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	if err := processDayDurations(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.applyDerived(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env into the process environment without overriding
// variables that are already set.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDerived fills values that depend on other settings.
func (c *Config) applyDerived() error {
	c.Server.BasePath = "/" + strings.Trim(c.Server.BasePath, "/")
	if c.Server.BasePath == "/" {
		c.Server.BasePath = ""
	}
	c.Security.AdminEmail = strings.ToLower(strings.TrimSpace(c.Security.AdminEmail))

	if c.Security.JWTSecret == "" && !c.IsProduction() {
		secret, err := randomSecret(32)
		if err != nil {
			return fmt.Errorf("failed to generate development JWT secret: %w", err)
		}
		c.Security.JWTSecret = secret
		c.GeneratedJWTSecret = true
	}
	return nil
}

func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"uploads.allowed_types",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var dayDurationPaths = []string{
	"security.token_ttl",
}

// processDayDurations accepts JWT-style "7d" values, which time.ParseDuration
// does not understand, and rewrites them in hours.
func processDayDurations(k *koanf.Koanf) error {
	for _, path := range dayDurationPaths {
		s, ok := k.Get(path).(string)
		if !ok || !strings.HasSuffix(s, "d") {
			continue
		}
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return fmt.Errorf("invalid duration %q for %s", s, path)
		}
		if err := k.Set(path, fmt.Sprintf("%dh", days*24)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to config
// paths. Unknown variables are ignored.
var envMappings = map[string]string{
	// Server
	"port":                    "server.port",
	"http_port":               "server.port",
	"http_host":               "server.host",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_idle_timeout":     "server.idle_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"environment":             "server.environment",
	"node_env":                "server.environment",
	"api_base_path":           "server.base_path",
	"max_body_bytes":          "server.max_body_bytes",

	// Database
	"database_driver":        "database.driver",
	"badger_path":            "database.badger.path",
	"badger_in_memory":       "database.badger.in_memory",
	"badger_sync_writes":     "database.badger.sync_writes",
	"mongodb_uri":            "database.mongo.uri",
	"mongodb_database":       "database.mongo.database",
	"mongodb_timeout":        "database.mongo.timeout",
	"mongodb_breaker_ratio":  "database.mongo.breaker_failure_ratio",
	"mongodb_breaker_window": "database.mongo.breaker_interval",

	// Security
	"jwt_secret":                "security.jwt_secret",
	"jwt_expires_in":            "security.token_ttl",
	"bcrypt_cost":               "security.bcrypt_cost",
	"admin_name":                "security.admin_name",
	"admin_email":               "security.admin_email",
	"admin_password":            "security.admin_password",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_attempts_per_minute": "security.login_attempts_per_minute",
	"cors_origins":              "security.cors_origins",
	"casbin_model_path":         "security.casbin.model_path",
	"casbin_policy_path":        "security.casbin.policy_path",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Uploads
	"uploads_driver":        "uploads.driver",
	"uploads_dir":           "uploads.dir",
	"uploads_url_prefix":    "uploads.url_prefix",
	"uploads_max_bytes":     "uploads.max_bytes",
	"uploads_allowed_types": "uploads.allowed_types",
	"s3_bucket":             "uploads.s3.bucket",
	"s3_region":             "uploads.s3.region",
	"s3_endpoint":           "uploads.s3.endpoint",
	"s3_access_key":         "uploads.s3.access_key",
	"s3_secret_key":         "uploads.s3.secret_key",
	"s3_public_base_url":    "uploads.s3.public_base_url",
	"s3_use_path_style":     "uploads.s3.use_path_style",

	"events_buffer_size": "events.buffer_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Returning "" drops the variable.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
