// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package config loads MovieHub configuration from defaults, an optional
// YAML file and environment variables (in that order of precedence, lowest
// first). See LoadWithKoanf.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	Events   EventsConfig   `koanf:"events"`
	Logging  LoggingConfig  `koanf:"logging"`

	// GeneratedJWTSecret is set when no secret was configured and an
	// ephemeral one was generated for development.
	GeneratedJWTSecret bool `koanf:"-"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
	BasePath        string        `koanf:"base_path"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	// Driver is "badger" (embedded, default) or "mongo".
	Driver string       `koanf:"driver"`
	Badger BadgerConfig `koanf:"badger"`
	Mongo  MongoConfig  `koanf:"mongo"`
}

type BadgerConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`

	// Circuit breaker around every MongoDB call.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
}

// SecurityConfig holds authentication, rate limiting and CORS settings.
type SecurityConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`

	// Bootstrap admin account, created or promoted at startup when both
	// email and password are set.
	AdminName     string `koanf:"admin_name"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs          int           `koanf:"rate_limit_reqs"`
	RateLimitWindow        time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled      bool          `koanf:"rate_limit_disabled"`
	LoginAttemptsPerMinute int           `koanf:"login_attempts_per_minute"`

	CORSOrigins []string `koanf:"cors_origins"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig overrides the embedded authorization model and policy.
type CasbinConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// APIConfig holds pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// UploadsConfig configures movie poster storage.
type UploadsConfig struct {
	// Driver is "disk" (default) or "s3".
	Driver       string   `koanf:"driver"`
	Dir          string   `koanf:"dir"`
	URLPrefix    string   `koanf:"url_prefix"`
	MaxBytes     int64    `koanf:"max_bytes"`
	AllowedTypes []string `koanf:"allowed_types"`
	S3           S3Config `koanf:"s3"`
}

type S3Config struct {
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	PublicBaseURL string `koanf:"public_base_url"`
	UsePathStyle  bool   `koanf:"use_path_style"`
}

// EventsConfig configures the in-process domain event bus.
type EventsConfig struct {
	BufferSize int64 `koanf:"buffer_size"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
