// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 40)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "DATABASE_DRIVER"},
		{"mongo without uri", func(c *Config) {
			c.Database.Driver = "mongo"
			c.Database.Mongo.URI = ""
		}, "MONGODB_URI"},
		{"mongo bad scheme", func(c *Config) {
			c.Database.Driver = "mongo"
			c.Database.Mongo.URI = "http://db"
		}, "MONGODB_URI"},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET"},
		{"short secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = "short"
		}, "JWT_SECRET"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "CORS_ORIGINS"},
		{"admin email without password", func(c *Config) { c.Security.AdminEmail = "root@example.com" }, "ADMIN_EMAIL"},
		{"bcrypt cost too high", func(c *Config) { c.Security.BcryptCost = 99 }, "BCRYPT_COST"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = 0 }, "RATE_LIMIT_WINDOW"},
		{"rate limit ignored when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 5 }, "API_MAX_PAGE_SIZE"},
		{"s3 without bucket", func(c *Config) { c.Uploads.Driver = "s3" }, "S3_BUCKET"},
		{"s3 relative endpoint", func(c *Config) {
			c.Uploads.Driver = "s3"
			c.Uploads.S3.Bucket = "posters"
			c.Uploads.S3.Endpoint = "minio:9000"
		}, "S3_ENDPOINT"},
		{"upload larger than body", func(c *Config) { c.Uploads.MaxBytes = c.Server.MaxBodyBytes + 1 }, "UPLOADS_MAX_BYTES"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	cfg := defaultConfig()
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
	cfg.Server.Environment = "Production"
	if !cfg.IsProduction() {
		t.Error("Production should be detected case-insensitively")
	}
}
