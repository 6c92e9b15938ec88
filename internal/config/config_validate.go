// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	minJWTSecretLength   = 32
	minAdminPasswordLen  = 6
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateAPI,
		c.validateUploads,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "badger":
		if !c.Database.Badger.InMemory && c.Database.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
		}
	case "mongo":
		if c.Database.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required when DATABASE_DRIVER=mongo")
		}
		if !strings.HasPrefix(c.Database.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Database.Mongo.URI, "mongodb+srv://") {
			return fmt.Errorf("MONGODB_URI must start with mongodb:// or mongodb+srv://")
		}
		if c.Database.Mongo.Database == "" {
			return fmt.Errorf("MONGODB_DATABASE is required when DATABASE_DRIVER=mongo")
		}
		if r := c.Database.Mongo.BreakerFailureRatio; r <= 0 || r > 1 {
			return fmt.Errorf("MONGODB_BREAKER_RATIO must be in (0, 1]")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of: badger, mongo")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if (c.Security.AdminEmail == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Security.AdminPassword != "" && len(c.Security.AdminPassword) < minAdminPasswordLen {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minAdminPasswordLen)
	}
	if c.IsProduction() && c.HasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; list the allowed origins explicitly")
	}
	if c.Security.LoginAttemptsPerMinute < 0 {
		return fmt.Errorf("LOGIN_ATTEMPTS_PER_MINUTE must not be negative")
	}
	return c.validateRateLimits()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("UPLOADS_MAX_BYTES must be positive")
	}
	if c.Uploads.MaxBytes > c.Server.MaxBodyBytes {
		return fmt.Errorf("UPLOADS_MAX_BYTES must not exceed MAX_BODY_BYTES")
	}
	switch c.Uploads.Driver {
	case "disk":
		if c.Uploads.Dir == "" {
			return fmt.Errorf("UPLOADS_DIR is required when UPLOADS_DRIVER=disk")
		}
		if !strings.HasPrefix(c.Uploads.URLPrefix, "/") {
			return fmt.Errorf("UPLOADS_URL_PREFIX must start with /")
		}
	case "s3":
		if c.Uploads.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOADS_DRIVER=s3")
		}
		if c.Uploads.S3.Endpoint != "" {
			u, err := url.Parse(c.Uploads.S3.Endpoint)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("S3_ENDPOINT must be an absolute URL")
			}
		}
	default:
		return fmt.Errorf("UPLOADS_DRIVER must be one of: disk, s3")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, disabled")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
