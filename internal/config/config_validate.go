// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"

	"github.com/tomtom215/hybridrec/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	// Struct tags cover ranges and enumerations; the checks below are cross-field.
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateEncoder(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateCache validates backend-specific cache settings
func (c *Config) validateCache() error {
	if c.Cache.Backend != "redis" {
		return nil
	}
	if c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
	}
	if err := validateRedisURL(c.Cache.RedisURL); err != nil {
		return fmt.Errorf("REDIS_URL is invalid: %w", err)
	}
	return nil
}

// validateEncoder validates the remote encoder settings (only for openai)
func (c *Config) validateEncoder() error {
	if c.Encoder.Provider != "openai" {
		return nil
	}
	if c.Encoder.URL == "" {
		return fmt.Errorf("ENCODER_URL is required when ENCODER_PROVIDER=openai")
	}
	if err := validateHTTPURL(c.Encoder.URL, "ENCODER_URL"); err != nil {
		return fmt.Errorf("ENCODER_URL is invalid: %w", err)
	}
	if c.Encoder.Model == "" {
		return fmt.Errorf("ENCODER_MODEL is required when ENCODER_PROVIDER=openai")
	}
	return nil
}

// validateRecommend validates the hybrid score weights
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.ContentWeight+r.CollaborativeWeight+r.PopularityWeight == 0 {
		return fmt.Errorf("at least one of CONTENT_WEIGHT, COLLABORATIVE_WEIGHT, POPULARITY_WEIGHT must be positive")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be non-negative")
	}
	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if c.Logging.Level == "" {
		return nil
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
