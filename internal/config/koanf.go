// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "data/hybridrec.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedMockData: false,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			BadgerPath: "data/cache",
			RedisURL:   "",
			MaxEntries: 10000,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         1 * time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Encoder: EncoderConfig{
			Provider:          "hashing",
			Path:              "/v1/embeddings",
			Model:             "text-embedding-3-small",
			Dimensions:        0, // 0 = provider default for hashing, unchecked for openai
			Timeout:           30 * time.Second,
			RequestsPerSecond: 0, // Unlimited
			Burst:             1,
			BatchSize:         32,
		},
		Recommend: RecommendConfig{
			ContentWeight:                   0.35,
			CollaborativeWeight:             0.40,
			PopularityWeight:                0.15,
			MinInteractionsForCollaborative: 10,
			MaxFactors:                      20,
			SimilarityTopK:                  50,
			ModelRebuildIntervalHours:       24,
			RecommendationsTTL:              5 * time.Minute,
			TrendingTTL:                     15 * time.Minute,
			SimilarityTTL:                   24 * time.Hour,
			DefaultTopN:                     10,
			MaxTopN:                         100,
			TrainOnStartup:                  true,
			CheckInterval:                   1 * time.Hour,
			TrainingTimeout:                 10 * time.Minute,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
		},
		Events: EventsConfig{
			RebuildTopic: "recommend.rebuild",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// REDIS_URL -> cache.redis_url
	// CONTENT_WEIGHT -> recommend.content_weight
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// sliceConfigPaths are parsed from comma-separated env values
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// The recommendation names match the variables the service has always read.
var envMappings = map[string]string{
	// Database mappings
	"database_driver":     "database.driver",
	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",
	"seed_mock_data":      "database.seed_mock_data",

	// Cache mappings
	"cache_backend":                   "cache.backend",
	"cache_badger_path":               "cache.badger_path",
	"cache_max_entries":               "cache.max_entries",
	"redis_url":                       "cache.redis_url",
	"cache_breaker_max_requests":      "cache.breaker.max_requests",
	"cache_breaker_interval":          "cache.breaker.interval",
	"cache_breaker_timeout":           "cache.breaker.timeout",
	"cache_breaker_failure_threshold": "cache.breaker.failure_threshold",

	// Encoder mappings
	"encoder_provider":            "encoder.provider",
	"encoder_url":                 "encoder.url",
	"encoder_path":                "encoder.path",
	"encoder_api_key":             "encoder.api_key",
	"encoder_model":               "encoder.model",
	"encoder_dimensions":          "encoder.dimensions",
	"encoder_timeout":             "encoder.timeout",
	"encoder_requests_per_second": "encoder.requests_per_second",
	"encoder_burst":               "encoder.burst",
	"encoder_batch_size":          "encoder.batch_size",

	// Recommendation engine mappings
	"content_weight":                  "recommend.content_weight",
	"collaborative_weight":            "recommend.collaborative_weight",
	"popularity_weight":               "recommend.popularity_weight",
	"min_interactions_for_collective": "recommend.min_interactions_for_collaborative",
	"max_factors":                     "recommend.max_factors",
	"similarity_top_k":                "recommend.similarity_top_k",
	"model_rebuild_interval_hours":    "recommend.model_rebuild_interval_hours",
	"recommendations_ttl":             "recommend.recommendations_ttl",
	"trending_ttl":                    "recommend.trending_ttl",
	"similarity_ttl":                  "recommend.similarity_ttl",
	"default_top_n":                   "recommend.default_top_n",
	"max_top_n":                       "recommend.max_top_n",
	"train_on_startup":                "recommend.train_on_startup",
	"train_check_interval":            "recommend.check_interval",
	"training_timeout":                "recommend.training_timeout",

	// Server mappings
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"cors_origins":        "server.cors_origins",

	// Events mappings
	"rebuild_topic": "events.rebuild_topic",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - REDIS_URL -> cache.redis_url
//   - MIN_INTERACTIONS_FOR_COLLECTIVE -> recommend.min_interactions_for_collaborative
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to any configuration
// it reloads from the callback.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
