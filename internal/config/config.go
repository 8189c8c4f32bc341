// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Encoder   EncoderConfig   `koanf:"encoder"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds catalog and interaction store settings
type DatabaseConfig struct {
	Driver       string `koanf:"driver" validate:"oneof=duckdb sqlite"`
	Path         string `koanf:"path" validate:"required"`
	MaxMemory    string `koanf:"max_memory"`     // DuckDB only, e.g. "1GB"
	Threads      int    `koanf:"threads"`        // DuckDB threads (0 = use NumCPU)
	SeedMockData bool   `koanf:"seed_mock_data"` // Replace the store contents with the demo catalog on startup
}

// CacheConfig holds result cache settings.
//
// Environment Variables:
//   - CACHE_BACKEND: memory, badger, redis, none (default: memory)
//   - REDIS_URL: redis://host:port/db, required when CACHE_BACKEND=redis
//   - CACHE_BADGER_PATH: badger directory, empty for in-memory badger
type CacheConfig struct {
	Backend    string        `koanf:"backend" validate:"oneof=memory badger redis none"`
	BadgerPath string        `koanf:"badger_path"`
	RedisURL   string        `koanf:"redis_url"`
	MaxEntries int           `koanf:"max_entries" validate:"gte=0"`
	Breaker    BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the cache backend
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gte=1"`
}

// EncoderConfig holds text embedding settings.
//
// The hashing provider runs in-process and needs no network access.
// The openai provider speaks the OpenAI-compatible /v1/embeddings API,
// which also covers Ollama and most self-hosted embedding servers.
type EncoderConfig struct {
	Provider          string        `koanf:"provider" validate:"oneof=hashing openai"`
	URL               string        `koanf:"url"`
	Path              string        `koanf:"path"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Dimensions        int           `koanf:"dimensions" validate:"gte=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=1"`
	BatchSize         int           `koanf:"batch_size" validate:"gte=1"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - CONTENT_WEIGHT, COLLABORATIVE_WEIGHT, POPULARITY_WEIGHT: hybrid score weights
//   - MIN_INTERACTIONS_FOR_COLLECTIVE: interactions needed before collaborative filtering runs (default: 10)
//   - SIMILARITY_TOP_K: neighbors stored per product (default: 50)
//   - MODEL_REBUILD_INTERVAL_HOURS: model staleness threshold (default: 24)
type RecommendConfig struct {
	// Hybrid score weights. They are not normalized.
	ContentWeight       float64 `koanf:"content_weight" validate:"gte=0"`
	CollaborativeWeight float64 `koanf:"collaborative_weight" validate:"gte=0"`
	PopularityWeight    float64 `koanf:"popularity_weight" validate:"gte=0"`

	MinInteractionsForCollaborative int `koanf:"min_interactions_for_collaborative" validate:"gte=0"`
	MaxFactors                      int `koanf:"max_factors" validate:"gte=1"`
	SimilarityTopK                  int `koanf:"similarity_top_k" validate:"gte=1"`
	ModelRebuildIntervalHours       int `koanf:"model_rebuild_interval_hours" validate:"gte=0"`

	RecommendationsTTL time.Duration `koanf:"recommendations_ttl" validate:"gt=0"`
	TrendingTTL        time.Duration `koanf:"trending_ttl" validate:"gt=0"`
	SimilarityTTL      time.Duration `koanf:"similarity_ttl" validate:"gt=0"`

	DefaultTopN int `koanf:"default_top_n" validate:"gte=1"`
	MaxTopN     int `koanf:"max_top_n" validate:"gtefield=DefaultTopN"`

	// TrainOnStartup runs a forced training cycle when the service starts.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// CheckInterval is how often the scheduler asks the engine to retrain.
	// The engine itself skips the run while the model is fresh.
	CheckInterval time.Duration `koanf:"check_interval" validate:"gt=0"`

	TrainingTimeout time.Duration `koanf:"training_timeout" validate:"gt=0"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`   // Requests per window per client IP (0 disables)
	RateLimitWindow time.Duration `koanf:"rate_limit_window"` // Rate limit window
	CORSOrigins     []string      `koanf:"cors_origins"`      // Empty disables CORS headers
}

// EventsConfig holds in-process event bus settings
type EventsConfig struct {
	RebuildTopic string `koanf:"rebuild_topic" validate:"required"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RebuildInterval returns the model staleness threshold as a duration.
func (c *RecommendConfig) RebuildInterval() time.Duration {
	return time.Duration(c.ModelRebuildIntervalHours) * time.Hour
}

// Load reads configuration from defaults, an optional config file and
// environment variables, in that order of precedence.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
