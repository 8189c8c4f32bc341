// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides layered configuration for the recommendation service.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file, from CONFIG_PATH or DefaultConfigPaths
 3. Environment variables listed in envMappings

Unknown environment variables are ignored.

# Sections

  - database: store driver (duckdb or sqlite), path and DuckDB tuning
  - cache: result cache backend (memory, badger, redis, none) and its circuit breaker
  - encoder: text embedding provider (hashing or an OpenAI-compatible server)
  - recommend: score weights, training schedule, cache TTLs and result limits
  - server: HTTP listener, rate limiting and CORS origins
  - events: in-process rebuild topic
  - logging: zerolog level, format and caller

# Environment Variables

Recommendation engine:
  - CONTENT_WEIGHT, COLLABORATIVE_WEIGHT, POPULARITY_WEIGHT (default: 0.35, 0.40, 0.15)
  - MIN_INTERACTIONS_FOR_COLLECTIVE (default: 10)
  - SIMILARITY_TOP_K (default: 50)
  - MODEL_REBUILD_INTERVAL_HOURS (default: 24)

Storage:
  - DATABASE_DRIVER, DATABASE_PATH, SEED_MOCK_DATA
  - CACHE_BACKEND, REDIS_URL, CACHE_BADGER_PATH

HTTP:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW
  - CORS_ORIGINS (comma-separated; empty disables CORS)

Validation combines validator struct tags with cross-field checks in
config_validate.go. EngineConfig, CacheOptions and EncoderOptions translate
the loaded sections into the component configurations.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(cfg.EngineConfig(), deps, logger)
*/
package config
