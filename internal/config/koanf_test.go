// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unsetConfigEnv removes every mapped variable for the duration of the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	names := []string{ConfigPathEnvVar}
	for key := range envMappings {
		names = append(names, strings.ToUpper(key))
	}
	for _, name := range names {
		if old, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, old) })
		}
	}
	t.Chdir(t.TempDir())
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Driver != "duckdb" {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Encoder.Provider != "hashing" {
		t.Errorf("Encoder.Provider = %q, want hashing", cfg.Encoder.Provider)
	}

	r := cfg.Recommend
	if r.ContentWeight != 0.35 || r.CollaborativeWeight != 0.40 || r.PopularityWeight != 0.15 {
		t.Errorf("weights = %v/%v/%v, want 0.35/0.40/0.15",
			r.ContentWeight, r.CollaborativeWeight, r.PopularityWeight)
	}
	if r.MinInteractionsForCollaborative != 10 {
		t.Errorf("MinInteractionsForCollaborative = %d, want 10", r.MinInteractionsForCollaborative)
	}
	if r.SimilarityTopK != 50 {
		t.Errorf("SimilarityTopK = %d, want 50", r.SimilarityTopK)
	}
	if r.RebuildInterval() != 24*time.Hour {
		t.Errorf("RebuildInterval() = %v, want 24h", r.RebuildInterval())
	}
	if r.RecommendationsTTL != 5*time.Minute {
		t.Errorf("RecommendationsTTL = %v, want 5m", r.RecommendationsTTL)
	}
	if r.TrendingTTL != 15*time.Minute {
		t.Errorf("TrendingTTL = %v, want 15m", r.TrendingTTL)
	}
	if r.SimilarityTTL != 24*time.Hour {
		t.Errorf("SimilarityTTL = %v, want 24h", r.SimilarityTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	unsetConfigEnv(t)

	t.Run("no config file exists", func(t *testing.T) {
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		if err := os.WriteFile("config.yaml", []byte("logging:\n  level: debug\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove("config.yaml")

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(customPath, []byte("{}\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"CONTENT_WEIGHT", "recommend.content_weight"},
		{"COLLABORATIVE_WEIGHT", "recommend.collaborative_weight"},
		{"POPULARITY_WEIGHT", "recommend.popularity_weight"},
		{"MIN_INTERACTIONS_FOR_COLLECTIVE", "recommend.min_interactions_for_collaborative"},
		{"SIMILARITY_TOP_K", "recommend.similarity_top_k"},
		{"MODEL_REBUILD_INTERVAL_HOURS", "recommend.model_rebuild_interval_hours"},
		{"REDIS_URL", "cache.redis_url"},
		{"DATABASE_PATH", "database.path"},
		{"LOG_LEVEL", "logging.level"},
		{"HTTP_PORT", "server.port"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	unsetConfigEnv(t)

	t.Setenv("CONTENT_WEIGHT", "0.5")
	t.Setenv("COLLABORATIVE_WEIGHT", "0.3")
	t.Setenv("MIN_INTERACTIONS_FOR_COLLECTIVE", "25")
	t.Setenv("SIMILARITY_TOP_K", "12")
	t.Setenv("MODEL_REBUILD_INTERVAL_HOURS", "6")
	t.Setenv("TRENDING_TTL", "30m")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", "/tmp/hybridrec.db")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Recommend.ContentWeight != 0.5 {
		t.Errorf("ContentWeight = %v, want 0.5", cfg.Recommend.ContentWeight)
	}
	if cfg.Recommend.CollaborativeWeight != 0.3 {
		t.Errorf("CollaborativeWeight = %v, want 0.3", cfg.Recommend.CollaborativeWeight)
	}
	if cfg.Recommend.PopularityWeight != 0.15 {
		t.Errorf("PopularityWeight = %v, want 0.15 (default)", cfg.Recommend.PopularityWeight)
	}
	if cfg.Recommend.MinInteractionsForCollaborative != 25 {
		t.Errorf("MinInteractionsForCollaborative = %d, want 25", cfg.Recommend.MinInteractionsForCollaborative)
	}
	if cfg.Recommend.SimilarityTopK != 12 {
		t.Errorf("SimilarityTopK = %d, want 12", cfg.Recommend.SimilarityTopK)
	}
	if cfg.Recommend.RebuildInterval() != 6*time.Hour {
		t.Errorf("RebuildInterval() = %v, want 6h", cfg.Recommend.RebuildInterval())
	}
	if cfg.Recommend.TrendingTTL != 30*time.Minute {
		t.Errorf("TrendingTTL = %v, want 30m", cfg.Recommend.TrendingTTL)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/hybridrec.db" {
		t.Errorf("Database = %+v, want sqlite at /tmp/hybridrec.db", cfg.Database)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	wantOrigins := []string{"https://shop.example.com", "https://admin.example.com"}
	if len(cfg.Server.CORSOrigins) != len(wantOrigins) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, wantOrigins)
	}
	for i, origin := range wantOrigins {
		if cfg.Server.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
		}
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Cache.Breaker.FailureThreshold != 5 {
		t.Errorf("Breaker.FailureThreshold = %d, want 5 (default)", cfg.Cache.Breaker.FailureThreshold)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	unsetConfigEnv(t)

	configContent := `
database:
  driver: sqlite
  path: ":memory:"
cache:
  backend: none
recommend:
  content_weight: 0.6
  similarity_top_k: 20
  recommendations_ttl: 2m
server:
  port: 7000
logging:
  format: console
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Recommend.ContentWeight != 0.6 {
		t.Errorf("ContentWeight = %v, want 0.6", cfg.Recommend.ContentWeight)
	}
	if cfg.Recommend.SimilarityTopK != 20 {
		t.Errorf("SimilarityTopK = %d, want 20", cfg.Recommend.SimilarityTopK)
	}
	if cfg.Recommend.RecommendationsTTL != 2*time.Minute {
		t.Errorf("RecommendationsTTL = %v, want 2m", cfg.Recommend.RecommendationsTTL)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file values
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	unsetConfigEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("recommend:\n  popularity_weight: 0.9\nserver:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("POPULARITY_WEIGHT", "0.05")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Recommend.PopularityWeight != 0.05 {
		t.Errorf("PopularityWeight = %v, want 0.05 (env should override file)", cfg.Recommend.PopularityWeight)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 (from file)", cfg.Server.Port)
	}
}

// TestLoadWithKoanfValidation tests that invalid values are rejected at load time
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "negative weight",
			env:     map[string]string{"CONTENT_WEIGHT": "-0.1"},
			wantErr: "ContentWeight must be greater than or equal to 0",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DATABASE_DRIVER": "postgres"},
			wantErr: "Driver must be one of: duckdb sqlite",
		},
		{
			name:    "redis backend without url",
			env:     map[string]string{"CACHE_BACKEND": "redis"},
			wantErr: "REDIS_URL is required when CACHE_BACKEND=redis",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL must be one of",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
