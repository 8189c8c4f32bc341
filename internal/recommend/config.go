// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"fmt"
	"time"
)

// Fixed scoring windows.
const (
	// PopularityWindow is the trailing window counted for popularity.
	PopularityWindow = 30 * 24 * time.Hour

	// PopularityDecayDays is the e-folding time of the recency decay.
	PopularityDecayDays = 30.0

	// TrendingWindow is the length of each trending comparison window.
	TrendingWindow = 7 * 24 * time.Hour
)

// Config contains all recommendation engine configuration.
type Config struct {
	// Weights controls the contribution of each signal to the hybrid score.
	Weights SignalWeights `json:"weights"`

	// Training controls the training lifecycle.
	Training TrainingConfig `json:"training"`

	// Similarity controls precomputed similarity lists.
	Similarity SimilarityConfig `json:"similarity"`

	// Cache controls result caching.
	Cache CacheConfig `json:"cache"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// SignalWeights are the fixed linear weights of the hybrid score.
// They are not normalized and need not sum to 1.
type SignalWeights struct {
	// Content is the weight of semantic similarity to the seed product.
	// Default: 0.35.
	Content float64 `json:"content"`

	// Collaborative is the weight of the latent factor prediction.
	// Default: 0.40.
	Collaborative float64 `json:"collaborative"`

	// Popularity is the weight of time-decayed popularity.
	// Default: 0.15.
	Popularity float64 `json:"popularity"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// RebuildInterval is the model staleness threshold. Fit without force
	// is a no-op while the model is younger than this.
	// Default: 24h.
	RebuildInterval time.Duration `json:"rebuild_interval"`

	// MinInteractionsForCollaborative is the interaction count below which
	// collaborative filtering is disabled.
	// Default: 10.
	MinInteractionsForCollaborative int `json:"min_interactions_for_collaborative"`

	// MaxFactors caps the latent rank.
	// Default: 20.
	MaxFactors int `json:"max_factors"`

	// EncodeBatchSize is the number of texts sent to the encoder per call.
	// Default: 32.
	EncodeBatchSize int `json:"encode_batch_size"`

	// Timeout is the maximum time allowed for a training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`
}

// SimilarityConfig controls precomputed similarity lists.
type SimilarityConfig struct {
	// TopK is the number of neighbors stored per product.
	// Default: 50.
	TopK int `json:"top_k"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// RecommendationsTTL is the lifetime of cached recommendation lists.
	// Default: 5m.
	RecommendationsTTL time.Duration `json:"recommendations_ttl"`

	// TrendingTTL is the lifetime of cached trending lists.
	// Default: 15m.
	TrendingTTL time.Duration `json:"trending_ttl"`

	// SimilarityTTL is the lifetime of precomputed similarity lists.
	// Default: 24h.
	SimilarityTTL time.Duration `json:"similarity_ttl"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is the number of results when a query leaves TopN unset.
	// Default: 10.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the maximum allowed TopN value.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: SignalWeights{
			Content:       0.35,
			Collaborative: 0.40,
			Popularity:    0.15,
		},
		Training: TrainingConfig{
			RebuildInterval:                 24 * time.Hour,
			MinInteractionsForCollaborative: 10,
			MaxFactors:                      20,
			EncodeBatchSize:                 32,
			Timeout:                         10 * time.Minute,
		},
		Similarity: SimilarityConfig{
			TopK: 50,
		},
		Cache: CacheConfig{
			RecommendationsTTL: 5 * time.Minute,
			TrendingTTL:        15 * time.Minute,
			SimilarityTTL:      24 * time.Hour,
		},
		Limits: LimitsConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Weights.Content < 0 {
		return fmt.Errorf("weights.content must be non-negative, got %f", c.Weights.Content)
	}
	if c.Weights.Collaborative < 0 {
		return fmt.Errorf("weights.collaborative must be non-negative, got %f", c.Weights.Collaborative)
	}
	if c.Weights.Popularity < 0 {
		return fmt.Errorf("weights.popularity must be non-negative, got %f", c.Weights.Popularity)
	}

	if c.Training.RebuildInterval < 0 {
		return fmt.Errorf("training.rebuild_interval must be non-negative, got %v", c.Training.RebuildInterval)
	}
	if c.Training.MinInteractionsForCollaborative < 0 {
		return fmt.Errorf("training.min_interactions_for_collaborative must be non-negative, got %d",
			c.Training.MinInteractionsForCollaborative)
	}
	if c.Training.MaxFactors < 1 {
		return fmt.Errorf("training.max_factors must be positive, got %d", c.Training.MaxFactors)
	}
	if c.Training.EncodeBatchSize < 1 {
		return fmt.Errorf("training.encode_batch_size must be positive, got %d", c.Training.EncodeBatchSize)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}

	if c.Similarity.TopK < 1 {
		return fmt.Errorf("similarity.top_k must be positive, got %d", c.Similarity.TopK)
	}

	if c.Cache.RecommendationsTTL <= 0 || c.Cache.TrendingTTL <= 0 || c.Cache.SimilarityTTL <= 0 {
		return fmt.Errorf("cache ttls must be positive")
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
