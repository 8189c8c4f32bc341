// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/embed"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// EngineConfig builds the recommendation engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	r := c.Recommend

	cfg.Weights = recommend.SignalWeights{
		Content:       r.ContentWeight,
		Collaborative: r.CollaborativeWeight,
		Popularity:    r.PopularityWeight,
	}
	cfg.Training.RebuildInterval = r.RebuildInterval()
	cfg.Training.MinInteractionsForCollaborative = r.MinInteractionsForCollaborative
	cfg.Training.MaxFactors = r.MaxFactors
	cfg.Training.EncodeBatchSize = c.Encoder.BatchSize
	cfg.Training.Timeout = r.TrainingTimeout
	cfg.Similarity.TopK = r.SimilarityTopK
	cfg.Cache = recommend.CacheConfig{
		RecommendationsTTL: r.RecommendationsTTL,
		TrendingTTL:        r.TrendingTTL,
		SimilarityTTL:      r.SimilarityTTL,
	}
	cfg.Limits = recommend.LimitsConfig{
		DefaultTopN: r.DefaultTopN,
		MaxTopN:     r.MaxTopN,
	}

	return cfg
}

// CacheOptions builds the result cache configuration.
func (c *Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend:    c.Cache.Backend,
		MaxEntries: c.Cache.MaxEntries,
		BadgerPath: c.Cache.BadgerPath,
		RedisURL:   c.Cache.RedisURL,
		Breaker: cache.BreakerConfig{
			MaxRequests:      c.Cache.Breaker.MaxRequests,
			Interval:         c.Cache.Breaker.Interval,
			Timeout:          c.Cache.Breaker.Timeout,
			FailureThreshold: c.Cache.Breaker.FailureThreshold,
		},
	}
}

// EncoderOptions builds the text encoder configuration.
func (c *Config) EncoderOptions() embed.Config {
	return embed.Config{
		Provider:          c.Encoder.Provider,
		URL:               c.Encoder.URL,
		Path:              c.Encoder.Path,
		APIKey:            c.Encoder.APIKey,
		Model:             c.Encoder.Model,
		Dimensions:        c.Encoder.Dimensions,
		Timeout:           c.Encoder.Timeout,
		RequestsPerSecond: c.Encoder.RequestsPerSecond,
		Burst:             c.Encoder.Burst,
	}
}
