// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package embed

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Providers accepted by New.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// ErrDimensionMismatch is returned when a remote model returns vectors of an unexpected size.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Config selects and configures an encoder.
type Config struct {
	Provider   string        // hashing, openai
	URL        string        // e.g. https://api.openai.com or http://localhost:11434
	Path       string        // e.g. /v1/embeddings
	APIKey     string        // bearer token, optional for local servers
	Model      string        // e.g. text-embedding-3-small
	Dimensions int           // expected vector size; 0 skips validation for remote models
	Timeout    time.Duration // per request

	RequestsPerSecond float64 // 0 disables client-side limiting
	Burst             int
}

// DefaultConfig returns the local hashing encoder configuration.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderHashing,
		Path:       "/v1/embeddings",
		Model:      "text-embedding-3-small",
		Dimensions: DefaultHashingDimensions,
		Timeout:    30 * time.Second,
		Burst:      1,
	}
}

// New creates the encoder named by cfg.Provider.
func New(cfg Config) (recommend.TextEncoder, error) {
	switch cfg.Provider {
	case ProviderHashing, "":
		return NewHashing(cfg.Dimensions), nil
	case ProviderOpenAI:
		if cfg.URL == "" {
			return nil, errors.New("openai encoder requires a url")
		}
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown encoder provider: %s", cfg.Provider)
	}
}
