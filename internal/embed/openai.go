// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package embed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// maxErrorBody bounds how much of an error response is echoed into errors.
const maxErrorBody = 512

// OpenAI calls an OpenAI-compatible embeddings endpoint.
//
// Thread-safe: can be used concurrently from multiple goroutines.
type OpenAI struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[][]float64]
}

type openaiRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openaiResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewOpenAI creates a remote encoder.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Path == "" {
		cfg.Path = "/v1/embeddings"
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &OpenAI{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		cb: gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
			Name:        "encoder-" + cfg.Model,
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			// Caller cancellation says nothing about the endpoint's health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Encode embeds texts in a single request.
func (e *OpenAI) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	start := time.Now()
	vectors, err := e.cb.Execute(func() ([][]float64, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return e.request(ctx, texts)
	})
	metrics.RecordEncoderRequest(e.config.Model, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("encode %d texts: %w", len(texts), err)
	}
	return vectors, nil
}

func (e *OpenAI) request(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(openaiRequest{Model: e.config.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := e.config.URL + e.config.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("embeddings endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var parsed openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	out := make([][]float64, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) || out[d.Index] != nil {
			return nil, fmt.Errorf("invalid embedding index %d", d.Index)
		}
		if e.config.Dimensions > 0 && len(d.Embedding) != e.config.Dimensions {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, e.config.Dimensions, len(d.Embedding))
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// Model returns the remote model name.
func (e *OpenAI) Model() string {
	return e.config.Model
}

// State returns the circuit breaker state.
func (e *OpenAI) State() gobreaker.State {
	return e.cb.State()
}
