// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// BreakerConfig controls when the cache circuit opens.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval resets failure counts while closed. Zero never resets.
	Interval time.Duration

	// Timeout is how long the circuit stays open before a trial.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker guards a backend with a circuit breaker and hides its errors.
// Get reports a miss and Set reports false on any failure, including
// requests rejected by an open circuit.
type Breaker struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewBreaker wraps backend. Zero fields in cfg take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreaker(backend Backend, cfg BreakerConfig, logger zerolog.Logger) *Breaker {
	def := DefaultBreakerConfig()
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}

	name := backend.Name()
	logger = logger.With().Str("cache_backend", name).Logger()
	metrics.SetCacheBreakerState(name, 0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "cache-" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss) || errors.Is(err, ErrNotStored)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("cache circuit breaker state change")
			metrics.SetCacheBreakerState(name, stateValue(to))
		},
	})

	return &Breaker{backend: backend, cb: cb, logger: logger}
}

// Get returns the cached value and true, or false on a miss or failure.
func (b *Breaker) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := b.cb.Execute(func() ([]byte, error) {
		return b.backend.Get(ctx, key)
	})
	switch {
	case err == nil:
		metrics.RecordCacheOp(b.backend.Name(), "get", "hit")
		return data, true
	case errors.Is(err, ErrMiss):
		metrics.RecordCacheOp(b.backend.Name(), "get", "miss")
	default:
		b.recordFailure("get", key, err)
	}
	return nil, false
}

// Set stores value and reports whether the backend accepted it.
func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.backend.Set(ctx, key, value, ttl)
	})
	if errors.Is(err, ErrNotStored) {
		metrics.RecordCacheOp(b.backend.Name(), "set", "skipped")
		return false
	}
	if err != nil {
		b.recordFailure("set", key, err)
		return false
	}
	metrics.RecordCacheOp(b.backend.Name(), "set", "success")
	return true
}

// Delete removes key and reports whether the backend accepted the delete.
func (b *Breaker) Delete(ctx context.Context, key string) bool {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.backend.Delete(ctx, key)
	})
	if err != nil {
		b.recordFailure("delete", key, err)
		return false
	}
	metrics.RecordCacheOp(b.backend.Name(), "delete", "success")
	return true
}

// DeletePrefix removes keys under prefix and returns how many were removed.
// Failures are logged and reported as zero.
func (b *Breaker) DeletePrefix(ctx context.Context, prefix string) int {
	var n int
	_, err := b.cb.Execute(func() ([]byte, error) {
		var err error
		n, err = b.backend.DeletePrefix(ctx, prefix)
		return nil, err
	})
	if err != nil {
		b.recordFailure("delete_prefix", prefix, err)
		return 0
	}
	metrics.RecordCacheOp(b.backend.Name(), "delete_prefix", "success")
	return n
}

// State returns the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Backend returns the wrapped backend.
func (b *Breaker) Backend() Backend {
	return b.backend
}

// Close closes the wrapped backend.
func (b *Breaker) Close() error {
	return b.backend.Close()
}

func (b *Breaker) recordFailure(op, key string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordCacheOp(b.backend.Name(), op, "rejected")
		return
	}
	metrics.RecordCacheOp(b.backend.Name(), op, "error")
	b.logger.Debug().Err(err).Str("op", op).Str("key", key).Msg("cache operation failed")
}

// stateValue maps a breaker state to its gauge value.
func stateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
