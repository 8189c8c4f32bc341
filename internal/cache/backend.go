// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrMiss is returned by backends when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// ErrNotStored is returned by backends that accept writes without keeping them.
var ErrNotStored = errors.New("cache disabled, value not stored")

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backend is a key-value store with per-entry expiry.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value of key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of memory, badger, redis or none.
	Backend string

	// MaxEntries caps the memory backend. Zero means unlimited.
	MaxEntries int

	// BadgerPath is the badger data directory. Empty runs badger in memory.
	BadgerPath string

	// RedisURL is a redis:// connection URL.
	RedisURL string

	// Breaker configures failure isolation for the backend.
	Breaker BreakerConfig
}

// New opens the configured backend and wraps it in a Breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Breaker, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Backend {
	case BackendMemory, "":
		backend = NewMemory(cfg.MaxEntries)
	case BackendBadger:
		backend, err = OpenBadger(cfg.BadgerPath)
	case BackendRedis:
		backend, err = NewRedis(cfg.RedisURL)
	case BackendNone:
		backend = Nop{}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}

	return NewBreaker(backend, cfg.Breaker, logger), nil
}

// Nop is a backend that stores nothing.
type Nop struct{}

func (Nop) Name() string { return BackendNone }

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return ErrNotStored }

func (Nop) Delete(context.Context, string) error { return nil }

func (Nop) DeletePrefix(context.Context, string) (int, error) { return 0, nil }

func (Nop) Close() error { return nil }
