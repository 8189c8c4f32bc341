// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/database"
	"github.com/tomtom215/hybridrec/internal/embed"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/reranking"
)

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	db      *database.DB
	cache   *cache.Breaker
	engine  *recommend.Engine
	service *recommend.Service
	logger  zerolog.Logger
}

// loadConfig loads configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// newApp opens the database, builds the cache and encoder, and creates the
// engine with the MMR re-ranker registered. The caller must Close it.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.WithComponent("recommend")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{cfg: cfg, db: db, logger: logger}

	a.cache, err = cache.New(cfg.CacheOptions(), logging.WithComponent("cache"))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}

	if cfg.Database.SeedMockData {
		summary, err := seedCatalog(ctx, db, a.cache)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		logging.Info().
			Int("products", summary.Products).
			Int("users", summary.Users).
			Int("interactions", summary.Interactions).
			Msg("mock data seeded (SEED_MOCK_DATA=true)")
	}

	encoder, err := embed.New(cfg.EncoderOptions())
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("create text encoder: %w", err)
	}

	a.engine, err = recommend.NewEngine(cfg.EngineConfig(), recommend.Dependencies{
		Store:   db,
		Encoder: encoder,
		Cache:   a.cache,
	}, logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine.RegisterReranker(reranking.NewMMR())
	a.service = recommend.NewService(a.engine, db)

	logging.Info().
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Backend).
		Str("encoder", encoder.Model()).
		Msg("recommendation engine ready")
	return a, nil
}

// Close releases the cache and the database.
func (a *app) Close() error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// seedCatalog replaces the catalog with demo data and drops the cached lists
// that referred to the old one. Badger and Redis caches outlive the process,
// so stale similarity and trending lists would otherwise be served.
func seedCatalog(ctx context.Context, db *database.DB, inv cache.Invalidator) (database.SeedSummary, error) {
	before, err := db.ListProducts(ctx)
	if err != nil {
		return database.SeedSummary{}, fmt.Errorf("list products: %w", err)
	}

	summary, err := db.SeedMockData(ctx)
	if err != nil {
		return summary, fmt.Errorf("seed mock data: %w", err)
	}

	after, err := db.ListProducts(ctx)
	if err != nil {
		return summary, fmt.Errorf("list seeded products: %w", err)
	}

	seen := make(map[int]struct{}, len(before)+len(after))
	ids := make([]int, 0, len(before)+len(after))
	for _, p := range append(before, after...) {
		if _, ok := seen[p.ID]; !ok {
			seen[p.ID] = struct{}{}
			ids = append(ids, p.ID)
		}
	}
	invalidateCatalog(ctx, inv, ids)
	return summary, nil
}

// invalidateCatalog drops the similarity lists of productIDs and every
// trending list.
func invalidateCatalog(ctx context.Context, inv cache.Invalidator, productIDs []int) {
	dropped := 0
	for _, id := range productIDs {
		if cache.InvalidateProduct(ctx, inv, id) {
			dropped++
		}
	}
	trending := cache.InvalidateTrending(ctx, inv)
	logging.Debug().
		Int("similarity_lists", dropped).
		Int("trending_lists", trending).
		Msg("cached catalog lists invalidated")
}
