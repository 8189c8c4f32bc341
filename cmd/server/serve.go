// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hybridrec/internal/api"
	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/events"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/supervisor"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with scheduled and on-demand model training",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Info().Str("version", version).Msg("starting hybridrec with supervisor tree")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error().Err(err).Msg("error during shutdown")
		}
	}()

	pubsub := events.NewPubSub(logging.Logger())
	defer func() {
		if err := pubsub.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event bus")
		}
	}()

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())

	tree.AddMessagingService(services.NewRecommendService(a.engine, pubsub, services.RecommendServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		CheckInterval:  cfg.Recommend.CheckInterval,
		RebuildTopic:   cfg.Events.RebuildTopic,
	}, a.logger))

	// A disabled cache reports as such on /healthz.
	var resultCache api.Cache
	if cfg.Cache.Backend != cache.BackendNone {
		resultCache = a.cache
	}

	handler := api.NewHandler(api.Dependencies{
		Recommender:    a.service,
		Engine:         a.engine,
		Store:          a.db,
		Cache:          resultCache,
		Publisher:      pubsub,
		RebuildTopic:   cfg.Events.RebuildTopic,
		RequestTimeout: cfg.Server.Timeout,
	})
	server := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewRouter(handler, api.MiddlewareConfig{
			RateLimitRequests: cfg.Server.RateLimitReqs,
			RateLimitWindow:   cfg.Server.RateLimitWindow,
			CORSOrigins:       cfg.Server.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.WithComponent("api")))

	watchLogLevel()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logging.Info().Msg("hybridrec stopped")
	return nil
}

// watchLogLevel reloads the config file on change and applies its log level.
// Other settings need a restart.
func watchLogLevel() {
	path := os.Getenv(config.ConfigPathEnvVar)
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("config hot reload unavailable")
	}
}
