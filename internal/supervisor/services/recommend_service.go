// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/events"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Trainer is the part of the recommendation engine the service drives.
type Trainer interface {
	// Fit retrains the model. With force=false it is a no-op while the
	// current model is younger than the rebuild interval.
	Fit(ctx context.Context, force bool) error
}

// RecommendServiceConfig holds configuration for the recommendation service.
type RecommendServiceConfig struct {
	// TrainOnStartup forces a training run the first time the service starts.
	TrainOnStartup bool

	// CheckInterval is how often the engine is asked whether the model is stale.
	CheckInterval time.Duration

	// RebuildTopic is the topic rebuild requests arrive on.
	RebuildTopic string
}

// RecommendService keeps the serving model fresh under suture supervision.
type RecommendService struct {
	engine     Trainer
	subscriber message.Subscriber
	config     RecommendServiceConfig
	logger     zerolog.Logger
	events     *logging.EventLogger
	started    atomic.Bool
	name       string
}

// NewRecommendService creates the service. subscriber may be nil, in which
// case only startup and scheduled training run.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine Trainer, subscriber message.Subscriber, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	if cfg.RebuildTopic == "" {
		cfg.RebuildTopic = events.DefaultRebuildTopic
	}
	return &RecommendService{
		engine:     engine,
		subscriber: subscriber,
		config:     cfg,
		logger:     logger.With().Str("service", "recommend").Logger(),
		events:     logging.NewEventLoggerWithLogger(logger),
		name:       "recommend-service",
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	var rebuilds <-chan *message.Message
	if s.subscriber != nil {
		ch, err := s.subscriber.Subscribe(ctx, s.config.RebuildTopic)
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", s.config.RebuildTopic, err)
		}
		rebuilds = ch
		s.events.LogSubscriptionStarted(s.config.RebuildTopic)
		defer s.events.LogSubscriptionStopped(s.config.RebuildTopic)
	}

	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("check_interval", s.config.CheckInterval).
		Msg("recommendation service starting")

	// Restarts after a failure must not force another full rebuild
	if s.config.TrainOnStartup && s.started.CompareAndSwap(false, true) {
		s.logger.Info().Msg("training model on startup")
		if err := s.engine.Fit(ctx, true); err != nil && ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("startup training failed, will retry on schedule")
		}
	}

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service stopping")
			return ctx.Err()

		case <-ticker.C:
			s.scheduledFit(ctx)

		case msg, ok := <-rebuilds:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("rebuild subscription closed")
			}
			fitStart := s.handleRebuild(ctx, msg)
			s.drainCoalesced(ctx, rebuilds, fitStart)
		}
	}
}

func (s *RecommendService) scheduledFit(ctx context.Context) {
	err := s.engine.Fit(ctx, false)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("scheduled check skipped, training already running")
	case ctx.Err() != nil:
	default:
		s.logger.Warn().Err(err).Msg("scheduled training failed")
	}
}

// handleRebuild runs a forced fit for msg and returns when the fit started.
// The message is always acked; a bad payload is not worth redelivering.
func (s *RecommendService) handleRebuild(ctx context.Context, msg *message.Message) time.Time {
	defer msg.Ack()

	mctx, req, err := events.DecodeRebuild(ctx, msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping invalid rebuild request")
		return time.Time{}
	}

	s.events.LogRebuildReceived(mctx, req.RequestID, time.Since(req.RequestedAt))

	start := time.Now()
	err = s.engine.Fit(mctx, true)
	switch {
	case err == nil:
		s.events.LogRebuildCompleted(mctx, req.RequestID, time.Since(start))
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.events.LogRebuildCoalesced(mctx, req.RequestID)
	default:
		s.events.LogRebuildFailed(mctx, req.RequestID, err)
	}
	return start
}

// drainCoalesced acks queued requests made before fitStart; the model just
// built already covers them. The first newer request is handled normally.
func (s *RecommendService) drainCoalesced(ctx context.Context, rebuilds <-chan *message.Message, fitStart time.Time) {
	for !fitStart.IsZero() {
		select {
		case msg, ok := <-rebuilds:
			if !ok {
				return
			}
			mctx, req, err := events.DecodeRebuild(ctx, msg)
			if err == nil && req.RequestedAt.Before(fitStart) {
				s.events.LogRebuildCoalesced(mctx, req.RequestID)
				msg.Ack()
				continue
			}
			fitStart = s.handleRebuild(ctx, msg)
		default:
			return
		}
	}
}

// String identifies the service in supervisor logs.
func (s *RecommendService) String() string {
	return s.name
}
