// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// EventLogger logs the lifecycle of model rebuild events.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an EventLogger on the global logger.
func NewEventLogger() *EventLogger {
	return &EventLogger{logger: WithComponent("events")}
}

// NewEventLoggerWithLogger creates an EventLogger on logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// from attaches ids carried by ctx.
func (e *EventLogger) from(ctx context.Context) *zerolog.Logger {
	return Ctx(ContextWithLogger(ctx, e.logger))
}

// LogRebuildPublished records a rebuild request handed to the bus.
func (e *EventLogger) LogRebuildPublished(ctx context.Context, eventID, topic, reason string) {
	e.from(ctx).Info().
		Str("event_id", eventID).
		Str("topic", topic).
		Str("reason", reason).
		Msg("rebuild requested")
}

// LogRebuildReceived records a rebuild request picked up by the subscriber.
func (e *EventLogger) LogRebuildReceived(ctx context.Context, eventID string, lag time.Duration) {
	e.from(ctx).Debug().
		Str("event_id", eventID).
		Dur("lag", lag).
		Msg("rebuild event received")
}

// LogRebuildCompleted records a successful forced rebuild.
func (e *EventLogger) LogRebuildCompleted(ctx context.Context, eventID string, duration time.Duration) {
	e.from(ctx).Info().
		Str("event_id", eventID).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("rebuild completed")
}

// LogRebuildCoalesced records a request absorbed by a run already in progress.
func (e *EventLogger) LogRebuildCoalesced(ctx context.Context, eventID string) {
	e.from(ctx).Info().
		Str("event_id", eventID).
		Msg("rebuild coalesced with running training")
}

// LogRebuildFailed records a rebuild that left the previous model serving.
func (e *EventLogger) LogRebuildFailed(ctx context.Context, eventID string, err error) {
	e.from(ctx).Error().
		Err(err).
		Str("event_id", eventID).
		Msg("rebuild failed")
}

// LogSubscriptionStarted records a subscriber attaching to topic.
func (e *EventLogger) LogSubscriptionStarted(topic string) {
	e.logger.Info().Str("topic", topic).Msg("subscription started")
}

// LogSubscriptionStopped records a subscriber detaching from topic.
func (e *EventLogger) LogSubscriptionStopped(topic string) {
	e.logger.Info().Str("topic", topic).Msg("subscription stopped")
}
