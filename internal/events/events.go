// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package events carries model rebuild requests over an in-process
// watermill pub/sub.
//
// The admin API and CLI publish RebuildRequest messages; the recommendation
// service subscribes and runs a forced training cycle for each one.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// DefaultRebuildTopic is the topic rebuild requests are published on.
const DefaultRebuildTopic = "recommend.rebuild"

// MetadataCorrelationID carries the originating request id across the bus.
const MetadataCorrelationID = "correlation_id"

// maxReasonLength bounds the free-text reason stored with a request.
const maxReasonLength = 200

// ErrInvalidRebuild is returned when a message does not decode to a RebuildRequest.
var ErrInvalidRebuild = errors.New("invalid rebuild request")

// RebuildRequest asks the recommendation service to retrain now.
type RebuildRequest struct {
	RequestID   string    `json:"request_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewPubSub returns an in-process pub/sub. Messages published while nobody
// is subscribed are dropped.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPubSub(logger zerolog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		logging.NewWatermillLogger(logger.With().Str("component", "events").Logger()),
	)
}

// PublishRebuild publishes a rebuild request on topic and returns it.
// A request id found in ctx is forwarded as the correlation id.
func PublishRebuild(ctx context.Context, pub message.Publisher, topic, reason string) (RebuildRequest, error) {
	req := RebuildRequest{
		RequestID:   uuid.NewString(),
		Reason:      normalizeReason(reason),
		RequestedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return RebuildRequest{}, fmt.Errorf("marshal rebuild request: %w", err)
	}

	msg := message.NewMessage(req.RequestID, payload)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	if err := pub.Publish(topic, msg); err != nil {
		return RebuildRequest{}, fmt.Errorf("publish rebuild request: %w", err)
	}

	logging.NewEventLogger().LogRebuildPublished(ctx, req.RequestID, topic, req.Reason)
	return req, nil
}

// DecodeRebuild parses a rebuild message. The returned context carries the
// correlation id from the message metadata, if any.
func DecodeRebuild(ctx context.Context, msg *message.Message) (context.Context, RebuildRequest, error) {
	var req RebuildRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return ctx, req, fmt.Errorf("%w: %w", ErrInvalidRebuild, err)
	}
	if req.RequestID == "" {
		req.RequestID = msg.UUID
	}
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	return ctx, req, nil
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "manual"
	}
	if len(reason) > maxReasonLength {
		reason = reason[:maxReasonLength]
	}
	return reason
}
