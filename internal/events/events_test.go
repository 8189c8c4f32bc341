// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/hybridrec/internal/logging"
)

func TestPublishRebuildRoundTrip(t *testing.T) {
	pubsub := NewPubSub(zerolog.Nop())
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubsub.Subscribe(ctx, DefaultRebuildTopic)
	require.NoError(t, err)

	reqCtx := logging.ContextWithRequestID(ctx, "http-req-1")
	sent, err := PublishRebuild(reqCtx, pubsub, DefaultRebuildTopic, "  catalog import ")
	require.NoError(t, err)
	assert.Len(t, sent.RequestID, 36)
	assert.Equal(t, "catalog import", sent.Reason)
	assert.WithinDuration(t, time.Now(), sent.RequestedAt, time.Minute)

	select {
	case msg := <-messages:
		msg.Ack()
		gotCtx, got, err := DecodeRebuild(context.Background(), msg)
		require.NoError(t, err)
		assert.Equal(t, sent.RequestID, got.RequestID)
		assert.Equal(t, sent.RequestID, msg.UUID)
		assert.Equal(t, "catalog import", got.Reason)
		assert.True(t, sent.RequestedAt.Equal(got.RequestedAt))
		assert.Equal(t, "http-req-1", logging.CorrelationIDFromContext(gotCtx))
	case <-ctx.Done():
		t.Fatal("rebuild request not delivered")
	}
}

func TestPublishRebuildWithoutSubscribers(t *testing.T) {
	pubsub := NewPubSub(zerolog.Nop())
	defer pubsub.Close()

	_, err := PublishRebuild(context.Background(), pubsub, DefaultRebuildTopic, "")
	assert.NoError(t, err)
}

type failingPublisher struct{}

func (failingPublisher) Publish(topic string, messages ...*message.Message) error {
	return errors.New("bus closed")
}

func (failingPublisher) Close() error { return nil }

func TestPublishRebuildError(t *testing.T) {
	_, err := PublishRebuild(context.Background(), failingPublisher{}, DefaultRebuildTopic, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus closed")
}

func TestDecodeRebuildInvalid(t *testing.T) {
	msg := message.NewMessage("m-1", []byte("not json"))
	_, _, err := DecodeRebuild(context.Background(), msg)
	assert.ErrorIs(t, err, ErrInvalidRebuild)
}

func TestDecodeRebuildFallsBackToMessageUUID(t *testing.T) {
	msg := message.NewMessage("m-2", []byte(`{"reason":"cron"}`))
	ctx, req, err := DecodeRebuild(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "m-2", req.RequestID)
	assert.Empty(t, logging.CorrelationIDFromContext(ctx))
}

func TestNormalizeReason(t *testing.T) {
	assert.Equal(t, "manual", normalizeReason("   "))
	assert.Equal(t, "nightly", normalizeReason("nightly"))
	assert.Len(t, normalizeReason(strings.Repeat("x", 500)), maxReasonLength)
}
