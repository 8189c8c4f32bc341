// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestHashing_Deterministic(t *testing.T) {
	t.Parallel()
	h := NewHashing(64)

	a, err := h.Encode(context.Background(), []string{"Wireless Headphones audio"})
	require.NoError(t, err)
	b, err := h.Encode(context.Background(), []string{"wireless headphones, AUDIO!"})
	require.NoError(t, err)

	assert.Equal(t, a, b, "case and punctuation do not change tokens")
	assert.Len(t, a[0], 64)
}

func TestHashing_UnitLength(t *testing.T) {
	t.Parallel()
	vecs, err := NewHashing(0).Encode(context.Background(), []string{"cotton tee casual fashion", ""})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	assert.Len(t, vecs[0], DefaultHashingDimensions)
	assert.InDelta(t, 1.0, math.Sqrt(dot(vecs[0], vecs[0])), 1e-9)
	assert.Zero(t, dot(vecs[1], vecs[1]), "empty text encodes to the zero vector")
}

func TestHashing_SharedTokensAreMoreSimilar(t *testing.T) {
	t.Parallel()
	vecs, err := NewHashing(256).Encode(context.Background(), []string{
		"wireless audio headphones electronics",
		"wireless audio speaker electronics",
		"denim jacket casual fashion",
	})
	require.NoError(t, err)

	assert.Greater(t, dot(vecs[0], vecs[1]), dot(vecs[0], vecs[2]))
	assert.InDelta(t, 0.75, dot(vecs[0], vecs[1]), 0.26)
}

func TestHashing_ContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashing(8).Encode(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"usb", "c", "cable", "2m"}, tokenize("USB-C cable (2m)"))
	assert.Empty(t, tokenize(" ,.; "))
}

func TestNew(t *testing.T) {
	t.Parallel()

	enc, err := New(Config{Provider: ProviderHashing, Dimensions: 32})
	require.NoError(t, err)
	assert.Equal(t, "hashing-32", enc.Model())

	_, err = New(Config{Provider: ProviderOpenAI})
	assert.Error(t, err)

	enc, err = New(Config{Provider: ProviderOpenAI, URL: "http://localhost:1", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "m", enc.Model())

	_, err = New(Config{Provider: "bert"})
	assert.Error(t, err)
}
