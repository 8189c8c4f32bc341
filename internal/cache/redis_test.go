// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	r, err := NewRedis("redis://" + srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, srv
}

func TestNewRedis_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewRedis("")
	assert.Error(t, err)

	_, err = NewRedis("not a url")
	assert.Error(t, err)
}

func TestRedis_GetSetWithTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, srv := newTestRedis(t)

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "trending:all", []byte("[1,2]"), 15*time.Minute))
	got, err := r.Get(ctx, "trending:all")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(got))
	assert.Equal(t, 15*time.Minute, srv.TTL("trending:all"))

	srv.FastForward(16 * time.Minute)
	_, err = r.Get(ctx, "trending:all")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedis_DeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, srv := newTestRedis(t)

	// More keys than one scan batch.
	for i := 0; i < scanBatch+20; i++ {
		require.NoError(t, r.Set(ctx, fmt.Sprintf("rec:7:%d_all_10", i), []byte("x"), time.Hour))
	}
	require.NoError(t, r.Set(ctx, "rec:70:0_all_10", []byte("x"), time.Hour))

	n, err := r.DeletePrefix(ctx, "rec:7:")
	require.NoError(t, err)
	assert.Equal(t, scanBatch+20, n)
	assert.True(t, srv.Exists("rec:70:0_all_10"))

	require.NoError(t, r.Delete(ctx, "rec:70:0_all_10"))
	assert.False(t, srv.Exists("rec:70:0_all_10"))
}

func TestRedis_ServerDown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, srv := newTestRedis(t)
	srv.Close()

	_, err := r.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestEscapeGlob(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `rec:1:`, escapeGlob("rec:1:"))
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
}
