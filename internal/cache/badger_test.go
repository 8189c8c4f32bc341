// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T, path string) *Badger {
	t.Helper()
	b, err := OpenBadger(path)
	require.NoError(t, err)
	return b
}

func TestBadger_GetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := openTestBadger(t, "")
	t.Cleanup(func() { _ = b.Close() })

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, b.Set(ctx, "similarity:1", []byte(`[{"product_id":2}]`), time.Hour))
	got, err := b.Get(ctx, "similarity:1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":2}]`, string(got))

	require.NoError(t, b.Delete(ctx, "similarity:1"))
	_, err = b.Get(ctx, "similarity:1")
	assert.ErrorIs(t, err, ErrMiss)

	// Absent keys delete cleanly.
	assert.NoError(t, b.Delete(ctx, "similarity:1"))
}

func TestBadger_DeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := openTestBadger(t, "")
	t.Cleanup(func() { _ = b.Close() })

	for _, k := range []string{"rec:3:0_all_10", "rec:3:1_Fashion_5", "rec:30:0_all_10", "similarity:3"} {
		require.NoError(t, b.Set(ctx, k, []byte("x"), time.Hour))
	}

	n, err := b.DeletePrefix(ctx, "rec:3:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = b.Get(ctx, "rec:30:0_all_10")
	assert.NoError(t, err)

	n, err = b.DeletePrefix(ctx, "nothing:")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	b := openTestBadger(t, dir)
	require.NoError(t, b.Set(ctx, "trending:all", []byte("[4,1]"), time.Hour))
	require.NoError(t, b.Close())

	b = openTestBadger(t, dir)
	t.Cleanup(func() { _ = b.Close() })
	got, err := b.Get(ctx, "trending:all")
	require.NoError(t, err)
	assert.Equal(t, "[4,1]", string(got))
}
