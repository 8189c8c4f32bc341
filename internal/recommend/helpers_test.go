// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

var errStoreDown = errors.New("store down")

// mockStore implements DataStore and ProductReader over in-memory slices.
type mockStore struct {
	mu           sync.RWMutex
	products     []Product
	interactions []Interaction

	productsErr     error
	interactionsErr error
	windowErr       error
	ratingErr       error

	calls int32
}

func (m *mockStore) ListProducts(ctx context.Context) ([]Product, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *mockStore) ListInteractions(ctx context.Context) ([]Interaction, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.interactionsErr != nil {
		return nil, m.interactionsErr
	}
	out := make([]Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out, nil
}

func (m *mockStore) ListInteractionsSince(ctx context.Context, since time.Time) ([]ProductActivity, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.windowErr != nil {
		return nil, m.windowErr
	}
	byID := make(map[int]*ProductActivity)
	for _, in := range m.interactions {
		if in.Timestamp.Before(since) {
			continue
		}
		a, ok := byID[in.ProductID]
		if !ok {
			a = &ProductActivity{ProductID: in.ProductID}
			byID[in.ProductID] = a
		}
		a.Count++
		if in.Timestamp.After(a.Latest) {
			a.Latest = in.Timestamp
		}
	}
	out := make([]ProductActivity, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockStore) ListInteractionsInRange(ctx context.Context, start, end time.Time) ([]ProductCount, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.windowErr != nil {
		return nil, m.windowErr
	}
	counts := make(map[int]int)
	for _, in := range m.interactions {
		if in.Timestamp.Before(start) || !in.Timestamp.Before(end) {
			continue
		}
		counts[in.ProductID]++
	}
	out := make([]ProductCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, ProductCount{ProductID: id, Count: n})
	}
	return out, nil
}

func (m *mockStore) ListProductIDsByRating(ctx context.Context, category string, limit int) ([]int, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ratingErr != nil {
		return nil, m.ratingErr
	}
	var matched []Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].ID < matched[j].ID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	ids := make([]int, len(matched))
	for i, p := range matched {
		ids[i] = p.ID
	}
	return ids, nil
}

func (m *mockStore) ProductsByID(ctx context.Context, ids []int) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Product
	// Catalog order, not request order
	for _, p := range m.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) callCount() int32 {
	return atomic.LoadInt32(&m.calls)
}

func (m *mockStore) setProductsErr(err error) {
	m.mu.Lock()
	m.productsErr = err
	m.mu.Unlock()
}

// keywordEncoder embeds text as counts over a fixed vocabulary.
type keywordEncoder struct {
	vocab []string
	calls int32
}

func newKeywordEncoder() *keywordEncoder {
	return &keywordEncoder{vocab: []string{
		"audio", "wireless", "wearable", "cotton", "denim", "casual", "electronics", "fashion",
	}}
}

func (k *keywordEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	atomic.AddInt32(&k.calls, 1)
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(k.vocab))
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,;:")
			for j, v := range k.vocab {
				if word == v {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (k *keywordEncoder) Model() string { return "keyword-test" }

// fixedEncoder returns preset vectors in order, or an error.
type fixedEncoder struct {
	vectors [][]float64
	err     error
}

func (f *fixedEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[:len(texts)], nil
}

func (f *fixedEncoder) Model() string { return "fixed-test" }

// blockingEncoder blocks until released, signalling when it has started.
type blockingEncoder struct {
	*keywordEncoder
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingEncoder() *blockingEncoder {
	return &blockingEncoder{
		keywordEncoder: newKeywordEncoder(),
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (b *blockingEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.keywordEncoder.Encode(ctx, texts)
}

// mapCache is a ResultCache without expiry.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int32
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	atomic.AddInt32(&c.sets, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return true
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// fixtureProducts is a five product catalog in two categories.
func fixtureProducts() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Headphones", Description: "Over-ear audio", Category: "Electronics", Brand: "AuraStyle", Tags: "audio, wireless", Rating: 4.5},
		{ID: 2, Name: "Bluetooth Speaker", Description: "Portable audio", Category: "Electronics", Brand: "AuraStyle", Tags: "audio, wireless", Rating: 4.0},
		{ID: 3, Name: "Smart Watch", Description: "Fitness tracking", Category: "Electronics", Brand: "AuraStyle", Tags: "wearable, wireless", Rating: 3.8},
		{ID: 4, Name: "Cotton Tee", Description: "Everyday basic", Category: "Fashion", Brand: "AuraStyle", Tags: "cotton, casual", Rating: 4.8},
		{ID: 5, Name: "Denim Jacket", Description: "Classic cut", Category: "Fashion", Brand: "AuraStyle", Tags: "denim, casual", Rating: 4.2},
	}
}

func daysAgo(d float64) time.Time {
	return testNow.Add(-time.Duration(d * float64(24*time.Hour)))
}

// fixtureInteractions is twelve interactions from two users.
//
// Recent window counts:   p1=2 p2=1 p3=1 p4=3 p5=1
// Previous window counts: p2=1 p3=1 p5=1
func fixtureInteractions() []Interaction {
	return []Interaction{
		{ID: 1, UserID: 1, ProductID: 1, Type: InteractionPurchase, Value: 1, Timestamp: daysAgo(1)},
		{ID: 2, UserID: 1, ProductID: 1, Type: InteractionView, Value: 1, Timestamp: daysAgo(2)},
		{ID: 3, UserID: 1, ProductID: 2, Type: InteractionView, Value: 1, Timestamp: daysAgo(1)},
		{ID: 4, UserID: 1, ProductID: 3, Type: InteractionView, Value: 1, Timestamp: daysAgo(10)},
		{ID: 5, UserID: 1, ProductID: 4, Type: InteractionClick, Value: 1, Timestamp: daysAgo(3)},
		{ID: 6, UserID: 2, ProductID: 4, Type: InteractionCart, Value: 1, Timestamp: daysAgo(1)},
		{ID: 7, UserID: 2, ProductID: 4, Type: InteractionView, Value: 1, Timestamp: daysAgo(2)},
		{ID: 8, UserID: 2, ProductID: 5, Type: InteractionView, Value: 1, Timestamp: daysAgo(1)},
		{ID: 9, UserID: 2, ProductID: 5, Type: InteractionView, Value: 1, Timestamp: daysAgo(9)},
		{ID: 10, UserID: 2, ProductID: 2, Type: InteractionView, Value: 1, Timestamp: daysAgo(12)},
		{ID: 11, UserID: 2, ProductID: 1, Type: InteractionView, Value: 1, Timestamp: daysAgo(20)},
		{ID: 12, UserID: 2, ProductID: 3, Type: InteractionClick, Value: 1, Timestamp: daysAgo(3)},
	}
}

func newFixtureStore() *mockStore {
	return &mockStore{products: fixtureProducts(), interactions: fixtureInteractions()}
}

// newTestEngine builds an engine over the fixture data with a fixed clock.
func newTestEngine(store *mockStore, enc TextEncoder, cache ResultCache) *Engine {
	if enc == nil {
		enc = newKeywordEncoder()
	}
	e, err := NewEngine(DefaultConfig(), Dependencies{Store: store, Encoder: enc, Cache: cache}, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	e.SetClock(func() time.Time { return testNow })
	return e
}
