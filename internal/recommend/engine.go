// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// Note: Besides metrics this package has no dependencies on other internal
// packages. Storage, caching and embedding are reached through the DataStore,
// ResultCache and TextEncoder interfaces.

// Request modes used for metrics labels.
const (
	modeRecommend = "recommend"
	modeTrending  = "trending"
	modeSimilar   = "similar"
)

// Engine trains the hybrid model and serves recommendation queries.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Collaborators
	store   DataStore
	encoder TextEncoder
	cache   ResultCache

	rerankers []Reranker
	rrMu      sync.RWMutex

	// Serving model, replaced as a whole on successful training
	current atomic.Pointer[model]
	version atomic.Int32

	// Training state
	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	now func() time.Time
}

// model is an immutable snapshot of everything serving needs.
type model struct {
	products   []Product
	content    *contentModel
	cf         *cfModel
	popularity map[int]float64
	trainedAt  time.Time
	version    int
}

// contentSimilarity is the similarity lookup handed to rerankers.
func (m *model) contentSimilarity(a, b int) float64 {
	s, _ := m.content.similarity(a, b)
	return s
}

// Dependencies are the collaborators of an Engine.
type Dependencies struct {
	Store   DataStore
	Encoder TextEncoder

	// Cache is optional. A nil cache disables result caching.
	Cache ResultCache
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("data store is required")
	}
	if deps.Encoder == nil {
		return nil, fmt.Errorf("text encoder is required")
	}
	if deps.Cache == nil {
		deps.Cache = noCache{}
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		store:   deps.Store,
		encoder: deps.Encoder,
		cache:   deps.Cache,
		status:  TrainingStatus{State: StateUntrained},
		now:     time.Now,
	}, nil
}

// SetClock replaces the time source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// RegisterReranker adds a reranker to the diversity pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// IsTrained reports whether a model is available for serving.
func (e *Engine) IsTrained() bool {
	return e.current.Load() != nil
}

// Recommend returns ranked product ids for a query.
//
// Cached lists are returned as stored. Without a trained model the engine
// tries to train once and otherwise answers from the rating fallback.
// The only error returned is the context's.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, q Query) (*Response, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q = e.normalizeQuery(q)
	logger := e.queryLogger(q)

	key := RecommendationKey(q)
	if ids, ok := e.cachedIDs(ctx, key); ok {
		logger.Debug().Msg("cache hit")
		return e.respond(modeRecommend, start, ids, SourceCache), nil
	}

	m := e.current.Load()
	if m == nil {
		if err := e.Fit(ctx, false); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn().Err(err).Msg("on-demand training failed")
		}
		m = e.current.Load()
	}
	if m == nil {
		ids := e.fallback(ctx, q.Category, q.ProductID, q.TopN, "untrained")
		return e.respond(modeRecommend, start, ids, SourceFallback), nil
	}

	items := e.rank(ctx, m, q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := itemIDs(items)
	e.storeIDs(ctx, key, ids, e.config.Cache.RecommendationsTTL)

	logger.Debug().
		Int("returned", len(ids)).
		Int("model_version", m.version).
		Msg("recommendation complete")

	return e.respond(modeRecommend, start, ids, SourceModel), nil
}

// normalizeQuery applies TopN defaults and clamps the diversity factor.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) normalizeQuery(q Query) Query {
	q.TopN = e.normalizeTopN(q.TopN)
	if q.DiversityFactor < 0 {
		q.DiversityFactor = 0
	}
	if q.DiversityFactor > 1 {
		q.DiversityFactor = 1
	}
	return q
}

func (e *Engine) normalizeTopN(n int) int {
	if n <= 0 {
		return e.config.Limits.DefaultTopN
	}
	if n > e.config.Limits.MaxTopN {
		return e.config.Limits.MaxTopN
	}
	return n
}

// queryLogger creates a logger with query context.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) queryLogger(q Query) zerolog.Logger {
	return e.logger.With().
		Int("user_id", q.UserID).
		Int("product_id", q.ProductID).
		Str("category", q.Category).
		Int("top_n", q.TopN).
		Logger()
}

// rank scores every candidate and selects the top N.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) rank(ctx context.Context, m *model, q Query) []ScoredItem {
	sig := signals{popularity: m.popularity}
	if q.ProductID != 0 {
		sig.content = m.content.scoresFor(q.ProductID)
	}
	if q.UserID != 0 {
		sig.collaborative = m.cf.scoresFor(q.UserID)
	}

	items := combineScores(m.products, sig, e.config.Weights, q.ProductID, q.Category)
	sortByScore(items)

	if q.DiversityFactor > 0 {
		items = e.applyRerankers(ctx, items, q.TopN, RerankOptions{
			Lambda:     q.DiversityFactor,
			Similarity: m.contentSimilarity,
		})
	}

	if len(items) > q.TopN {
		items = items[:q.TopN]
	}
	return items
}

// applyRerankers applies post-processing rerankers to the scored items.
func (e *Engine) applyRerankers(ctx context.Context, items []ScoredItem, k int, opts RerankOptions) []ScoredItem {
	e.rrMu.RLock()
	rerankers := e.rerankers
	e.rrMu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items, k, opts)
	}
	return items
}

// GetTrending returns products ranked by interaction velocity between the
// last TrendingWindow and the one before it. The full ranking is cached per
// category and sliced to topN. Store failures degrade to the rating fallback.
func (e *Engine) GetTrending(ctx context.Context, category string, topN int) (*Response, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topN = e.normalizeTopN(topN)

	key := TrendingKey(category)
	if ids, ok := e.cachedIDs(ctx, key); ok {
		return e.respond(modeTrending, start, truncateIDs(ids, topN), SourceCache), nil
	}

	ids, err := e.computeTrending(ctx, category)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn().Err(err).Str("category", category).Msg("trending unavailable, using fallback")
		ids = e.fallback(ctx, category, 0, topN, "trending_data")
		return e.respond(modeTrending, start, ids, SourceFallback), nil
	}

	e.storeIDs(ctx, key, ids, e.config.Cache.TrendingTTL)
	return e.respond(modeTrending, start, truncateIDs(ids, topN), SourceModel), nil
}

// computeTrending ranks every product with recent activity.
func (e *Engine) computeTrending(ctx context.Context, category string) ([]int, error) {
	now := e.now()
	recentStart := now.Add(-TrendingWindow)
	previousStart := recentStart.Add(-TrendingWindow)

	recent, err := e.store.ListInteractionsInRange(ctx, recentStart, now)
	if err != nil {
		return nil, fmt.Errorf("%w: recent interactions: %w", ErrDataUnavailable, err)
	}
	previous, err := e.store.ListInteractionsInRange(ctx, previousStart, recentStart)
	if err != nil {
		return nil, fmt.Errorf("%w: previous interactions: %w", ErrDataUnavailable, err)
	}

	var allowed map[int]struct{}
	if category != "" {
		ids, err := e.store.ListProductIDsByRating(ctx, category, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: category products: %w", ErrDataUnavailable, err)
		}
		allowed = make(map[int]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
	}

	entries := rankTrending(recent, previous, allowed)
	ids := make([]int, len(entries))
	for i, en := range entries {
		ids[i] = en.ProductID
	}
	return ids, nil
}

// SimilarProducts returns the k products most similar in content to productID.
// Precomputed lists are read from the cache first; on a miss they are taken
// from the serving model.
func (e *Engine) SimilarProducts(ctx context.Context, productID, k int) ([]SimilarProduct, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || k > e.config.Similarity.TopK {
		k = e.config.Similarity.TopK
	}

	if data, ok := e.cache.Get(ctx, SimilarityKey(productID)); ok {
		var cached []SimilarProduct
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.RecordRequest(modeSimilar, string(SourceCache), time.Since(start))
			return truncateSimilar(cached, k), nil
		}
		e.logger.Debug().Int("product_id", productID).Msg("discarding undecodable similarity entry")
	}

	m := e.current.Load()
	if m == nil {
		return nil, ErrModelNotTrained
	}
	if _, ok := m.content.index[productID]; !ok {
		return nil, fmt.Errorf("%w: product %d", ErrUnknownProduct, productID)
	}

	metrics.RecordRequest(modeSimilar, string(SourceModel), time.Since(start))
	return m.content.neighbors(productID, k), nil
}

func (e *Engine) respond(mode string, start time.Time, ids []int, source Source) *Response {
	version := 0
	if m := e.current.Load(); m != nil {
		version = m.version
	}
	metrics.RecordRequest(mode, string(source), time.Since(start))
	return &Response{ProductIDs: ids, Source: source, ModelVersion: version}
}

// cachedIDs reads an id list. Any decodable entry counts as a hit, empty lists included.
func (e *Engine) cachedIDs(ctx context.Context, key string) ([]int, bool) {
	data, ok := e.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		e.logger.Debug().Str("key", key).Err(err).Msg("discarding undecodable cache entry")
		return nil, false
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, true
}

func (e *Engine) storeIDs(ctx context.Context, key string, ids []int, ttl time.Duration) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if !e.cache.Set(ctx, key, data, ttl) {
		e.logger.Debug().Str("key", key).Msg("result not cached")
	}
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	return e.status
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

func truncateIDs(ids []int, n int) []int {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

func truncateSimilar(items []SimilarProduct, n int) []SimilarProduct {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// noCache is the ResultCache used when none is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool)             { return nil, false }
func (noCache) Set(context.Context, string, []byte, time.Duration) bool { return false }
