// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// trainingStats summarizes a training snapshot for status reporting.
type trainingStats struct {
	interactions int
	users        int
	cfReason     string
}

// Fit rebuilds the model from a fresh data snapshot.
//
// Unless force is set, Fit is a no-op while the serving model is younger than
// Training.RebuildInterval. Only one run may be active; concurrent calls return
// ErrTrainingInProgress. On failure the previous model keeps serving and the
// returned error is a *RecommendationError.
func (e *Engine) Fit(ctx context.Context, force bool) error {
	if !force && e.isFresh() {
		metrics.RecordTraining("skipped", 0)
		return nil
	}

	if !e.trainMu.TryLock() {
		metrics.RecordTraining("busy", 0)
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	// Another run may have finished while we waited for the lock.
	if !force && e.isFresh() {
		return nil
	}

	start := time.Now()
	e.setTrainingState(StateTraining)
	e.logger.Info().Bool("force", force).Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	m, stats, err := e.train(trainCtx)
	duration := time.Since(start)
	if err != nil {
		e.failTraining(err, duration)
		return err
	}

	e.current.Store(m)
	e.completeTraining(m, stats, duration)
	e.precomputeSimilarities(trainCtx, m)

	return nil
}

// isFresh reports whether the serving model is within the rebuild interval.
func (e *Engine) isFresh() bool {
	m := e.current.Load()
	return m != nil && e.now().Sub(m.trainedAt) < e.config.Training.RebuildInterval
}

// train builds a complete model without touching the serving one.
func (e *Engine) train(ctx context.Context) (*model, trainingStats, error) {
	var stats trainingStats
	now := e.now()

	products, interactions, err := e.loadSnapshot(ctx)
	if err != nil {
		return nil, stats, stageError(StageLoad, err)
	}
	stats.interactions = len(interactions)

	content, err := buildContentModel(ctx, e.encoder, products, e.config.Training.EncodeBatchSize)
	if err != nil {
		return nil, stats, stageError(StageContent, err)
	}

	cf, err := trainCollaborative(interactions, e.config.Training.MinInteractionsForCollaborative, e.config.Training.MaxFactors)
	switch {
	case errors.Is(err, ErrInsufficientInteractions):
		stats.cfReason = err.Error()
		e.logger.Warn().Err(err).Msg("collaborative filtering disabled for this cycle")
	case err != nil:
		return nil, stats, stageError(StageCollaborative, err)
	default:
		stats.users = len(cf.users)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, stageError(StageCollaborative, err)
	}

	activity, err := e.store.ListInteractionsSince(ctx, now.Add(-PopularityWindow))
	if err != nil {
		return nil, stats, stageError(StagePopularity,
			fmt.Errorf("%w: popularity window: %w", ErrDataUnavailable, err))
	}

	if stats.users == 0 {
		stats.users = countUsers(interactions)
	}

	return &model{
		products:   products,
		content:    content,
		cf:         cf,
		popularity: computePopularity(activity, now),
		trainedAt:  now,
		version:    int(e.version.Add(1)),
	}, stats, nil
}

// loadSnapshot reads the catalog and interaction log.
// An empty catalog is an error; an empty log is not.
func (e *Engine) loadSnapshot(ctx context.Context) ([]Product, []Interaction, error) {
	products, err := e.store.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list products: %w", ErrDataUnavailable, err)
	}
	if len(products) == 0 {
		return nil, nil, fmt.Errorf("%w: catalog is empty", ErrDataUnavailable)
	}

	interactions, err := e.store.ListInteractions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list interactions: %w", ErrDataUnavailable, err)
	}

	e.logger.Info().
		Int("products", len(products)).
		Int("interactions", len(interactions)).
		Msg("loaded training data")

	return products, interactions, nil
}

// precomputeSimilarities stores each product's nearest neighbors in the cache.
// Cache rejections are counted but do not affect the model.
func (e *Engine) precomputeSimilarities(ctx context.Context, m *model) {
	stored := 0
	for _, id := range m.content.ids {
		if ctx.Err() != nil {
			break
		}
		data, err := json.Marshal(m.content.neighbors(id, e.config.Similarity.TopK))
		if err != nil {
			continue
		}
		if e.cache.Set(ctx, SimilarityKey(id), data, e.config.Cache.SimilarityTTL) {
			stored++
		}
	}

	e.logger.Debug().
		Int("products", len(m.content.ids)).
		Int("stored", stored).
		Msg("precomputed similarity lists")
}

func (e *Engine) setTrainingState(state TrainingState) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.State = state
}

// failTraining records a failed run. The serving model is left in place.
func (e *Engine) failTraining(err error, duration time.Duration) {
	metrics.RecordTraining("failure", duration)
	serving := e.current.Load() != nil

	e.statusMu.Lock()
	// A previous model keeps serving, so the engine stays trained.
	e.status.State = StateTrainingFailed
	if serving {
		e.status.State = StateTrained
	}
	e.status.LastError = err.Error()
	e.status.LastTrainingDurationMS = duration.Milliseconds()
	e.statusMu.Unlock()

	e.logger.Error().
		Err(err).
		Bool("serving_previous_model", serving).
		Msg("model training failed")
}

// completeTraining finalizes the training status.
func (e *Engine) completeTraining(m *model, stats trainingStats, duration time.Duration) {
	metrics.RecordTraining("success", duration)
	metrics.SetModelStats(m.version, len(m.products), m.cf != nil)

	factors := 0
	if m.cf != nil {
		factors = m.cf.factors
	}

	e.statusMu.Lock()
	e.status = TrainingStatus{
		State:                  StateTrained,
		LastTrainedAt:          m.trainedAt,
		LastTrainingDurationMS: duration.Milliseconds(),
		ProductCount:           len(m.products),
		InteractionCount:       stats.interactions,
		UserCount:              stats.users,
		CollaborativeEnabled:   m.cf != nil,
		CollaborativeReason:    stats.cfReason,
		Factors:                factors,
		ModelVersion:           m.version,
	}
	e.statusMu.Unlock()

	e.logger.Info().
		Int("version", m.version).
		Int("products", len(m.products)).
		Bool("collaborative", m.cf != nil).
		Int("factors", factors).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model training complete")
}

func countUsers(interactions []Interaction) int {
	users := make(map[int]struct{})
	for i := range interactions {
		users[interactions[i].UserID] = struct{}{}
	}
	return len(users)
}
