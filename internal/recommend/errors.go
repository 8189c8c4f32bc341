// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the catalog or interaction log could not be read,
	// or the catalog is empty.
	ErrDataUnavailable = errors.New("recommendation data unavailable")

	// ErrInsufficientInteractions means collaborative filtering was skipped
	// for a training cycle. It never fails training.
	ErrInsufficientInteractions = errors.New("insufficient interactions for collaborative filtering")

	// ErrTrainingInProgress is returned when Fit is called while another run is active.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrModelNotTrained is returned by model-only lookups before the first successful Fit.
	ErrModelNotTrained = errors.New("model not trained")

	// ErrUnknownProduct is returned for lookups of products outside the model.
	ErrUnknownProduct = errors.New("unknown product")
)

// Training stages reported by RecommendationError.
const (
	StageLoad          = "load"
	StageContent       = "content"
	StageCollaborative = "collaborative"
	StagePopularity    = "popularity"
)

// RecommendationError is a training failure at a specific stage.
type RecommendationError struct {
	Stage string
	Err   error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("training failed at %s: %v", e.Stage, e.Err)
}

func (e *RecommendationError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &RecommendationError{Stage: stage, Err: err}
}
