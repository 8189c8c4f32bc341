// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"time"
)

// InteractionType classifies a user-product interaction event.
type InteractionType string

const (
	// InteractionView is a product page view.
	InteractionView InteractionType = "view"
	// InteractionClick is a click through from a listing.
	InteractionClick InteractionType = "click"
	// InteractionCart is an add-to-cart event.
	InteractionCart InteractionType = "cart"
	// InteractionPurchase is a completed purchase.
	InteractionPurchase InteractionType = "purchase"
	// InteractionRate is an explicit rating; Value carries the rating.
	InteractionRate InteractionType = "rate"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionClick, InteractionCart, InteractionPurchase, InteractionRate:
		return true
	default:
		return false
	}
}

// String returns the stored name of the interaction type.
func (t InteractionType) String() string {
	return string(t)
}

// Product is a catalog entry as seen by the engine.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required,max=100"`
	Brand       string  `json:"brand"`
	Tags        string  `json:"tags"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url,omitempty"`

	// Rating is the average customer rating, 0 when unrated.
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`

	// StockCount is the units in stock.
	StockCount int `json:"stock_count" validate:"gte=0"`
}

// contentText is the text fed to the encoder for a product.
func (p *Product) contentText() string {
	return p.Name + " " + p.Description + " " + p.Category + " " + p.Brand + " " + p.Tags
}

// Interaction is a single user-product event from the append-only log.
type Interaction struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id" validate:"gt=0"`
	ProductID int             `json:"product_id" validate:"gt=0"`
	Type      InteractionType `json:"interaction_type" validate:"interaction_type"`

	// Value is the interaction strength. Defaults to 1.0 when recorded.
	Value float64 `json:"value"`

	Timestamp time.Time `json:"timestamp"`
}

// ProductActivity aggregates the interactions of one product in a window.
type ProductActivity struct {
	ProductID int       `json:"product_id"`
	Count     int       `json:"count"`
	Latest    time.Time `json:"latest"`
}

// ProductCount is the number of interactions of one product in a window.
type ProductCount struct {
	ProductID int `json:"product_id"`
	Count     int `json:"count"`
}

// Query describes a recommendation request. Zero values mean "not set".
type Query struct {
	// UserID personalizes results through collaborative filtering.
	UserID int `json:"user_id,omitempty"`

	// ProductID seeds content similarity. It is never returned.
	ProductID int `json:"product_id,omitempty"`

	// Category restricts results to an exact category match.
	Category string `json:"category,omitempty"`

	// TopN is the number of products to return.
	// Defaults to Config.Limits.DefaultTopN if zero.
	TopN int `json:"top_n,omitempty"`

	// DiversityFactor is the MMR trade-off in [0, 1]. Zero disables re-ranking.
	DiversityFactor float64 `json:"diversity_factor,omitempty"`
}

// ScoredItem is a candidate product with its combined score.
type ScoredItem struct {
	ProductID int     `json:"product_id"`
	Score     float64 `json:"score"`
}

// SimilarProduct is one entry of a precomputed similarity list.
type SimilarProduct struct {
	ProductID int     `json:"product_id"`
	Score     float64 `json:"score"`
}

// Source tells where a response came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Response is an ordered list of recommended product ids.
type Response struct {
	ProductIDs   []int  `json:"product_ids"`
	Source       Source `json:"source"`
	ModelVersion int    `json:"model_version"`
}

// DataStore is the read side of the catalog and interaction log.
// It is typically implemented by the database package.
type DataStore interface {
	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) ([]Product, error)

	// ListInteractions returns the full interaction log.
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// ListInteractionsSince returns count and latest timestamp per product
	// for interactions at or after since.
	ListInteractionsSince(ctx context.Context, since time.Time) ([]ProductActivity, error)

	// ListInteractionsInRange returns counts per product for interactions in [start, end).
	ListInteractionsInRange(ctx context.Context, start, end time.Time) ([]ProductCount, error)

	// ListProductIDsByRating returns product ids by rating descending, ties by id.
	// An empty category matches all products; limit <= 0 returns all.
	ListProductIDsByRating(ctx context.Context, category string, limit int) ([]int, error)
}

// ProductReader resolves product ids to catalog records.
type ProductReader interface {
	ProductsByID(ctx context.Context, ids []int) ([]Product, error)
}

// TextEncoder turns product text into fixed-width embedding vectors.
type TextEncoder interface {
	// Encode returns one vector per input text, all of the same dimension.
	Encode(ctx context.Context, texts []string) ([][]float64, error)

	// Model identifies the embedding model for logging.
	Model() string
}

// ResultCache stores encoded results by key with a time-to-live.
// Implementations swallow backend failures: Get reports a miss and Set
// reports false.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
}

// RerankOptions carries per-request reranking parameters.
type RerankOptions struct {
	// Lambda weights relevance against novelty, in [0, 1].
	Lambda float64

	// Similarity returns the content similarity of two products, 0 when unknown.
	Similarity func(a, b int) float64
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier (e.g., "mmr").
	Name() string

	// Rerank selects up to k items from the scored candidates in output order.
	Rerank(ctx context.Context, items []ScoredItem, k int, opts RerankOptions) []ScoredItem
}

// TrainingState is the lifecycle state of the engine model.
type TrainingState string

const (
	StateUntrained      TrainingState = "untrained"
	StateTraining       TrainingState = "training"
	StateTrained        TrainingState = "trained"
	StateTrainingFailed TrainingState = "training_failed"
)

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// State is the lifecycle state of the engine.
	State TrainingState `json:"state"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// ProductCount is the number of products in the model.
	ProductCount int `json:"product_count"`

	// InteractionCount is the number of interactions in the training set.
	InteractionCount int `json:"interaction_count"`

	// UserCount is the number of unique users.
	UserCount int `json:"user_count"`

	// CollaborativeEnabled reports whether latent factors were trained.
	CollaborativeEnabled bool `json:"collaborative_enabled"`

	// CollaborativeReason explains why collaborative filtering is disabled.
	CollaborativeReason string `json:"collaborative_reason,omitempty"`

	// Factors is the latent rank used for collaborative filtering.
	Factors int `json:"factors"`

	// ModelVersion is the current model version.
	ModelVersion int `json:"model_version"`
}
