// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/events"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Recommender serves the storefront recommendation surfaces.
type Recommender interface {
	Personalized(ctx context.Context, userID int) ([]recommend.Product, error)
	Similar(ctx context.Context, productID int) ([]recommend.Product, error)
	Trending(ctx context.Context, category string) ([]recommend.Product, error)
}

// StatusProvider reports the engine's training status.
type StatusProvider interface {
	Status() recommend.TrainingStatus
}

// Store is the part of the database the API writes to and probes.
type Store interface {
	Ping(ctx context.Context) error
	InsertInteraction(ctx context.Context, in *recommend.Interaction) (int, error)
}

// Cache is the result cache as seen by the API.
type Cache interface {
	cache.Invalidator
	State() gobreaker.State
}

// Dependencies are the collaborators of a Handler. Cache may be nil.
type Dependencies struct {
	Recommender    Recommender
	Engine         StatusProvider
	Store          Store
	Cache          Cache
	Publisher      message.Publisher
	RebuildTopic   string
	RequestTimeout time.Duration
}

// Handler implements the API endpoints.
type Handler struct {
	deps      Dependencies
	startTime time.Time
}

// NewHandler creates a Handler. A zero RequestTimeout means 30s.
func NewHandler(deps Dependencies) *Handler {
	if deps.RebuildTopic == "" {
		deps.RebuildTopic = events.DefaultRebuildTopic
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 30 * time.Second
	}
	return &Handler{deps: deps, startTime: time.Now()}
}

// HealthStatus is the body of /healthz.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Uptime float64           `json:"uptime_seconds"`
}

// Healthz reports database, cache and model health. It answers 503 only
// when the database is unreachable; an untrained model still serves the
// popularity fallback.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]string, 3),
		Uptime: time.Since(h.startTime).Seconds(),
	}
	code := http.StatusOK

	if err := h.deps.Store.Ping(ctx); err != nil {
		health.Checks["database"] = "unhealthy"
		health.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		logging.Ctx(r.Context()).Warn().Err(err).Msg("database health check failed")
	} else {
		health.Checks["database"] = "healthy"
	}

	switch {
	case h.deps.Cache == nil:
		health.Checks["cache"] = "disabled"
	case h.deps.Cache.State() == gobreaker.StateOpen:
		health.Checks["cache"] = "circuit_open"
		if health.Status == "healthy" {
			health.Status = "degraded"
		}
	default:
		health.Checks["cache"] = "healthy"
	}

	health.Checks["model"] = string(h.deps.Engine.Status().State)

	respondJSON(w, r, code, &APIResponse{Status: health.Status, Data: health})
}

// Status returns the engine's training status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.deps.Engine.Status(), time.Now())
}

type rebuildBody struct {
	Reason string `json:"reason" validate:"max=200"`
}

// Rebuild queues a forced model rebuild and answers 202 with the request.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	var body rebuildBody
	if err := decodeOptionalJSON(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON", err)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	req, err := events.PublishRebuild(r.Context(), h.deps.Publisher, h.deps.RebuildTopic, body.Reason)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "REBUILD_UNAVAILABLE", "Could not queue rebuild", err)
		return
	}
	respondSuccess(w, r, http.StatusAccepted, req, time.Now())
}

type personalizedQuery struct {
	UserID int `validate:"gt=0"`
}

// Personalized handles GET /recommendations/personalized?user_id=.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := parseIntParam(r.URL.Query().Get("user_id"), 0)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "user_id must be an integer", nil)
		return
	}
	if apiErr := validateRequest(&personalizedQuery{UserID: userID}); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	products, err := h.deps.Recommender.Personalized(ctx, userID)
	h.respondProducts(w, r, products, err, start)
}

// Similar handles GET /recommendations/similar/{id}.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := parseIntParam(chi.URLParam(r, "id"), 0)
	if !ok || productID <= 0 {
		respondError(w, r, http.StatusBadRequest, "INVALID_PRODUCT_ID", "Product id must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	products, err := h.deps.Recommender.Similar(ctx, productID)
	h.respondProducts(w, r, products, err, start)
}

// Trending handles GET /recommendations/trending?category=.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	products, err := h.deps.Recommender.Trending(ctx, category)
	h.respondProducts(w, r, products, err, start)
}

func (h *Handler) respondProducts(w http.ResponseWriter, r *http.Request, products []recommend.Product, err error, start time.Time) {
	if err != nil {
		status, code := classifyError(err)
		respondError(w, r, status, code, "Failed to generate recommendations", err)
		return
	}
	if products == nil {
		products = []recommend.Product{}
	}
	count := len(products)
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   products,
		Metadata: Metadata{
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       &count,
		},
	})
}

type interactionBody struct {
	UserID int                       `json:"user_id"`
	Type   recommend.InteractionType `json:"interaction_type"`
	Value  *float64                  `json:"value"`
}

// RecordInteraction handles POST /products/{id}/interactions. The user's
// cached recommendation lists are dropped so the next request reranks.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIntParam(chi.URLParam(r, "id"), 0)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_PRODUCT_ID", "Product id must be an integer", nil)
		return
	}

	var body interactionBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON", err)
		return
	}

	in := recommend.Interaction{
		UserID:    body.UserID,
		ProductID: productID,
		Type:      body.Type,
		Value:     1.0,
		Timestamp: time.Now().UTC(),
	}
	if body.Value != nil {
		in.Value = *body.Value
	}
	if apiErr := validateRequest(&in); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	id, err := h.deps.Store.InsertInteraction(ctx, &in)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INSERT_FAILED", "Failed to record interaction", err)
		return
	}
	if h.deps.Cache != nil {
		cache.InvalidateUser(ctx, h.deps.Cache, in.UserID)
	}

	in.ID = id
	respondSuccess(w, r, http.StatusCreated, in, time.Now())
}

// classifyError maps engine errors to an HTTP status and error code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrUnknownProduct):
		return http.StatusNotFound, "UNKNOWN_PRODUCT"
	case errors.Is(err, recommend.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "DATA_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "RECOMMENDATION_ERROR"
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeOptionalJSON is decodeJSON that accepts an empty body.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := decodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
