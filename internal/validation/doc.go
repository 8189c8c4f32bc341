// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with the application's custom
// tags and translates failures into readable messages and the API error format.
//
// # Custom Tags
//
//   - interaction_type: one of view, click, cart, purchase, rate
//
// # Usage
//
//	type RebuildRequest struct {
//	    Reason string `validate:"max=200"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
//
// Catalog writes in internal/database validate recommend.Product and
// recommend.Interaction through the same validator.
package validation
