// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package recommend implements a hybrid product recommendation engine.
//
// # Architecture
//
// Every candidate product receives a linear combination of three signals:
//
//   - Content: cosine similarity of text embeddings to a seed product
//   - Collaborative: truncated SVD of the mean-centered user-product matrix
//   - Popularity: 30-day interaction volume decayed by recency
//
// The weights default to 0.35, 0.40 and 0.15 and are not normalized.
// An optional diversity reranker (see the reranking subpackage) reorders
// the scored list with Maximal Marginal Relevance.
//
// Trending is computed independently: the interaction count of the last
// seven days is compared with the seven days before, and products are
// ranked by (recent - previous) / (previous + 1).
//
// # Lifecycle
//
// Fit rebuilds the whole model from a fresh snapshot of the DataStore. The
// new model replaces the serving one atomically, and only after every stage
// succeeded; a failed run leaves the previous model serving. Fit without
// force is a no-op while the model is younger than the rebuild interval.
// After training the top-K neighbors of every product are written to the
// ResultCache under similarity:{id}.
//
// # Degradation
//
// Serving never fails because of data or cache problems. Cache errors are
// misses, missing signals score 0, and when no model can be trained the
// engine answers from the highest-rated products.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Store:   db,
//	    Encoder: encoder,
//	    Cache:   resultCache,
//	}, logger)
//	engine.RegisterReranker(reranking.NewMMR())
//
//	resp, err := engine.Recommend(ctx, recommend.Query{
//	    UserID:          userID,
//	    TopN:            10,
//	    DiversityFactor: 0.3,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Serving reads an immutable model
// through an atomic pointer and never blocks on training.
package recommend
