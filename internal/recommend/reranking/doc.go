// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package reranking implements post-processing algorithms for recommendation diversity.
//
// Rerankers run after the hybrid combiner has scored every candidate:
//
//	Combiner -> Score Ranking -> Rerankers -> Final Ranking
//	(relevance)                  (diversity)
//
// # Maximal Marginal Relevance (MMR)
//
// MMR greedily selects items that are relevant and dissimilar to the items
// already selected. The trade-off lambda comes from the query's diversity
// factor and item similarity from the engine's content similarity matrix.
//
// # Usage
//
//	engine.RegisterReranker(reranking.NewMMR())
package reranking
