// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package embed turns product text into fixed-length vectors for content similarity.
//
// Two encoders are provided. Hashing is a local feature-hashing encoder with no
// external dependencies at runtime; it is deterministic and suited to tests and
// offline deployments. OpenAI calls any OpenAI-compatible /v1/embeddings
// endpoint (OpenAI, Ollama, vLLM, llama.cpp server) with client-side rate
// limiting and a circuit breaker.
//
// Both implement recommend.TextEncoder.
package embed
