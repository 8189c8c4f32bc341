// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services provides suture.Service wrappers for the long-running parts
of the recommendation server.

  - RecommendService keeps the model fresh: it trains on startup, asks the
    engine to retrain on a ticker, and runs forced rebuilds for requests
    arriving on the event bus.
  - HTTPServerService runs the ops API with graceful shutdown.

Each Serve returns ctx.Err() on shutdown and a wrapped error on failure, so
the supervisor restarts failed services with backoff.
*/
package services
