// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package logging provides zerolog-based structured logging for the service.
//
// A global logger is configured once from the logging config section and
// components derive child loggers from it:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("recommend")
//	logger.Info().Int("products", n).Msg("model training complete")
//
// Context helpers carry request and correlation ids through handlers and
// rebuild events; Ctx(ctx) returns a logger with those ids attached.
//
// Two adapters route third-party logging into zerolog:
//   - SlogHandler implements slog.Handler for sutureslog
//   - WatermillLogger implements watermill.LoggerAdapter for the event bus
//
// EventLogger holds the log lines for model rebuild events so publisher and
// subscriber report them with the same fields.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
