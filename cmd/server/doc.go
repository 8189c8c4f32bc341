// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Command hybridrec runs the hybrid product recommendation server and its
maintenance commands.

Usage:

	hybridrec [command] [--config path]

Commands:

	serve       run the HTTP API; the model trains on startup, on a schedule
	            and on POST /api/v1/recommendations/rebuild
	seed        replace the catalog and interaction log with demo data
	train       train once and print the training status (--force)
	recommend   rank products (--user --product --category --top-n --diversity)
	similar     print the precomputed similarity list of a product
	trending    print trending products (--category --top-n)

Query commands train an in-process model before answering, since trained
state is not persisted between runs. Output is JSON on stdout; logs go to
stdout in the configured format.

# Configuration

Configuration is layered with koanf (highest priority wins):
  - environment variables (DATABASE_DRIVER, CACHE_BACKEND, REDIS_URL, ...)
  - a YAML file from --config, CONFIG_PATH or ./config.yaml
  - built-in defaults

While serve runs, edits to the config file hot-reload the log level.

# Example

	export DATABASE_DRIVER=sqlite DATABASE_PATH=./shop.db
	hybridrec seed
	hybridrec recommend --user 2 --top-n 5
	hybridrec serve
*/
package main
