// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"errors"
	"io"
)

var (
	// ErrUnsupportedDriver is returned by New for drivers other than duckdb and sqlite.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrInvalidRecord is returned when a product or interaction fails validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
