// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

// Fixtures shared with the recommend_test package.

// NewFixtureEngine returns an untrained engine over the five product fixture.
func NewFixtureEngine() *Engine {
	return newTestEngine(newFixtureStore(), nil, newMapCache())
}
