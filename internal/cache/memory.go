// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a single cached value.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Stats holds memory backend statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// Memory is an in-process backend with TTL expiry.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	stats      Stats
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

// NewMemory creates a memory backend holding at most maxEntries values.
// A non-positive maxEntries disables the cap.
func NewMemory(maxEntries int) *Memory {
	m := &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *Memory) Name() string { return BackendMemory }

// Get retrieves a value from the cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	now := m.now()
	m.mu.RUnlock()

	if !ok || now.After(entry.expiresAt) {
		m.mu.Lock()
		m.stats.Misses++
		m.mu.Unlock()
		return nil, ErrMiss
	}

	m.mu.Lock()
	m.stats.Hits++
	m.mu.Unlock()

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value with the given TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}

	m.entries[key] = memoryEntry{value: stored, expiresAt: m.now().Add(ttl)}
	return nil
}

// evictLocked drops expired entries, or the entry closest to expiry when none have expired.
func (m *Memory) evictLocked() {
	now := m.now()
	var (
		oldestKey string
		oldestAt  time.Time
		removed   bool
	)
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			m.stats.Evictions++
			removed = true
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}
	if !removed && oldestKey != "" {
		delete(m.entries, oldestKey)
		m.stats.Evictions++
	}
}

// Delete removes a single key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// DeletePrefix removes all keys starting with prefix.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Stats returns a snapshot of cache statistics.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.stats
	s.Entries = len(m.entries)
	return s
}

// HitRate returns the hit ratio as a percentage.
func (m *Memory) HitRate() float64 {
	s := m.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// cleanupLoop periodically removes expired entries.
func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			m.stats.Evictions++
		}
	}
}
