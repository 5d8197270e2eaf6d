// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analytics implements the in-memory record/report engines behind the
// ShieldOps REST surface.
//
// Every engine follows the same contract:
//
//	record → filter/list → rank/aggregate → Report() → Clear()/Stats()
//
// Records live in a bounded append-only log (keep last N). Insertion order is
// the only ordering guarantee, and all state is process-local: a restart
// starts every engine empty. Lookups for absent records return (zero, false)
// rather than an error.
//
// # Thread Safety
//
// All engines are safe for concurrent use. The shared Log guards its slice
// with a sync.RWMutex, so concurrent handlers can record and report without
// external locking.
package analytics

import (
	"sync"
	"time"
)

// DefaultMaxRecords is the eviction bound used when a caller passes a
// non-positive max to an engine constructor.
const DefaultMaxRecords = 1000

// Log is a bounded append-only record list shared by every engine.
//
// Appending never fails. When the list would exceed its bound, the oldest
// records are dropped so that only the last max records remain.
type Log[T any] struct {
	mu    sync.RWMutex
	max   int
	items []T
}

// NewLog creates a bounded log keeping at most max records.
// Non-positive max falls back to DefaultMaxRecords.
func NewLog[T any](max int) *Log[T] {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &Log[T]{max: max}
}

// Append stores a record, evicting the oldest entries beyond the bound.
func (l *Log[T]) Append(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, v)
	if len(l.items) > l.max {
		// Copy instead of re-slicing so evicted records are released.
		kept := make([]T, l.max)
		copy(kept, l.items[len(l.items)-l.max:])
		l.items = kept
	}
}

// Snapshot returns a copy of the current records in insertion order.
func (l *Log[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Filter returns the records for which keep returns true, in insertion order.
func (l *Log[T]) Filter(keep func(T) bool) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []T
	for _, v := range l.items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Find returns the first record for which match returns true.
func (l *Log[T]) Find(match func(T) bool) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, v := range l.items {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored records.
func (l *Log[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Max returns the eviction bound.
func (l *Log[T]) Max() int {
	return l.max
}

// Clear drops all records. It always succeeds.
func (l *Log[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Stats is the uniform counters block every engine exposes.
type Stats struct {
	TotalRecords int `json:"total_records"`
	MaxRecords   int `json:"max_records"`
}

// statsOf builds Stats for a log.
func statsOf[T any](l *Log[T]) Stats {
	return Stats{TotalRecords: l.Len(), MaxRecords: l.Max()}
}

// reportClock is swapped in tests to pin Report timestamps.
var reportClock = time.Now
