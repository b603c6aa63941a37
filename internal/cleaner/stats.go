// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"sort"
	"sync"

	"github.com/autobrr/sweeparr/internal/types"
)

// StatsRegistry publishes per-backend cycle statistics from the cleaning
// loop to the status API. Writes come from one goroutine, reads from HTTP
// handlers, hence the lock.
type StatsRegistry struct {
	mu    sync.RWMutex
	stats map[string]types.CycleStats
}

func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{
		stats: make(map[string]types.CycleStats),
	}
}

// Publish records the latest cycle stats for a backend
func (r *StatsRegistry) Publish(s types.CycleStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[s.Backend] = s
}

// Snapshot returns the last published stats for all backends, sorted by
// backend name
func (r *StatsRegistry) Snapshot() []types.CycleStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.CycleStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Backend < out[j].Backend
	})
	return out
}
