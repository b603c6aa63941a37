// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/types"
)

// QueueSource is the backend surface the engine consumes. Implemented by
// the Sonarr and Radarr clients and by fakes in tests.
type QueueSource interface {
	Name() string
	GetQueue(ctx context.Context, pageSize int) (types.QueueResponse, error)
	DeleteQueueItem(ctx context.Context, itemID int64, options types.QueueDeleteOptions) error
	TriggerSearch(ctx context.Context, parentID int64) error
	ParentID(rec types.QueueRecord) int64
}

// History records remediations for later inspection. Recording is best
// effort and never fails a remediation.
type History interface {
	Record(ctx context.Context, rec types.RemediationRecord) error
}

// Engine drives one cleaning pass over a backend queue: fetch, normalize,
// classify, escalate, remediate, in queue order.
type Engine struct {
	tracker    *EscalationTracker
	classifier Classifier
	history    History        // may be nil
	stats      *StatsRegistry // may be nil
}

// NewEngine creates an engine around the given tracker and thresholds.
// history and stats may be nil.
func NewEngine(tracker *EscalationTracker, noProgressThresholdBytes int64, history History, stats *StatsRegistry) *Engine {
	return &Engine{
		tracker: tracker,
		classifier: Classifier{
			Progress:                 tracker,
			NoProgressThresholdBytes: noProgressThresholdBytes,
		},
		history: history,
		stats:   stats,
	}
}

// RunCycle executes one cleaning pass over the backend. A fetch failure
// aborts the pass with tracking state untouched; the next interval retries.
func (e *Engine) RunCycle(ctx context.Context, src QueueSource) error {
	stats := types.CycleStats{
		Backend: src.Name(),
		LastRun: time.Now(),
	}
	defer func() {
		stats.StallTracked, stats.NoProgress = e.tracker.Counts()
		if e.stats != nil {
			e.stats.Publish(stats)
		}
	}()

	// A minimal page is enough to learn the queue size.
	head, err := src.GetQueue(ctx, 1)
	if err != nil {
		stats.LastError = err.Error()
		log.Error().Err(err).Str("backend", src.Name()).Msg("Failed to fetch queue size")
		return err
	}

	stats.QueueSize = head.TotalRecords
	if head.TotalRecords == 0 {
		log.Debug().Str("backend", src.Name()).Msg("Queue is empty, nothing to do")
		return nil
	}

	page, err := src.GetQueue(ctx, head.TotalRecords)
	if err != nil {
		stats.LastError = err.Error()
		log.Error().Err(err).Str("backend", src.Name()).Msg("Failed to fetch queue page")
		return err
	}

	seen := make(map[int64]bool, len(page.Records))
	for _, rec := range page.Records {
		snap, err := Normalize(rec, src.ParentID(rec))
		if err != nil {
			stats.ItemsSkipped++
			log.Warn().Err(err).Str("backend", src.Name()).Msg("Skipping malformed queue item")
			continue
		}
		seen[snap.ID] = true

		category := e.classifier.Classify(snap)
		action, strikes, fire := e.tracker.Advance(snap, category)

		if !fire {
			if strikes > 0 {
				log.Info().
					Str("backend", src.Name()).
					Int64("itemId", snap.ID).
					Str("title", snap.Title).
					Str("category", category.String()).
					Int("strikes", strikes).
					Msg("Item tracked, not yet actionable")
			}
			continue
		}

		if err := e.remediate(ctx, src, snap, category, action, strikes); err == nil {
			stats.ItemsRemoved++
		}
	}

	// Items that vanished from the queue age out of tracking here instead of
	// lingering until their ids are reused.
	e.tracker.PurgeAbsent(seen)

	return nil
}
