// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/types"
)

// remediate removes and blocklists one queue item and, for categories that
// warrant it, requests a re-search of the parent series or movie. On delete
// failure tracking state is left untouched so the condition re-evaluates
// next cycle; there is no same-cycle retry.
func (e *Engine) remediate(ctx context.Context, src QueueSource, snap Snapshot, category Category, action RemediationAction, strikes int) error {
	if !action.DeleteAndBlocklist {
		return nil
	}

	opts := types.QueueDeleteOptions{
		RemoveFromClient: true,
		Blocklist:        true,
	}
	if err := src.DeleteQueueItem(ctx, snap.ID, opts); err != nil {
		log.Error().
			Err(err).
			Str("backend", src.Name()).
			Int64("itemId", snap.ID).
			Str("title", snap.Title).
			Str("category", category.String()).
			Msg("Failed to remove queue item, will re-evaluate next cycle")
		return err
	}

	// Both ladders are cleared regardless of which one fired.
	e.tracker.Purge(snap.ID)

	searched := false
	if action.TriggerResearch {
		if snap.ParentID == 0 {
			log.Warn().
				Str("backend", src.Name()).
				Int64("itemId", snap.ID).
				Str("title", snap.Title).
				Msg("No parent id on queue item, skipping re-search")
		} else if err := src.TriggerSearch(ctx, snap.ParentID); err != nil {
			log.Error().
				Err(err).
				Str("backend", src.Name()).
				Int64("parentId", snap.ParentID).
				Msg("Failed to trigger re-search")
		} else {
			searched = true
		}
	}

	log.Info().
		Str("backend", src.Name()).
		Int64("itemId", snap.ID).
		Str("title", snap.Title).
		Str("category", category.String()).
		Int("strikes", strikes).
		Bool("searched", searched).
		Msg("Removed and blocklisted queue item")

	if e.history != nil {
		rec := types.RemediationRecord{
			Backend:   src.Name(),
			ItemID:    snap.ID,
			Title:     snap.Title,
			Category:  category.String(),
			Strikes:   strikes,
			Searched:  searched,
			CreatedAt: time.Now(),
		}
		if err := e.history.Record(ctx, rec); err != nil {
			log.Warn().Err(err).Int64("itemId", snap.ID).Msg("Failed to record remediation history")
		}
	}

	return nil
}
