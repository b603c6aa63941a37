// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

// stallState accumulates evidence that a download has no connections
type stallState struct {
	strikes int
}

// progressState tracks the remaining bytes of an active torrent transfer
// across polls
type progressState struct {
	lastSizeLeft int64
	strikes      int
}

// EscalationTracker owns the per-item strike state carried across polling
// cycles. It is mutated by exactly one goroutine, the cleaning loop, so no
// locking is needed. State is in-memory only; a restart forgets all strikes.
type EscalationTracker struct {
	strikeLimit     int
	noProgressLimit int

	stalls   map[int64]*stallState
	progress map[int64]*progressState
}

// NewEscalationTracker creates a tracker with the given strike thresholds
func NewEscalationTracker(strikeLimit, noProgressLimit int) *EscalationTracker {
	return &EscalationTracker{
		strikeLimit:     strikeLimit,
		noProgressLimit: noProgressLimit,
		stalls:          make(map[int64]*stallState),
		progress:        make(map[int64]*progressState),
	}
}

// LastSizeLeft returns the remaining bytes recorded at the previous
// observation of the item, implementing ProgressView for the classifier
func (t *EscalationTracker) LastSizeLeft(itemID int64) (int64, bool) {
	ps, ok := t.progress[itemID]
	if !ok {
		return 0, false
	}
	return ps.lastSizeLeft, true
}

// Advance feeds one classified observation through both escalation ladders.
// It returns the remediation to perform, the strike count that produced it,
// and whether remediation should fire this cycle.
func (t *EscalationTracker) Advance(s Snapshot, cat Category) (RemediationAction, int, bool) {
	switch cat {
	case ConnectionStalled:
		// A stalled item is no longer transferring, so its progress entry
		// is dropped without remediation.
		delete(t.progress, s.ID)

		st, ok := t.stalls[s.ID]
		if !ok {
			st = &stallState{}
			t.stalls[s.ID] = st
		}
		st.strikes++
		if st.strikes >= t.strikeLimit {
			// The entry is purged by the remediator on success; a failed
			// delete leaves it in place so the item re-triggers next cycle.
			return RemediationAction{DeleteAndBlocklist: true}, st.strikes, true
		}
		return RemediationAction{}, st.strikes, false

	case NonProgressing:
		delete(t.stalls, s.ID)

		ps, ok := t.progress[s.ID]
		if !ok {
			// Unreachable through the classifier, which only reports
			// NonProgressing when a baseline exists.
			ps = &progressState{lastSizeLeft: *s.SizeLeft}
			t.progress[s.ID] = ps
		}
		ps.strikes++
		if ps.strikes >= t.noProgressLimit {
			return RemediationAction{DeleteAndBlocklist: true}, ps.strikes, true
		}
		return RemediationAction{}, ps.strikes, false

	case Healthy:
		delete(t.stalls, s.ID)

		if s.ActiveTorrentDownload() {
			ps, ok := t.progress[s.ID]
			if !ok {
				t.progress[s.ID] = &progressState{lastSizeLeft: *s.SizeLeft}
			} else {
				// Progress was made; move the baseline and reset.
				ps.lastSizeLeft = *s.SizeLeft
				ps.strikes = 0
			}
		} else {
			delete(t.progress, s.ID)
		}
		return RemediationAction{}, 0, false

	default:
		// A reclassification fully resets both ladders, then the category's
		// own remediation fires immediately.
		delete(t.stalls, s.ID)
		delete(t.progress, s.ID)

		action, immediate := cat.action()
		return action, 0, immediate
	}
}

// Purge removes all tracking state for an item, used after a successful
// remediation regardless of which ladder triggered it
func (t *EscalationTracker) Purge(itemID int64) {
	delete(t.stalls, itemID)
	delete(t.progress, itemID)
}

// PurgeAbsent drops tracking entries for items no longer present in the
// latest queue snapshot, so entries for vanished items cannot pile up
func (t *EscalationTracker) PurgeAbsent(seen map[int64]bool) {
	for id := range t.stalls {
		if !seen[id] {
			delete(t.stalls, id)
		}
	}
	for id := range t.progress {
		if !seen[id] {
			delete(t.progress, id)
		}
	}
}

// Counts returns the number of tracked stall and progress entries
func (t *EscalationTracker) Counts() (stalls, progress int) {
	return len(t.stalls), len(t.progress)
}
