// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stalledSnapshot(id int64) Snapshot {
	return Snapshot{
		ID: id, Title: "t", Status: StatusWarning,
		TrackedDownloadStatus: TrackedStatusOK,
		TrackedDownloadState:  "downloading",
		ErrorMessage:          stalledErrorMessage,
	}
}

func torrentSnapshot(id, left int64) Snapshot {
	return Snapshot{
		ID: id, Title: "t", Status: StatusDownloading,
		TrackedDownloadStatus: TrackedStatusOK,
		TrackedDownloadState:  "downloading",
		Protocol:              ProtocolTorrent,
		SizeLeft:              sizeLeft(left),
	}
}

func TestStallLadderFiresAtExactlyTheThreshold(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)
	snap := stalledSnapshot(42)

	_, strikes, fire := tracker.Advance(snap, ConnectionStalled)
	assert.False(t, fire)
	assert.Equal(t, 1, strikes)

	_, strikes, fire = tracker.Advance(snap, ConnectionStalled)
	assert.False(t, fire)
	assert.Equal(t, 2, strikes)

	action, strikes, fire := tracker.Advance(snap, ConnectionStalled)
	assert.True(t, fire)
	assert.Equal(t, 3, strikes)
	assert.True(t, action.DeleteAndBlocklist)
	assert.False(t, action.TriggerResearch)

	// A successful remediation purges the entry; the next observation
	// starts a fresh count.
	tracker.Purge(snap.ID)
	_, strikes, fire = tracker.Advance(snap, ConnectionStalled)
	assert.False(t, fire)
	assert.Equal(t, 1, strikes)
}

func TestStallLadderResetsFullyOnReclassification(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)
	snap := stalledSnapshot(7)

	tracker.Advance(snap, ConnectionStalled)
	tracker.Advance(snap, ConnectionStalled)

	// Any other classification removes the entry entirely, not a decrement.
	tracker.Advance(snap, Healthy)
	stalls, _ := tracker.Counts()
	assert.Zero(t, stalls)

	_, strikes, fire := tracker.Advance(snap, ConnectionStalled)
	assert.False(t, fire)
	assert.Equal(t, 1, strikes)
}

func TestProgressLadderFiresAfterConsecutiveStrikes(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)

	// First observation creates the baseline.
	tracker.Advance(torrentSnapshot(1, 5000), Healthy)
	last, ok := tracker.LastSizeLeft(1)
	assert.True(t, ok)
	assert.Equal(t, int64(5000), last)

	_, strikes, fire := tracker.Advance(torrentSnapshot(1, 4900), NonProgressing)
	assert.False(t, fire)
	assert.Equal(t, 1, strikes)

	_, strikes, fire = tracker.Advance(torrentSnapshot(1, 4900), NonProgressing)
	assert.False(t, fire)
	assert.Equal(t, 2, strikes)

	action, strikes, fire := tracker.Advance(torrentSnapshot(1, 4900), NonProgressing)
	assert.True(t, fire)
	assert.Equal(t, 3, strikes)
	assert.True(t, action.DeleteAndBlocklist)
	assert.False(t, action.TriggerResearch)
}

func TestProgressLadderResetsWhenProgressIsMade(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)
	start := int64(10 << 30)

	tracker.Advance(torrentSnapshot(1, start), Healthy)
	tracker.Advance(torrentSnapshot(1, start), NonProgressing)
	tracker.Advance(torrentSnapshot(1, start), NonProgressing)

	// More than the threshold downloaded since the baseline: the ladder
	// resets to zero regardless of prior strikes, and the baseline moves.
	moved := start - (5 << 20)
	tracker.Advance(torrentSnapshot(1, moved), Healthy)

	last, ok := tracker.LastSizeLeft(1)
	assert.True(t, ok)
	assert.Equal(t, moved, last)

	_, strikes, fire := tracker.Advance(torrentSnapshot(1, moved), NonProgressing)
	assert.False(t, fire)
	assert.Equal(t, 1, strikes)
}

func TestProgressEntryRemovedWhenItemStopsDownloading(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)

	tracker.Advance(torrentSnapshot(1, 5000), Healthy)
	tracker.Advance(torrentSnapshot(1, 4900), NonProgressing)

	// The item moved to completed; its progress entry is dropped without
	// remediation.
	done := Snapshot{
		ID: 1, Title: "t", Status: StatusCompleted,
		TrackedDownloadStatus: TrackedStatusOK,
		TrackedDownloadState:  "imported",
	}
	_, _, fire := tracker.Advance(done, Healthy)
	assert.False(t, fire)

	_, ok := tracker.LastSizeLeft(1)
	assert.False(t, ok)
}

func TestImmediateCategoryClearsBothLadders(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)

	tracker.Advance(torrentSnapshot(1, 5000), Healthy)
	tracker.Advance(stalledSnapshot(2), ConnectionStalled)

	action, _, fire := tracker.Advance(stalledSnapshot(2), DangerousFile)
	assert.True(t, fire)
	assert.True(t, action.DeleteAndBlocklist)
	assert.True(t, action.TriggerResearch)

	stalls, _ := tracker.Counts()
	assert.Zero(t, stalls)
}

func TestPurgeAbsentDropsVanishedItems(t *testing.T) {
	tracker := NewEscalationTracker(3, 3)

	tracker.Advance(stalledSnapshot(1), ConnectionStalled)
	tracker.Advance(torrentSnapshot(2, 5000), Healthy)
	tracker.Advance(torrentSnapshot(3, 5000), Healthy)

	tracker.PurgeAbsent(map[int64]bool{3: true})

	stalls, progress := tracker.Counts()
	assert.Zero(t, stalls)
	assert.Equal(t, 1, progress)

	_, ok := tracker.LastSizeLeft(3)
	assert.True(t, ok)
}
