// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"fmt"

	"github.com/autobrr/sweeparr/internal/types"
)

// Queue item status values reported by the backends
const (
	StatusDownloading = "downloading"
	StatusWarning     = "warning"
	StatusFailed      = "failed"
	StatusCompleted   = "completed"
)

// Tracked download status/state values for the post-download import pipeline
const (
	TrackedStatusOK      = "ok"
	TrackedStatusWarning = "warning"
	TrackedStatusError   = "error"

	TrackedStateImportPending = "importPending"
	TrackedStateImportBlocked = "importBlocked"
)

const ProtocolTorrent = "torrent"

// Snapshot is the canonical, validated view of one queue record for one
// poll. Immutable once constructed; one instance per poll per item.
type Snapshot struct {
	ID                    int64
	Title                 string
	Status                string
	TrackedDownloadStatus string
	TrackedDownloadState  string
	ErrorMessage          string
	StatusMessages        []string
	SizeLeft              *int64
	Protocol              string
	ParentID              int64
}

// ActiveTorrentDownload reports whether the item is a torrent actively
// transferring, which is the precondition for progress tracking
func (s Snapshot) ActiveTorrentDownload() bool {
	return s.Status == StatusDownloading && s.SizeLeft != nil && s.Protocol == ProtocolTorrent
}

// Normalize validates and flattens a raw queue record into a Snapshot.
// Records missing any mandatory field are rejected so a single malformed
// item never takes down a cleaning pass.
func Normalize(rec types.QueueRecord, parentID int64) (Snapshot, error) {
	switch {
	case rec.ID == 0:
		return Snapshot{}, fmt.Errorf("queue record missing id")
	case rec.Title == "":
		return Snapshot{}, fmt.Errorf("queue record %d missing title", rec.ID)
	case rec.Status == "":
		return Snapshot{}, fmt.Errorf("queue record %d missing status", rec.ID)
	case rec.TrackedDownloadStatus == "":
		return Snapshot{}, fmt.Errorf("queue record %d missing trackedDownloadStatus", rec.ID)
	case rec.TrackedDownloadState == "":
		return Snapshot{}, fmt.Errorf("queue record %d missing trackedDownloadState", rec.ID)
	}

	// Flatten the nested status messages into one ordered list of strings;
	// the classifier only matches on text, never on structure.
	var messages []string
	for _, sm := range rec.StatusMessages {
		if sm.Title != "" {
			messages = append(messages, sm.Title)
		}
		messages = append(messages, sm.Messages...)
	}

	return Snapshot{
		ID:                    rec.ID,
		Title:                 rec.Title,
		Status:                rec.Status,
		TrackedDownloadStatus: rec.TrackedDownloadStatus,
		TrackedDownloadState:  rec.TrackedDownloadState,
		ErrorMessage:          rec.ErrorMessage,
		StatusMessages:        messages,
		SizeLeft:              rec.SizeLeft,
		Protocol:              rec.Protocol,
		ParentID:              parentID,
	}, nil
}
