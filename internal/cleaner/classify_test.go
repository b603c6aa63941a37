// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeProgress is a canned ProgressView for classifier tests
type fakeProgress map[int64]int64

func (f fakeProgress) LastSizeLeft(itemID int64) (int64, bool) {
	v, ok := f[itemID]
	return v, ok
}

func sizeLeft(n int64) *int64 {
	return &n
}

func newClassifier(progress fakeProgress) Classifier {
	return Classifier{
		Progress:                 progress,
		NoProgressThresholdBytes: 1 << 20,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		progress fakeProgress
		want     Category
	}{
		{
			name: "failed status wins over everything",
			snapshot: Snapshot{
				ID: 1, Title: "a", Status: StatusFailed,
				TrackedDownloadStatus: TrackedStatusWarning,
				TrackedDownloadState:  TrackedStateImportPending,
				StatusMessages:        []string{"Caution: Found potentially dangerous file with extension: .lnk"},
			},
			want: Failed,
		},
		{
			name: "missing files on completed import pending warning",
			snapshot: Snapshot{
				ID: 2, Title: "b", Status: StatusCompleted,
				TrackedDownloadStatus: TrackedStatusWarning,
				TrackedDownloadState:  TrackedStateImportPending,
				StatusMessages:        []string{"One or more episodes expected in this release were not imported or missing from the release"},
			},
			want: MissingFiles,
		},
		{
			name: "no eligible files on completed import pending warning",
			snapshot: Snapshot{
				ID: 3, Title: "c", Status: StatusCompleted,
				TrackedDownloadStatus: TrackedStatusWarning,
				TrackedDownloadState:  TrackedStateImportPending,
				StatusMessages:        []string{"No files found are eligible for import in /downloads/c"},
			},
			want: NoEligibleFiles,
		},
		{
			name: "dangerous file flagged while import pending",
			snapshot: Snapshot{
				ID: 4, Title: "d", Status: StatusCompleted,
				TrackedDownloadStatus: TrackedStatusWarning,
				TrackedDownloadState:  TrackedStateImportPending,
				StatusMessages:        []string{"Caution: Found potentially dangerous file with extension: .exe"},
			},
			want: DangerousFile,
		},
		{
			name: "import blocked",
			snapshot: Snapshot{
				ID: 5, Title: "e", Status: StatusCompleted,
				TrackedDownloadStatus: TrackedStatusWarning,
				TrackedDownloadState:  TrackedStateImportBlocked,
			},
			want: ImportBlocked,
		},
		{
			name: "stalled download",
			snapshot: Snapshot{
				ID: 6, Title: "f", Status: StatusWarning,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				ErrorMessage:          "The download is stalled with no connections",
			},
			want: ConnectionStalled,
		},
		{
			name: "first observation of an active torrent is healthy",
			snapshot: Snapshot{
				ID: 7, Title: "g", Status: StatusDownloading,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				Protocol:              ProtocolTorrent,
				SizeLeft:              sizeLeft(5 << 30),
			},
			want: Healthy,
		},
		{
			name: "torrent that moved less than the threshold is non-progressing",
			snapshot: Snapshot{
				ID: 8, Title: "h", Status: StatusDownloading,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				Protocol:              ProtocolTorrent,
				SizeLeft:              sizeLeft(1000),
			},
			progress: fakeProgress{8: 1500},
			want:     NonProgressing,
		},
		{
			name: "torrent that moved more than the threshold is healthy",
			snapshot: Snapshot{
				ID: 9, Title: "i", Status: StatusDownloading,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				Protocol:              ProtocolTorrent,
				SizeLeft:              sizeLeft(2 << 30),
			},
			progress: fakeProgress{9: (2 << 30) + (2 << 20)},
			want:     Healthy,
		},
		{
			name: "usenet downloads are not progress tracked",
			snapshot: Snapshot{
				ID: 10, Title: "j", Status: StatusDownloading,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				Protocol:              "usenet",
				SizeLeft:              sizeLeft(1000),
			},
			progress: fakeProgress{10: 1500},
			want:     Healthy,
		},
		{
			name: "completed with tracked error falls through to general warning",
			snapshot: Snapshot{
				ID: 11, Title: "k", Status: StatusCompleted,
				TrackedDownloadStatus: TrackedStatusError,
				TrackedDownloadState:  "importFailed",
			},
			want: GeneralCompletedWarning,
		},
		{
			name: "clean item is healthy",
			snapshot: Snapshot{
				ID: 12, Title: "l", Status: StatusDownloading,
				TrackedDownloadStatus: TrackedStatusOK,
				TrackedDownloadState:  "downloading",
				Protocol:              "usenet",
			},
			want: Healthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := tt.progress
			if progress == nil {
				progress = fakeProgress{}
			}
			got := newClassifier(progress).Classify(tt.snapshot)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDangerousFileBeatsGeneralCompletedWarning(t *testing.T) {
	// The item matches both the dangerous-file pattern and the general
	// completed-warning fallback; priority must pick the specific rule.
	snapshot := Snapshot{
		ID: 42, Title: "both", Status: StatusCompleted,
		TrackedDownloadStatus: TrackedStatusWarning,
		TrackedDownloadState:  TrackedStateImportPending,
		StatusMessages:        []string{"Caution: Found potentially dangerous file with extension: .scr"},
	}

	got := newClassifier(fakeProgress{}).Classify(snapshot)
	assert.Equal(t, DangerousFile, got)
	assert.NotEqual(t, GeneralCompletedWarning, got)
}

func TestStalledBeatenByImportRules(t *testing.T) {
	// An item cannot be both DangerousFile and ConnectionStalled; rules 1-5
	// pre-empt the stall check.
	snapshot := Snapshot{
		ID: 43, Title: "both", Status: StatusWarning,
		TrackedDownloadStatus: TrackedStatusWarning,
		TrackedDownloadState:  TrackedStateImportPending,
		ErrorMessage:          "The download is stalled with no connections",
		StatusMessages:        []string{"Caution: Found potentially dangerous file with extension: .bat"},
	}

	got := newClassifier(fakeProgress{}).Classify(snapshot)
	assert.Equal(t, DangerousFile, got)
}

func TestPatternPredicates(t *testing.T) {
	assert.True(t, hasMissingFilesMessage([]string{"Episode file was not imported or missing"}))
	assert.True(t, hasNoEligibleFilesMessage([]string{"No files found are eligible for import in /data"}))
	assert.True(t, hasDangerousFileMessage([]string{"Caution: Found potentially dangerous file with extension: .zipx"}))

	assert.False(t, hasMissingFilesMessage([]string{"Sample was removed before import"}))
	assert.False(t, hasDangerousFileMessage(nil))
}
