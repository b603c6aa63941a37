// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

// ProgressView is the read-only slice of the progress ladder the classifier
// consults for the stalled-transfer rule. The classifier never mutates
// tracking state.
type ProgressView interface {
	LastSizeLeft(itemID int64) (int64, bool)
}

// Classifier maps a snapshot to exactly one Category. Rules are evaluated in
// fixed priority order; the first matching rule wins.
type Classifier struct {
	Progress                 ProgressView
	NoProgressThresholdBytes int64
}

func (c Classifier) Classify(s Snapshot) Category {
	importPendingWarning := s.TrackedDownloadStatus == TrackedStatusWarning &&
		s.TrackedDownloadState == TrackedStateImportPending

	// 1. The backend already gave up on the download.
	if s.Status == StatusFailed {
		return Failed
	}

	// 2. Completed but the release came up short of importable files.
	if s.Status == StatusCompleted && importPendingWarning && hasMissingFilesMessage(s.StatusMessages) {
		return MissingFiles
	}

	// 3. Completed but nothing in the release can be imported at all.
	if s.Status == StatusCompleted && importPendingWarning && hasNoEligibleFilesMessage(s.StatusMessages) {
		return NoEligibleFiles
	}

	// 4. The backend flagged a potentially dangerous file in the release.
	if importPendingWarning && hasDangerousFileMessage(s.StatusMessages) {
		return DangerousFile
	}

	// 5. Import is blocked and needs manual intervention; remove instead.
	if s.Status == StatusCompleted && s.TrackedDownloadStatus == TrackedStatusWarning &&
		s.TrackedDownloadState == TrackedStateImportBlocked {
		return ImportBlocked
	}

	// 6. The download client reports a dead torrent.
	if s.Status == StatusWarning && s.ErrorMessage == stalledErrorMessage {
		return ConnectionStalled
	}

	// 7. Active torrent transfer: compare against the last observed sizeleft.
	// The first observation has no baseline and is always healthy.
	if s.ActiveTorrentDownload() {
		if last, ok := c.Progress.LastSizeLeft(s.ID); ok {
			if last-*s.SizeLeft <= c.NoProgressThresholdBytes {
				return NonProgressing
			}
		}
		return Healthy
	}

	// 8. Completed with an unspecific import warning or error.
	if s.Status == StatusCompleted &&
		(s.TrackedDownloadStatus == TrackedStatusWarning || s.TrackedDownloadStatus == TrackedStatusError) {
		return GeneralCompletedWarning
	}

	return Healthy
}
