// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

import "strings"

// The backends report import problems as free-text status messages, so
// detection is substring matching against known phrases. The phrases are kept
// together here so a wording change upstream is a one-line fix.
const (
	stalledErrorMessage   = "The download is stalled with no connections"
	missingFilesPhrase    = "not imported or missing"
	noEligibleFilesPhrase = "No files found are eligible for import"
	dangerousFilePhrase   = "Caution: Found potentially dangerous file"
)

func containsPhrase(messages []string, phrase string) bool {
	for _, m := range messages {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return false
}

func hasMissingFilesMessage(messages []string) bool {
	return containsPhrase(messages, missingFilesPhrase)
}

func hasNoEligibleFilesMessage(messages []string) bool {
	return containsPhrase(messages, noEligibleFilesPhrase)
}

func hasDangerousFileMessage(messages []string) bool {
	return containsPhrase(messages, dangerousFilePhrase)
}
