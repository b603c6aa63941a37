// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package cleaner

// Category is the single problem class assigned to a queue item per poll.
// Categories are mutually exclusive; classification rules are evaluated in a
// fixed priority order and the first match wins.
type Category int

const (
	Healthy Category = iota
	Failed
	MissingFiles
	NoEligibleFiles
	DangerousFile
	ImportBlocked
	ConnectionStalled
	NonProgressing
	GeneralCompletedWarning
)

func (c Category) String() string {
	switch c {
	case Healthy:
		return "healthy"
	case Failed:
		return "failed"
	case MissingFiles:
		return "missing_files"
	case NoEligibleFiles:
		return "no_eligible_files"
	case DangerousFile:
		return "dangerous_file"
	case ImportBlocked:
		return "import_blocked"
	case ConnectionStalled:
		return "connection_stalled"
	case NonProgressing:
		return "non_progressing"
	case GeneralCompletedWarning:
		return "completed_warning"
	default:
		return "unknown"
	}
}

// RemediationAction describes what to do about a classified item
type RemediationAction struct {
	DeleteAndBlocklist bool
	TriggerResearch    bool
}

// action returns the remediation for categories that act immediately, without
// accumulating strikes. The stall and progress ladders handle their own
// escalation and are not listed here.
func (c Category) action() (RemediationAction, bool) {
	switch c {
	case Failed:
		return RemediationAction{DeleteAndBlocklist: true, TriggerResearch: true}, true
	case MissingFiles:
		return RemediationAction{DeleteAndBlocklist: true}, true
	case NoEligibleFiles:
		return RemediationAction{DeleteAndBlocklist: true, TriggerResearch: true}, true
	case DangerousFile:
		return RemediationAction{DeleteAndBlocklist: true, TriggerResearch: true}, true
	case ImportBlocked:
		return RemediationAction{DeleteAndBlocklist: true}, true
	case GeneralCompletedWarning:
		return RemediationAction{DeleteAndBlocklist: true, TriggerResearch: true}, true
	default:
		return RemediationAction{}, false
	}
}
