// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package types

import "time"

// BackendEndpoint holds the connection details for a discovered or configured
// Sonarr/Radarr instance
type BackendEndpoint struct {
	Type        string `json:"type" yaml:"type"`
	DisplayName string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	APIKey      string `json:"apikey" yaml:"apikey"`
}

// RemediationRecord is one row of the remediation history store
type RemediationRecord struct {
	ID        int64     `json:"id"`
	Backend   string    `json:"backend"`
	ItemID    int64     `json:"itemId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Strikes   int       `json:"strikes"`
	Searched  bool      `json:"searched"`
	CreatedAt time.Time `json:"createdAt"`
}

// CycleStats summarizes the most recent cleaning pass over one backend
type CycleStats struct {
	Backend      string    `json:"backend"`
	LastRun      time.Time `json:"lastRun"`
	QueueSize    int       `json:"queueSize"`
	ItemsSkipped int       `json:"itemsSkipped"`
	ItemsRemoved int       `json:"itemsRemoved"`
	StallTracked int       `json:"stallTracked"`
	NoProgress   int       `json:"noProgressTracked"`
	LastError    string    `json:"lastError,omitempty"`
}
