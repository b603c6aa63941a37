// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package types

// QueueResponse represents the paginated queue envelope shared by the
// Sonarr and Radarr v3 APIs
type QueueResponse struct {
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
	SortKey       string        `json:"sortKey"`
	SortDirection string        `json:"sortDirection"`
	TotalRecords  int           `json:"totalRecords"`
	Records       []QueueRecord `json:"records"`
}

// QueueRecord represents a single raw record in a backend queue. SizeLeft is
// a pointer because the field is only present while a transfer is active.
type QueueRecord struct {
	ID                      int64           `json:"id"`
	SeriesID                int64           `json:"seriesId,omitempty"`
	EpisodeID               int64           `json:"episodeId,omitempty"`
	MovieID                 int64           `json:"movieId,omitempty"`
	Title                   string          `json:"title"`
	Status                  string          `json:"status"`
	Size                    int64           `json:"size"`
	SizeLeft                *int64          `json:"sizeleft,omitempty"`
	TimeLeft                string          `json:"timeleft,omitempty"`
	EstimatedCompletionTime string          `json:"estimatedCompletionTime,omitempty"`
	Added                   string          `json:"added,omitempty"`
	DownloadClient          string          `json:"downloadClient"`
	DownloadID              string          `json:"downloadId"`
	Protocol                string          `json:"protocol"`
	Indexer                 string          `json:"indexer"`
	OutputPath              string          `json:"outputPath"`
	TrackedDownloadStatus   string          `json:"trackedDownloadStatus"`
	TrackedDownloadState    string          `json:"trackedDownloadState"`
	StatusMessages          []StatusMessage `json:"statusMessages"`
	ErrorMessage            string          `json:"errorMessage"`
}

// StatusMessage represents a status message attached to a queue record
type StatusMessage struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
}

// QueueDeleteOptions represents the options for deleting a queue item
type QueueDeleteOptions struct {
	RemoveFromClient bool `json:"removeFromClient"`
	Blocklist        bool `json:"blocklist"`
}

// CommandRequest represents a POST /api/v3/command payload
type CommandRequest map[string]interface{}

// SystemStatusResponse represents the system status response from a backend
type SystemStatusResponse struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}
