// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package sonarr

import (
	"time"

	"github.com/autobrr/sweeparr/internal/services/arr"
	"github.com/autobrr/sweeparr/internal/types"
)

// NewClient creates a queue client for a Sonarr instance. Re-searches are
// keyed by series and issued with the SeriesSearch command.
func NewClient(url, apiKey string, timeout time.Duration) *arr.Client {
	desc := arr.Descriptor{
		Type:                 "sonarr",
		DisplayName:          "Sonarr",
		SearchCommand:        "SeriesSearch",
		MissingSearchCommand: "MissingEpisodeSearch",
		ParentID: func(rec types.QueueRecord) int64 {
			return rec.SeriesID
		},
		SearchBody: func(parentID int64) types.CommandRequest {
			return types.CommandRequest{
				"name":     "SeriesSearch",
				"seriesId": parentID,
			}
		},
	}
	return arr.NewClient(desc, url, apiKey, timeout)
}
