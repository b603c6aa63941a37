// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package radarr

import (
	"time"

	"github.com/autobrr/sweeparr/internal/services/arr"
	"github.com/autobrr/sweeparr/internal/types"
)

// NewClient creates a queue client for a Radarr instance. Re-searches are
// keyed by movie and issued with the MovieSearch command.
func NewClient(url, apiKey string, timeout time.Duration) *arr.Client {
	desc := arr.Descriptor{
		Type:          "radarr",
		DisplayName:   "Radarr",
		SearchCommand: "MovieSearch",
		ParentID: func(rec types.QueueRecord) int64 {
			return rec.MovieID
		},
		SearchBody: func(parentID int64) types.CommandRequest {
			return types.CommandRequest{
				"name":    "MovieSearch",
				"movieId": parentID,
			}
		},
	}
	return arr.NewClient(desc, url, apiKey, timeout)
}
