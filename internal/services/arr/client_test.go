// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package arr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/sweeparr/internal/types"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Type:          "sonarr",
		DisplayName:   "Sonarr",
		SearchCommand: "SeriesSearch",
		ParentID:      func(rec types.QueueRecord) int64 { return rec.SeriesID },
		SearchBody: func(parentID int64) types.CommandRequest {
			return types.CommandRequest{"name": "SeriesSearch", "seriesId": parentID}
		},
	}
}

func TestGetQueue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/queue", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))

		json.NewEncoder(w).Encode(types.QueueResponse{
			TotalRecords: 2,
			Records: []types.QueueRecord{
				{ID: 1, Title: "Some.Show.S01E01", Status: "downloading"},
				{ID: 2, Title: "Some.Show.S01E02", Status: "warning"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "test-key", 5*time.Second)
	queue, err := client.GetQueue(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, queue.TotalRecords)
	require.Len(t, queue.Records, 2)
	assert.Equal(t, int64(1), queue.Records[0].ID)
}

func TestGetQueueServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "wrong-key", 5*time.Second)
	_, err := client.GetQueue(context.Background(), 1)
	require.Error(t, err)

	var arrErr *ErrArr
	require.ErrorAs(t, err, &arrErr)
	assert.Equal(t, http.StatusUnauthorized, arrErr.HttpCode)
	assert.Equal(t, "get_queue", arrErr.Op)
}

func TestDeleteQueueItem(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "test-key", 5*time.Second)
	err := client.DeleteQueueItem(context.Background(), 42, types.QueueDeleteOptions{
		RemoveFromClient: true,
		Blocklist:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/queue/42", gotPath)
	assert.Equal(t, "removeFromClient=true&blocklist=true", gotQuery)
}

func TestDeleteQueueItemSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Queue item not found"})
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "test-key", 5*time.Second)
	err := client.DeleteQueueItem(context.Background(), 42, types.QueueDeleteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Queue item not found")
}

func TestTriggerSearch(t *testing.T) {
	var gotBody types.CommandRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/command", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "test-key", 5*time.Second)
	require.NoError(t, client.TriggerSearch(context.Background(), 101))
	assert.Equal(t, "SeriesSearch", gotBody["name"])
	assert.Equal(t, float64(101), gotBody["seriesId"])
}

func TestTriggerMissingSearchUnsupported(t *testing.T) {
	client := NewClient(testDescriptor(), "http://localhost:8989", "test-key", 5*time.Second)
	err := client.TriggerMissingSearch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestGetSystemStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/system/status", r.URL.Path)
		json.NewEncoder(w).Encode(types.SystemStatusResponse{Version: "4.0.0.1"})
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL, "test-key", 5*time.Second)
	status, err := client.GetSystemStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0.0.1", status.Version)
}

func TestTrailingSlashTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/queue", r.URL.Path)
		json.NewEncoder(w).Encode(types.QueueResponse{})
	}))
	defer srv.Close()

	client := NewClient(testDescriptor(), srv.URL+"/", "test-key", 5*time.Second)
	_, err := client.GetQueue(context.Background(), 1)
	require.NoError(t, err)
}
