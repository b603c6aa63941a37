// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package arr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/types"
)

// GetQueue fetches one page of the backend queue. The caller asks for a
// single record first to learn totalRecords, then for the full page.
func (c *Client) GetQueue(ctx context.Context, pageSize int) (types.QueueResponse, error) {
	var queue types.QueueResponse

	queueURL := fmt.Sprintf("%s/api/v3/queue?page=1&pageSize=%d", c.url, pageSize)

	log.Debug().
		Str("service", c.desc.Type).
		Str("url", queueURL).
		Msg("Fetching queue")

	resp, err := c.makeRequest(ctx, http.MethodGet, queueURL, nil)
	if err != nil {
		return queue, &ErrArr{Service: c.desc.Type, Op: "get_queue", Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return queue, &ErrArr{Service: c.desc.Type, Op: "get_queue", HttpCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return queue, &ErrArr{Service: c.desc.Type, Op: "get_queue", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := json.Unmarshal(body, &queue); err != nil {
		return queue, &ErrArr{Service: c.desc.Type, Op: "get_queue", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return queue, nil
}

// DeleteQueueItem deletes a queue item with the specified options
func (c *Client) DeleteQueueItem(ctx context.Context, itemID int64, options types.QueueDeleteOptions) error {
	deleteURL := fmt.Sprintf("%s/api/v3/queue/%d?removeFromClient=%t&blocklist=%t",
		c.url, itemID, options.RemoveFromClient, options.Blocklist)

	log.Info().
		Str("service", c.desc.Type).
		Int64("itemId", itemID).
		Bool("removeFromClient", options.RemoveFromClient).
		Bool("blocklist", options.Blocklist).
		Msg("Deleting queue item")

	resp, err := c.makeRequest(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return &ErrArr{Service: c.desc.Type, Op: "delete_queue", Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		// The response body may be absent; surface the backend message when
		// one is present.
		var errorResponse struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errorResponse); err == nil && errorResponse.Message != "" {
			return &ErrArr{Service: c.desc.Type, Op: "delete_queue", Err: fmt.Errorf("%s", errorResponse.Message), HttpCode: resp.StatusCode}
		}
		return &ErrArr{Service: c.desc.Type, Op: "delete_queue", HttpCode: resp.StatusCode}
	}

	return nil
}

// TriggerSearch issues the backend's re-search command keyed by the parent
// identifier (seriesId for Sonarr, movieId for Radarr)
func (c *Client) TriggerSearch(ctx context.Context, parentID int64) error {
	return c.triggerCommand(ctx, c.desc.SearchBody(parentID))
}

// TriggerMissingSearch issues the backend's missing-media search command,
// when the backend has one
func (c *Client) TriggerMissingSearch(ctx context.Context) error {
	if c.desc.MissingSearchCommand == "" {
		return &ErrArr{Service: c.desc.Type, Op: "missing_search", Err: fmt.Errorf("not supported")}
	}
	return c.triggerCommand(ctx, types.CommandRequest{"name": c.desc.MissingSearchCommand})
}

func (c *Client) triggerCommand(ctx context.Context, command types.CommandRequest) error {
	payload, err := json.Marshal(command)
	if err != nil {
		return &ErrArr{Service: c.desc.Type, Op: "command", Err: fmt.Errorf("failed to encode command: %w", err)}
	}

	commandURL := fmt.Sprintf("%s/api/v3/command", c.url)

	log.Debug().
		Str("service", c.desc.Type).
		Interface("command", command).
		Msg("Sending command")

	resp, err := c.makeRequest(ctx, http.MethodPost, commandURL, payload)
	if err != nil {
		return &ErrArr{Service: c.desc.Type, Op: "command", Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	// Commands are accepted with 201 Created
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ErrArr{Service: c.desc.Type, Op: "command", HttpCode: resp.StatusCode}
	}

	return nil
}

// GetSystemStatus fetches the backend version, used by the health command
func (c *Client) GetSystemStatus(ctx context.Context) (types.SystemStatusResponse, error) {
	var status types.SystemStatusResponse

	statusURL := fmt.Sprintf("%s/api/v3/system/status", c.url)

	resp, err := c.makeRequest(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return status, &ErrArr{Service: c.desc.Type, Op: "get_system_status", Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, &ErrArr{Service: c.desc.Type, Op: "get_system_status", HttpCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, &ErrArr{Service: c.desc.Type, Op: "get_system_status", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return status, nil
}
