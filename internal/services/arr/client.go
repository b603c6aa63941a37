// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package arr

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/autobrr/sweeparr/internal/types"
)

// Global HTTP client pool, keyed by timeout
var httpClients sync.Map

// ErrArr is the error type for *arr API failures
type ErrArr struct {
	Service  string // Service name (e.g., "radarr", "sonarr")
	Op       string // Operation that failed
	Err      error  // Underlying error
	HttpCode int    // HTTP status code if applicable
}

func (e *ErrArr) Error() string {
	if e.HttpCode > 0 {
		return fmt.Sprintf("%s %s: server returned %s (%d)", e.Service, e.Op, http.StatusText(e.HttpCode), e.HttpCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Service, e.Op)
}

func (e *ErrArr) Unwrap() error {
	return e.Err
}

// Descriptor captures the small set of differences between the Sonarr and
// Radarr queue APIs: the command used to re-search a release and the parent
// identifier that command is keyed by.
type Descriptor struct {
	Type                 string
	DisplayName          string
	SearchCommand        string
	MissingSearchCommand string
	ParentID             func(rec types.QueueRecord) int64
	SearchBody           func(parentID int64) types.CommandRequest
}

// Client talks to one backend instance through its v3 HTTP API
type Client struct {
	desc    Descriptor
	url     string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a client for one backend instance
func NewClient(desc Descriptor, url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		desc:    desc,
		url:     strings.TrimRight(url, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Name returns the backend type (e.g., "sonarr")
func (c *Client) Name() string {
	return c.desc.Type
}

// DisplayName returns the human-readable backend name
func (c *Client) DisplayName() string {
	return c.desc.DisplayName
}

// URL returns the backend base URL
func (c *Client) URL() string {
	return c.url
}

// ParentID extracts the parent identifier a re-search is keyed by
func (c *Client) ParentID(rec types.QueueRecord) int64 {
	return c.desc.ParentID(rec)
}

// getHTTPClient returns a pooled client with the specified timeout
func getHTTPClient(timeout time.Duration) *http.Client {
	if client, ok := httpClients.Load(timeout); ok {
		return client.(*http.Client)
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
		Timeout: timeout,
	}

	httpClients.Store(timeout, client)
	return client
}

// makeRequest is a helper function to make requests with proper headers
func (c *Client) makeRequest(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")

	client := getHTTPClient(c.timeout)
	resp, err := client.Do(req)
	if err != nil {
		if err == context.Canceled {
			return nil, fmt.Errorf("request canceled: %w", err)
		}
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("received nil response from server")
	}

	return resp, nil
}
