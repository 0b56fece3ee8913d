// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Agentify backend.
//
// The backend hosts the agents (math, intelligent, autonomous), the chat
// and streaming-chat endpoints for them, and the blog content surface.
// This package is the single point of HTTP access for the whole client:
// it normalizes success and failure shapes, fixes the request timeout,
// and classifies every failure into the APIError / NetworkError /
// TimeoutError taxonomy defined in errors.go.
//
// RELIABILITY: No retries, no caching, no in-flight request dedup.
// Every failure reaches the caller exactly once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the Agentify backend API.
const (
	// DefaultBaseURL is the base URL of a locally running backend.
	DefaultBaseURL = "http://localhost:8002"

	// DefaultTimeout is the fixed per-request deadline. The backend's
	// slowest non-streaming endpoints (demo agent creation, blog stats)
	// comfortably fit inside it.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// One shared HTTP client for all non-streaming requests; per-request
// deadlines are applied via context so the pool settings stay global.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// sharedStreamingClient is used for streaming requests. It carries no
// client-level timeout; lifetime is controlled by the caller's context.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Agentify backend API.
//
// The zero value is not usable; construct with NewClient. All methods are
// safe for concurrent use: the client holds no mutable request state.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	streamer   *http.Client
}

// NewClient creates a client for the given base URL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: sharedHTTPClient,
		streamer:   sharedStreamingClient,
	}
}

// WithTimeout overrides the fixed request deadline. Returns the client
// for chaining.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP clients. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.streamer = hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// detailErrorResponse is the error body shape the backend emits,
// FastAPI-style: {"detail": "..."} or {"detail": {...}}.
type detailErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// request issues an HTTP request against the backend and decodes the
// response into out (skipped when out is nil).
//
// Classification:
//   - non-2xx status: *APIError carrying the response status, with the
//     message taken from the backend's detail body when parseable and a
//     generic "HTTP error! status: N" fallback when not
//   - deadline exceeded: *TimeoutError
//   - any other transport failure: *NetworkError
//
// JSON responses are decoded into out; any other content type is
// returned as raw text when out is a *string.
func (c *Client) request(ctx context.Context, method, path string, body any, out any) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{URL: url, Elapsed: time.Since(start)}
		}
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{URL: url, Elapsed: time.Since(start)}
		}
		return &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		// Non-JSON success bodies are handed back as raw text.
		if s, ok := out.(*string); ok {
			*s = string(data)
			return nil
		}
		return fmt.Errorf("unexpected content type %q for %s %s", contentType, method, path)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// newAPIError builds an APIError from a non-2xx response, parsing the
// backend's detail body when possible.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Message:    fmt.Sprintf("HTTP error! status: %d", statusCode),
		StatusCode: statusCode,
		Body:       string(body),
	}

	var detail detailErrorResponse
	if err := json.Unmarshal(body, &detail); err == nil && len(detail.Detail) > 0 {
		// A string detail becomes the message; a structured detail is
		// kept whole and its JSON form becomes the message.
		var msg string
		if err := json.Unmarshal(detail.Detail, &msg); err == nil && msg != "" {
			apiErr.Message = msg
		} else {
			var structured any
			if err := json.Unmarshal(detail.Detail, &structured); err == nil {
				apiErr.Details = structured
				apiErr.Message = string(detail.Detail)
			}
		}
	}
	return apiErr
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthStatus is the backend's health report.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health checks whether the backend is reachable and serving.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.request(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
