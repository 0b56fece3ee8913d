// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error taxonomy for the Agentify backend client.
//
// Every request failure is classified into exactly one of three categories:
//
//   - APIError:     the backend answered with a non-2xx status
//   - TimeoutError: the client-side deadline fired before a response arrived
//   - NetworkError: the transport failed before any HTTP status was received
//
// RELIABILITY: No retries anywhere. Each failure is classified once and
// surfaced once to the caller, which owns the user-facing response
// (error banner, fallback data, or step-state transition).
package api

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrAPIError matches any backend-reported HTTP error.
	ErrAPIError = errors.New("api error")

	// ErrNetwork matches any transport-level failure.
	ErrNetwork = errors.New("network error")

	// ErrTimeout matches any client-side request timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrEmptyBody indicates a streaming response arrived without a body.
	ErrEmptyBody = errors.New("response has no body")
)

// =============================================================================
// API ERROR
// =============================================================================

// APIError represents a non-2xx response from the Agentify backend.
// StatusCode always equals the HTTP status of the response that produced it.
type APIError struct {
	Message    string
	StatusCode int
	Body       string // raw response body, kept for diagnostics
	Details    any    // backend-provided detail payload, if parseable
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("agentify API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Is reports whether target matches this error category.
func (e *APIError) Is(target error) bool {
	return target == ErrAPIError
}

// IsNotFound reports whether the backend answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// =============================================================================
// NETWORK ERROR
// =============================================================================

// NetworkError represents a transport-level failure: connection refused,
// DNS failure, broken pipe. No HTTP status was received.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

// Is reports whether target matches this error category.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// =============================================================================
// TIMEOUT ERROR
// =============================================================================

// TimeoutError represents the client-side deadline firing before the
// backend responded. The deadline is fixed per client, not per call.
type TimeoutError struct {
	URL     string
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Elapsed)
}

// Is reports whether target matches this error category.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
