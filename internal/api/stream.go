// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stream.go - Streaming chat consumer for the Agentify backend.
//
// The backend streams chat and research-pipeline events as newline-delimited
// "data: {json}\n" lines, terminated either by a {"type":"end"} sentinel or
// by the server closing the stream. This file turns that byte stream into a
// channel of typed chunks.
//
// RELIABILITY: The response body is always closed, whatever way consumption
// ends (sentinel, server close, consumer abandonment, read error). Malformed
// frames are logged and skipped so a live stream stays usable.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// Chunk type discriminants in the streaming protocol.
const (
	ChunkTypeStart          = "start"
	ChunkTypeContent        = "content"
	ChunkTypeProgress       = "progress"
	ChunkTypeSuccess        = "success"
	ChunkTypePartialSuccess = "partial_success"
	ChunkTypeError          = "error"
	ChunkTypePaper          = "paper"
	ChunkTypeEnd            = "end"
)

// dataPrefix is the literal line prefix carrying a chunk payload.
// Lines without it (keepalives, blank lines) are ignored.
const dataPrefix = "data: "

// =============================================================================
// TYPES
// =============================================================================

// StreamResult is the structured payload of a success or partial_success
// chunk from the research pipeline.
type StreamResult struct {
	Title    string `json:"title,omitempty"`
	Summary  string `json:"summary,omitempty"`
	PDFPath  string `json:"pdf_path,omitempty"`
	Message  string `json:"message,omitempty"`
	LastStep string `json:"last_step,omitempty"`
}

// StreamChunk is one decoded event from the stream. Type discriminates
// which of the optional fields are meaningful. Unknown types are delivered
// as-is; consumers ignore what they do not understand.
//
// Err is a client-side transport or decode failure, not a backend event.
// A chunk with Err set is always the last one delivered.
type StreamChunk struct {
	Type       string          `json:"type"`
	Content    string          `json:"content,omitempty"`
	Step       string          `json:"step,omitempty"`
	Result     *StreamResult   `json:"result,omitempty"`
	PaperData  json.RawMessage `json:"paper_data,omitempty"`
	PaperIndex int             `json:"paper_index,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`

	Err error `json:"-"`
}

// =============================================================================
// STREAMING
// =============================================================================

// StreamChat sends a message to an agent's streaming endpoint and returns a
// lazy, single-pass sequence of chunks. The channel is closed when the
// stream ends: on the end sentinel (which is never delivered), on server
// close, on a read error (delivered as a final Err chunk), or when ctx is
// cancelled.
//
// The sequence is not restartable. Stop consuming by cancelling ctx; the
// reader goroutine notices on its next send or read and releases the body.
func (c *Client) StreamChat(ctx context.Context, agentID, message string) (<-chan StreamChunk, error) {
	url := fmt.Sprintf("%s/agents/%s/chat/stream", c.baseURL, agentID)

	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamer.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{URL: url, Elapsed: c.timeout}
		}
		return nil, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, data)
	}

	if resp.Body == nil {
		return nil, ErrEmptyBody
	}

	chunks := make(chan StreamChunk, 16)
	go c.consumeStream(ctx, resp.Body, chunks)
	return chunks, nil
}

// consumeStream reads data lines off the body and delivers decoded chunks
// until the end sentinel, server close, read error, or ctx cancellation.
func (c *Client) consumeStream(ctx context.Context, body io.ReadCloser, chunks chan<- StreamChunk) {
	// The one resource-safety guarantee in this package: the body is
	// released no matter how this goroutine exits.
	defer body.Close()
	defer close(chunks)

	// bufio keeps partial lines across reads, so a UTF-8 sequence split
	// between two network chunks is reassembled before decoding.
	reader := bufio.NewReader(body)

	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if chunk, ok := parseChunkLine(line); ok {
				if chunk.Type == ChunkTypeEnd {
					return // sentinel terminates without being delivered
				}
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			if err == io.EOF || errors.Is(err, context.Canceled) {
				return // server closed the stream, or consumer walked away
			}
			select {
			case chunks <- StreamChunk{Err: fmt.Errorf("stream read failed: %w", err)}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// parseChunkLine decodes one stream line. Lines without the data prefix
// yield nothing. Malformed JSON after the prefix is logged and skipped
// rather than failing the stream.
func parseChunkLine(line string) (StreamChunk, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataPrefix) {
		return StreamChunk{}, false
	}
	payload := strings.TrimPrefix(line, dataPrefix)
	if payload == "" {
		return StreamChunk{}, false
	}

	var chunk StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		log.Printf("stream: skipping malformed chunk: %v", err)
		return StreamChunk{}, false
	}
	return chunk, true
}
