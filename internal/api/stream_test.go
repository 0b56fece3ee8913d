// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// collectChunks drains a chunk channel with a safety timeout.
func collectChunks(t *testing.T, chunks <-chan StreamChunk) []StreamChunk {
	t.Helper()
	var out []StreamChunk
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				return out
			}
			out = append(out, chunk)
		case <-timeout:
			t.Fatal("timed out draining stream")
		}
	}
}

// streamServer serves the given raw bytes as a chat stream response.
func streamServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
}

// =============================================================================
// STREAM CONSUMPTION TESTS
// =============================================================================

// TestStreamChat_EndSentinelTerminates verifies the end chunk terminates
// the sequence and is never delivered.
func TestStreamChat_EndSentinelTerminates(t *testing.T) {
	server := streamServer(
		"data: {\"type\":\"start\"}\n" +
			"data: {\"type\":\"content\",\"content\":\"hello\"}\n" +
			"data: {\"type\":\"end\"}\n" +
			"data: {\"type\":\"content\",\"content\":\"after end, never seen\"}\n")
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2 (end must terminate without being delivered)", len(got))
	}
	if got[0].Type != ChunkTypeStart || got[1].Type != ChunkTypeContent {
		t.Errorf("chunk types = %q, %q; want start, content", got[0].Type, got[1].Type)
	}
	for _, chunk := range got {
		if chunk.Type == ChunkTypeEnd {
			t.Error("end sentinel was delivered to the consumer")
		}
	}
}

// TestStreamChat_NonDataLinesIgnored verifies lines without the data prefix
// yield no chunk and do not fail the stream.
func TestStreamChat_NonDataLinesIgnored(t *testing.T) {
	server := streamServer(
		": keepalive comment\n" +
			"\n" +
			"event: something\n" +
			"data: {\"type\":\"content\",\"content\":\"only me\"}\n" +
			"random garbage line\n")
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Content != "only me" {
		t.Errorf("Content = %q, want %q", got[0].Content, "only me")
	}
	if got[0].Err != nil {
		t.Errorf("unexpected stream error: %v", got[0].Err)
	}
}

// TestStreamChat_MalformedJSONSkipped verifies corrupt frames are skipped
// while the stream keeps delivering later frames.
func TestStreamChat_MalformedJSONSkipped(t *testing.T) {
	server := streamServer(
		"data: {\"type\":\"content\",\"content\":\"first\"}\n" +
			"data: {not json at all\n" +
			"data: {\"type\":\"content\",\"content\":\"second\"}\n")
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2 (malformed frame must be skipped)", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("contents = %q, %q; want first, second", got[0].Content, got[1].Content)
	}
}

// TestStreamChat_MultibyteSplitAcrossReads verifies a UTF-8 sequence split
// between two network writes decodes to the correct character.
func TestStreamChat_MultibyteSplitAcrossReads(t *testing.T) {
	// "héllo wörld 日本語" with the multibyte runes' bytes split mid-sequence
	// across two flushed writes.
	full := "data: {\"type\":\"content\",\"content\":\"héllo wörld 日本語\"}\n"
	raw := []byte(full)
	// Split inside the é (bytes 0xC3 0xA9) which sits after `content\":\"h`.
	split := 0
	for i, b := range raw {
		if b == 0xC3 {
			split = i + 1 // between the two bytes of é
			break
		}
	}
	if split == 0 {
		t.Fatal("test setup: no multibyte boundary found")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write(raw[:split])
		flusher.Flush()
		time.Sleep(20 * time.Millisecond)
		w.Write(raw[split:])
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Content != "héllo wörld 日本語" {
		t.Errorf("Content = %q, want multibyte characters intact", got[0].Content)
	}
}

// TestStreamChat_ServerCloseWithoutEnd verifies a stream closed without the
// sentinel simply ends.
func TestStreamChat_ServerCloseWithoutEnd(t *testing.T) {
	server := streamServer("data: {\"type\":\"content\",\"content\":\"partial\"}\n")
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Err != nil {
		t.Errorf("server close without sentinel produced error: %v", got[0].Err)
	}
}

// TestStreamChat_ErrorStatus verifies a non-2xx streaming response is
// classified as an APIError before any chunk is delivered.
func TestStreamChat_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "agent not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.StreamChat(context.Background(), "missing", "hi")
	if err == nil {
		t.Fatal("expected error for 404 stream, got nil")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "agent not found" {
		t.Errorf("Message = %q, want backend detail", apiErr.Message)
	}
}

// TestStreamChat_ConsumerCancellation verifies abandoning the stream via
// context cancellation ends the sequence and closes the channel.
func TestStreamChat_ConsumerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < 1000; i++ {
			fmt.Fprintf(w, "data: {\"type\":\"content\",\"content\":\"tok%d\"}\n", i)
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL)
	chunks, err := client.StreamChat(ctx, "a1", "hi")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	// Consume a few chunks then walk away.
	for i := 0; i < 3; i++ {
		if _, ok := <-chunks; !ok {
			t.Fatal("stream ended before cancellation")
		}
	}
	cancel()

	// Channel must close promptly after cancellation.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-chunks:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancellation")
		}
	}
}

// TestStreamChat_ProgressChunkFields verifies progress and success chunk
// fields decode into the right places.
func TestStreamChat_ProgressChunkFields(t *testing.T) {
	server := streamServer(
		"data: {\"type\":\"progress\",\"step\":\"searching_papers\",\"content\":\"Searching arXiv\"}\n" +
			"data: {\"type\":\"success\",\"result\":{\"title\":\"Quantum Widgets\",\"pdf_path\":\"/papers/qw.pdf\"}}\n" +
			"data: {\"type\":\"end\"}\n")
	defer server.Close()

	client := NewClient(server.URL)
	chunks, err := client.StreamChat(context.Background(), "a1", "research quantum widgets")
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	got := collectChunks(t, chunks)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Step != "searching_papers" {
		t.Errorf("Step = %q, want searching_papers", got[0].Step)
	}
	if got[1].Result == nil || got[1].Result.Title != "Quantum Widgets" {
		t.Errorf("Result = %+v, want title Quantum Widgets", got[1].Result)
	}
	if got[1].Result.PDFPath != "/papers/qw.pdf" {
		t.Errorf("PDFPath = %q, want /papers/qw.pdf", got[1].Result.PDFPath)
	}
}
