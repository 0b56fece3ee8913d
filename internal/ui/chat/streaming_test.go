// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestStreamingBuffer_BatchSizeFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	// Below the batch threshold and inside the frame interval, no flush.
	sb.Write("a")
	if content, ok := sb.Flush(); ok {
		t.Errorf("flushed too early: %q", content)
	}

	for i := 0; i < 20; i++ {
		sb.Write("x")
	}
	content, ok := sb.Flush()
	if !ok {
		t.Fatal("expected flush after batch threshold")
	}
	if len(content) != 21 {
		t.Errorf("got %d chars, want 21", len(content))
	}
}

func TestStreamingBuffer_TimeBasedFlush(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("slow")

	time.Sleep(40 * time.Millisecond)

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("expected time-based flush")
	}
	if content != "slow" {
		t.Errorf("got %q, want %q", content, "slow")
	}
}

func TestStreamingBuffer_ForceFlush(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("tail")

	content, ok := sb.ForceFlush()
	if !ok || content != "tail" {
		t.Errorf("ForceFlush = %q, %v", content, ok)
	}

	// Second force flush finds nothing.
	if _, ok := sb.ForceFlush(); ok {
		t.Error("flush of empty buffer reported content")
	}
}

func TestStreamingBuffer_Reset(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("discard me")
	sb.Reset()

	if sb.Pending() != 0 {
		t.Errorf("pending = %d after reset", sb.Pending())
	}
	if _, ok := sb.ForceFlush(); ok {
		t.Error("content survived reset")
	}
}

func TestStreamingBuffer_ConcurrentWrites(t *testing.T) {
	sb := NewStreamingBuffer()

	var wg sync.WaitGroup
	const writers = 8
	const perWriter = 100

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				sb.Write(strconv.Itoa(id))
			}
		}(w)
	}
	wg.Wait()

	content, ok := sb.ForceFlush()
	if !ok {
		t.Fatal("expected buffered content")
	}
	if len(content) != writers*perWriter {
		t.Errorf("got %d chars, want %d", len(content), writers*perWriter)
	}
}
