// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahryar908/agentify-sub000/internal/api"
)

// =============================================================================
// STREAM RUNNER
// =============================================================================

// StreamRunner bridges backend streams and the Bubble Tea program. It runs
// in its own goroutine, consuming the chunk channel from the API client and
// forwarding typed messages via program.Send.
type StreamRunner struct {
	program *tea.Program
	client  *api.Client
}

// NewStreamRunner creates a stream runner.
func NewStreamRunner(program *tea.Program, client *api.Client) *StreamRunner {
	return &StreamRunner{
		program: program,
		client:  client,
	}
}

// RunChat streams an agent chat response, forwarding content tokens.
func (r *StreamRunner) RunChat(ctx context.Context, agentID, message, messageID string) {
	r.run(ctx, agentID, message, messageID, false)
}

// RunResearch streams a research pipeline, forwarding progress and result
// chunks alongside any content.
func (r *StreamRunner) RunResearch(ctx context.Context, agentID, topic, messageID string) {
	r.run(ctx, agentID, topic, messageID, true)
}

func (r *StreamRunner) run(ctx context.Context, agentID, message, messageID string, research bool) {
	chunks, err := r.client.StreamChat(ctx, agentID, message)
	if err != nil {
		r.program.Send(StreamErrorMsg{MessageID: messageID, Error: err})
		return
	}

	r.program.Send(StreamStartMsg{MessageID: messageID, StartTime: time.Now()})

	isFirst := true

	for chunk := range chunks {
		if chunk.Err != nil {
			r.program.Send(StreamErrorMsg{MessageID: messageID, Error: chunk.Err})
			return
		}

		switch chunk.Type {
		case api.ChunkTypeContent:
			if chunk.Content != "" {
				r.program.Send(StreamTokenMsg{
					MessageID: messageID,
					Token:     chunk.Content,
					IsFirst:   isFirst,
				})
				isFirst = false
			}
		case api.ChunkTypeProgress, api.ChunkTypeSuccess, api.ChunkTypePartialSuccess,
			api.ChunkTypeError, api.ChunkTypePaper:
			if research {
				r.program.Send(ResearchChunkMsg{MessageID: messageID, Chunk: chunk})
			} else if chunk.Type == api.ChunkTypeError {
				r.program.Send(StreamErrorMsg{
					MessageID: messageID,
					Error:     &api.APIError{Message: chunk.Content},
				})
				return
			}
		}
	}

	if research {
		r.program.Send(ResearchDoneMsg{MessageID: messageID})
		return
	}
	r.program.Send(StreamCompleteMsg{MessageID: messageID})
}
