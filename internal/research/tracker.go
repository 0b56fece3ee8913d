// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tracker.go - Fold of the streaming chunk sequence onto the pipeline
// state machine.
package research

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/model"
)

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeNone           Outcome = ""
	OutcomeSuccess        Outcome = "success"
	OutcomePartialSuccess Outcome = "partial_success"
	OutcomeError          Outcome = "error"
)

// PlaceholderDownloadRef is used when the pipeline reports no PDF path.
const PlaceholderDownloadRef = "#"

// =============================================================================
// TRACKER
// =============================================================================

// Tracker folds stream chunks into step states and a terminal outcome.
// Not safe for concurrent use; the UI owns it on a single goroutine.
type Tracker struct {
	Steps   []Step
	Outcome Outcome

	// Message is the surfaced terminal message for error and
	// partial_success outcomes.
	Message string

	// Paper is the synthesized artifact of a successful run.
	Paper *model.Paper

	// lastIndex is the most recent known step index, -1 before any
	// recognized progress token.
	lastIndex int

	// topic seeds the synthesized paper title when the result omits one.
	topic string
}

// NewTracker creates a tracker with all steps pending.
func NewTracker(topic string) *Tracker {
	return &Tracker{
		Steps:     defaultSteps(),
		lastIndex: -1,
		topic:     topic,
	}
}

// Done reports whether a terminal outcome has been reached.
func (t *Tracker) Done() bool {
	return t.Outcome != OutcomeNone
}

// CurrentIndex returns the last known step index, or -1.
func (t *Tracker) CurrentIndex() int {
	return t.lastIndex
}

// Apply folds one chunk into the tracker. Chunks after a terminal outcome
// and chunk types the tracker does not understand are ignored.
func (t *Tracker) Apply(chunk api.StreamChunk) {
	if t.Done() {
		return
	}

	switch chunk.Type {
	case api.ChunkTypeProgress:
		t.applyProgress(chunk.Step)
	case api.ChunkTypeSuccess:
		t.applySuccess(chunk.Result)
	case api.ChunkTypePartialSuccess:
		t.applyPartialSuccess(chunk)
	case api.ChunkTypeError:
		t.applyError(chunk.Content)
	}
}

// applyProgress moves the state machine to the step named by token.
// Everything before the step is forced complete, the step itself goes to
// the fixed in-progress midpoint, and everything after is reset to
// pending. Unknown tokens cause no transition.
func (t *Tracker) applyProgress(token string) {
	i := StepIndex(token)
	if i < 0 {
		return
	}
	t.lastIndex = i
	for j := range t.Steps {
		switch {
		case j < i:
			t.Steps[j].Status = StatusCompleted
			t.Steps[j].Progress = progressComplete
		case j == i:
			t.Steps[j].Status = StatusInProgress
			t.Steps[j].Progress = progressInProgress
		default:
			t.Steps[j].Status = StatusPending
			t.Steps[j].Progress = progressNone
		}
	}
}

// applySuccess completes every step and synthesizes the paper artifact.
func (t *Tracker) applySuccess(result *api.StreamResult) {
	for j := range t.Steps {
		t.Steps[j].Status = StatusCompleted
		t.Steps[j].Progress = progressComplete
	}
	t.Outcome = OutcomeSuccess
	t.Paper = SynthesizePaper(t.topic, result)
}

// applyPartialSuccess completes steps up to the last known index and
// leaves the rest pending, surfacing a cleaned message.
func (t *Tracker) applyPartialSuccess(chunk api.StreamChunk) {
	for j := range t.Steps {
		if j <= t.lastIndex {
			t.Steps[j].Status = StatusCompleted
			t.Steps[j].Progress = progressComplete
		} else {
			t.Steps[j].Status = StatusPending
			t.Steps[j].Progress = progressNone
		}
	}
	t.Outcome = OutcomePartialSuccess

	msg := chunk.Content
	if msg == "" && chunk.Result != nil {
		msg = chunk.Result.Message
	}
	t.Message = cleanPartialMessage(msg)
}

// applyError forces every step into the error state. The message is
// surfaced verbatim.
func (t *Tracker) applyError(message string) {
	for j := range t.Steps {
		t.Steps[j].Status = StatusError
	}
	t.Outcome = OutcomeError
	t.Message = message
}

// cleanPartialMessage strips technical noise from a partial-success
// message so it reads as a user-facing sentence.
func cleanPartialMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	for _, prefix := range []string{"Error:", "error:", "Exception:", "Warning:"} {
		msg = strings.TrimSpace(strings.TrimPrefix(msg, prefix))
	}
	if msg == "" {
		return "The research run finished early. Partial results are shown above."
	}
	return msg
}

// =============================================================================
// PAPER SYNTHESIS
// =============================================================================

// SynthesizePaper builds the local paper record from a success result.
// The author label, section list, and abstract text are generated
// client-side; only title and download reference come from the backend.
func SynthesizePaper(topic string, result *api.StreamResult) *model.Paper {
	title := strings.TrimSpace(topic)
	downloadRef := PlaceholderDownloadRef
	abstract := ""

	if result != nil {
		if result.Title != "" {
			title = result.Title
		}
		if result.PDFPath != "" {
			downloadRef = result.PDFPath
		}
		abstract = strings.TrimSpace(result.Summary)
	}
	if title == "" {
		title = "Generated Research Paper"
	}
	if abstract == "" {
		abstract = "This paper surveys recent work on " + title +
			", identifies open gaps in the literature, and proposes a novel research direction."
	}

	sections := make([]string, len(model.PaperSectionNames))
	copy(sections, model.PaperSectionNames)

	return &model.Paper{
		ID:          uuid.NewString(),
		Title:       title,
		Author:      model.PaperAuthorLabel,
		Abstract:    abstract,
		Sections:    sections,
		GeneratedAt: time.Now(),
		DownloadRef: downloadRef,
	}
}
