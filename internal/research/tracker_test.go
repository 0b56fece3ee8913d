// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package research

import (
	"testing"

	"github.com/shahryar908/agentify-sub000/internal/api"
)

func progressChunk(token string) api.StreamChunk {
	return api.StreamChunk{Type: api.ChunkTypeProgress, Step: token}
}

// TestTracker_SkipAheadResetsIntermediate reproduces the token sequence
// [searching_papers, analyzing_papers, generating_proposal]: after the
// third token, steps 0 and 1 are completed, step 3 is in progress, and the
// skipped step 2 is reset to pending.
func TestTracker_SkipAheadResetsIntermediate(t *testing.T) {
	tr := NewTracker("quantum widgets")
	tr.Apply(progressChunk("searching_papers"))
	tr.Apply(progressChunk("analyzing_papers"))
	tr.Apply(progressChunk("generating_proposal"))

	wantStatus := []StepStatus{
		StatusCompleted,  // searching_papers
		StatusCompleted,  // analyzing_papers
		StatusPending,    // identifying_gaps, skipped and reset
		StatusInProgress, // generating_proposal
		StatusPending,    // creating_pdf
	}
	wantProgress := []int{100, 100, 0, 50, 0}

	for i, step := range tr.Steps {
		if step.Status != wantStatus[i] {
			t.Errorf("step %d status = %q, want %q", i, step.Status, wantStatus[i])
		}
		if step.Progress != wantProgress[i] {
			t.Errorf("step %d progress = %d, want %d", i, step.Progress, wantProgress[i])
		}
	}
	if tr.CurrentIndex() != 3 {
		t.Errorf("CurrentIndex = %d, want 3", tr.CurrentIndex())
	}
}

// TestTracker_UnknownTokenIgnored verifies unknown step tokens cause no
// transition.
func TestTracker_UnknownTokenIgnored(t *testing.T) {
	tr := NewTracker("topic")
	tr.Apply(progressChunk("searching_papers"))
	tr.Apply(progressChunk("reticulating_splines"))

	if tr.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex = %d, want 0 after unknown token", tr.CurrentIndex())
	}
	if tr.Steps[0].Status != StatusInProgress {
		t.Errorf("step 0 status = %q, want in_progress preserved", tr.Steps[0].Status)
	}
}

// TestTracker_ErrorForcesAllSteps verifies an error chunk absorbs every
// step and surfaces the message verbatim.
func TestTracker_ErrorForcesAllSteps(t *testing.T) {
	tr := NewTracker("topic")
	tr.Apply(progressChunk("analyzing_papers"))
	tr.Apply(api.StreamChunk{Type: api.ChunkTypeError, Content: "arXiv rate limit: try later"})

	for i, step := range tr.Steps {
		if step.Status != StatusError {
			t.Errorf("step %d status = %q, want error", i, step.Status)
		}
	}
	if tr.Outcome != OutcomeError {
		t.Errorf("Outcome = %q, want error", tr.Outcome)
	}
	if tr.Message != "arXiv rate limit: try later" {
		t.Errorf("Message = %q, want verbatim error message", tr.Message)
	}
}

// TestTracker_SuccessCompletesAndSynthesizesPaper verifies the success
// terminal completes all steps and builds the artifact.
func TestTracker_SuccessCompletesAndSynthesizesPaper(t *testing.T) {
	tr := NewTracker("quantum widgets")
	tr.Apply(progressChunk("creating_pdf"))
	tr.Apply(api.StreamChunk{
		Type:   api.ChunkTypeSuccess,
		Result: &api.StreamResult{Title: "Quantum Widgets: A Survey", PDFPath: "/papers/qw.pdf"},
	})

	for i, step := range tr.Steps {
		if step.Status != StatusCompleted || step.Progress != 100 {
			t.Errorf("step %d = %q/%d, want completed/100", i, step.Status, step.Progress)
		}
	}
	if tr.Paper == nil {
		t.Fatal("Paper = nil, want synthesized artifact")
	}
	if tr.Paper.Title != "Quantum Widgets: A Survey" {
		t.Errorf("Paper.Title = %q, want backend title", tr.Paper.Title)
	}
	if tr.Paper.DownloadRef != "/papers/qw.pdf" {
		t.Errorf("DownloadRef = %q, want pdf_path", tr.Paper.DownloadRef)
	}
	if tr.Paper.Author == "" || len(tr.Paper.Sections) == 0 {
		t.Error("Paper missing static author label or section list")
	}
}

// TestTracker_SuccessWithoutPDFPath verifies the placeholder download ref.
func TestTracker_SuccessWithoutPDFPath(t *testing.T) {
	tr := NewTracker("topic")
	tr.Apply(api.StreamChunk{Type: api.ChunkTypeSuccess, Result: &api.StreamResult{}})

	if tr.Paper.DownloadRef != PlaceholderDownloadRef {
		t.Errorf("DownloadRef = %q, want placeholder", tr.Paper.DownloadRef)
	}
}

// TestTracker_PartialSuccess verifies steps up to the last known index are
// completed and the rest stay pending.
func TestTracker_PartialSuccess(t *testing.T) {
	tr := NewTracker("topic")
	tr.Apply(progressChunk("searching_papers"))
	tr.Apply(progressChunk("analyzing_papers"))
	tr.Apply(api.StreamChunk{Type: api.ChunkTypePartialSuccess, Content: "Error: PDF rendering unavailable"})

	wantStatus := []StepStatus{StatusCompleted, StatusCompleted, StatusPending, StatusPending, StatusPending}
	for i, step := range tr.Steps {
		if step.Status != wantStatus[i] {
			t.Errorf("step %d status = %q, want %q", i, step.Status, wantStatus[i])
		}
	}
	if tr.Outcome != OutcomePartialSuccess {
		t.Errorf("Outcome = %q, want partial_success", tr.Outcome)
	}
	if tr.Message != "PDF rendering unavailable" {
		t.Errorf("Message = %q, want cleaned message", tr.Message)
	}
}

// TestTracker_TerminalOutcomeIsFinal verifies chunks after a terminal
// outcome are ignored.
func TestTracker_TerminalOutcomeIsFinal(t *testing.T) {
	tr := NewTracker("topic")
	tr.Apply(api.StreamChunk{Type: api.ChunkTypeError, Content: "boom"})
	tr.Apply(progressChunk("searching_papers"))

	if tr.Steps[0].Status != StatusError {
		t.Errorf("step 0 status = %q, want error preserved after terminal outcome", tr.Steps[0].Status)
	}
}

// TestStepIndex covers the fixed token table.
func TestStepIndex(t *testing.T) {
	cases := map[string]int{
		"searching_papers":    0,
		"analyzing_papers":    1,
		"identifying_gaps":    2,
		"generating_proposal": 3,
		"creating_pdf":        4,
		"unknown_token":       -1,
		"":                    -1,
	}
	for token, want := range cases {
		if got := StepIndex(token); got != want {
			t.Errorf("StepIndex(%q) = %d, want %d", token, got, want)
		}
	}
}
