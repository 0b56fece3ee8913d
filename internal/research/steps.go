// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package research tracks the backend's five-stage research pipeline
// client-side, purely for progress display and for capturing the
// generated paper at the end.
//
// The tracker is a fold over the chunk stream: progress chunks move the
// step state machine, terminal chunks settle the outcome. It does not
// guard against out-of-order step tokens from the server; a token that
// jumps ahead resets the skipped steps to pending.
package research

import "fmt"

// StepStatus is the lifecycle state of one pipeline step.
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusInProgress StepStatus = "in_progress"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// Step progress percentages. The in-progress value is a fixed midpoint,
// not a measured percentage.
const (
	progressNone       = 0
	progressInProgress = 50
	progressComplete   = 100
)

// Step is one stage of the research pipeline as shown to the user.
type Step struct {
	ID          string
	Title       string
	Description string
	Status      StepStatus
	Progress    int
}

// stepTokens maps the server's step tokens to pipeline indices.
var stepTokens = map[string]int{
	"searching_papers":    0,
	"analyzing_papers":    1,
	"identifying_gaps":    2,
	"generating_proposal": 3,
	"creating_pdf":        4,
}

// NumSteps is the fixed length of the pipeline.
const NumSteps = 5

// defaultSteps returns the pipeline's five steps, all pending.
func defaultSteps() []Step {
	return []Step{
		{ID: "searching_papers", Title: "Searching Papers", Description: "Finding relevant papers on arXiv", Status: StatusPending},
		{ID: "analyzing_papers", Title: "Analyzing Papers", Description: "Reading and summarizing the findings", Status: StatusPending},
		{ID: "identifying_gaps", Title: "Identifying Gaps", Description: "Spotting open problems in the literature", Status: StatusPending},
		{ID: "generating_proposal", Title: "Generating Proposal", Description: "Drafting a research proposal", Status: StatusPending},
		{ID: "creating_pdf", Title: "Creating PDF", Description: "Rendering the paper to PDF", Status: StatusPending},
	}
}

// StepIndex returns the pipeline index for a server step token, or -1 for
// unknown tokens.
func StepIndex(token string) int {
	if i, ok := stepTokens[token]; ok {
		return i
	}
	return -1
}

// StatusIcon returns the display icon for a step status.
func (s StepStatus) StatusIcon() string {
	switch s {
	case StatusPending:
		return "[ ]"
	case StatusInProgress:
		return "[>]"
	case StatusCompleted:
		return "[OK]"
	case StatusError:
		return "[X]"
	default:
		return "[?]"
	}
}

// Summary returns a one-line rendering of the step for plain output.
func (s Step) Summary() string {
	return fmt.Sprintf("%s %s (%d%%)", s.Status.StatusIcon(), s.Title, s.Progress)
}
