// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// research.go - Research pipeline command for the agentify CLI.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/library"
	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/research"
	"github.com/shahryar908/agentify-sub000/internal/storage"
)

// HandleResearch runs the research pipeline against the autonomous agent,
// printing step progress as the stream reports it.
func HandleResearch(args Args) error {
	topic := strings.TrimSpace(args.Query)
	if topic == "" {
		return fmt.Errorf("no topic given; usage: agentify research \"topic\"")
	}

	client := newClient(args)
	ctx := context.Background()

	// Research always runs on the autonomous agent.
	agents := client.EnsureDemoAgents(ctx)
	var agent *api.AgentInfo
	for i := range agents {
		if agents[i].AgentType == api.AgentTypeAutonomous {
			agent = &agents[i]
			break
		}
	}
	if agent == nil {
		return fmt.Errorf("no autonomous agent available at %s", client.BaseURL())
	}

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("Research: " + topic))
	}

	tracker := research.NewTracker(topic)
	printSteps(tracker, args.Quiet)

	chunks, err := client.StreamChat(ctx, agent.ID, topic)
	if err != nil {
		return err
	}

	lastIndex := -1
	for chunk := range chunks {
		if chunk.Err != nil {
			return chunk.Err
		}

		switch chunk.Type {
		case api.ChunkTypeProgress, api.ChunkTypeSuccess,
			api.ChunkTypePartialSuccess, api.ChunkTypeError:
			tracker.Apply(chunk)
			if tracker.CurrentIndex() != lastIndex || tracker.Done() {
				lastIndex = tracker.CurrentIndex()
				printSteps(tracker, args.Quiet)
			}
		case api.ChunkTypeContent:
			if args.Verbose && chunk.Content != "" {
				fmt.Fprint(os.Stderr, chunk.Content)
			}
		}
	}

	return finishResearch(tracker, args)
}

// printSteps prints the current pipeline state, one line per step.
func printSteps(tracker *research.Tracker, quiet bool) {
	if quiet {
		return
	}
	fmt.Println()
	for _, step := range tracker.Steps {
		fmt.Printf("  %s %s %s\n",
			RenderStatus(string(step.Status)),
			step.Title,
			DimStyle.Render(fmt.Sprintf("%d%%", step.Progress)),
		)
	}
}

// finishResearch reports the outcome and persists a successful paper.
func finishResearch(tracker *research.Tracker, args Args) error {
	switch tracker.Outcome {
	case research.OutcomeSuccess:
		paper := tracker.Paper
		fmt.Println()
		fmt.Println(SuccessStyle.Render("Paper generated: ") + paper.Title)
		fmt.Println(WrapText(paper.Abstract, GetTerminalWidth()))
		fmt.Println(DimStyle.Render("PDF: " + paper.DownloadRef))

		if store, err := storage.NewPaperStore(); err == nil {
			if err := store.Add(*paper); err != nil {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("could not save paper: "+err.Error()))
			}
		}
		indexPaper(paper)
		return nil

	case research.OutcomePartialSuccess:
		fmt.Println()
		fmt.Println(WarningStyle.Render("Partial result: ") + tracker.Message)
		return nil

	case research.OutcomeError:
		return fmt.Errorf("research failed: %s", tracker.Message)

	default:
		return fmt.Errorf("stream ended before the pipeline finished")
	}
}

// indexPaper adds the generated paper to the local library so it is
// searchable offline. Failures are non-fatal.
func indexPaper(paper *model.Paper) {
	path, err := library.DefaultPath()
	if err != nil {
		return
	}
	lib, err := library.Open(path)
	if err != nil {
		return
	}
	defer lib.Close()

	_ = lib.AddPaper(paper)
}
