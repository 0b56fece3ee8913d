// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// papers.go - Recent research papers commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shahryar908/agentify-sub000/internal/storage"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// HandlePapers dispatches the "papers" subcommands.
func HandlePapers(args Args) error {
	store, err := storage.NewPaperStore()
	if err != nil {
		return fmt.Errorf("cannot open paper store: %w", err)
	}

	switch strings.ToLower(args.Subcommand) {
	case "", "list", "ls":
		return papersList(store, args)
	case "show":
		return papersShow(store, args)
	case "clear":
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Recent papers cleared."))
		return nil
	default:
		return fmt.Errorf("unknown papers subcommand %q, try: list, show, clear", args.Subcommand)
	}
}

func papersList(store *storage.PaperStore, args Args) error {
	papers := store.Recent()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println(DimStyle.Render("No recent papers. Run: agentify research <topic>"))
		return nil
	}

	fmt.Println(TitleStyle.Render("Recent Research Papers"))
	for i, paper := range papers {
		fmt.Printf("%d. %s\n", i+1, HighlightStyle.Render(paper.Title))
		fmt.Printf("   %s\n", DimStyle.Render(paper.GeneratedAt.Format("2006-01-02 15:04")))
		if paper.Abstract != "" {
			fmt.Printf("   %s\n", util.TruncateRunes(paper.Abstract, 100))
		}
	}
	return nil
}

// papersShow prints one paper in full, selected by its 1-based list index.
func papersShow(store *storage.PaperStore, args Args) error {
	papers := store.Recent()
	if len(papers) == 0 {
		return fmt.Errorf("no recent papers")
	}

	index := 1
	if len(args.Raw) > 0 {
		fmt.Sscanf(args.Raw[0], "%d", &index)
	}
	if index < 1 || index > len(papers) {
		return fmt.Errorf("paper index %d out of range (1-%d)", index, len(papers))
	}
	paper := papers[index-1]

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(paper)
	}

	fmt.Println(TitleStyle.Render(paper.Title))
	if paper.Author != "" {
		fmt.Printf("%s%s\n", LabelStyle.Render("Author"), paper.Author)
	}
	fmt.Printf("%s%s\n", LabelStyle.Render("Generated"), paper.GeneratedAt.Format("2006-01-02 15:04"))
	if paper.DownloadRef != "" {
		fmt.Printf("%s%s\n", LabelStyle.Render("Download"), paper.DownloadRef)
	}
	if paper.Abstract != "" {
		fmt.Println()
		fmt.Println(SectionStyle.Render("Abstract"))
		fmt.Println(WrapText(paper.Abstract, GetTerminalWidth()))
	}
	if len(paper.Sections) > 0 {
		fmt.Println()
		fmt.Println(SectionStyle.Render("Sections"))
		for _, section := range paper.Sections {
			fmt.Println("  - " + section)
		}
	}
	return nil
}
