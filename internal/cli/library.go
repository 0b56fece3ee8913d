// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// library.go - Local research library commands: search, index, watch, stats.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shahryar908/agentify-sub000/internal/library"
)

// openLibrary resolves the library path, honoring a --path override.
func openLibrary(args Args) (*library.Library, error) {
	path := args.Options["path"]
	if path == "" {
		var err error
		path, err = library.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return library.Open(path)
}

// HandleLibrary dispatches the "library" subcommands.
func HandleLibrary(args Args) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "search":
		return librarySearch(args)
	case "index":
		return libraryIndex(args)
	case "watch":
		return libraryWatch(args)
	case "stats":
		return libraryStats(args)
	default:
		return fmt.Errorf("unknown library subcommand %q, try: search, index, watch, stats", args.Subcommand)
	}
}

func librarySearch(args Args) error {
	query := strings.Join(args.Raw, " ")
	if query == "" {
		return fmt.Errorf("usage: agentify library search <query>")
	}

	lib, err := openLibrary(args)
	if err != nil {
		return err
	}
	defer lib.Close()

	limit := 10
	if v, ok := args.Options["limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := lib.Search(query, limit)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	if len(results) == 0 {
		fmt.Println(DimStyle.Render("No matches."))
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s %s %s\n",
			RenderStatus("ok"), HighlightStyle.Render(r.Title), DimStyle.Render("("+r.Kind+")"))
		if r.Snippet != "" {
			fmt.Println("    " + WrapText(r.Snippet, GetTerminalWidth()-4))
		}
		if r.SourcePath != "" {
			fmt.Println("    " + DimStyle.Render(r.SourcePath))
		}
	}
	return nil
}

func libraryIndex(args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify library index <dir>")
	}
	dir := args.Raw[0]
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("cannot index %s: %w", dir, err)
	}

	lib, err := openLibrary(args)
	if err != nil {
		return err
	}
	defer lib.Close()

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "Indexing %s...\n", dir)
	}
	count, err := lib.IndexDir(dir)
	if err != nil {
		return err
	}
	fmt.Printf("%s %d documents indexed\n", SuccessStyle.Render("Done:"), count)
	return nil
}

// libraryWatch indexes the directory, then keeps it in sync until interrupted.
func libraryWatch(args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify library watch <dir>")
	}
	dir := args.Raw[0]

	lib, err := openLibrary(args)
	if err != nil {
		return err
	}
	defer lib.Close()

	if count, err := lib.IndexDir(dir); err == nil && !args.Quiet {
		fmt.Fprintf(os.Stderr, "Indexed %d existing documents.\n", count)
	}

	watcher, err := library.NewWatcher(lib, dir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)...\n", dir)
	}
	<-ctx.Done()
	return nil
}

func libraryStats(args Args) error {
	lib, err := openLibrary(args)
	if err != nil {
		return err
	}
	defer lib.Close()

	stats, err := lib.Stats()
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}

	fmt.Println(TitleStyle.Render("Library"))
	fmt.Printf("%s%d\n", LabelStyle.Render("Papers"), stats.Papers)
	fmt.Printf("%s%d\n", LabelStyle.Render("Posts"), stats.Posts)
	fmt.Printf("%s%d\n", LabelStyle.Render("Files"), stats.Files)
	return nil
}
