// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/model"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestLibrary_AddAndSearchPaper(t *testing.T) {
	lib := newTestLibrary(t)

	paper := &model.Paper{
		ID:       "p1",
		Title:    "Sparse Attention for Long Documents",
		Author:   model.PaperAuthorLabel,
		Abstract: "We study efficient attention over long sequences.",
		Sections: model.PaperSectionNames,
	}
	if err := lib.AddPaper(paper); err != nil {
		t.Fatalf("AddPaper failed: %v", err)
	}

	results, err := lib.Search("attention", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Kind != KindPaper || results[0].Ref != "p1" {
		t.Errorf("result = %+v, want paper p1", results[0])
	}
}

func TestLibrary_AddPostAndUpsert(t *testing.T) {
	lib := newTestLibrary(t)

	post := &api.BlogPost{Slug: "agents-101", Title: "Agents 101", Excerpt: "An introduction to agents."}
	if err := lib.AddPost(post); err != nil {
		t.Fatalf("AddPost failed: %v", err)
	}

	// Re-adding the same slug updates rather than duplicating.
	post.Title = "Agents 101, Revised"
	if err := lib.AddPost(post); err != nil {
		t.Fatalf("AddPost update failed: %v", err)
	}

	results, err := lib.Search("agents", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (upsert, not duplicate)", len(results))
	}
	if results[0].Title != "Agents 101, Revised" {
		t.Errorf("Title = %q, want updated title", results[0].Title)
	}
}

func TestLibrary_IndexDir(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()

	files := map[string]string{
		"notes.md":    "# Meeting notes about quantum computing",
		"paper.txt":   "plain text research summary",
		"image.png":   "not indexable",
		"report.pdf":  "",
		"ignored.exe": "nope",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := lib.IndexDir(dir)
	if err != nil {
		t.Fatalf("IndexDir failed: %v", err)
	}
	if count != 3 {
		t.Errorf("indexed %d files, want 3 (md, txt, pdf)", count)
	}

	results, err := lib.Search("quantum", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results for quantum, want 1", len(results))
	}
}

func TestLibrary_SearchInjection(t *testing.T) {
	lib := newTestLibrary(t)
	if err := lib.AddPaper(&model.Paper{ID: "p1", Title: "Safe Title"}); err != nil {
		t.Fatal(err)
	}

	// FTS5 operators in user input must not cause query errors.
	for _, query := range []string{`"unclosed`, "NEAR(", "a AND", "col:val", "*"} {
		if _, err := lib.Search(query, 10); err != nil {
			t.Errorf("Search(%q) failed: %v", query, err)
		}
	}
}

func TestLibrary_Stats(t *testing.T) {
	lib := newTestLibrary(t)
	if err := lib.AddPaper(&model.Paper{ID: "p1", Title: "One"}); err != nil {
		t.Fatal(err)
	}
	if err := lib.AddPaper(&model.Paper{ID: "p2", Title: "Two"}); err != nil {
		t.Fatal(err)
	}
	if err := lib.AddPost(&api.BlogPost{Slug: "s", Title: "Post"}); err != nil {
		t.Fatal(err)
	}

	stats, err := lib.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Papers != 2 || stats.Posts != 1 || stats.Files != 0 {
		t.Errorf("stats = %+v, want 2 papers, 1 post", stats)
	}
}

func TestWatcher_IndexesNewFiles(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()

	watcher, err := NewWatcher(lib, dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	path := filepath.Join(dir, "dropped.md")
	if err := os.WriteFile(path, []byte("fresh research on graph networks"), 0644); err != nil {
		t.Fatal(err)
	}

	// The watcher indexes asynchronously; poll for the result.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		results, err := lib.Search("graph", 10)
		if err == nil && len(results) == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not index the new file in time")
}
