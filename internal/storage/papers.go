// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// papers.go - Bounded recent-papers list.
//
// Every successful research run prepends its synthesized paper here. The
// list is capped at five entries, newest first, and persisted as a single
// JSON file. Writes are last-writer-wins; concurrent processes are not
// coordinated, which mirrors how the stored data is used (a small
// convenience cache, not a system of record).
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// MaxRecentPapers caps the recent-papers list.
const MaxRecentPapers = 5

// recentPapersFile is the file name under the store directory.
const recentPapersFile = "recent_research_papers.json"

// PaperStore persists the bounded recent-papers list.
type PaperStore struct {
	// Dir is the directory holding the papers file.
	// Default: ~/.agentify/
	Dir string
}

// NewPaperStore creates a store under the user's home directory.
func NewPaperStore() (*PaperStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewPaperStoreWithDir(filepath.Join(homeDir, ".agentify"))
}

// NewPaperStoreWithDir creates a store with a custom directory.
func NewPaperStoreWithDir(dir string) (*PaperStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PaperStore{Dir: dir}, nil
}

// Recent returns the stored papers, newest first. A missing or corrupt
// file yields an empty list rather than an error; the cache is disposable.
func (s *PaperStore) Recent() []model.Paper {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		return nil
	}
	var papers []model.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil
	}
	if len(papers) > MaxRecentPapers {
		papers = papers[:MaxRecentPapers]
	}
	return papers
}

// Add prepends a paper and persists the capped list. The newest paper is
// always at index 0.
func (s *PaperStore) Add(paper model.Paper) error {
	papers := append([]model.Paper{paper}, s.Recent()...)
	if len(papers) > MaxRecentPapers {
		papers = papers[:MaxRecentPapers]
	}
	return s.write(papers)
}

// Clear removes the stored list.
func (s *PaperStore) Clear() error {
	err := os.Remove(s.filePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *PaperStore) write(papers []model.Paper) error {
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recent papers: %w", err)
	}
	return util.AtomicWriteFile(s.filePath(), data, 0600)
}

func (s *PaperStore) filePath() string {
	return filepath.Join(s.Dir, recentPapersFile)
}
