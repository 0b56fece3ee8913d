// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// library.go - SQLite-backed document store with full-text search.
//
// The library collects what the user has produced and read: papers
// synthesized by research runs, blog posts fetched from the backend, and
// files dropped into the downloads directory. Everything is searchable
// offline through an FTS5 index.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/model"
)

// Document kinds.
const (
	KindPaper = "paper"
	KindPost  = "post"
	KindFile  = "file"
)

// indexableExtensions are the file types picked up from the downloads dir.
var indexableExtensions = map[string]bool{
	".md":  true,
	".txt": true,
	".pdf": true,
}

// =============================================================================
// LIBRARY
// =============================================================================

// Library is the local document index. Safe for concurrent use; SQLite
// serializes writers.
type Library struct {
	db   *sql.DB
	path string
}

// Open creates or opens the library database at path.
func Open(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open library database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize library schema: %w", err)
	}
	lib := &Library{db: db, path: path}
	if err := lib.setMetadata("schema_version", fmt.Sprint(SchemaVersion)); err != nil {
		db.Close()
		return nil, err
	}
	return lib, nil
}

// DefaultPath returns the library database location under the config dir.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".agentify", "library.db"), nil
}

// Close releases the database handle.
func (l *Library) Close() error {
	return l.db.Close()
}

func (l *Library) setMetadata(key, value string) error {
	_, err := l.db.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// =============================================================================
// ADDING DOCUMENTS
// =============================================================================

// upsert inserts or replaces a document by ref.
func (l *Library) upsert(ref, kind, title, author, content, sourcePath string) error {
	_, err := l.db.Exec(
		`INSERT INTO documents (ref, kind, title, author, content, source_path, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(ref) DO UPDATE SET
		     title = excluded.title,
		     author = excluded.author,
		     content = excluded.content,
		     source_path = excluded.source_path,
		     added_at = excluded.added_at`,
		ref, kind, title, author, content, sourcePath, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cannot index document %q: %w", ref, err)
	}
	return nil
}

// AddPaper indexes a synthesized research paper.
func (l *Library) AddPaper(paper *model.Paper) error {
	content := paper.Abstract + "\n" + strings.Join(paper.Sections, "\n")
	return l.upsert(paper.ID, KindPaper, paper.Title, paper.Author, content, paper.DownloadRef)
}

// AddPost caches a blog post for offline search.
func (l *Library) AddPost(post *api.BlogPost) error {
	content := post.Excerpt
	if post.Content != "" {
		content = post.Content
	}
	author := post.AgentType
	return l.upsert("post:"+post.Slug, KindPost, post.Title, author, content, "")
}

// AddFile indexes a file from the downloads directory. Text formats are
// stored with their content; PDFs are indexed by name only.
func (l *Library) AddFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !indexableExtensions[ext] {
		return nil
	}

	title := strings.TrimSuffix(filepath.Base(path), ext)
	content := ""
	if ext != ".pdf" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		content = string(data)
	}
	return l.upsert("file:"+path, KindFile, title, "", content, path)
}

// Remove drops a document by ref.
func (l *Library) Remove(ref string) error {
	_, err := l.db.Exec(`DELETE FROM documents WHERE ref = ?`, ref)
	return err
}

// IndexDir walks a directory and indexes every indexable file in it.
// Returns the number of files indexed.
func (l *Library) IndexDir(dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if info.IsDir() {
			return nil
		}
		if !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if err := l.AddFile(path); err != nil {
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchResult is one FTS match.
type SearchResult struct {
	Ref        string
	Kind       string
	Title      string
	Author     string
	Snippet    string
	SourcePath string
	AddedAt    time.Time
}

// Search runs a full-text query over the library, best matches first.
func (l *Library) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	ftsQuery := sanitizeFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := l.db.Query(
		`SELECT d.ref, d.kind, d.title, COALESCE(d.author, ''),
		        snippet(documents_fts, 2, '[', ']', '...', 12),
		        COALESCE(d.source_path, ''), d.added_at
		 FROM documents_fts
		 JOIN documents d ON d.id = documents_fts.rowid
		 WHERE documents_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var addedAt int64
		if err := rows.Scan(&r.Ref, &r.Kind, &r.Title, &r.Author, &r.Snippet, &r.SourcePath, &addedAt); err != nil {
			return nil, err
		}
		r.AddedAt = time.Unix(addedAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// sanitizeFTSQuery quotes each term so user input cannot inject FTS5
// query syntax.
func sanitizeFTSQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}

// =============================================================================
// STATS
// =============================================================================

// Stats summarizes the library contents.
type Stats struct {
	Papers int
	Posts  int
	Files  int
}

// Stats returns document counts by kind.
func (l *Library) Stats() (Stats, error) {
	rows, err := l.db.Query(`SELECT kind, COUNT(*) FROM documents GROUP BY kind`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return Stats{}, err
		}
		switch kind {
		case KindPaper:
			stats.Papers = count
		case KindPost:
			stats.Posts = count
		case KindFile:
			stats.Files = count
		}
	}
	return stats, rows.Err()
}
