// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package library provides the local searchable library of generated
// papers and cached blog posts.
package library

// SchemaVersion tracks the database schema version for migrations.
const SchemaVersion = 1

// Schema is the SQLite schema with FTS (Full Text Search).
const Schema = `
-- Metadata table for schema version and library state
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Documents table: generated papers, cached blog posts, downloaded files
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ref TEXT NOT NULL UNIQUE,   -- paper ID, post slug, or file path
    kind TEXT NOT NULL,         -- paper, post, file
    title TEXT NOT NULL,
    author TEXT,
    content TEXT,               -- abstract, post body, or extracted text
    source_path TEXT,           -- on-disk file, when one exists
    added_at INTEGER NOT NULL   -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
CREATE INDEX IF NOT EXISTS idx_documents_ref ON documents(ref);

-- Full-text search virtual table over documents
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title,
    author,
    content,
    content='documents',
    content_rowid='id'
);

-- Keep the FTS table in sync with the documents table
CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, title, author, content)
    VALUES (new.id, new.title, new.author, new.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, author, content)
    VALUES ('delete', old.id, old.title, old.author, old.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, author, content)
    VALUES ('delete', old.id, old.title, old.author, old.content);
    INSERT INTO documents_fts(rowid, title, author, content)
    VALUES (new.id, new.title, new.author, new.content);
END;
`
