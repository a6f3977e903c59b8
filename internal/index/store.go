// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists converted documents in SQLite and serves
// full-text search over their per-page text.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/pkg/types"
)

const (
	indexDir   = "index"
	dbFile     = "pdftext.db"
	exportFile = "export.yaml"
)

// Store manages the document index SQLite database.
type Store struct {
	db         *sql.DB
	outputDir  string
	maxResults int
}

// NewStore opens or creates the index database at
// outputDir/index/pdftext.db, creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		outputDir:  cfg.OutputDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_path TEXT,
			output_path TEXT,
			backend TEXT,
			pages INTEGER,
			converted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id),
			page INTEGER NOT NULL,
			content TEXT NOT NULL,
			UNIQUE(doc_id, page)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_doc_id ON pages(doc_id)`,
		`CREATE TABLE IF NOT EXISTS index_status (
			doc_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='pages_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE pages_fts USING fts5(content, content=pages, content_rowid=rowid)`,
			`CREATE TRIGGER pages_ai AFTER INSERT ON pages BEGIN
				INSERT INTO pages_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER pages_ad AFTER DELETE ON pages BEGIN
				INSERT INTO pages_fts(pages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER pages_au AFTER UPDATE ON pages BEGIN
				INSERT INTO pages_fts(pages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO pages_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// QueryOptions filter a search.
type QueryOptions struct {
	// Query is the FTS5 full-text query.
	Query string

	// DocID restricts results to one document.
	DocID string

	// MaxResults caps the result count; 0 uses the store default.
	MaxResults int
}

// IsEmpty reports whether no query or filter was given.
func (o QueryOptions) IsEmpty() bool {
	return o.Query == "" && o.DocID == ""
}

// QueryResult is one search hit with provenance back to the source file.
type QueryResult struct {
	DocID      string `json:"doc_id"`
	Page       int    `json:"page"`
	Content    string `json:"content"`
	SourcePath string `json:"source_path"`
}

// Search runs a full-text query over indexed page text, best matches first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var qb strings.Builder
	var args []any

	if opts.Query != "" {
		qb.WriteString(
			`SELECT p.doc_id, p.page, p.content, COALESCE(d.source_path, '')
			FROM pages_fts
			JOIN pages p ON p.rowid = pages_fts.rowid
			LEFT JOIN documents d ON d.id = p.doc_id
			WHERE pages_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.doc_id, p.page, p.content, COALESCE(d.source_path, '')
			FROM pages p
			LEFT JOIN documents d ON d.id = p.doc_id
			WHERE 1=1`)
	}

	if opts.DocID != "" {
		qb.WriteString(` AND p.doc_id = ?`)
		args = append(args, opts.DocID)
	}

	if opts.Query != "" {
		qb.WriteString(` ORDER BY pages_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.doc_id, p.page`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.DocID, &r.Page, &r.Content, &r.SourcePath); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// exportDoc is one row of the YAML export.
type exportDoc struct {
	ID          string `yaml:"id"`
	SourcePath  string `yaml:"source_path"`
	OutputPath  string `yaml:"output_path"`
	Backend     string `yaml:"backend"`
	Pages       int    `yaml:"pages"`
	ConvertedAt string `yaml:"converted_at"`
}

// ExportYAML writes the document table to outputDir/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(source_path,''), COALESCE(output_path,''),
			COALESCE(backend,''), COALESCE(pages,0), COALESCE(converted_at,'')
		 FROM documents ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []exportDoc
	for rows.Next() {
		var d exportDoc
		if err := rows.Scan(&d.ID, &d.SourcePath, &d.OutputPath, &d.Backend, &d.Pages, &d.ConvertedAt); err != nil {
			return fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	return os.WriteFile(filepath.Join(s.outputDir, indexDir, exportFile), data, 0o644)
}
