// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/pkg/types"
)

// bannerRe matches the per-page banner line written by the converter.
var bannerRe = regexp.MustCompile(`^--- Page (\d+) ---$`)

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest scans the output directory for converted .txt files and populates
// the database, parsing the page banners back into per-page rows and
// merging YAML sidecar metadata when present. Unchanged files (by mod
// time) are skipped so repeated runs are incremental.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading output directory %s: %w", s.outputDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := strings.TrimSuffix(entry.Name(), ".txt")
		filePath := filepath.Join(s.outputDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM index_status WHERE doc_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		pages := ParsePages(string(data))
		meta := loadSidecar(s.outputDir, docID)

		if err := s.ingestDocument(ctx, docID, filePath, pages, meta, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d pages)\n", docID, len(pages))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d pages)\n", docID, len(pages))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, docID, filePath string, pages []types.PageText, meta *types.Metadata, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE doc_id = ?`, docID); err != nil {
			return fmt.Errorf("deleting old pages: %w", err)
		}
	}

	sourcePath, backend, convertedAt := "", "", ""
	if meta != nil {
		sourcePath = meta.SourcePath
		backend = string(meta.Backend)
		if !meta.ConvertedAt.IsZero() {
			convertedAt = meta.ConvertedAt.Format(time.RFC3339)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, output_path, backend, pages, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, output_path=excluded.output_path,
			backend=excluded.backend, pages=excluded.pages,
			converted_at=excluded.converted_at`,
		docID, sourcePath, filePath, backend, len(pages), convertedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO pages (doc_id, page, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pages {
		if _, err := stmt.ExecContext(ctx, docID, p.Number, p.Text); err != nil {
			return fmt.Errorf("inserting page %d: %w", p.Number, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_status (doc_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating index status: %w", err)
	}

	return tx.Commit()
}

// ParsePages splits banner-annotated text back into per-page blocks,
// inverting the converter's rendering. Text before the first banner is
// ignored; trailing blank lines of each block are the block separators
// and are stripped.
func ParsePages(content string) []types.PageText {
	var pages []types.PageText
	var current *types.PageText
	var lines []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimRight(strings.Join(lines, "\n"), "\n")
		pages = append(pages, *current)
		current = nil
		lines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if m := bannerRe.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			current = &types.PageText{Number: n}
			continue
		}
		if current != nil {
			lines = append(lines, line)
		}
	}
	flush()
	return pages
}

// loadSidecar reads the YAML metadata written next to a converted file.
// Returns nil if the sidecar does not exist or cannot be parsed.
func loadSidecar(dir, docID string) *types.Metadata {
	data, err := os.ReadFile(filepath.Join(dir, docID+".yaml"))
	if err != nil {
		return nil
	}
	var meta types.Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}
