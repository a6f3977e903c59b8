// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/internal/convert"
	"github.com/pdiddy/pdftext/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	outputDir := t.TempDir()

	store, err := NewStore(types.IndexConfig{OutputDir: outputDir, MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, outputDir
}

func writeConverted(t *testing.T, outputDir, docID string, pages []string) {
	t.Helper()
	doc := &types.Document{}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, types.PageText{Number: i + 1, Text: text})
	}
	path := filepath.Join(outputDir, docID+".txt")
	if err := os.WriteFile(path, []byte(convert.Render(doc)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeSidecar(t *testing.T, outputDir string, meta types.Metadata) {
	t.Helper()
	data, err := yaml.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, meta.ID+".yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- ParsePages ---

func TestParsePages(t *testing.T) {
	content := "--- Page 1 ---\nHello\n\n--- Page 2 ---\nWorld\n"
	pages := ParsePages(content)

	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].Number != 1 || pages[0].Text != "Hello" {
		t.Errorf("page 1 = %+v", pages[0])
	}
	if pages[1].Number != 2 || pages[1].Text != "World" {
		t.Errorf("page 2 = %+v", pages[1])
	}
}

func TestParsePages_InvertsRender(t *testing.T) {
	doc := &types.Document{Pages: []types.PageText{
		{Number: 1, Text: "line one\nline two"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "final page"},
	}}

	pages := ParsePages(convert.Render(doc))

	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, want := range doc.Pages {
		if pages[i].Number != want.Number || pages[i].Text != want.Text {
			t.Errorf("page %d = %+v, want %+v", i+1, pages[i], want)
		}
	}
}

func TestParsePages_IgnoresPreamble(t *testing.T) {
	pages := ParsePages("stray text\n--- Page 1 ---\ncontent\n")
	if len(pages) != 1 || pages[0].Text != "content" {
		t.Errorf("pages = %+v", pages)
	}
}

// --- Ingest / Search ---

func TestIngestAndSearch(t *testing.T) {
	store, outputDir := testSetup(t)

	writeConverted(t, outputDir, "msd67677", []string{"order entry message layout", "heartbeat interval"})
	writeConverted(t, outputDir, "protocol", []string{"heartbeat and session management"})
	writeSidecar(t, outputDir, types.Metadata{
		ID:          "msd67677",
		SourcePath:  "/docs/MSD67677.pdf",
		Pages:       2,
		Backend:     types.BackendLedongthuc,
		ConvertedAt: time.Now().UTC(),
		Status:      types.ConversionDone,
	})

	var log bytes.Buffer
	summary, err := store.Ingest(context.Background(), &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 2 indexed", summary)
	}

	results, err := store.Search(context.Background(), QueryOptions{Query: "heartbeat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// Provenance: the sidecar's source path must come back on hits.
	var sawSource bool
	for _, r := range results {
		if r.DocID == "msd67677" {
			if r.Page != 2 {
				t.Errorf("msd67677 hit on page %d, want 2", r.Page)
			}
			if r.SourcePath == "/docs/MSD67677.pdf" {
				sawSource = true
			}
		}
	}
	if !sawSource {
		t.Error("sidecar source path not recorded")
	}
}

func TestSearch_DocFilter(t *testing.T) {
	store, outputDir := testSetup(t)
	writeConverted(t, outputDir, "a", []string{"shared term"})
	writeConverted(t, outputDir, "b", []string{"shared term"})

	var log bytes.Buffer
	if _, err := store.Ingest(context.Background(), &log); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search(context.Background(), QueryOptions{Query: "shared", DocID: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].DocID != "b" {
		t.Errorf("results = %+v, want one hit in b", results)
	}
}

func TestIngest_Incremental(t *testing.T) {
	store, outputDir := testSetup(t)
	writeConverted(t, outputDir, "doc", []string{"original text"})

	var log bytes.Buffer
	if _, err := store.Ingest(context.Background(), &log); err != nil {
		t.Fatal(err)
	}

	// Unchanged file skipped on the second run.
	log.Reset()
	summary, err := store.Ingest(context.Background(), &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Fatalf("summary = %+v, want 1 skipped", summary)
	}
	if !strings.Contains(log.String(), "skipped doc") {
		t.Errorf("log = %q", log.String())
	}

	// Rewriting the file with a newer mod time triggers an update.
	writeConverted(t, outputDir, "doc", []string{"replacement text"})
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(outputDir, "doc.txt"), future, future); err != nil {
		t.Fatal(err)
	}

	summary, err = store.Ingest(context.Background(), &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 {
		t.Fatalf("summary = %+v, want 1 updated", summary)
	}

	results, err := store.Search(context.Background(), QueryOptions{Query: "replacement"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results for replacement text, want 1", len(results))
	}
	stale, err := store.Search(context.Background(), QueryOptions{Query: "original"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 0 {
		t.Errorf("stale page text still indexed: %+v", stale)
	}
}

func TestIngest_WritesExport(t *testing.T) {
	store, outputDir := testSetup(t)
	writeConverted(t, outputDir, "doc", []string{"text"})

	var log bytes.Buffer
	if _, err := store.Ingest(context.Background(), &log); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, indexDir, exportFile))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "id: doc") {
		t.Errorf("export = %q", string(data))
	}
}
