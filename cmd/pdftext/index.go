// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdftext/internal/index"
	"github.com/pdiddy/pdftext/pkg/types"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index converted text files for full-text search",
	Long: `Index scans the output directory for converted .txt files, parses
their page banners back into per-page records, and ingests them into a
SQLite database with FTS5 indexing. Unchanged files are skipped on
subsequent runs.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over indexed page text",
	Long: `Search runs an FTS5 query against the document index and prints
matching pages with provenance (document and page number). Use --doc to
restrict the search to one document.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := index.QueryOptions{
		Query:      strings.Join(args, " "),
		DocID:      docID,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms or --doc")
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-6s  %s\n", "Rank", "Document", "Page", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range results {
		text := strings.ReplaceAll(r.Content, "\n", " ")
		if len(text) > 56 {
			text = text[:53] + "..."
		}
		doc := r.DocID
		if len(doc) > 20 {
			doc = doc[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-6d  %s\n", i+1, doc, r.Page, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.IndexConfig{
		OutputDir:  outputDir,
		MaxResults: maxResults,
	}
}

func init() {
	indexCmd.Flags().String("output-dir", "", "directory holding converted text files")
	indexCmd.Flags().Int("max-results", 20, "default maximum search results")

	searchCmd.Flags().String("output-dir", "", "directory holding converted text files")
	searchCmd.Flags().Int("max-results", 20, "default maximum search results")
	searchCmd.Flags().String("doc", "", "restrict search to one document ID")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
