// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders PDF files as plain-text files with per-page
// banners. One text file is written per input; a file's failure never
// aborts the batch.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/internal/extract"
	"github.com/pdiddy/pdftext/pkg/types"
)

// ConversionError reports that one input could not be converted. It wraps
// the underlying open/parse/write cause.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Options control a conversion run.
type Options struct {
	// Backend names the extraction backend, recorded in metadata sidecars.
	Backend types.ExtractionBackend

	// WriteMetadata controls whether a YAML sidecar is written per document.
	WriteMetadata bool
}

// Outcome is the result for one input file.
type Outcome struct {
	// Input is the source PDF path as given.
	Input string

	// Output is the derived text file path. Empty when the input was skipped.
	Output string

	// Status is skipped (input missing), converted, or failed.
	Status types.ConversionStatus

	// Pages is the page count of the source document, 0 unless converted.
	Pages int

	// Err is the conversion failure, nil unless Status is failed.
	Err error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Outcomes  []Outcome
}

// Total returns the total number of inputs processed, including skips.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputName derives the text filename for an input path: the base name
// with its extension replaced by .txt.
func OutputName(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + ".txt"
}

// ConvertFile converts a single PDF to a text file in outputDir,
// overwriting any existing file at the derived path. A missing input is
// skipped with a warning; extraction or write failures are reported and
// nothing partial is left at the output path.
func ConvertFile(ex extract.Extractor, input, outputDir string, opts Options, w io.Writer) Outcome {
	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(w, "warning: file not found, skipping: %s\n", input)
		return Outcome{Input: input, Status: types.ConversionSkipped}
	}

	outPath := filepath.Join(outputDir, OutputName(input))

	fmt.Fprintf(w, "converting: %s\n", filepath.Base(input))

	doc, err := ex.Extract(input)
	if err != nil {
		cerr := &ConversionError{Path: input, Err: err}
		fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(input), err)
		return Outcome{Input: input, Output: outPath, Status: types.ConversionFailed, Err: cerr}
	}

	fmt.Fprintf(w, "  %d page(s)\n", len(doc.Pages))
	for _, p := range doc.Pages {
		fmt.Fprintf(w, "  page %d/%d\n", p.Number, len(doc.Pages))
	}

	if err := os.WriteFile(outPath, []byte(Render(doc)), 0o644); err != nil {
		cerr := &ConversionError{Path: input, Err: err}
		fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(input), err)
		return Outcome{Input: input, Output: outPath, Status: types.ConversionFailed, Err: cerr}
	}

	if opts.WriteMetadata {
		if err := writeMetadata(doc, input, outPath, opts); err != nil {
			fmt.Fprintf(w, "  warning: metadata write failed: %v\n", err)
		}
	}

	fmt.Fprintf(w, "converted: %s\n", outPath)
	return Outcome{Input: input, Output: outPath, Status: types.ConversionDone, Pages: len(doc.Pages)}
}

// Render formats a document as banner-annotated text: each page becomes a
// block "--- Page N ---\n<text>\n", blocks joined with a blank line.
func Render(doc *types.Document) string {
	blocks := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		blocks[i] = fmt.Sprintf("--- Page %d ---\n%s\n", p.Number, p.Text)
	}
	return strings.Join(blocks, "\n")
}

// ConvertBatch processes inputs in order against outputDir, printing
// per-file status to w and returning a summary. It creates outputDir if
// absent and continues past individual failures.
func ConvertBatch(ex extract.Extractor, inputs []string, outputDir string, opts Options, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	var result BatchResult
	for _, input := range inputs {
		outcome := ConvertFile(ex, input, outputDir, opts, w)
		switch outcome.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	fmt.Fprintf(w, "\nConversion complete: %d/%d files converted\n", result.Converted, result.Total())
	fmt.Fprintf(w, "Output location: %s\n", outputDir)
	return result, nil
}

// writeMetadata writes the YAML sidecar describing one converted document.
func writeMetadata(doc *types.Document, input, outPath string, opts Options) error {
	meta := types.Metadata{
		ID:          strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		SourcePath:  input,
		OutputPath:  outPath,
		Pages:       len(doc.Pages),
		Backend:     opts.Backend,
		ConvertedAt: time.Now().UTC(),
		Status:      types.ConversionDone,
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	metaPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".yaml"
	return os.WriteFile(metaPath, data, 0o644)
}
