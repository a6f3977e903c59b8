// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of PDF-to-text conversion for a file.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// PageText is the extracted text of one page. Number is 1-based. Text may
// be empty (image-only pages extract to the empty string).
type PageText struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}

// Document is an extracted PDF: the ordered page texts for one source file.
// Pages are in ascending page order, one entry per page of the source.
type Document struct {
	// SourcePath is the local filesystem path the document was read from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Pages holds the per-page extraction results in page order.
	Pages []PageText `json:"pages" yaml:"pages"`
}

// Metadata describes one converted document. It is written as a YAML
// sidecar next to the text output and ingested by the index.
type Metadata struct {
	// ID is a slug derived from the source filename (base name without
	// extension, e.g. "MSD67677").
	ID string `json:"id" yaml:"id"`

	// SourcePath is the input PDF path.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is the written text file path.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Pages is the page count of the source document.
	Pages int `json:"pages" yaml:"pages"`

	// Backend identifies the extraction backend that produced the text.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// ConvertedAt is when the conversion ran.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// Status records the conversion outcome.
	Status ConversionStatus `json:"status" yaml:"status"`
}
