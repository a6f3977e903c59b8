// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads PDF files and produces per-page plain text.
// Different libraries (ledongthuc/pdf, rsc.io/pdf) implement the
// Extractor interface as pluggable backends.
package extract

import (
	"fmt"

	"github.com/pdiddy/pdftext/pkg/types"
)

// Extractor turns a PDF file into an ordered sequence of page texts.
type Extractor interface {
	// Extract opens the PDF at path and returns its per-page text.
	// An empty page text is a valid result, not an error; Extract fails
	// only when the document cannot be opened or parsed.
	Extract(path string) (*types.Document, error)
}

// New returns the extractor for the named backend.
func New(backend types.ExtractionBackend) (Extractor, error) {
	switch backend {
	case types.BackendLedongthuc, "":
		return &LedongthucExtractor{}, nil
	case types.BackendRscPDF:
		return &RscPDFExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q: use ledongthuc or rscpdf", backend)
	}
}
