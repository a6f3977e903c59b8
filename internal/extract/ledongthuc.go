// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdftext/pkg/types"
)

// LedongthucExtractor extracts the embedded text layer using
// github.com/ledongthuc/pdf. Scanned (image-only) pages have no text layer
// and extract to the empty string; OCR is not attempted.
type LedongthucExtractor struct{}

// Extract opens the PDF at path and reads every page's plain text.
func (e *LedongthucExtractor) Extract(path string) (*types.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	doc := &types.Document{
		SourcePath: path,
		Pages:      make([]types.PageText, 0, numPages),
	}

	// Fonts repeat across pages; resolve each once for the whole document.
	fonts := make(map[string]*pdf.Font)

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, types.PageText{Number: i})
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, pageErr := p.GetPlainText(fonts)
		if pageErr != nil {
			return nil, fmt.Errorf("reading page %d of %s: %w", i, path, pageErr)
		}
		doc.Pages = append(doc.Pages, types.PageText{
			Number: i,
			Text:   strings.TrimSpace(text),
		})
	}

	return doc, nil
}
