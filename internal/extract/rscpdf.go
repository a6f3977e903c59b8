// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/pdiddy/pdftext/pkg/types"
)

// RscPDFExtractor extracts text using rsc.io/pdf. It reassembles lines from
// positioned text items, which handles some documents the default backend
// renders poorly.
type RscPDFExtractor struct{}

// Extract opens the PDF at path and reads every page's plain text.
func (e *RscPDFExtractor) Extract(path string) (doc *types.Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// The rsc.io/pdf reader panics on malformed content streams; convert
	// that into a per-document error.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("parsing PDF %s: %v", path, r)
		}
	}()

	r, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}

	numPages := r.NumPage()
	doc = &types.Document{
		SourcePath: path,
		Pages:      make([]types.PageText, 0, numPages),
	}

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, types.PageText{Number: i})
			continue
		}
		doc.Pages = append(doc.Pages, types.PageText{
			Number: i,
			Text:   pageText(p.Content()),
		})
	}

	return doc, nil
}

// pageText joins positioned text items into lines. Items sharing a baseline
// Y coordinate belong to one line; a Y change starts a new one.
func pageText(content rpdf.Content) string {
	var b strings.Builder
	lastY := -1.0
	for _, t := range content.Text {
		if lastY >= 0 && t.Y != lastY {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return strings.TrimSpace(b.String())
}
