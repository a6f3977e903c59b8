// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/pdftext/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend types.ExtractionBackend
		want    any
		wantErr bool
	}{
		{name: "default", backend: "", want: &LedongthucExtractor{}},
		{name: "ledongthuc", backend: types.BackendLedongthuc, want: &LedongthucExtractor{}},
		{name: "rscpdf", backend: types.BackendRscPDF, want: &RscPDFExtractor{}},
		{name: "unknown", backend: "pdftotext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := New(tt.backend)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) succeeded, want error", tt.backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.backend, err)
			}
			switch tt.want.(type) {
			case *LedongthucExtractor:
				if _, ok := ex.(*LedongthucExtractor); !ok {
					t.Errorf("New(%q) = %T, want *LedongthucExtractor", tt.backend, ex)
				}
			case *RscPDFExtractor:
				if _, ok := ex.(*RscPDFExtractor); !ok {
					t.Errorf("New(%q) = %T, want *RscPDFExtractor", tt.backend, ex)
				}
			}
		})
	}
}

func TestExtract_NotAPDF(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bogus.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, backend := range []types.ExtractionBackend{types.BackendLedongthuc, types.BackendRscPDF} {
		t.Run(string(backend), func(t *testing.T) {
			ex, err := New(backend)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := ex.Extract(path); err == nil {
				t.Error("Extract on garbage input succeeded, want error")
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	ex := &LedongthucExtractor{}
	if _, err := ex.Extract(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("Extract on missing file succeeded, want error")
	}
}
