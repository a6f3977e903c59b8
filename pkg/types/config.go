package types

import "time"

// ExtractionBackend identifies the PDF text extraction library.
type ExtractionBackend string

const (
	BackendLedongthuc ExtractionBackend = "ledongthuc"
	BackendRscPDF     ExtractionBackend = "rscpdf"
)

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// OutputDir is the directory text files are written to (created if absent).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Backend selects the extraction library: ledongthuc or rscpdf.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// WriteMetadata controls whether a YAML sidecar is written per document.
	WriteMetadata bool `json:"write_metadata" yaml:"write_metadata"`
}

// FetchConfig holds settings for downloading remote PDFs.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdftext/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// IndexConfig holds settings for the document index.
type IndexConfig struct {
	// OutputDir is the directory holding converted text files; the index
	// database lives under OutputDir/index/.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
