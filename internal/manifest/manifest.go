// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest loads YAML batch manifests: a declared list of input
// PDFs plus conversion settings, replacing ad-hoc hardcoded path lists.
package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftext/pkg/types"
)

// Manifest declares a conversion batch.
type Manifest struct {
	// OutputDir is the directory text files are written to.
	OutputDir string `yaml:"output_dir"`

	// Backend optionally selects the extraction backend.
	Backend types.ExtractionBackend `yaml:"backend,omitempty"`

	// Inputs lists the PDFs to convert: local paths or http(s) URLs.
	Inputs []string `yaml:"inputs"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if len(m.Inputs) == 0 {
		return nil, fmt.Errorf("manifest %s lists no inputs", path)
	}
	return &m, nil
}
