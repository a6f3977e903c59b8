// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads remote PDFs so URL inputs can be converted like
// local files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdftext/pkg/types"
)

// IsURL reports whether input names a remote PDF rather than a local path.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Filename derives the local filename for a PDF URL: the last path segment,
// with a .pdf extension appended when missing.
func Filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("cannot derive filename from URL %q", rawURL)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name, nil
}

// Download fetches rawURL into destDir and returns the local path. An
// existing file at the destination is reused without re-downloading. The
// body is written to a temporary file and renamed on success so a failed
// download leaves nothing behind.
func Download(ctx context.Context, client *http.Client, rawURL, destDir string, cfg types.FetchConfig, w io.Writer) (string, error) {
	name, err := Filename(rawURL)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, name)

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return destPath, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := doWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	tmpFile, err := os.CreateTemp(destDir, ".fetch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	fmt.Fprintf(w, "downloaded: %s\n", destPath)
	return destPath, nil
}
