package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdftext/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download remote PDFs for later conversion",
	Long: `Fetch downloads PDFs from http(s) URLs into a local directory.
Existing files are skipped. Downloads are written via a temporary file so
a failed transfer leaves nothing behind.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("dest", "input", "directory downloads are written to")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDF URLs")
	}

	dest, _ := cmd.Flags().GetString("dest")

	cfg := fetchConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}
	client := &http.Client{Timeout: cfg.Timeout}

	failed := 0
	for _, url := range args {
		if _, err := fetch.Download(cmd.Context(), client, url, dest, cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", url, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}
