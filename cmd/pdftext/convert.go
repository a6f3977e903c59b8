package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdftext/internal/convert"
	"github.com/pdiddy/pdftext/internal/extract"
	"github.com/pdiddy/pdftext/internal/fetch"
	"github.com/pdiddy/pdftext/internal/manifest"
	"github.com/pdiddy/pdftext/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pdftext/0.1"
	rawSubdir        = "raw"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert PDF files to page-annotated text files",
	Long: `Convert extracts the text of each input PDF and writes it to
<output-dir>/<base>.txt, one "--- Page N ---" block per page. Missing
inputs are skipped with a warning and a file's failure never aborts the
batch; the final summary reports converted/total.

Inputs come from arguments, the "inputs" list in the config file, or a
YAML manifest. URL inputs are downloaded into <output-dir>/raw first.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("output-dir", "", "directory for text output (default from config, or \"output\")")
	convertCmd.Flags().String("backend", "", "extraction backend: ledongthuc or rscpdf")
	convertCmd.Flags().String("manifest", "", "YAML manifest declaring inputs and output directory")
	convertCmd.Flags().Bool("no-metadata", false, "do not write YAML metadata sidecars")
	convertCmd.Flags().Bool("strict", false, "exit non-zero when any file fails conversion")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	backendName, _ := cmd.Flags().GetString("backend")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	noMetadata, _ := cmd.Flags().GetBool("no-metadata")
	strict, _ := cmd.Flags().GetBool("strict")

	inputs := args

	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			inputs = m.Inputs
		}
		if outputDir == "" {
			outputDir = m.OutputDir
		}
		if backendName == "" {
			backendName = string(m.Backend)
		}
	}

	if len(inputs) == 0 {
		inputs = viper.GetStringSlice("inputs")
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs: pass files as arguments, use --manifest, or set \"inputs\" in the config file")
	}

	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	if backendName == "" {
		backendName = viper.GetString("backend")
	}

	ex, err := extract.New(types.ExtractionBackend(backendName))
	if err != nil {
		return err
	}

	localInputs := resolveInputs(cmd.Context(), inputs, outputDir)

	opts := convert.Options{
		Backend:       types.ExtractionBackend(backendName),
		WriteMetadata: !noMetadata,
	}

	result, err := convert.ConvertBatch(ex, localInputs, outputDir, opts, os.Stdout)
	if err != nil {
		return err
	}
	if strict && result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// resolveInputs downloads URL inputs into outputDir/raw and returns local
// paths for the whole list. A failed download leaves the derived local
// path in place so the batch reports the entry as skipped.
func resolveInputs(ctx context.Context, inputs []string, outputDir string) []string {
	cfg := fetchConfig()
	client := &http.Client{Timeout: cfg.Timeout}
	rawDir := filepath.Join(outputDir, rawSubdir)

	local := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if !fetch.IsURL(input) {
			local = append(local, input)
			continue
		}

		path, err := fetch.Download(ctx, client, input, rawDir, cfg, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: download failed: %v\n", err)
			name, nameErr := fetch.Filename(input)
			if nameErr != nil {
				name = "download.pdf"
			}
			local = append(local, filepath.Join(rawDir, name))
			continue
		}
		local = append(local, path)
	}
	return local
}

// fetchConfig builds download settings from the config file.
func fetchConfig() types.FetchConfig {
	timeout := viper.GetDuration("fetch.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("fetch.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return types.FetchConfig{
		Timeout:    timeout,
		UserAgent:  userAgent,
		MaxRetries: viper.GetInt("fetch.max_retries"),
	}
}
