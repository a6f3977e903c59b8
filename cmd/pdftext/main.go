// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdftext CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdftext CLI.
var rootCmd = &cobra.Command{
	Use:   "pdftext",
	Short: "Convert PDF files to page-annotated plain text",
	Long: `pdftext extracts the text layer of PDF files and writes one plain-text
file per input, with each page preceded by a "--- Page N ---" banner.

Inputs can be local paths, http(s) URLs, or a YAML manifest. Converted
output can be indexed into a local SQLite database and searched with
full-text queries.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdftext.yaml or ~/.config/pdftext/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdftext")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdftext"))
		}
	}

	viper.SetDefault("output_dir", "output")
	viper.SetDefault("backend", "ledongthuc")

	viper.SetEnvPrefix("PDFTEXT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
