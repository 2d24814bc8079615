// Package main provides the resume_agent CLI for turning résumé documents into validated
// structured JSON.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Résumé intake and structured extraction",
	Long: `resume_agent reads résumé PDFs and images, recovers their text (using OCR for scanned pages),
extracts a schema-validated structured résumé with an LLM, and enriches it with normalized dates,
contact details found in the text, and the document language.

Configuration can be loaded from a JSON file using --config. Environment variables override the
file, and command-line flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a human-readable summary")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (defaults to LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: pretty or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
