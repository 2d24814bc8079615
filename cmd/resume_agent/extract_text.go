package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/config"
	"github.com/jonathan/resume-intake/internal/ingestion"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract raw text from a résumé PDF or image",
	Long:  "Extract the text of a résumé document, using the PDF text layer when present and OCR otherwise, and write the cleaned text with metadata.",
	RunE:  runExtractText,
}

var (
	extractIn  string
	extractOut string
	extractDPI int
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractIn, "in", "i", "", "Path to PDF or image (required)")
	extractTextCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output directory (required)")
	extractTextCmd.Flags().IntVar(&extractDPI, "dpi", 0, "Rasterisation DPI for scanned PDFs (default 300)")

	if err := extractTextCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := extractTextCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	overrides := config.Config{OCR: config.OCRConfig{DPI: extractDPI}}
	cfg, logger, err := loadSettings(cmd, overrides)
	if err != nil {
		return err
	}

	res, err := newLoader(cfg, logger).Load(ctx, extractIn)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	if res.Unsupported() {
		return fmt.Errorf("unsupported file type %q (supported: %s)",
			filepath.Ext(extractIn), strings.Join(ingestion.SupportedExtensions(), ", "))
	}
	if res.Text == "" {
		return fmt.Errorf("no text could be extracted from %s", extractIn)
	}

	base := strings.TrimSuffix(filepath.Base(extractIn), filepath.Ext(extractIn))
	textPath, err := ingestion.WriteOutput(extractOut, base, res.Text, ingestion.NewMetadata(extractIn, res))
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Extracted %d characters using %s\n", len(res.Text), res.Method)
	fmt.Fprintf(out, "Text: %s\n", textPath)
	fmt.Fprintf(out, "Metadata: %s\n", filepath.Join(extractOut, base+".meta.json"))
	return nil
}
