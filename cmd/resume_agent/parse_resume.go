package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/config"
	"github.com/jonathan/resume-intake/internal/observability"
	"github.com/jonathan/resume-intake/internal/pipeline"
	"github.com/jonathan/resume-intake/internal/types"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume [files...]",
	Short: "Parse résumé documents into structured résumé JSON",
	Long: `Parse one or more résumé PDFs or images into StructuredResume JSON.

Each document is run independently: text extraction (with OCR for scanned pages), structured
extraction with up to three model calls, then enrichment. With --out each résumé is written to
<out>/<name>.resume.json; otherwise a single document's résumé is printed to stdout.`,
	RunE: runParseResume,
}

var (
	parseOut          string
	parseTextFile     string
	parseAPIKey       string
	parseProvider     string
	parseModel        string
	parseTier         string
	parseConcurrency  int
	parseStubResponse string
	parseWriteState   bool
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Output directory for parsed résumés")
	parseResumeCmd.Flags().StringVar(&parseTextFile, "text-file", "", "Parse already extracted plain text instead of documents")
	parseResumeCmd.Flags().StringVar(&parseProvider, "provider", "", "LLM provider: gemini or openrouter")
	parseResumeCmd.Flags().StringVar(&parseModel, "model", "", "Model name override")
	parseResumeCmd.Flags().StringVar(&parseTier, "tier", "", "Model tier: lite, standard or advanced")
	parseResumeCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 0, "Documents processed in parallel (default 1)")
	parseResumeCmd.Flags().BoolVar(&parseWriteState, "state", false, "Also write the full analysis state next to each résumé")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY / OPENROUTER_API_KEY
	parseResumeCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "API key for the provider (optional, defaults to the provider's env var)")

	// Replays a canned model response; used for offline runs and tests.
	parseResumeCmd.Flags().StringVar(&parseStubResponse, "stub-response", "", "Path to a JSON file returned in place of the model response")
	_ = parseResumeCmd.Flags().MarkHidden("stub-response")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if parseTextFile == "" && len(args) == 0 {
		return fmt.Errorf("at least one document or --text-file must be provided")
	}
	if parseTextFile != "" && len(args) > 0 {
		return fmt.Errorf("--text-file cannot be combined with document arguments")
	}

	overrides := config.Config{OutputDir: parseOut, Concurrency: parseConcurrency}
	overrides.LLM = config.LLMConfig{Provider: parseProvider, Model: parseModel, APIKey: parseAPIKey}
	overrides.Parsing.Tier = parseTier
	cfg, logger, err := loadSettings(cmd, overrides)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg, parseStubResponse)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	agent := newAgent(cfg, newLoader(cfg, logger), client, logger, nil)
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	var results []pipeline.BatchResult
	if parseTextFile != "" {
		text, err := os.ReadFile(parseTextFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		state := pipeline.NewState(parseTextFile)
		state.RawResumeText = string(text)
		state, err = agent.Run(ctx, state)
		results = []pipeline.BatchResult{{Path: parseTextFile, State: state, Err: err}}
	} else {
		results = pipeline.RunBatch(ctx, agent, args, cfg.Concurrency)
	}

	failed := 0
	for _, r := range results {
		if cfg.Verbose {
			printer.PrintExtraction(r.State)
		}
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to parse %s: %v\n", r.Path, r.Err)
			continue
		}
		if cfg.Verbose {
			printer.PrintResume(r.State.StructuredResume)
		}
		if err := emitResume(cmd, cfg.OutputDir, r, len(results)); err != nil {
			return err
		}
	}
	if cfg.Verbose && len(results) > 1 {
		printer.PrintBatchSummary(results)
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// emitResume writes the parsed résumé to outDir, or to stdout when no directory is set
// and only one document was parsed.
func emitResume(cmd *cobra.Command, outDir string, r pipeline.BatchResult, total int) error {
	data, err := json.MarshalIndent(r.State.StructuredResume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	if outDir == "" {
		if total > 1 {
			return fmt.Errorf("--out is required when parsing more than one document")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	resumePath := filepath.Join(outDir, base+".resume.json")
	if err := os.WriteFile(resumePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write resume: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Parsed %s -> %s\n", r.Path, resumePath)

	if parseWriteState {
		if err := writeState(filepath.Join(outDir, base+".state.json"), r.State); err != nil {
			return err
		}
	}
	return nil
}

func writeState(path string, state types.AnalysisState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
