package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/config"
	"github.com/jonathan/resume-intake/internal/ingestion"
	"github.com/jonathan/resume-intake/internal/llm"
	"github.com/jonathan/resume-intake/internal/logging"
	"github.com/jonathan/resume-intake/internal/parsing"
	"github.com/jonathan/resume-intake/internal/pipeline"
)

// loadSettings resolves the effective configuration for cmd: config file, then
// environment, then flags the user set explicitly. overrides holds the command's own flags.
func loadSettings(cmd *cobra.Command, overrides config.Config) (config.Config, zerolog.Logger, error) {
	var fileCfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}
	if err := fileCfg.ApplyEnv(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		overrides.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		overrides.Log.Format = logFormat
	}

	cfg := overrides.MergeWithDefaults(fileCfg)
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	} else {
		cfg.Verbose = fileCfg.Verbose
	}
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	logger := logging.InitWriter(cfg.Log, cmd.ErrOrStderr())
	if configPath != "" {
		logger.Debug().Str("path", configPath).Msg("loaded config")
	}
	return cfg, logger, nil
}

// tesseractRunner runs the OCR binary. Tests replace it to avoid needing tesseract.
var tesseractRunner = func(logger zerolog.Logger) ingestion.Runner {
	return ingestion.ExecRunner{Logger: logger}
}

// newLoader wires the document loader with tesseract run through os/exec.
func newLoader(cfg config.Config, logger zerolog.Logger) *ingestion.Loader {
	return ingestion.NewLoader(cfg.IngestionConfig(), tesseractRunner(logger), logger)
}

// newLLMClient creates the client for the configured provider. When stubPath is set the
// model is replaced by a stub answering every call, across all documents, with the file's
// content, which allows offline runs.
func newLLMClient(ctx context.Context, cfg config.Config, stubPath string) (llm.Client, error) {
	if stubPath != "" {
		data, err := os.ReadFile(stubPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read stub response: %w", err)
		}
		return llm.NewRepeatingStubClient(llm.StubResponse{Text: string(data)}), nil
	}

	if cfg.LLM.APIKey == "" {
		envVar := config.EnvGeminiAPIKey
		if llm.Provider(cfg.LLM.Provider) == llm.ProviderOpenRouter {
			envVar = config.EnvOpenRouterAPIKey
		}
		return nil, fmt.Errorf("API key is required (set %s environment variable or use --api-key flag)", envVar)
	}

	llmCfg, err := cfg.LLMClientConfig()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
}

// newAgent wires the parsing agent from its collaborators.
func newAgent(cfg config.Config, loader pipeline.DocumentLoader, client llm.Client, logger zerolog.Logger, onProgress pipeline.ProgressCallback) *pipeline.Agent {
	extractor := parsing.NewExtractor(client, parsing.Options{
		Tier:           cfg.ModelTier(),
		MaxPromptChars: cfg.Parsing.MaxPromptChars,
		Logger:         logger,
	})
	return pipeline.NewAgent(loader, extractor, pipeline.Options{
		PhoneRegion: strings.ToUpper(cfg.Parsing.PhoneRegion),
		OnProgress:  onProgress,
		Logger:      logger,
	})
}
