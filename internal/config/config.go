// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-intake/internal/ingestion"
	"github.com/jonathan/resume-intake/internal/llm"
	"github.com/jonathan/resume-intake/internal/logging"
	"github.com/jonathan/resume-intake/internal/parsing"
)

// Environment variables read by ApplyEnv.
const (
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvProvider         = "RESUME_LLM_PROVIDER"
	EnvModel            = "RESUME_LLM_MODEL"
	EnvTesseractPath    = "TESSERACT_PATH"
	EnvTessdataPrefix   = "TESSDATA_PREFIX"
	EnvOCRDPI           = "RESUME_OCR_DPI"
	EnvLogLevel         = "LOG_LEVEL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	LLM     LLMConfig      `json:"llm"`
	OCR     OCRConfig      `json:"ocr"`
	Parsing ParsingConfig  `json:"parsing"`
	Log     logging.Config `json:"log"`

	// Behavior
	Concurrency int    `json:"concurrency,omitempty"` // Documents processed in parallel by batch runs
	OutputDir   string `json:"output_dir,omitempty"`  // Where parsed résumés are written
	Verbose     bool   `json:"verbose,omitempty"`     // Print a human-readable summary
}

// LLMConfig selects the generative text service
type LLMConfig struct {
	Provider    string  `json:"provider,omitempty"`    // "gemini" or "openrouter"
	Model       string  `json:"model,omitempty"`       // Overrides the model for Parsing.Tier
	APIKey      string  `json:"api_key,omitempty"`     // Key for the selected provider
	BaseURL     string  `json:"base_url,omitempty"`    // OpenAI-compatible endpoint for openrouter
	Temperature float64 `json:"temperature,omitempty"` // Sampling temperature, 0-2
}

// OCRConfig configures tesseract and page rasterisation
type OCRConfig struct {
	TesseractPath string `json:"tesseract_path,omitempty"`
	TessdataDir   string `json:"tessdata_dir,omitempty"`
	Lang          string `json:"lang,omitempty"`
	DPI           int    `json:"dpi,omitempty"`
	PSM           int    `json:"psm,omitempty"`
}

// ParsingConfig configures structured extraction and enrichment
type ParsingConfig struct {
	Tier           string `json:"tier,omitempty"`             // lite, standard or advanced
	MaxPromptChars int    `json:"max_prompt_chars,omitempty"` // Résumé text beyond this is truncated
	PhoneRegion    string `json:"phone_region,omitempty"`     // Region for numbers without a country code
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides configuration with values from the process environment.
func (c *Config) ApplyEnv() error {
	return c.ApplyEnvFrom(os.LookupEnv)
}

// ApplyEnvFrom overrides configuration with non-empty values returned by lookup.
// The API key is taken from the variable matching the (possibly overridden) provider.
func (c *Config) ApplyEnvFrom(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	if v, ok := get(EnvProvider); ok {
		c.LLM.Provider = v
	}
	if v, ok := get(EnvModel); ok {
		c.LLM.Model = v
	}
	keyVar := EnvGeminiAPIKey
	if llm.Provider(c.LLM.Provider) == llm.ProviderOpenRouter {
		keyVar = EnvOpenRouterAPIKey
	}
	if v, ok := get(keyVar); ok {
		c.LLM.APIKey = v
	}

	if v, ok := get(EnvTesseractPath); ok {
		c.OCR.TesseractPath = v
	}
	if v, ok := get(EnvTessdataPrefix); ok {
		c.OCR.TessdataDir = v
	}
	if v, ok := get(EnvOCRDPI); ok {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvOCRDPI, err)
		}
		c.OCR.DPI = dpi
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Log.Level = v
	}
	return nil
}

// WithDefaults returns a copy of c with every unset field given its default value.
func (c *Config) WithDefaults() Config {
	result := *c
	logDefaults := logging.DefaultConfig()

	if result.LLM.Provider == "" {
		result.LLM.Provider = string(llm.ProviderGemini)
	}
	if result.OCR.TesseractPath == "" {
		result.OCR.TesseractPath = "tesseract"
	}
	if result.OCR.Lang == "" {
		result.OCR.Lang = "eng"
	}
	if result.OCR.DPI == 0 {
		result.OCR.DPI = ingestion.DefaultDPI
	}
	if result.Parsing.Tier == "" {
		result.Parsing.Tier = string(llm.TierStandard)
	}
	if result.Parsing.MaxPromptChars == 0 {
		result.Parsing.MaxPromptChars = parsing.DefaultMaxPromptChars
	}
	if result.Parsing.PhoneRegion == "" {
		result.Parsing.PhoneRegion = "US"
	}
	if result.Log.Level == "" {
		result.Log.Level = logDefaults.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = logDefaults.Format
	}
	if result.Concurrency == 0 {
		result.Concurrency = 1
	}
	return result
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for the API key since commands that never call the model
// do not need one.
func (c *Config) Validate() error {
	if _, err := llm.ConfigFor(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	// Validate numeric ranges
	if c.OCR.DPI < 0 {
		return fmt.Errorf("config error: 'dpi' must be non-negative")
	}
	if c.OCR.PSM < 0 {
		return fmt.Errorf("config error: 'psm' must be non-negative")
	}
	if c.Parsing.MaxPromptChars < 0 {
		return fmt.Errorf("config error: 'max_prompt_chars' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	switch llm.ModelTier(c.Parsing.Tier) {
	case "", llm.TierLite, llm.TierStandard, llm.TierAdvanced:
	default:
		return fmt.Errorf("config error: unknown model tier %q", c.Parsing.Tier)
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config error: invalid log level %q", c.Log.Level)
		}
	}
	switch c.Log.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: log format must be 'json' or 'pretty'")
	}

	// Validate paths exist (if specified)
	if c.OCR.TessdataDir != "" {
		if _, err := os.Stat(c.OCR.TessdataDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: tessdata directory not found: %s", c.OCR.TessdataDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.LLM.Provider, defaults.LLM.Provider)
	mergeString(&result.LLM.Model, defaults.LLM.Model)
	mergeString(&result.LLM.APIKey, defaults.LLM.APIKey)
	mergeString(&result.LLM.BaseURL, defaults.LLM.BaseURL)
	mergeString(&result.OCR.TesseractPath, defaults.OCR.TesseractPath)
	mergeString(&result.OCR.TessdataDir, defaults.OCR.TessdataDir)
	mergeString(&result.OCR.Lang, defaults.OCR.Lang)
	mergeString(&result.Parsing.Tier, defaults.Parsing.Tier)
	mergeString(&result.Parsing.PhoneRegion, defaults.Parsing.PhoneRegion)
	mergeString(&result.Log.Level, defaults.Log.Level)
	mergeString(&result.Log.Format, defaults.Log.Format)
	mergeString(&result.Log.TimeFormat, defaults.Log.TimeFormat)
	mergeString(&result.OutputDir, defaults.OutputDir)

	// Int fields: use default if zero
	mergeInt(&result.OCR.DPI, defaults.OCR.DPI)
	mergeInt(&result.OCR.PSM, defaults.OCR.PSM)
	mergeInt(&result.Parsing.MaxPromptChars, defaults.Parsing.MaxPromptChars)
	mergeInt(&result.Concurrency, defaults.Concurrency)

	// Float fields
	if result.LLM.Temperature == 0 {
		result.LLM.Temperature = defaults.LLM.Temperature
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

// LLMClientConfig builds the llm package configuration for the selected provider.
func (c *Config) LLMClientConfig() (*llm.Config, error) {
	cfg, err := llm.ConfigFor(c.LLM.Provider)
	if err != nil {
		return nil, err
	}
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(c.ModelTier(), c.LLM.Model)
	}
	cfg.Temperature = c.LLM.Temperature
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	return cfg, nil
}

// ModelTier returns the configured tier, defaulting to standard.
func (c *Config) ModelTier() llm.ModelTier {
	if c.Parsing.Tier == "" {
		return llm.TierStandard
	}
	return llm.ModelTier(c.Parsing.Tier)
}

// IngestionConfig builds the document loader configuration.
func (c *Config) IngestionConfig() ingestion.Config {
	return ingestion.Config{
		Tesseract: ingestion.TesseractConfig{
			Binary:      c.OCR.TesseractPath,
			Lang:        c.OCR.Lang,
			TessdataDir: c.OCR.TessdataDir,
			PSM:         c.OCR.PSM,
		},
		DPI: c.OCR.DPI,
	}
}
