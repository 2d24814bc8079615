// Package llm provides centralized LLM configuration and client abstractions.
// Callers pick a model tier; the configured provider decides which model serves it.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short extraction
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as résumé extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy documents
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenRouter is any OpenAI-compatible chat completions endpoint, OpenRouter by default
	ProviderOpenRouter Provider = "openrouter"
)

// DefaultOpenRouterBaseURL is used when an OpenAI-compatible provider has no base URL configured.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultTemperature keeps extraction output deterministic.
const DefaultTemperature = 0.0

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float64
	// BaseURL only applies to ProviderOpenRouter.
	BaseURL string
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// DefaultOpenRouterConfig returns the default OpenRouter configuration
func DefaultOpenRouterConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Models: map[ModelTier]string{
			TierLite:     "google/gemini-2.5-flash-lite",
			TierStandard: "openai/gpt-4o-mini",
			TierAdvanced: "openai/gpt-4o",
		},
		Temperature: DefaultTemperature,
		BaseURL:     DefaultOpenRouterBaseURL,
	}
}

// ConfigFor returns the default configuration for a provider name.
func ConfigFor(provider string) (*Config, error) {
	switch Provider(provider) {
	case "", ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderOpenRouter:
		return DefaultOpenRouterConfig(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", provider)
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
		BaseURL:     c.BaseURL,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
