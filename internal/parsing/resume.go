// Package parsing extracts a validated StructuredResume from raw résumé text with an LLM,
// retrying and switching prompt strategy when the response does not validate.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-intake/internal/llm"
	"github.com/jonathan/resume-intake/internal/prompts"
	"github.com/jonathan/resume-intake/internal/schemas"
	"github.com/jonathan/resume-intake/internal/types"
)

const promptFile = "resume.json"

// DefaultMaxPromptChars bounds how much résumé text is sent to the model.
const DefaultMaxPromptChars = 24000

// step is one entry of the fixed extraction plan.
type step struct {
	label     string
	promptKey string
}

// extractionPlan is two identical primary attempts followed by one fallback attempt.
// Its length is the retry ceiling.
var extractionPlan = []step{
	{label: "primary#1", promptKey: "parse-resume"},
	{label: "primary#2", promptKey: "parse-resume"},
	{label: "fallback", promptKey: "fallback-resume"},
}

func planPromptKeys() []string {
	keys := make([]string, 0, len(extractionPlan))
	for _, s := range extractionPlan {
		keys = append(keys, s.promptKey)
	}
	return keys
}

// MaxAttempts is the number of model calls Extract makes before giving up.
var MaxAttempts = len(extractionPlan)

// Attempt records one model call made by Extract.
type Attempt = types.ExtractionAttempt

// Options configures an Extractor
type Options struct {
	Tier           llm.ModelTier
	MaxPromptChars int
	Logger         zerolog.Logger
}

// Extractor turns raw résumé text into a StructuredResume.
type Extractor struct {
	client llm.Client
	opts   Options
}

// NewExtractor creates an Extractor. Zero options fall back to TierStandard and
// DefaultMaxPromptChars.
func NewExtractor(client llm.Client, opts Options) *Extractor {
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = DefaultMaxPromptChars
	}
	return &Extractor{client: client, opts: opts}
}

// Extract runs the extraction plan until one attempt yields a valid résumé. It returns the
// attempts made in order. When every attempt fails the error is an *ExtractionFailedError;
// a cancelled context stops the plan early and returns the context error.
func (e *Extractor) Extract(ctx context.Context, text string) (*types.StructuredResume, []Attempt, error) {
	logger := e.opts.Logger
	if err := prompts.Require(promptFile, planPromptKeys()...); err != nil {
		return nil, nil, err
	}
	text = e.truncate(text)

	attempts := make([]Attempt, 0, len(extractionPlan))
	var lastErr error
	for i, s := range extractionPlan {
		if i > 0 && s.promptKey != extractionPlan[i-1].promptKey {
			logger.Warn().Str("prompt", s.promptKey).Msg("switching to fallback prompt")
		}

		start := time.Now()
		resume, err := e.attempt(ctx, s.promptKey, text)
		record := Attempt{Strategy: s.label}
		if err == nil {
			attempts = append(attempts, record)
			logger.Info().
				Str("attempt", s.label).
				Int64("elapsed_ms", time.Since(start).Milliseconds()).
				Msg("resume extracted")
			return resume, attempts, nil
		}

		record.Error = err.Error()
		attempts = append(attempts, record)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, attempts, ctxErr
		}
		if IsValidationFailure(err) {
			logger.Warn().Err(err).Str("attempt", s.label).Int("n", i+1).Str("reason", "invalid_output").Msg("extraction attempt failed")
		} else {
			logger.Error().Err(err).Str("attempt", s.label).Int("n", i+1).Str("reason", "api_error").Msg("extraction attempt failed")
		}
		lastErr = err
	}

	logger.Error().Err(lastErr).Int("attempts", len(attempts)).Msg("structured extraction failed")
	return nil, attempts, &ExtractionFailedError{Attempts: attempts, Cause: lastErr}
}

func (e *Extractor) attempt(ctx context.Context, promptKey, text string) (*types.StructuredResume, error) {
	prompt, err := prompts.Render(promptFile, promptKey, map[string]string{
		"Schema":     schemas.ResumeSchema(),
		"ResumeText": text,
	})
	if err != nil {
		return nil, err
	}

	raw, err := e.client.GenerateJSON(ctx, prompt, e.opts.Tier, llm.WithTemperature(0))
	if err != nil {
		return nil, &APICallError{Message: "failed to generate resume JSON", Cause: err}
	}
	return DecodeResume(raw)
}

func (e *Extractor) truncate(text string) string {
	if utf8.RuneCountInString(text) <= e.opts.MaxPromptChars {
		return text
	}
	e.opts.Logger.Warn().
		Int("chars", utf8.RuneCountInString(text)).
		Int("limit", e.opts.MaxPromptChars).
		Msg("resume text truncated for prompt")
	return string([]rune(text)[:e.opts.MaxPromptChars])
}

// DecodeResume turns one model response into a validated StructuredResume. The error is a
// *ParseError when the response is not JSON and a *schemas.ValidationError when it does not
// satisfy the schema or the résumé invariants.
func DecodeResume(raw string) (*types.StructuredResume, error) {
	sanitized, err := SanitizeResumeJSON(llm.CleanJSONBlock(raw))
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateResumeJSON(sanitized); err != nil {
		return nil, err
	}

	var resume types.StructuredResume
	if err := json.Unmarshal([]byte(sanitized), &resume); err != nil {
		return nil, &ParseError{Message: "failed to decode resume", Cause: err}
	}

	resume.Skills = NormalizeSkillBuckets(resume.Skills)
	resume.EnsureDefaults()
	resume.DetectedLanguage = ""

	if err := schemas.ValidateResume(&resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// IsValidationFailure reports whether err came from a response that could not be decoded
// or validated, as opposed to a transport failure.
func IsValidationFailure(err error) bool {
	var parseErr *ParseError
	var validationErr *schemas.ValidationError
	return errors.As(err, &parseErr) || errors.As(err, &validationErr)
}
