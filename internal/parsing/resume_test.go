package parsing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-intake/internal/llm"
	"github.com/jonathan/resume-intake/internal/prompts"
	"github.com/jonathan/resume-intake/internal/schemas"
)

const validPayload = `{
	"full_name": "Jane Doe",
	"contact": {"email": "jane@doe.io"},
	"summary": "Backend engineer",
	"education": [{"institution": "MIT", "degree": "BSc", "start_date": "2012", "end_date": "2016"}],
	"work_experience": [{"company": "Acme", "title": "SRE", "start_date": "Jan 2017", "end_date": null}],
	"projects": [],
	"certifications": [],
	"skills": [{"category": "Languages", "skills": ["golang", "Python", "Go"]}],
	"languages": ["English"]
}`

const resumeText = "Jane Doe\njane@doe.io\nAcme, SRE, 2017 - present"

func newExtractor(stub *llm.StubClient) *Extractor {
	return NewExtractor(stub, Options{Logger: zerolog.Nop()})
}

func isFallbackPrompt(prompt string) bool {
	return strings.Contains(prompt, "step by step")
}

func TestExtract_FirstAttemptSucceeds(t *testing.T) {
	stub := llm.NewStubClient(llm.StubResponse{Text: validPayload})

	resume, attempts, err := newExtractor(stub).Extract(context.Background(), resumeText)
	require.NoError(t, err)
	require.NotNil(t, resume)

	assert.Equal(t, "Jane Doe", resume.FullName)
	assert.Equal(t, []string{"Go", "Python"}, resume.Skills[0].Skills)
	assert.NotNil(t, resume.Projects)
	require.Len(t, attempts, 1)
	assert.Equal(t, "primary#1", attempts[0].Strategy)
	assert.True(t, attempts[0].Succeeded())

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierStandard, calls[0].Tier)
	assert.True(t, calls[0].JSON)
	assert.Contains(t, calls[0].Prompt, `"title": "StructuredResume"`)
	assert.Contains(t, calls[0].Prompt, resumeText)
}

func TestExtract_RetrySucceedsWithoutFallback(t *testing.T) {
	stub := llm.NewStubClient(
		llm.StubResponse{Text: `{"full_name": "Jane", "skills": "not a list"}`},
		llm.StubResponse{Text: validPayload},
		llm.StubResponse{Text: validPayload},
	)

	resume, attempts, err := newExtractor(stub).Extract(context.Background(), resumeText)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resume.FullName)

	require.Len(t, attempts, 2)
	assert.Equal(t, "primary#1", attempts[0].Strategy)
	assert.NotEmpty(t, attempts[0].Error)
	assert.Equal(t, "primary#2", attempts[1].Strategy)
	assert.True(t, attempts[1].Succeeded())

	calls := stub.Calls()
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.False(t, isFallbackPrompt(c.Prompt))
	}
	assert.Equal(t, calls[0].Prompt, calls[1].Prompt)
}

func TestExtract_FallbackAfterTwoFailures(t *testing.T) {
	stub := llm.NewStubClient(
		llm.StubResponse{Text: "I cannot help with that."},
		llm.StubResponse{Text: `{"full_name": ""}`},
		llm.StubResponse{Text: "```json\n{\"name\": \"Jane Doe\", \"email\": \"jane@doe.io\", \"experience\": [{\"company\": \"Acme\"}]}\n```"},
	)

	resume, attempts, err := newExtractor(stub).Extract(context.Background(), resumeText)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resume.FullName)
	assert.Equal(t, "jane@doe.io", resume.Contact.Email)
	require.Len(t, resume.WorkExperience, 1)

	require.Len(t, attempts, 3)
	assert.Equal(t, "fallback", attempts[2].Strategy)

	calls := stub.Calls()
	require.Len(t, calls, 3)
	assert.False(t, isFallbackPrompt(calls[1].Prompt))
	assert.True(t, isFallbackPrompt(calls[2].Prompt))
}

func TestExtract_AllAttemptsFail(t *testing.T) {
	stub := llm.NewStubClient(
		llm.StubResponse{Text: "not json"},
		llm.StubResponse{Text: `{"summary": "missing name"}`},
		llm.StubResponse{Text: `{"full_name": "Jane", "work_experience": [{"company": "Acme", "start_date": "2020", "end_date": "2019"}]}`},
		llm.StubResponse{Text: validPayload},
	)

	resume, attempts, err := newExtractor(stub).Extract(context.Background(), resumeText)
	require.Error(t, err)
	assert.Nil(t, resume)

	var failed *ExtractionFailedError
	require.ErrorAs(t, err, &failed)
	assert.Len(t, failed.Attempts, MaxAttempts)
	assert.Len(t, attempts, MaxAttempts)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields(), "work_experience[0].end_date")

	assert.Len(t, stub.Calls(), MaxAttempts)
}

func TestExtract_APIErrorsCountAsAttempts(t *testing.T) {
	outage := errors.New("503 service unavailable")
	stub := llm.NewStubClient(
		llm.StubResponse{Err: outage},
		llm.StubResponse{Err: outage},
		llm.StubResponse{Err: outage},
	)

	_, attempts, err := newExtractor(stub).Extract(context.Background(), resumeText)
	require.ErrorIs(t, err, outage)

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, IsValidationFailure(err))
	assert.Len(t, attempts, 3)
}

func TestExtract_CancelledContextStops(t *testing.T) {
	stub := llm.NewStubClient(llm.StubResponse{Text: validPayload})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, attempts, err := newExtractor(stub).Extract(ctx, resumeText)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, attempts, 1)

	var failed *ExtractionFailedError
	assert.False(t, errors.As(err, &failed))
}

func TestExtract_TruncatesLongText(t *testing.T) {
	stub := llm.NewStubClient(llm.StubResponse{Text: validPayload})
	e := NewExtractor(stub, Options{MaxPromptChars: 10, Tier: llm.TierAdvanced, Logger: zerolog.Nop()})

	_, _, err := e.Extract(context.Background(), "0123456789ABCDEFGHIJ")
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
	assert.Contains(t, calls[0].Prompt, "0123456789")
	assert.NotContains(t, calls[0].Prompt, "ABCDEFGHIJ")
}

func TestDecodeResume(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantParseErr   bool
		wantValidation bool
	}{
		{name: "valid", raw: validPayload},
		{name: "fenced with chatter", raw: "Here you go:\n```json\n" + validPayload + "\n```"},
		{name: "not json", raw: "Sorry, no.", wantParseErr: true},
		{name: "json array", raw: `["Jane"]`, wantParseErr: true},
		{name: "missing name", raw: `{"summary": "x"}`, wantValidation: true},
		{name: "empty bucket after normalization", raw: `{"full_name": "J", "skills": [{"category": "X", "skills": ["  "]}]}`, wantValidation: true},
		{name: "bad email", raw: `{"full_name": "J", "contact": {"email": "nope"}}`, wantValidation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, err := DecodeResume(tt.raw)
			switch {
			case tt.wantParseErr:
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.True(t, IsValidationFailure(err))
			case tt.wantValidation:
				var validationErr *schemas.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.True(t, IsValidationFailure(err))
			default:
				require.NoError(t, err)
				assert.NotNil(t, resume.Education)
				assert.Empty(t, resume.DetectedLanguage)
			}
		})
	}
}

func TestExtractionFailedError_Message(t *testing.T) {
	err := &ExtractionFailedError{
		Attempts: []Attempt{{Strategy: "primary#1"}, {Strategy: "primary#2"}, {Strategy: "fallback"}},
		Cause:    errors.New("last"),
	}
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Contains(t, err.Error(), "primary#1, primary#2, fallback")
	assert.Contains(t, err.Error(), "last")
}

func TestExtractionPlan_PromptsExist(t *testing.T) {
	assert.Equal(t, []string{"parse-resume", "parse-resume", "fallback-resume"}, planPromptKeys())
	require.NoError(t, prompts.Require(promptFile, planPromptKeys()...))
}

func TestExtract_LogsFailureReason(t *testing.T) {
	var buf bytes.Buffer
	stub := llm.NewStubClient(
		llm.StubResponse{Err: errors.New("503 service unavailable")},
		llm.StubResponse{Text: "not json at all"},
		llm.StubResponse{Text: validPayload},
	)
	e := NewExtractor(stub, Options{Logger: zerolog.New(&buf)})

	_, attempts, err := e.Extract(context.Background(), resumeText)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var failures []string
	for _, line := range lines {
		if strings.Contains(line, "extraction attempt failed") {
			failures = append(failures, line)
		}
	}
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], `"level":"error"`)
	assert.Contains(t, failures[0], `"reason":"api_error"`)
	assert.Contains(t, failures[1], `"level":"warn"`)
	assert.Contains(t, failures[1], `"reason":"invalid_output"`)
}
