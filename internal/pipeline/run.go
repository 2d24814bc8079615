// Package pipeline runs the résumé parsing state machine: text extraction, structured
// extraction and enrichment, each stage taking the AnalysisState by value and returning
// the updated copy.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-intake/internal/ingestion"
	"github.com/jonathan/resume-intake/internal/logging"
	"github.com/jonathan/resume-intake/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called after every state transition
type ProgressCallback func(event ProgressEvent)

// DocumentLoader obtains raw text from a document. *ingestion.Loader implements it.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (ingestion.Result, error)
}

// ResumeExtractor builds a StructuredResume from raw text. *parsing.Extractor implements it.
type ResumeExtractor interface {
	Extract(ctx context.Context, text string) (*types.StructuredResume, []types.ExtractionAttempt, error)
}

// Options configures an Agent
type Options struct {
	// PhoneRegion is the region assumed for phone numbers without a country prefix.
	PhoneRegion string
	OnProgress  ProgressCallback
	Logger      zerolog.Logger
}

// Agent drives one AnalysisState through the parsing stages. An Agent holds no per-run
// state and may be shared by concurrent runs.
type Agent struct {
	loader    DocumentLoader
	extractor ResumeExtractor
	opts      Options
}

// NewAgent creates an Agent
func NewAgent(loader DocumentLoader, extractor ResumeExtractor, opts Options) *Agent {
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = "US"
	}
	return &Agent{loader: loader, extractor: extractor, opts: opts}
}

// NewState returns a fresh state for the document at path.
func NewState(path string) types.AnalysisState {
	return types.AnalysisState{
		RunID:          uuid.NewString(),
		ResumeFilePath: path,
		Stage:          types.StageNeedsText,
	}
}

// Run advances state until it reaches types.StageDone or types.StageFailed and returns the
// final state. On failure the returned state is in StageFailed with Error set, its
// StructuredResume is whatever it was on entry, and the error is a *StageError. A state
// already in a terminal stage is returned unchanged.
func (a *Agent) Run(ctx context.Context, state types.AnalysisState) (types.AnalysisState, error) {
	if state.RunID == "" {
		state.RunID = uuid.NewString()
	}
	if state.Stage == "" {
		state.Stage = types.StageNeedsText
	}
	logger := logging.WithRun(a.opts.Logger, state.RunID)
	start := time.Now()

	// pending is the résumé being built for this run. It replaces state.StructuredResume
	// only once enrichment has finished.
	var pending *types.StructuredResume

	for !state.Stage.Terminal() {
		from := state.Stage
		def, ok := GetStageDefinition(from)
		if !ok {
			return a.fail(state, from, fmt.Errorf("unknown stage: %q", from))
		}
		if err := ctx.Err(); err != nil {
			return a.fail(state, from, err)
		}

		var err error
		switch from {
		case types.StageNeedsText:
			state, err = a.loadText(ctx, state)
		case types.StageNeedsExtraction:
			state, pending, err = a.extract(ctx, state)
		case types.StageNeedsEnrichment:
			state, err = a.enrich(state, pending)
		}
		if err != nil {
			logger.Error().Err(err).Str("stage", string(from)).Msg("stage failed")
			return a.fail(state, from, err)
		}

		if state, err = advance(state, def.Next); err != nil {
			return a.fail(state, from, err)
		}
		logger.Debug().Str("from", string(from)).Str("to", string(state.Stage)).Msg("stage complete")
		a.emit(state, def, stageMessage(state, from))
	}

	logger.Info().
		Str("path", state.ResumeFilePath).
		Str("method", string(state.Extraction.Method)).
		Int("attempts", len(state.Attempts)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("resume parsed")
	return state, nil
}

// advance moves state to the given stage, refusing moves the stage registry does not allow.
func advance(state types.AnalysisState, to types.Stage) (types.AnalysisState, error) {
	if err := ValidateTransition(state.Stage, to); err != nil {
		return state, err
	}
	state.Stage = to
	return state, nil
}

// fail moves state to StageFailed. Failed is reachable from every stage, including ones
// the registry does not know, so a refused transition is only logged.
func (a *Agent) fail(state types.AnalysisState, stage types.Stage, err error) (types.AnalysisState, error) {
	if vErr := ValidateTransition(stage, types.StageFailed); vErr != nil {
		a.opts.Logger.Warn().Err(vErr).Str("run_id", state.RunID).Msg("failing from a stage outside the registry")
	}
	state.Stage = types.StageFailed
	state.Error = err.Error()
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(ProgressEvent{
			Step:     string(types.StageFailed),
			Category: categoryOf(stage),
			Message:  err.Error(),
			RunID:    state.RunID,
		})
	}
	return state, &StageError{Stage: stage, Cause: err}
}

// loadText fills RawResumeText from the document unless the caller already supplied text.
func (a *Agent) loadText(ctx context.Context, state types.AnalysisState) (types.AnalysisState, error) {
	if strings.TrimSpace(state.RawResumeText) != "" {
		if state.Extraction.Method == "" {
			state.Extraction.Method = types.MethodProvided
		}
		return state, nil
	}
	if state.ResumeFilePath == "" {
		return state, fmt.Errorf("%w: no document path", ErrExtractionEmpty)
	}

	res, err := a.loader.Load(ctx, state.ResumeFilePath)
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrExtractionEmpty, err)
	}
	if res.Unsupported() {
		return state, fmt.Errorf("%w: unsupported file type %q", ErrExtractionEmpty, filepath.Ext(state.ResumeFilePath))
	}
	if strings.TrimSpace(res.Text) == "" {
		return state, ErrExtractionEmpty
	}

	state.RawResumeText = res.Text
	state.Extraction = types.ExtractionInfo{Method: res.Method, Pages: res.Pages}
	return state, nil
}

func (a *Agent) extract(ctx context.Context, state types.AnalysisState) (types.AnalysisState, *types.StructuredResume, error) {
	resume, attempts, err := a.extractor.Extract(ctx, state.RawResumeText)
	state.Attempts = append(state.Attempts, attempts...)
	if err != nil {
		return state, nil, err
	}
	return state, resume, nil
}

// enrich runs the post-extraction passes on pending and stores it in the state. A state
// resumed at this stage enriches a copy of its existing résumé.
func (a *Agent) enrich(state types.AnalysisState, pending *types.StructuredResume) (types.AnalysisState, error) {
	if pending == nil {
		if state.StructuredResume == nil {
			return state, ErrNothingToEnrich
		}
		pending = state.StructuredResume.Clone()
	}
	Enrich(pending, state.RawResumeText, a.opts.PhoneRegion)
	state.StructuredResume = pending
	return state, nil
}

func (a *Agent) emit(state types.AnalysisState, def StageDefinition, message string) {
	if a.opts.OnProgress == nil {
		return
	}
	event := ProgressEvent{
		Step:     string(state.Stage),
		Category: def.Category,
		Message:  message,
		RunID:    state.RunID,
	}
	if state.Stage == types.StageDone {
		event.Content = state.StructuredResume
	}
	a.opts.OnProgress(event)
}

func stageMessage(state types.AnalysisState, completed types.Stage) string {
	switch completed {
	case types.StageNeedsText:
		return fmt.Sprintf("Extracted %d characters (%s)", len(state.RawResumeText), state.Extraction.Method)
	case types.StageNeedsExtraction:
		return fmt.Sprintf("Extracted structured resume in %d attempt(s)", len(state.Attempts))
	default:
		return "Enriched structured resume"
	}
}

func categoryOf(stage types.Stage) string {
	if def, ok := GetStageDefinition(stage); ok {
		return def.Category
	}
	return ""
}
