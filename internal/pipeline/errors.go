package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-intake/internal/types"
)

// ErrExtractionEmpty is returned when no raw text can be obtained from the document.
var ErrExtractionEmpty = errors.New("no text could be extracted from the document")

// ErrNothingToEnrich is returned when enrichment is requested for a state without a résumé.
var ErrNothingToEnrich = errors.New("no structured resume to enrich")

// StageError reports the stage at which a run moved to types.StageFailed.
type StageError struct {
	Stage types.Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
