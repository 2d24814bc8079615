package pipeline

import (
	"fmt"

	"github.com/jonathan/resume-intake/internal/types"
)

// StageDefinition describes one state of the agent's state machine
type StageDefinition struct {
	Stage    types.Stage
	Category string
	Next     types.Stage
}

// Progress categories reported in ProgressEvent.Category.
const (
	CategoryIngestion  = "ingestion"
	CategoryExtraction = "extraction"
	CategoryEnrichment = "enrichment"
)

// StageRegistry lists the non-terminal stages in execution order. Any stage may also move
// to types.StageFailed.
var StageRegistry = []StageDefinition{
	{Stage: types.StageNeedsText, Category: CategoryIngestion, Next: types.StageNeedsExtraction},
	{Stage: types.StageNeedsExtraction, Category: CategoryExtraction, Next: types.StageNeedsEnrichment},
	{Stage: types.StageNeedsEnrichment, Category: CategoryEnrichment, Next: types.StageDone},
}

// GetStageDefinition returns the definition for a non-terminal stage.
func GetStageDefinition(stage types.Stage) (StageDefinition, bool) {
	for _, def := range StageRegistry {
		if def.Stage == stage {
			return def, true
		}
	}
	return StageDefinition{}, false
}

// ValidateTransition reports whether the state machine may move from one stage to another.
func ValidateTransition(from, to types.Stage) error {
	if from.Terminal() {
		return fmt.Errorf("stage %q is terminal", from)
	}
	def, ok := GetStageDefinition(from)
	if !ok {
		return fmt.Errorf("unknown stage: %q", from)
	}
	if to != def.Next && to != types.StageFailed {
		return fmt.Errorf("invalid transition %s -> %s", from, to)
	}
	return nil
}
