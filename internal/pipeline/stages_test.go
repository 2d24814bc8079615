package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-intake/internal/types"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from    types.Stage
		to      types.Stage
		wantErr bool
	}{
		{types.StageNeedsText, types.StageNeedsExtraction, false},
		{types.StageNeedsExtraction, types.StageNeedsEnrichment, false},
		{types.StageNeedsEnrichment, types.StageDone, false},
		{types.StageNeedsText, types.StageFailed, false},
		{types.StageNeedsEnrichment, types.StageFailed, false},
		{types.StageNeedsText, types.StageDone, true},
		{types.StageNeedsExtraction, types.StageNeedsText, true},
		{types.StageDone, types.StageFailed, true},
		{types.StageFailed, types.StageNeedsText, true},
		{"bogus", types.StageDone, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStageRegistry_Chain(t *testing.T) {
	stage := types.StageNeedsText
	var visited []types.Stage
	for !stage.Terminal() {
		def, ok := GetStageDefinition(stage)
		assert.True(t, ok)
		visited = append(visited, stage)
		stage = def.Next
	}
	assert.Equal(t, types.StageDone, stage)
	assert.Len(t, visited, len(StageRegistry))
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		from    types.Stage
		to      types.Stage
		wantErr bool
	}{
		{name: "next stage", from: types.StageNeedsText, to: types.StageNeedsExtraction},
		{name: "to failed", from: types.StageNeedsExtraction, to: types.StageFailed},
		{name: "skipping a stage", from: types.StageNeedsText, to: types.StageDone, wantErr: true},
		{name: "backwards", from: types.StageNeedsEnrichment, to: types.StageNeedsText, wantErr: true},
		{name: "out of a terminal stage", from: types.StageDone, to: types.StageFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advance(types.AnalysisState{Stage: tt.from, RunID: "r1"}, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.from, got.Stage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Stage)
			assert.Equal(t, "r1", got.RunID)
		})
	}
}
