package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-intake/internal/types"
)

// BatchResult is the outcome of running one document
type BatchResult struct {
	Path  string
	State types.AnalysisState
	Err   error
}

// RunBatch runs every path through agent with its own AnalysisState, at most concurrency
// at a time (values below 1 mean one). Results are returned in input order. A failed
// document does not stop the others.
func RunBatch(ctx context.Context, agent *Agent, paths []string, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]BatchResult, len(paths))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			state, err := agent.Run(ctx, NewState(path))
			results[i] = BatchResult{Path: path, State: state, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
