package pipeline

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"github.com/jonathan/resume-intake/internal/ingestion"
	"github.com/jonathan/resume-intake/internal/types"
)

// fakeLoader returns canned results keyed by path.
type fakeLoader struct {
	mu      sync.Mutex
	results map[string]ingestion.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeLoader) Load(_ context.Context, path string) (ingestion.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if err := f.errs[path]; err != nil {
		return ingestion.Result{}, err
	}
	return f.results[path], nil
}

// funcExtractor adapts a function to ResumeExtractor.
type funcExtractor func(ctx context.Context, text string) (*types.StructuredResume, []types.ExtractionAttempt, error)

func (f funcExtractor) Extract(ctx context.Context, text string) (*types.StructuredResume, []types.ExtractionAttempt, error) {
	return f(ctx, text)
}

// failingExtractor fails any run that reaches structured extraction.
var failingExtractor = funcExtractor(func(context.Context, string) (*types.StructuredResume, []types.ExtractionAttempt, error) {
	return nil, nil, errors.New("extractor must not be called")
})

// emptyTextLayer simulates a PDF without embedded text.
type emptyTextLayer struct{ pages int }

func (e emptyTextLayer) ReadPages(string) ([]string, error) {
	return make([]string, e.pages), nil
}

// blankPages renders n blank page images.
type blankPages struct{ n int }

func (b blankPages) Rasterize(_ context.Context, _ string, _ float64, fn func(int, image.Image) error) (int, error) {
	for i := 1; i <= b.n; i++ {
		if err := fn(i, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
			return b.n, err
		}
	}
	return b.n, nil
}

// ocrRunner stands in for the tesseract binary and prints the same text for every image.
type ocrRunner struct {
	mu    sync.Mutex
	text  string
	calls int
}

func (r *ocrRunner) Run(_ context.Context, stdin io.Reader, _ string, _ ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if stdin != nil {
		_, _ = io.Copy(io.Discard, stdin)
	}
	return []byte(r.text), nil, nil
}
