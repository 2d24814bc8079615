package ingestion

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
)

type runCall struct {
	name  string
	args  []string
	stdin []byte
}

// fakeRunner returns canned output per call and records what it was asked to run.
type fakeRunner struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	calls   []runCall
}

func (f *fakeRunner) Run(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := runCall{name: name, args: args}
	if stdin != nil {
		call.stdin, _ = io.ReadAll(stdin)
	}
	f.calls = append(f.calls, call)

	i := len(f.calls) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, []byte("tesseract exploded"), err
	}
	out := ""
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	return []byte(out), nil, nil
}

type fakePageReader struct {
	pages []string
	err   error
}

func (f fakePageReader) ReadPages(string) ([]string, error) {
	return f.pages, f.err
}

// fakeRasterizer renders a fixed number of blank pages.
type fakeRasterizer struct {
	pages int
	dpi   float64
	err   error
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, _ string, dpi float64, fn func(int, image.Image) error) (int, error) {
	f.dpi = dpi
	if f.err != nil {
		return 0, f.err
	}
	for i := 1; i <= f.pages; i++ {
		if err := ctx.Err(); err != nil {
			return f.pages, err
		}
		img := image.NewGray(image.Rect(0, 0, 4, 4))
		img.Set(0, 0, color.White)
		if err := fn(i, img); err != nil {
			return f.pages, err
		}
	}
	return f.pages, nil
}

// fakeOCR returns texts in call order; an entry of "!" fails that call.
type fakeOCR struct {
	mu        sync.Mutex
	texts     []string
	fileCalls []string
	calls     int
}

var errFakeOCR = errors.New("ocr failed")

func (f *fakeOCR) next() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.texts) {
		return "", nil
	}
	if f.texts[i] == "!" {
		return "", errFakeOCR
	}
	return f.texts[i], nil
}

func (f *fakeOCR) RecognizeFile(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	f.fileCalls = append(f.fileCalls, path)
	f.mu.Unlock()
	return f.next()
}

func (f *fakeOCR) Recognize(_ context.Context, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return f.next()
}
