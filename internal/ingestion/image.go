package ingestion

import (
	"context"

	"github.com/jonathan/resume-intake/internal/types"
)

// ImageExtractor runs OCR on a whole image file.
type ImageExtractor struct {
	OCR OCR
}

// Extract implements DocumentExtractor.
func (e *ImageExtractor) Extract(ctx context.Context, path string) (Result, error) {
	text, err := e.OCR.RecognizeFile(ctx, path)
	if err != nil {
		return Result{}, &ExtractError{Path: path, Method: types.MethodImageOCR, Cause: err}
	}
	return Result{
		Text:   CleanText(text),
		Kind:   KindImage,
		Method: types.MethodImageOCR,
		Pages:  1,
	}, nil
}

// ExtractText implements TextExtractor.
func (e *ImageExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	res, err := e.Extract(ctx, path)
	return res.Text, err
}
