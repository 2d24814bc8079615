package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-intake/internal/types"
)

// DefaultDPI is the rasterisation resolution for scanned pages. Lower values noticeably
// hurt recognition accuracy.
const DefaultDPI = 300

// PageTextReader returns the embedded text layer of each page of a PDF, in page order.
// Pages without a text layer yield "".
type PageTextReader interface {
	ReadPages(path string) ([]string, error)
}

// PDFTextReader reads embedded text with github.com/ledongthuc/pdf.
type PDFTextReader struct{}

// ReadPages implements PageTextReader.
func (PDFTextReader) ReadPages(path string) (pages []string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// Rasterizer renders each page of a PDF to an image and hands it to fn, in page order.
// It returns the number of pages in the document.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, dpi float64, fn func(page int, img image.Image) error) (int, error)
}

// FitzRasterizer renders pages with MuPDF through github.com/gen2brain/go-fitz.
type FitzRasterizer struct{}

// Rasterize implements Rasterizer. Page numbers passed to fn start at 1.
func (FitzRasterizer) Rasterize(ctx context.Context, path string, dpi float64, fn func(page int, img image.Image) error) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return n, fmt.Errorf("render page %d: %w", i+1, err)
		}
		if err := fn(i+1, img); err != nil {
			return n, err
		}
	}
	return n, nil
}

// EmbeddedPDFExtractor reads the PDF's own text layer.
type EmbeddedPDFExtractor struct {
	Reader PageTextReader
}

// Extract returns the joined page text; an empty Text means the PDF has no usable text layer.
func (e *EmbeddedPDFExtractor) Extract(_ context.Context, path string) (Result, error) {
	pages, err := e.Reader.ReadPages(path)
	if err != nil {
		return Result{}, &ExtractError{Path: path, Method: types.MethodPDFText, Cause: err}
	}
	return Result{
		Text:   CleanText(strings.Join(pages, "\n")),
		Kind:   KindPDF,
		Method: types.MethodPDFText,
		Pages:  len(pages),
	}, nil
}

// ExtractText implements TextExtractor.
func (e *EmbeddedPDFExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	res, err := e.Extract(ctx, path)
	return res.Text, err
}

// ScannedPDFExtractor rasterises every page and runs OCR on it.
type ScannedPDFExtractor struct {
	Rasterizer Rasterizer
	OCR        OCR
	DPI        int
	Logger     zerolog.Logger
}

// Extract OCRs each page in order. A page that fails OCR contributes no text; the
// extraction only fails when every page does.
func (e *ScannedPDFExtractor) Extract(ctx context.Context, path string) (Result, error) {
	dpi := e.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	var (
		texts    []string
		failed   int
		firstErr error
		buf      bytes.Buffer
	)
	pages, err := e.Rasterizer.Rasterize(ctx, path, float64(dpi), func(page int, img image.Image) error {
		buf.Reset()
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d: %w", page, err)
		}

		text, err := e.OCR.Recognize(ctx, bytes.NewReader(buf.Bytes()))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.Logger.Warn().Err(err).Str("path", path).Int("page", page).Msg("page ocr failed")
			failed++
			if firstErr == nil {
				firstErr = err
			}
			texts = append(texts, "")
			return nil
		}
		texts = append(texts, text)
		return nil
	})
	if err != nil {
		return Result{}, &ExtractError{Path: path, Method: types.MethodPDFOCR, Cause: err}
	}
	if pages > 0 && failed == pages {
		return Result{}, &ExtractError{Path: path, Method: types.MethodPDFOCR, Cause: firstErr}
	}

	return Result{
		Text:   CleanText(strings.Join(texts, "\n")),
		Kind:   KindPDF,
		Method: types.MethodPDFOCR,
		Pages:  pages,
	}, nil
}

// ExtractText implements TextExtractor.
func (e *ScannedPDFExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	res, err := e.Extract(ctx, path)
	return res.Text, err
}

// PDFExtractor tries the embedded text layer first and falls back to OCR when it is empty.
type PDFExtractor struct {
	Embedded *EmbeddedPDFExtractor
	Scanned  *ScannedPDFExtractor
	Logger   zerolog.Logger
}

// Extract implements DocumentExtractor.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (Result, error) {
	res, err := e.Embedded.Extract(ctx, path)
	if err == nil && res.Text != "" {
		return res, nil
	}
	if err != nil {
		// Unreadable text layer; rendering may still succeed.
		e.Logger.Warn().Err(err).Str("path", path).Msg("embedded text extraction failed, trying ocr")
	} else {
		e.Logger.Info().Str("path", path).Int("pages", res.Pages).Msg("no embedded text, falling back to ocr")
	}
	return e.Scanned.Extract(ctx, path)
}

// ExtractText implements TextExtractor.
func (e *PDFExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	res, err := e.Extract(ctx, path)
	return res.Text, err
}
