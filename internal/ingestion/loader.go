package ingestion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-intake/internal/types"
)

// TextExtractor produces raw text from a document path. The text is trimmed and never
// nil; "" means nothing could be recovered.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// DocumentExtractor is a TextExtractor that also reports how the text was obtained.
type DocumentExtractor interface {
	TextExtractor
	Extract(ctx context.Context, path string) (Result, error)
}

// Result is the outcome of loading one document
type Result struct {
	Text   string
	Kind   DocumentKind
	Method types.ExtractionMethod
	Pages  int
}

// Unsupported reports whether the loader refused the file because of its extension.
// Callers must check this; an unsupported file is not an error.
func (r Result) Unsupported() bool {
	return r.Kind == KindUnsupported
}

// Config configures the default extractors
type Config struct {
	Tesseract TesseractConfig
	DPI       int
}

// Loader dispatches documents to an extractor by kind.
type Loader struct {
	PDF    DocumentExtractor
	Image  DocumentExtractor
	Logger zerolog.Logger
}

// NewLoader wires the production extractors: ledongthuc/pdf for text layers, go-fitz for
// rasterising scanned pages and tesseract for OCR.
func NewLoader(cfg Config, runner Runner, logger zerolog.Logger) *Loader {
	ocr := NewTesseractOCR(cfg.Tesseract, runner, logger)
	return &Loader{
		PDF: &PDFExtractor{
			Embedded: &EmbeddedPDFExtractor{Reader: PDFTextReader{}},
			Scanned: &ScannedPDFExtractor{
				Rasterizer: FitzRasterizer{},
				OCR:        ocr,
				DPI:        cfg.DPI,
				Logger:     logger,
			},
			Logger: logger,
		},
		Image:  &ImageExtractor{OCR: ocr},
		Logger: logger,
	}
}

// Load classifies path by extension and extracts its text. Unsupported extensions return
// a Result whose Unsupported method reports true and a nil error.
func (l *Loader) Load(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	kind := Classify(path)

	var (
		res Result
		err error
	)
	switch kind {
	case KindPDF:
		res, err = l.PDF.Extract(ctx, path)
	case KindImage:
		res, err = l.Image.Extract(ctx, path)
	default:
		l.Logger.Warn().Str("path", path).Msg("unsupported file type")
		return Result{Kind: KindUnsupported}, nil
	}
	if err != nil {
		return Result{Kind: kind}, err
	}

	l.Logger.Debug().
		Str("path", path).
		Str("method", string(res.Method)).
		Int("pages", res.Pages).
		Int("chars", len(res.Text)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("text extracted")
	return res, nil
}

var (
	_ DocumentExtractor = (*PDFExtractor)(nil)
	_ DocumentExtractor = (*EmbeddedPDFExtractor)(nil)
	_ DocumentExtractor = (*ScannedPDFExtractor)(nil)
	_ DocumentExtractor = (*ImageExtractor)(nil)
)
