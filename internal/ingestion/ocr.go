package ingestion

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// OCR recognises text in images.
type OCR interface {
	// RecognizeFile reads the image at path.
	RecognizeFile(ctx context.Context, path string) (string, error)
	// Recognize reads an encoded image from r.
	Recognize(ctx context.Context, r io.Reader) (string, error)
}

// TesseractConfig configures the tesseract CLI.
type TesseractConfig struct {
	Binary      string // defaults to "tesseract"
	Lang        string // defaults to "eng"
	TessdataDir string
	PSM         int // page segmentation mode, 0 keeps tesseract's default
}

// TesseractOCR shells out to the tesseract CLI.
type TesseractOCR struct {
	cfg    TesseractConfig
	runner Runner
	logger zerolog.Logger
}

// NewTesseractOCR applies defaults to cfg. A nil runner uses ExecRunner.
func NewTesseractOCR(cfg TesseractConfig, runner Runner, logger zerolog.Logger) *TesseractOCR {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &TesseractOCR{cfg: cfg, runner: runner, logger: logger}
}

// RecognizeFile runs `tesseract <path> stdout`.
func (t *TesseractOCR) RecognizeFile(ctx context.Context, path string) (string, error) {
	return t.run(ctx, nil, path)
}

// Recognize pipes the image to `tesseract stdin stdout`.
func (t *TesseractOCR) Recognize(ctx context.Context, r io.Reader) (string, error) {
	return t.run(ctx, r, "stdin")
}

func (t *TesseractOCR) run(ctx context.Context, stdin io.Reader, input string) (string, error) {
	out, errb, err := t.runner.Run(ctx, stdin, t.cfg.Binary, t.args(input)...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}

func (t *TesseractOCR) args(input string) []string {
	args := []string{input, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	return args
}
