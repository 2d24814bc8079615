package ingestion

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTesseractOCR_RecognizeFile(t *testing.T) {
	runner := &fakeRunner{outputs: []string{"JANE DOE\n"}}
	ocr := NewTesseractOCR(TesseractConfig{TessdataDir: "/usr/share/tessdata", PSM: 6}, runner, zerolog.Nop())

	text, err := ocr.RecognizeFile(context.Background(), "/scans/cv.png")
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\n", text)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "tesseract", runner.calls[0].name)
	assert.Equal(t,
		[]string{"/scans/cv.png", "stdout", "-l", "eng", "--tessdata-dir", "/usr/share/tessdata", "--psm", "6"},
		runner.calls[0].args)
	assert.Nil(t, runner.calls[0].stdin)
}

func TestTesseractOCR_RecognizeStdin(t *testing.T) {
	runner := &fakeRunner{outputs: []string{"page text"}}
	ocr := NewTesseractOCR(TesseractConfig{Binary: "/opt/bin/tesseract", Lang: "fra"}, runner, zerolog.Nop())

	text, err := ocr.Recognize(context.Background(), bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "page text", text)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/opt/bin/tesseract", runner.calls[0].name)
	assert.Equal(t, []string{"stdin", "stdout", "-l", "fra"}, runner.calls[0].args)
	assert.Equal(t, []byte("png-bytes"), runner.calls[0].stdin)
}

func TestTesseractOCR_Error(t *testing.T) {
	boom := errors.New("exit status 1")
	runner := &fakeRunner{errs: []error{boom}}
	ocr := NewTesseractOCR(TesseractConfig{}, runner, zerolog.Nop())

	_, err := ocr.RecognizeFile(context.Background(), "cv.png")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tesseract exploded")
}
