package ingestion

import (
	"fmt"

	"github.com/jonathan/resume-intake/internal/types"
)

// ExtractError wraps a failure to read text from a document
type ExtractError struct {
	Path   string
	Method types.ExtractionMethod
	Cause  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %v", e.Method, e.Path, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
