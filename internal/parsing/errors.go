package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-intake/internal/types"
)

// APICallError represents an error from the generative text service
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error decoding the model's JSON response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ExtractionFailedError is returned once every extraction strategy has been tried.
// Cause is the error from the last attempt.
type ExtractionFailedError struct {
	Attempts []types.ExtractionAttempt
	Cause    error
}

func (e *ExtractionFailedError) Error() string {
	labels := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		labels[i] = a.Strategy
	}
	return fmt.Sprintf("structured extraction failed after %d attempts (%s): %v",
		len(e.Attempts), strings.Join(labels, ", "), e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
