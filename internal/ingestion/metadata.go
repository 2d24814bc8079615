package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-intake/internal/types"
)

// Metadata describes an extracted document
type Metadata struct {
	Source    string                 `json:"source"`
	Kind      DocumentKind           `json:"kind"`
	Method    types.ExtractionMethod `json:"method,omitempty"`
	Pages     int                    `json:"pages"`
	Chars     int                    `json:"chars"`
	Timestamp string                 `json:"timestamp"` // RFC3339
	Hash      string                 `json:"hash"`      // SHA256 of the extracted text
}

// NewMetadata describes res as extracted from path, stamped with the current time.
func NewMetadata(path string, res Result) *Metadata {
	return &Metadata{
		Source:    filepath.Base(path),
		Kind:      res.Kind,
		Method:    res.Method,
		Pages:     res.Pages,
		Chars:     len([]rune(res.Text)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(res.Text),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
