// Package ingestion turns résumé documents (PDFs and images) into cleaned raw text.
package ingestion

import (
	"path/filepath"
	"strings"
)

// DocumentKind is the coarse type of an input document
type DocumentKind string

const (
	KindPDF         DocumentKind = "pdf"
	KindImage       DocumentKind = "image"
	KindUnsupported DocumentKind = "unsupported"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".tiff": {},
}

// Classify returns the document kind implied by the file extension (case-insensitive).
// File contents are never inspected, so a misnamed file is misclassified.
func Classify(path string) DocumentKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return KindPDF
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	return KindUnsupported
}

// SupportedExtensions lists every extension Classify accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".png", ".jpg", ".jpeg", ".bmp", ".tiff"}
}
