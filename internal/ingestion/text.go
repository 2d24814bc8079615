package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reBlankLines = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted document text while keeping its line structure:
// line endings become LF, form feeds and NUL bytes from PDF/OCR output are dropped,
// runs of spaces collapse, and at most one blank line separates paragraphs.
// The result is trimmed.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\f", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := removeExcessiveBlankLines(strings.Join(cleanedLines, "\n"))
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace and keeps leading indentation, which text layers
// and OCR use for nested bullets. Typographic bullet glyphs become "-".
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}
	indent := len(line) - len(trimmed)

	for _, glyph := range bulletGlyphs {
		if rest, ok := strings.CutPrefix(trimmed, glyph); ok {
			trimmed = "- " + strings.TrimLeft(rest, " \t")
			break
		}
	}

	trimmed = strings.TrimRightFunc(reSpaces.ReplaceAllString(trimmed, " "), unicode.IsSpace)
	return strings.Repeat(" ", indent) + trimmed
}

var bulletGlyphs = []string{"•", "·", "▪", "●", "◦", "‣", "\uf0b7"}

// removeExcessiveBlankLines keeps at most one blank line between paragraphs
func removeExcessiveBlankLines(content string) string {
	return reBlankLines.ReplaceAllString(content, "\n\n")
}

// WriteOutput writes <base>.txt and <base>.meta.json into outDir.
func WriteOutput(outDir, base, text string, metadata *Metadata) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, base+".txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return "", err
	}
	metaPath := filepath.Join(outDir, base+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}

	return textPath, nil
}
