package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// UnknownLanguage is reported when the language of a sample cannot be identified.
const UnknownLanguage = "unknown"

const (
	// minLanguageSample is the shortest sample (in runes) worth classifying.
	minLanguageSample = 20
	// minLanguageConfidence filters out statistically ambiguous guesses.
	minLanguageConfidence = 0.1
)

// DetectLanguage returns the ISO 639-1 code of the dominant language in text, or
// UnknownLanguage when the sample is too short or the guess is ambiguous.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minLanguageSample {
		return UnknownLanguage
	}

	info := whatlanggo.Detect(text)
	if info.Lang < 0 || info.Confidence < minLanguageConfidence {
		return UnknownLanguage
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return UnknownLanguage
	}
	return code
}
