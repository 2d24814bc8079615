package normalize

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reURL   = regexp.MustCompile(`https?://\S+`)
	// rePhoneCandidate over-matches on purpose; phonenumbers decides what is a real number.
	rePhoneCandidate = regexp.MustCompile(`\+?\(?\d[\d \t().-]{6,}\d`)
)

// FindEmails returns every email address in text in order of appearance, duplicates kept.
// The result is never nil.
func FindEmails(text string) []string {
	return findAll(reEmail, text)
}

// FindURLs returns every http:// or https:// URL in text, each running up to the next whitespace.
func FindURLs(text string) []string {
	return findAll(reURL, text)
}

// FindURLContaining returns the first URL in text whose host or path contains needle
// (case-insensitive), or "" when there is none.
func FindURLContaining(text, needle string) string {
	needle = strings.ToLower(needle)
	for _, u := range FindURLs(text) {
		if strings.Contains(strings.ToLower(u), needle) {
			return strings.TrimRight(u, ".,;)")
		}
	}
	return ""
}

// FindPhones returns valid phone numbers found in text formatted as E.164. Numbers written
// without a country prefix are interpreted in defaultRegion (e.g. "US").
func FindPhones(text, defaultRegion string) []string {
	if defaultRegion == "" {
		defaultRegion = "US"
	}
	phones := make([]string, 0)
	for _, candidate := range rePhoneCandidate.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(candidate, defaultRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		phones = append(phones, phonenumbers.Format(num, phonenumbers.E164))
	}
	return phones
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
