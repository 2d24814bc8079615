package pipeline

import (
	"github.com/jonathan/resume-intake/internal/normalize"
	"github.com/jonathan/resume-intake/internal/types"
)

// NormalizeDates resolves every education and work date in place. Dates that cannot be
// parsed become absent.
func NormalizeDates(r *types.StructuredResume) {
	for i := range r.Education {
		item := &r.Education[i]
		item.StartDate = item.StartDate.Normalized()
		item.EndDate = item.EndDate.Normalized()
	}
	for i := range r.WorkExperience {
		item := &r.WorkExperience[i]
		item.StartDate = item.StartDate.Normalized()
		item.EndDate = item.EndDate.Normalized()
	}
}

// BackfillContact fills contact fields the model left empty from the raw text. Only the
// first match of each kind is adopted; fields already set are never overwritten.
func BackfillContact(c *types.Contact, rawText, phoneRegion string) {
	if c.Email == "" {
		if emails := normalize.FindEmails(rawText); len(emails) > 0 {
			c.Email = emails[0]
		}
	}
	if c.LinkedIn == "" {
		c.LinkedIn = normalize.FindURLContaining(rawText, "linkedin.com")
	}
	if c.GitHub == "" {
		c.GitHub = normalize.FindURLContaining(rawText, "github.com")
	}
	if c.Phone == "" {
		if phones := normalize.FindPhones(rawText, phoneRegion); len(phones) > 0 {
			c.Phone = phones[0]
		}
	}
}

// Enrich applies the post-extraction passes to r: date normalization, contact back-fill
// and language detection over rawText.
func Enrich(r *types.StructuredResume, rawText, phoneRegion string) {
	NormalizeDates(r)
	BackfillContact(&r.Contact, rawText, phoneRegion)
	r.DetectedLanguage = normalize.DetectLanguage(rawText)
}
