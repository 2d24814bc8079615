package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/resume-intake/internal/normalize"
)

// Date is a résumé date as written in the source document, optionally resolved to a
// calendar day. Extraction stores whatever text the model produced in Raw; enrichment
// replaces it with the resolved ISO date or clears it when the text is unparseable.
type Date struct {
	Raw   string
	Time  time.Time
	Valid bool
}

// NewDate wraps free text without resolving it.
func NewDate(raw string) Date {
	return Date{Raw: strings.TrimSpace(raw)}
}

// DateOf returns a resolved date for t.
func DateOf(t time.Time) Date {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date{Raw: normalize.FormatDate(day), Time: day, Valid: true}
}

// Present reports whether the source document supplied any value for this date.
func (d Date) Present() bool {
	return d.Valid || d.Raw != ""
}

// Resolve returns the calendar day this date denotes, parsing Raw when needed.
func (d Date) Resolve() (time.Time, bool) {
	if d.Valid {
		return d.Time, true
	}
	return normalize.ParseDate(d.Raw)
}

// Normalized returns the resolved form of d, or the zero Date when d cannot be resolved.
// Normalizing an already normalized date returns it unchanged.
func (d Date) Normalized() Date {
	t, ok := d.Resolve()
	if !ok {
		return Date{}
	}
	return DateOf(t)
}

// String returns the ISO form for resolved dates and the raw text otherwise.
func (d Date) String() string {
	if d.Valid {
		return normalize.FormatDate(d.Time)
	}
	return d.Raw
}

// MarshalJSON encodes absent dates as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a string, a bare number such as 2020, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = NewDate(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = NewDate(n.String())
	return nil
}
