// Package normalize provides the deterministic post-processing helpers applied to résumé text
// and extracted fields: date parsing, contact discovery, and language identification.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	dateparser "github.com/markusmobius/go-dateparser"
)

// ISODate is the layout every normalized date is rendered with.
const ISODate = "2006-01-02"

// absentValues are spellings that mean "no date" rather than an unparseable one.
var absentValues = map[string]struct{}{
	"none": {},
	"null": {},
	"nan":  {},
}

// openEndedValues mark a period that has not ended. They carry no date, and go-dateparser
// would otherwise resolve some of them to the current day.
var openEndedValues = map[string]struct{}{
	"present": {},
	"current": {},
	"now":     {},
	"today":   {},
	"ongoing": {},
	"to date": {},
}

var reBareYear = regexp.MustCompile(`^(1[89]\d{2}|2\d{3})$`)

// dateConfig resolves a missing day of month to the first day. go-dateparser otherwise
// borrows the current day, which makes "March 2019" depend on when it was parsed.
var dateConfig = &dateparser.Configuration{
	PreferredDayOfMonth: dateparser.First,
}

// ParseDate turns a free-text date expression into a calendar date in UTC.
// The second return value is false when the input is empty, one of the absence
// sentinels ("none", "null", "nan"), an open end such as "Present", or cannot be parsed. It never returns an error.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(s)
	if _, ok := absentValues[lower]; ok {
		return time.Time{}, false
	}
	if _, ok := openEndedValues[lower]; ok {
		return time.Time{}, false
	}

	// A bare year carries neither month nor day; both resolve to the first.
	if reBareYear.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	if t, err := time.Parse(ISODate, s); err == nil {
		return t, true
	}

	if t, err := dateparse.ParseStrict(s); err == nil {
		return civil(t), true
	}

	dt, err := dateparser.Parse(dateConfig, s)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	return civil(dt.Time), true
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// civil drops the clock and zone so dates compare by calendar day only.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
