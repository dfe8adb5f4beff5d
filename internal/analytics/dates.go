package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order after the time part is cut off.
// Day-first layouts win over month-first ones for ambiguous input.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"01-02-2006",
	"2006.01.02",
	"02.01.2006",
}

var (
	yearFirstPattern = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
	yearLastPattern  = regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})`)
)

// ParseDate extracts the calendar date of a stored timestamp. It accepts
// time values and the string shapes found in order data ("2024-03-05",
// "2024-03-05 10:00:00", "2024-03-05T10:00:00Z", "05/03/2024", ...).
// The result is midnight UTC of that date; ok is false when nothing matched.
func ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return dateOf(v), !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return dateOf(*v), !v.IsZero()
	case []byte:
		return parseDateString(string(v))
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDateString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	datePart := s
	if i := strings.IndexAny(s, " T"); i > 0 {
		datePart = s[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, datePart); err == nil {
			return t, true
		}
	}

	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	if m := yearLastPattern.FindStringSubmatch(s); m != nil {
		if t, ok := buildDate(m[3], m[2], m[1]); ok {
			return t, true
		}
		if t, ok := buildDate(m[3], m[1], m[2]); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// buildDate rejects out-of-range parts instead of letting time.Date normalize them.
func buildDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
