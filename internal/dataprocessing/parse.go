package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted date/timestamp formats, most specific
// first. Slash and dot formats are day-first: the exports this pipeline
// ingests come from Romanian market operators.
var dateLayouts = []struct {
	layout  string
	hasTime bool
}{
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"2006-1-2", false},
	{"02/01/2006 15:04:05", true},
	{"02/01/2006 15:04", true},
	{"02/01/2006", false},
	{"2/1/2006", false},
	{"02.01.2006 15:04:05", true},
	{"02.01.2006 15:04", true},
	{"02.01.2006", false},
	{"2.1.2006", false},
	{"2006/01/02", false},
}

// parseDateTime parses a cell as a calendar date or full timestamp.
// hasTime reports whether the matched layout carried a time-of-day, so
// the normalizer knows whether an hour can be derived from it.
func parseDateTime(s string) (t time.Time, hasTime bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range dateLayouts {
		if parsed, err := time.Parse(l.layout, s); err == nil {
			return parsed, l.hasTime, true
		}
	}
	return time.Time{}, false, false
}

// dateOnly strips the time-of-day, leaving midnight UTC. Only the
// calendar date participates in keys, cutoffs and output.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseHour accepts integers, "HH" or "HH:MM" strings (taking HH), and
// free-form interval labels such as "[01-02)" (taking the first two
// digits found). Range checking is the caller's concern.
func parseHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if idx := strings.Index(s, ":"); idx >= 0 {
		v, err := strconv.Atoi(strings.TrimSpace(s[:idx]))
		if err != nil {
			return 0, false
		}
		return v, true
	}
	var digits []byte
	for i := 0; i < len(s) && len(digits) < 2; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) < 2 {
		return 0, false
	}
	v, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	groupedThousandsRe = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalCommaRe     = regexp.MustCompile(`^-?\d+,\d+$`)
)

// parsePrice coerces a cell to a float. Besides plain decimals it accepts
// digit-grouped values ("1,234.56") and the decimal comma Romanian
// exports use ("81,56").
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if groupedThousandsRe.MatchString(s) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err == nil {
			return v, true
		}
	}
	if decimalCommaRe.MatchString(s) {
		v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}
