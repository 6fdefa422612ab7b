// Package normalize holds the cell-level cleanup shared by every import path:
// dates, blank detection, header keys and the view's substring filter.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateLayout is the canonical stored form of every logistics date.
const DateLayout = "02/01/2006"

// spreadsheet serial day 0
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// 9999-12-31
const maxSerial = 2958466

var blankTokens = map[string]struct{}{"": {}, "nan": {}, "nat": {}, "none": {}}

var dashLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	// day-first fallback for dd-mm-yyyy exports
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
}

var slashLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006/1/2",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
	"2/1/06",
}

// Date normalizes a raw date cell to DD/MM/YYYY. It reports false for blanks
// and anything it cannot parse; it never fails loudly.
func Date(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if _, blank := blankTokens[strings.ToLower(s)]; blank {
		return "", false
	}
	var (
		t  time.Time
		ok bool
	)
	switch {
	case strings.Contains(s, "-"):
		t, ok = parseAny(s, dashLayouts)
	case strings.Contains(s, "/"):
		t, ok = parseAny(s, slashLayouts)
	default:
		t, ok = fromSerial(s)
	}
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f < 0 || f >= maxSerial {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(f))), true
}

// String trims raw and reports false when nothing is left.
func String(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	return s, true
}

// Ptr is String returning nil for absent values, the shape nullable columns use.
func Ptr(raw string) *string {
	s, ok := String(raw)
	if !ok {
		return nil
	}
	return &s
}

// Contains is the view filter predicate: case-insensitive substring match,
// a blank keyword matches everything and a nil value reads as "".
func Contains(value *string, keyword string) bool {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return true
	}
	v := ""
	if value != nil {
		v = *value
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(kw))
}

// Header turns a column title into its lookup key: BOM stripped, NFC composed,
// trimmed, lower-cased, inner whitespace collapsed.
func Header(raw string) string {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = norm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// PI is the join-key form of a PI number: trimmed and upper-cased.
func PI(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
