package mapper

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted in the worksheet, tried in order. The first match
// wins.
var dateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"2006-01-02",
}

// ParseAnyDate parses a worksheet date cell in any of the accepted layouts.
func ParseAnyDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %q", s)
}

// NormalizeDate converts a date cell to the canonical YYYY-mm-dd form.
// Unparseable input is returned unchanged; the sheet is operator-maintained
// and a bad date must never block report generation.
func NormalizeDate(s string) string {
	t, err := ParseAnyDate(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format("2006-01-02")
}

// FormatDateTitle renders a date cell as dd.mm.YYYY for report filenames.
// Unparseable input falls back to separator substitution, matching what the
// filename would have looked like historically.
func FormatDateTitle(s string) string {
	t, err := ParseAnyDate(s)
	if err != nil {
		r := strings.NewReplacer("/", ".", "-", ".")
		return r.Replace(strings.TrimSpace(s))
	}
	return t.Format("02.01.2006")
}
