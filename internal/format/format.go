// Package format turns raw submission fields into the display strings the legal
// templates expect. Every function is pure and total: malformed numbers read as zero,
// missing optional fields drop their sub-phrase, and empty lists render as "".
package format

import (
	"strings"
	"time"
)

const currency = "₪"

// List maps every item to a display entry and joins the non-empty ones. Entries are
// separated by a newline, or by a blank line when any entry spans several lines.
func List[T any](items []T, mapper func(T) string) string {
	entries := make([]string, 0, len(items))
	multiline := false
	for _, item := range items {
		entry := mapper(item)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "\n") {
			multiline = true
		}
		entries = append(entries, entry)
	}

	sep := "\n"
	if multiline {
		sep = "\n\n"
	}
	return strings.Join(entries, sep)
}

var truthy = map[string]bool{
	"כן":   true,
	"yes":  true,
	"y":    true,
	"true": true,
	"1":    true,
	"on":   true,
}

// YesNo canonicalizes the many spellings of a boolean answer to "כן" or "לא".
func YesNo(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "כן"
		}
	case string:
		if truthy[strings.ToLower(strings.TrimSpace(t))] {
			return "כן"
		}
	case *string:
		if t != nil {
			return YesNo(*t)
		}
	}
	return "לא"
}

// IsYes reports whether v is a truthy answer.
func IsYes(v any) bool {
	return YesNo(v) == "כן"
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// FormatDate renders ISO dates as DD/MM/YYYY. Anything else is returned trimmed as typed.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

// phrase joins the non-empty parts with sep.
func phrase(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// prefixed returns prefix+v, or "" when v is blank.
func prefixed(prefix, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return prefix + v
}
