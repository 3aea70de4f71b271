// Package placeholder substitutes {{identifier}} tokens in plain-text legal templates.
//
// It is deliberately not a templating language: there are no loops or conditionals.
// Repeated blocks (one per child, one per debt) are rendered to a single string by the
// format package before substitution.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	token      = regexp.MustCompile(`\{\{(\w+)\}\}`)
	residual   = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	identifier = regexp.MustCompile(`^\w+$`)
)

// Fill replaces every bound {{key}} with its value and removes every other {{...}}
// token of the template. nil values render as "". Matching is case-sensitive.
//
// Tokens are resolved in a single pass over the template, so a value is never
// re-expanded and never removes template text. A "{{...}}" sequence formed where a
// value meets the surrounding text loses its outer braces, so the result never
// contains one.
func Fill(template string, values map[string]any) string {
	out := residual.ReplaceAllStringFunc(template, func(m string) string {
		key := m[2 : len(m)-2]
		if !identifier.MatchString(key) {
			return ""
		}
		v, ok := values[key]
		if !ok {
			return ""
		}
		return stringify(v)
	})

	for residual.MatchString(out) {
		out = residual.ReplaceAllStringFunc(out, func(m string) string {
			return m[1 : len(m)-1]
		})
	}
	return out
}

// Tokens lists the distinct identifiers referenced by template, in first-use order.
func Tokens(template string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range token.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Unbound lists identifiers referenced by template that values does not bind.
func Unbound(template string, values map[string]any) []string {
	var out []string
	for _, k := range Tokens(template) {
		if _, ok := values[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
