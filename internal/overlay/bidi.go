package overlay

import (
	"golang.org/x/text/unicode/bidi"
)

type direction int8

const (
	neutral direction = iota
	ltr
	rtl
)

func classify(r rune) direction {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.R, bidi.AL:
		return rtl
	case bidi.L, bidi.EN, bidi.AN:
		return ltr
	}
	return neutral
}

var mirrors = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
}

// Visual reorders a single line from logical to visual order for a left-to-right
// glyph drawer. Lines without right-to-left characters are returned unchanged. The
// base direction is right-to-left; runs of Latin text and numbers keep their internal
// order, and brackets inside right-to-left runs are mirrored.
func Visual(s string) string {
	runes := []rune(s)

	dirs := make([]direction, len(runes))
	hasRTL := false
	for i, r := range runes {
		dirs[i] = classify(r)
		if dirs[i] == rtl {
			hasRTL = true
		}
	}
	if !hasRTL {
		return s
	}

	// neutrals take the direction of their strong neighbours when both agree,
	// otherwise the right-to-left base direction
	for i := 0; i < len(dirs); {
		if dirs[i] != neutral {
			i++
			continue
		}
		j := i
		for j < len(dirs) && dirs[j] == neutral {
			j++
		}
		resolved := rtl
		if i > 0 && j < len(dirs) && dirs[i-1] == ltr && dirs[j] == ltr {
			resolved = ltr
		}
		for k := i; k < j; k++ {
			dirs[k] = resolved
		}
		i = j
	}

	type run struct {
		dir   direction
		runes []rune
	}
	var runs []run
	for i, r := range runes {
		if len(runs) == 0 || runs[len(runs)-1].dir != dirs[i] {
			runs = append(runs, run{dir: dirs[i]})
		}
		runs[len(runs)-1].runes = append(runs[len(runs)-1].runes, r)
	}

	out := make([]rune, 0, len(runes))
	for i := len(runs) - 1; i >= 0; i-- {
		rn := runs[i]
		if rn.dir == ltr {
			out = append(out, rn.runes...)
			continue
		}
		for k := len(rn.runes) - 1; k >= 0; k-- {
			r := rn.runes[k]
			if m, ok := mirrors[r]; ok {
				r = m
			}
			out = append(out, r)
		}
	}
	return string(out)
}
