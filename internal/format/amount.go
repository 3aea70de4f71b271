package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// stripped before parsing; order matters for the multi-rune tokens
var amountNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"₪", "",
	`ש"ח`, "",
	"ש״ח", "",
	"NIS", "",
	"nis", "",
	"$", "",
)

var numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)

// ParseAmount reads a client typed amount. Separators and currency markers are ignored,
// the longest numeric prefix is used, and anything unparsable is 0.
func ParseAmount(s string) float64 {
	cleaned := amountNoise.Replace(strings.TrimSpace(s))
	m := numericPrefix.FindString(cleaned)
	if m == "" {
		return 0
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatAmount renders v with Hebrew locale digit grouping. Whole numbers have no
// fraction digits, everything else is rounded to two.
func FormatAmount(v float64) string {
	p := message.NewPrinter(language.Hebrew)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("%.2f", v)
}

// FormatFigure parses and re-renders a raw amount, or returns "" when s is blank.
func FormatFigure(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return FormatAmount(ParseAmount(s))
}

// IncomeRatio divides the higher income by the lower one. A zero lower income against a
// positive higher one is an infinite ratio; two zero incomes are ratio 0.
func IncomeRatio(a, b float64) float64 {
	higher, lower := math.Max(a, b), math.Min(a, b)
	if lower <= 0 {
		if higher > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return higher / lower
}
