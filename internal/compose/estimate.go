package compose

import (
	"strings"
	"unicode/utf8"
)

// Block is one paragraph of section content as the page estimator sees it.
type Block struct {
	Text string
	// Lines overrides the line count derived from Text; used for images.
	Lines int
}

// PageEstimator predicts how many pages a run of blocks occupies when it starts on a
// fresh page. Implementations must be deterministic.
type PageEstimator interface {
	Pages(blocks []Block) int
}

// SignatureLines is the height of a signature label plus image, in body text lines.
const SignatureLines = 6

const (
	DefaultCharsPerLine = 70
	DefaultLinesPerPage = 38
)

// LineEstimator counts wrapped lines: each line of a paragraph takes
// ceil(runes/CharsPerLine) lines, at least one, and pages hold LinesPerPage lines.
// Fields that are not positive, as in the zero value, use the A4 defaults.
type LineEstimator struct {
	CharsPerLine int
	LinesPerPage int
}

func NewLineEstimator(charsPerLine, linesPerPage int) LineEstimator {
	return LineEstimator{CharsPerLine: charsPerLine, LinesPerPage: linesPerPage}.withDefaults()
}

func (e LineEstimator) withDefaults() LineEstimator {
	if e.CharsPerLine <= 0 {
		e.CharsPerLine = DefaultCharsPerLine
	}
	if e.LinesPerPage <= 0 {
		e.LinesPerPage = DefaultLinesPerPage
	}
	return e
}

func (e LineEstimator) Lines(b Block) int {
	if b.Lines > 0 {
		return b.Lines
	}
	e = e.withDefaults()

	total := 0
	for _, line := range strings.Split(b.Text, "\n") {
		n := utf8.RuneCountInString(line)
		wrapped := (n + e.CharsPerLine - 1) / e.CharsPerLine
		if wrapped < 1 {
			wrapped = 1
		}
		total += wrapped
	}
	return total
}

func (e LineEstimator) Pages(blocks []Block) int {
	e = e.withDefaults()
	lines := 0
	for _, b := range blocks {
		lines += e.Lines(b)
	}
	pages := (lines + e.LinesPerPage - 1) / e.LinesPerPage
	if pages < 1 {
		return 1
	}
	return pages
}
