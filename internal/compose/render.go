package compose

import (
	"strings"

	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/internal/placeholder"
)

const headingPrefix = "## "

// Render fills a template and splits it into paragraphs. Blank template lines separate
// paragraphs and "## " template lines become headings; both are decided before filling
// so submitted text cannot introduce structure. Paragraphs left empty by the fill are
// dropped.
func Render(template string, values map[string]any) []Paragraph {
	var (
		out     []Paragraph
		pending []string
	)
	flush := func() {
		text := strings.Trim(strings.Join(pending, "\n"), "\n")
		pending = pending[:0]
		if strings.TrimSpace(text) == "" {
			return
		}
		out = append(out, Paragraph{Text: text, Style: docx.BodyText})
	}

	for _, line := range strings.Split(strings.ReplaceAll(template, "\r\n", "\n"), "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, headingPrefix):
			flush()
			heading := strings.TrimSpace(placeholder.Fill(line[len(headingPrefix):], values))
			if heading != "" {
				out = append(out, Paragraph{Text: heading, Style: docx.Heading})
			}
		default:
			pending = append(pending, strings.TrimRight(placeholder.Fill(line, values), " \t"))
		}
	}
	flush()

	return out
}
