package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Body is the w:body element of the main document. New content is inserted before the
// trailing section properties so page setup stays last.
type Body struct {
	pkg *Package
	el  *etree.Element
}

// Append adds elements at the end of the body content.
func (b *Body) Append(els ...*etree.Element) {
	for _, el := range els {
		if sect := b.sectPr(); sect != nil {
			b.el.InsertChildAt(sect.Index(), el)
			continue
		}
		b.el.AddChild(el)
	}
}

// Prepend inserts elements, in order, before all existing content.
func (b *Body) Prepend(els ...*etree.Element) {
	for i, el := range els {
		b.el.InsertChildAt(i, el)
	}
}

func (b *Body) sectPr() *etree.Element {
	children := b.el.ChildElements()
	if len(children) == 0 {
		return nil
	}
	last := children[len(children)-1]
	if last.Tag == "sectPr" {
		return last
	}
	return nil
}

// Paragraphs returns the top level paragraphs in document order.
func (b *Body) Paragraphs() []*etree.Element {
	var out []*etree.Element
	for _, c := range b.el.ChildElements() {
		if c.Tag == "p" {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the text of every top level paragraph.
func (b *Body) Text() []string {
	paras := b.Paragraphs()
	out := make([]string, len(paras))
	for i, p := range paras {
		out[i] = ParagraphText(p)
	}
	return out
}

// Alignment values for w:jc. In a bidi paragraph "start" is the right margin.
const (
	AlignBoth   = "both"
	AlignCenter = "center"
	AlignStart  = "start"
	AlignEnd    = "end"
)

// ParagraphStyle controls the formatting of a generated paragraph. Every generated
// paragraph is right-to-left.
type ParagraphStyle struct {
	Align        string
	Bold         bool
	Underline    bool
	Size         int // half points, 0 = style default
	SpacingAfter int // twips, -1 = style default
	Heading      int // 1 or 2 applies Heading1/Heading2, 0 = body text
}

var (
	BodyText = ParagraphStyle{Align: AlignBoth, SpacingAfter: -1}
	Title    = ParagraphStyle{Align: AlignCenter, Bold: true, Size: 32, SpacingAfter: 240, Heading: 1}
	Heading  = ParagraphStyle{Align: AlignStart, Bold: true, Underline: true, Size: 26, SpacingAfter: 120, Heading: 2}
	Label    = ParagraphStyle{Align: AlignCenter, Bold: true, Size: 28, SpacingAfter: -1}
)

// Paragraph builds a right-to-left paragraph. Newlines in text become line breaks.
func Paragraph(text string, st ParagraphStyle) *etree.Element {
	p := etree.NewElement("w:p")
	ppr := p.CreateElement("w:pPr")
	if st.Heading > 0 {
		ppr.CreateElement("w:pStyle").CreateAttr("w:val", "Heading"+strconv.Itoa(st.Heading))
	}
	ppr.CreateElement("w:bidi")
	if st.SpacingAfter >= 0 {
		ppr.CreateElement("w:spacing").CreateAttr("w:after", strconv.Itoa(st.SpacingAfter))
	}
	if st.Align != "" {
		ppr.CreateElement("w:jc").CreateAttr("w:val", st.Align)
	}

	for i, line := range strings.Split(text, "\n") {
		r := p.CreateElement("w:r")
		runProperties(r, st)
		if i > 0 {
			r.CreateElement("w:br")
		}
		if line == "" {
			continue
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
	return p
}

func runProperties(r *etree.Element, st ParagraphStyle) {
	rpr := r.CreateElement("w:rPr")
	rpr.CreateElement("w:rtl")
	if st.Bold {
		rpr.CreateElement("w:b")
		rpr.CreateElement("w:bCs")
	}
	if st.Underline {
		rpr.CreateElement("w:u").CreateAttr("w:val", "single")
	}
	if st.Size > 0 {
		size := strconv.Itoa(st.Size)
		rpr.CreateElement("w:sz").CreateAttr("w:val", size)
		rpr.CreateElement("w:szCs").CreateAttr("w:val", size)
	}
}

// Spacer is an empty paragraph.
func Spacer() *etree.Element {
	p := etree.NewElement("w:p")
	p.CreateElement("w:pPr").CreateElement("w:bidi")
	return p
}

// PageBreak is a paragraph holding a single page break.
func PageBreak() *etree.Element {
	p := etree.NewElement("w:p")
	p.CreateElement("w:r").CreateElement("w:br").CreateAttr("w:type", "page")
	return p
}

// IsPageBreak reports whether el is a paragraph containing a page break.
func IsPageBreak(el *etree.Element) bool {
	if el.Tag != "p" {
		return false
	}
	for _, r := range el.ChildElements() {
		if r.Tag != "r" {
			continue
		}
		for _, c := range r.ChildElements() {
			if c.Tag == "br" && c.SelectAttrValue("w:type", "") == "page" {
				return true
			}
		}
	}
	return false
}

// HasDrawing reports whether el contains an inline drawing.
func HasDrawing(el *etree.Element) bool {
	return len(el.FindElements(".//drawing")) > 0
}

// ParagraphText concatenates the text runs of a paragraph; line breaks read as newlines.
func ParagraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, r := range p.ChildElements() {
		if r.Tag != "r" {
			continue
		}
		for _, c := range r.ChildElements() {
			switch c.Tag {
			case "t":
				sb.WriteString(c.Text())
			case "br":
				if c.SelectAttrValue("w:type", "") == "" {
					sb.WriteByte('\n')
				}
			case "tab":
				sb.WriteByte('\t')
			}
		}
	}
	return sb.String()
}
