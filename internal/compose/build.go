package compose

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/Law4Us/Law4Us-sub002/internal/attach"
	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/internal/media"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const tocHeading = "תוכן עניינים"

// Signature box, in EMUs.
const (
	signatureWidthEMU  = 2286000
	signatureHeightEMU = 914400
)

// Paragraph is one rendered paragraph of a section. Image, when set, is embedded
// centered after Text.
type Paragraph struct {
	Text  string
	Style docx.ParagraphStyle
	Image *media.File
}

func (p Paragraph) block() Block {
	if p.Image != nil {
		return Block{Lines: SignatureLines}
	}
	return Block{Text: p.Text}
}

// Section is a titled run of paragraphs that starts on a fresh page.
type Section struct {
	Title      string
	Paragraphs []Paragraph
}

// TOCEntry is a table of contents line and the page it points at.
type TOCEntry struct {
	Title string
	Page  int
}

// Build carries one document through its stages. It is used by a single goroutine.
type Build struct {
	stage     Stage
	pkg       *docx.Package
	estimator PageEstimator

	sections    []Section
	attachments []types.AttachmentSpec
	toc         []TOCEntry
	breaks      int
	inserted    attach.Result
	images      int
}

// NewBuild starts a document whose metadata is stamped with created.
func NewBuild(created time.Time, estimator PageEstimator) (*Build, error) {
	pkg, err := docx.New(created)
	if err != nil {
		return nil, err
	}
	return &Build{stage: Initializing, pkg: pkg, estimator: estimator}, nil
}

func (b *Build) Stage() Stage {
	return b.stage
}

func (b *Build) TOC() []TOCEntry {
	return b.toc
}

// Attachments returns what the attachment stage inserted.
func (b *Build) Attachments() attach.Result {
	return b.inserted
}

func (b *Build) advance(to Stage) error {
	if b.stage == Finalized {
		return ErrFinalized
	}
	if to != b.stage+1 {
		return &StageError{From: b.stage, To: to}
	}
	b.stage = to
	return nil
}

// Fill records the filled sections, already in output order.
func (b *Build) Fill(sections []Section) error {
	if err := b.advance(BodyFilled); err != nil {
		return err
	}
	b.sections = sections
	return nil
}

// AppendSections writes every section into the body; each after the first starts
// with a page break.
func (b *Build) AppendSections() error {
	if err := b.advance(SectionsAppended); err != nil {
		return err
	}

	body := b.pkg.Body()
	for i, s := range b.sections {
		if i > 0 {
			body.Append(docx.PageBreak())
			b.breaks++
		}
		body.Append(docx.Paragraph(s.Title, docx.Title))

		for _, p := range s.Paragraphs {
			if p.Text != "" || p.Image == nil {
				body.Append(docx.Paragraph(p.Text, p.Style))
			}
			if p.Image == nil {
				continue
			}
			el, err := b.embed(p.Image)
			if err != nil {
				return err
			}
			body.Append(el)
		}
	}
	return nil
}

func (b *Build) embed(f *media.File) (*etree.Element, error) {
	size, _, err := docx.MeasureImage(f.Data)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", f.FileName, err)
	}
	size = docx.Fit(size, signatureWidthEMU, signatureHeightEMU)

	b.images++
	return b.pkg.EmbedImage(f.FileName, f.Data, f.MIMEType, size)
}

// ComputeTOC numbers every section and attachment and places the table of contents on
// the first page(s). Sections are measured with the estimator; each attachment image
// is one page.
func (b *Build) ComputeTOC(attachments []types.AttachmentSpec) error {
	if err := b.advance(TOCComputed); err != nil {
		return err
	}
	b.attachments = attachments

	entries := make([]TOCEntry, 0, len(b.sections)+len(attachments))
	for _, s := range b.sections {
		entries = append(entries, TOCEntry{Title: s.Title})
	}
	for _, a := range attachments {
		entries = append(entries, TOCEntry{Title: attach.Header(a.Label)})
	}

	// entry text width does not depend on the final numbers beyond a digit or two
	tocPages := b.estimator.Pages(tocBlocks(entries))

	page := tocPages + 1
	for i, s := range b.sections {
		entries[i].Page = page
		blocks := []Block{{Text: s.Title}}
		for _, p := range s.Paragraphs {
			blocks = append(blocks, p.block())
		}
		page += b.estimator.Pages(blocks)
	}
	for i, a := range attachments {
		entries[len(b.sections)+i].Page = page
		page += a.PageCount()
	}
	b.toc = entries

	els := []*etree.Element{docx.Paragraph(tocHeading, docx.Title)}
	for _, e := range entries {
		els = append(els, docx.Paragraph(tocLine(e), docx.BodyText))
	}
	if len(b.sections) > 0 {
		els = append(els, docx.PageBreak())
		b.breaks++
	}
	b.pkg.Body().Prepend(els...)
	return nil
}

func tocBlocks(entries []TOCEntry) []Block {
	blocks := []Block{{Text: tocHeading}}
	for _, e := range entries {
		blocks = append(blocks, Block{Text: tocLine(TOCEntry{Title: e.Title, Page: 999})})
	}
	return blocks
}

func tocLine(e TOCEntry) string {
	return fmt.Sprintf("%s, עמ' %d", e.Title, e.Page)
}

// AppendAttachments inserts the attachment pages after a page break and checks the
// inserted pages against the table of contents.
func (b *Build) AppendAttachments() error {
	if err := b.advance(AttachmentsAppended); err != nil {
		return err
	}
	if len(b.attachments) == 0 {
		return nil
	}

	b.pkg.Body().Append(docx.PageBreak())
	b.breaks++

	res, err := attach.Insert(b.pkg, b.attachments)
	if err != nil {
		return err
	}
	b.inserted = res
	b.breaks += res.PageBreaks

	want := 0
	for _, a := range b.attachments {
		want += a.PageCount()
	}
	if res.Pages != want || len(res.Headers) != len(b.attachments) {
		return fmt.Errorf("inserted %d attachment pages and %d headers, table of contents expects %d and %d",
			res.Pages, len(res.Headers), want, len(b.attachments))
	}
	return nil
}

// Finalize serializes the package. The build accepts no further calls.
func (b *Build) Finalize(fileName string) (*types.DocumentBuffer, error) {
	if err := b.advance(Finalized); err != nil {
		return nil, err
	}

	if got := b.countBreaks(); got != b.breaks {
		return nil, fmt.Errorf("document has %d page breaks, expected %d", got, b.breaks)
	}

	data, err := b.pkg.Bytes()
	if err != nil {
		return nil, err
	}
	b.pkg = nil

	return &types.DocumentBuffer{
		Data:     data,
		MIMEType: types.MIMETypeDocx,
		FileName: fileName,
	}, nil
}

func (b *Build) countBreaks() int {
	n := 0
	for _, p := range b.pkg.Body().Paragraphs() {
		if docx.IsPageBreak(p) {
			n++
		}
	}
	return n
}
