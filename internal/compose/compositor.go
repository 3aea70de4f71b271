// Package compose assembles a filing document from a submission: it fills the claim
// templates, numbers the remedies, lays out a table of contents and appends the
// attachment exhibits. Output is byte-identical for identical input and clock.
package compose

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Law4Us/Law4Us-sub002/internal/clause"
	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/internal/media"
	"github.com/Law4Us/Law4Us-sub002/internal/placeholder"
	"github.com/Law4Us/Law4Us-sub002/internal/templates"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const (
	remediesHeading = "הסעדים המבוקשים"
	remediesIntro   = "אשר על כן מתבקש בית המשפט הנכבד:"

	clientSignatureLabel = "חתימת התובע/ת:"
	lawyerSignatureLabel = "חתימת ב\"כ התובע/ת:"
)

// Clock supplies the document timestamp.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

var SystemClock Clock = ClockFunc(time.Now)

type Compositor struct {
	templates *templates.Source
	clauses   *clause.Catalogue
	clock     Clock
	estimator PageEstimator
	lawyer    Lawyer
}

type Option func(*Compositor)

func WithClock(c Clock) Option {
	return func(comp *Compositor) { comp.clock = c }
}

func WithEstimator(e PageEstimator) Option {
	return func(comp *Compositor) { comp.estimator = e }
}

func WithLawyer(l Lawyer) Option {
	return func(comp *Compositor) { comp.lawyer = l }
}

func New(source *templates.Source, clauses *clause.Catalogue, opts ...Option) *Compositor {
	c := &Compositor{
		templates: source,
		clauses:   clauses,
		clock:     SystemClock,
		estimator: NewLineEstimator(0, 0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request selects what goes into one document.
type Request struct {
	Submission *types.Submission
	// Claims to include; empty means every selected claim.
	Claims []types.ClaimType
	// Attachments to append; nil means the submission's own attachments.
	Attachments            []types.AttachmentSpec
	IncludeForm3           bool
	IncludePowerOfAttorney bool
	// LawyerSignature is used when the submission carries none.
	LawyerSignature types.Payload
}

// GenerateDocument builds the document for a single claim of sub.
func (c *Compositor) GenerateDocument(sub *types.Submission, claim types.ClaimType, attachments []types.AttachmentSpec) (*types.DocumentBuffer, error) {
	return c.Generate(Request{
		Submission:  sub,
		Claims:      []types.ClaimType{claim},
		Attachments: attachments,
	})
}

func (c *Compositor) Generate(req Request) (*types.DocumentBuffer, error) {
	sub := req.Submission
	if sub == nil {
		return nil, fmt.Errorf("generate: no submission")
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	claims, err := resolveClaims(sub, req.Claims)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	b, err := NewBuild(now, c.estimator)
	if err != nil {
		return nil, err
	}

	// Initializing: every template must exist before anything is rendered
	names := make([]string, 0, len(claims)+2)
	for _, claim := range claims {
		names = append(names, string(claim))
	}
	if req.IncludeForm3 {
		names = append(names, templates.Form3)
	}
	if req.IncludePowerOfAttorney {
		names = append(names, templates.PowerOfAttorney)
	}

	loaded := make([]*templates.Template, 0, len(names))
	for _, name := range names {
		t, err := c.templates.Load(name)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, t)
	}

	values := Values(sub, claims, now, c.lawyer)

	sections := make([]Section, 0, len(loaded))
	for i, t := range loaded {
		s := Section{Title: t.Title, Paragraphs: Render(t.Body, values)}
		if i < len(claims) {
			s.Paragraphs = append(s.Paragraphs, c.remedies(claims[i], sub, values)...)
		}
		sections = append(sections, s)
	}

	sigs, err := signatures(sub, req.LawyerSignature)
	if err != nil {
		return nil, err
	}
	last := &sections[len(sections)-1]
	last.Paragraphs = append(last.Paragraphs, sigs...)

	if err := b.Fill(sections); err != nil {
		return nil, err
	}
	if err := b.AppendSections(); err != nil {
		return nil, err
	}

	attachments := req.Attachments
	if attachments == nil {
		attachments = sub.Attachments
	}
	if err := b.ComputeTOC(attachments); err != nil {
		return nil, err
	}
	if err := b.AppendAttachments(); err != nil {
		return nil, err
	}

	return b.Finalize(FileName(claims, sub.BasicInfo.Applicant.FullName))
}

func resolveClaims(sub *types.Submission, requested []types.ClaimType) ([]types.ClaimType, error) {
	if len(requested) == 0 {
		return sub.Claims(), nil
	}

	for _, claim := range requested {
		if !claim.Valid() {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownClaim, claim)
		}
		if !sub.HasClaim(claim) {
			return nil, fmt.Errorf("%w: %s", types.ErrClaimNotSelected, claim)
		}
	}
	return types.SortClaims(requested), nil
}

func (c *Compositor) remedies(claim types.ClaimType, sub *types.Submission, values map[string]any) []Paragraph {
	selected := c.clauses.Select(claim, Facts(sub, claim))
	if len(selected) == 0 {
		return nil
	}

	out := []Paragraph{
		{Text: remediesHeading, Style: docx.Heading},
		{Text: remediesIntro, Style: docx.BodyText},
	}
	for _, s := range selected {
		out = append(out, Paragraph{
			Text:  strconv.Itoa(s.Ordinal) + ". " + placeholder.Fill(s.Text, values),
			Style: docx.BodyText,
		})
	}
	return out
}

func signatures(sub *types.Submission, fallback types.Payload) ([]Paragraph, error) {
	lawyer := sub.LawyerSignature
	if lawyer.Empty() {
		lawyer = fallback
	}

	var out []Paragraph
	for _, sig := range []struct {
		label   string
		name    string
		payload types.Payload
	}{
		{clientSignatureLabel, "signature_client", sub.Signature},
		{lawyerSignatureLabel, "signature_lawyer", lawyer},
	} {
		if sig.payload.Empty() {
			continue
		}

		f, err := media.Normalize(sig.payload, sig.name)
		if err != nil {
			return nil, fmt.Errorf("signature %s: %w", sig.name, err)
		}
		if !media.IsImage(f.MIMEType) {
			return nil, fmt.Errorf("signature %s: %w: %s", sig.name, types.ErrUnsupportedMedia, f.MIMEType)
		}
		out = append(out, Paragraph{
			Text:  sig.label,
			Style: docx.ParagraphStyle{Align: docx.AlignStart, Bold: true, SpacingAfter: -1},
			Image: &f,
		})
	}
	return out, nil
}

var fileNameUnsafe = strings.NewReplacer("/", "-", `\`, "-", ":", "-", `"`, "", "\n", " ")

// FileName names a generated document after its claims and the applicant.
func FileName(claims []types.ClaimType, applicant string) string {
	labels := make([]string, len(claims))
	for i, c := range claims {
		labels[i] = c.Label()
	}

	name := strings.Join(labels, " + ")
	if applicant = strings.TrimSpace(applicant); applicant != "" {
		name += " - " + applicant
	}
	return fileNameUnsafe.Replace(name) + ".docx"
}
