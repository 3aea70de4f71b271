package compose

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Law4Us/Law4Us-sub002/internal/clause"
	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/internal/templates"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

var testTime = time.Date(2024, time.June, 2, 9, 30, 0, 0, time.UTC)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newCompositor(t *testing.T, opts ...Option) *Compositor {
	t.Helper()
	src, err := templates.NewSource("")
	require.NoError(t, err)
	cat, err := clause.Default()
	require.NoError(t, err)

	opts = append([]Option{WithClock(FixedClock(testTime))}, opts...)
	return New(src, cat, opts...)
}

func submission() *types.Submission {
	return &types.Submission{
		ID: "sub_1",
		BasicInfo: types.BasicInfo{
			Applicant:        types.Party{FullName: "דנה כהן", IDNumber: "123456782", Address: "תל אביב"},
			Respondent:       types.Party{FullName: "יוסי כהן", IDNumber: "987654321", Address: "חיפה"},
			MarriageDate:     "2012-08-20",
			RelationshipType: "married",
		},
		SelectedClaims: []types.ClaimType{types.ClaimCustody, types.ClaimProperty},
		FormData: types.FormData{
			Children: []types.Child{
				{FirstName: "נועה", LastName: "כהן", IDNumber: "111", BirthDate: "2015-03-01", ChildRelationship: "נועה קשורה מאוד לשני הוריה."},
				{FirstName: "איתי", LastName: "כהן", IDNumber: "222", BirthDate: "2018-11-12", ChildRelationship: "איתי מתגורר עם האם."},
			},
			Property: &types.PropertyClaim{
				Apartments:       []types.FinancialItem{{Description: "דירה ברחוב הרצל", Value: "2,000,000"}},
				ApplicantIncome:  "10000",
				RespondentIncome: "20000",
			},
			Custody: &types.CustodyClaim{RequestedArrangement: "משמורת משותפת"},
		},
	}
}

func paragraphs(t *testing.T, doc *types.DocumentBuffer) []string {
	t.Helper()
	pkg, err := docx.Open(doc.Data)
	require.NoError(t, err)
	return pkg.Body().Text()
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return -1
}

func TestScenarioPropertyAndCustody(t *testing.T) {
	sub := submission()
	comp := newCompositor(t)

	doc, err := comp.Generate(Request{Submission: sub})
	require.NoError(t, err)
	assert.Equal(t, types.MIMETypeDocx, doc.MIMEType)
	assert.Equal(t, len(doc.Data), doc.Len())
	assert.Equal(t, "תביעת רכוש + תביעת משמורת - דנה כהן.docx", doc.FileName)

	values := Values(sub, sub.Claims(), testTime, Lawyer{})
	assert.Equal(t, "", values["debts"])
	assert.Equal(t, "0", values["totalDebts"])

	text := paragraphs(t, doc)
	property := indexOf(text, "כתב תביעה רכושית")
	custody := indexOf(text, "כתב תביעה למשמורת וזמני שהות")
	require.NotEqual(t, -1, property)
	require.NotEqual(t, -1, custody)
	assert.Less(t, property, custody, "canonical order puts property before custody")

	assert.Contains(t, text, "סך החובות: 0 ₪")

	joined := strings.Join(text[custody:], "\n")
	assert.Contains(t, joined, "נועה כהן, ת.ז. 111, יליד/ת 01/03/2015\nנועה קשורה מאוד לשני הוריה.")
	assert.Contains(t, joined, "איתי מתגורר עם האם.")

	for _, p := range text {
		assert.NotContains(t, p, "{{")
	}
}

func TestPartyLinesOmitMissingContactDetails(t *testing.T) {
	sub := submission()
	sub.BasicInfo.Respondent.Address = ""
	comp := newCompositor(t)

	doc, err := comp.Generate(Request{Submission: sub, Claims: []types.ClaimType{types.ClaimProperty}})
	require.NoError(t, err)

	joined := strings.Join(paragraphs(t, doc), "\n")
	assert.Contains(t, joined, "התובע/ת: דנה כהן, ת.ז. 123456782, מתל אביב\n")
	assert.Contains(t, joined, "הנתבע/ת: יוסי כהן, ת.ז. 987654321\n")
	assert.NotContains(t, joined, "טלפון")
	assert.NotContains(t, joined, ", מ\n")

	sub.BasicInfo.Applicant.Phone = "050-1234567"
	doc, err = comp.Generate(Request{Submission: sub, Claims: []types.ClaimType{types.ClaimProperty}})
	require.NoError(t, err)
	joined = strings.Join(paragraphs(t, doc), "\n")
	assert.Contains(t, joined, "התובע/ת: דנה כהן, ת.ז. 123456782, מתל אביב, טלפון 050-1234567\n")
}

func TestGenerateIsDeterministic(t *testing.T) {
	sub := submission()
	sub.Signature = types.Payload(pngBytes(t, 40, 20))
	sub.Attachments = []types.AttachmentSpec{{Label: "א", Images: []types.Payload{types.Payload(pngBytes(t, 30, 30))}}}

	first, err := newCompositor(t).Generate(Request{Submission: sub, IncludeForm3: true, IncludePowerOfAttorney: true})
	require.NoError(t, err)
	second, err := newCompositor(t).Generate(Request{Submission: sub, IncludeForm3: true, IncludePowerOfAttorney: true})
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)

	later, err := newCompositor(t, WithClock(FixedClock(testTime.Add(time.Hour)))).
		Generate(Request{Submission: sub, IncludeForm3: true, IncludePowerOfAttorney: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.Data, later.Data, "the clock is the only source of variation")
}

func TestIncomeDisparityRemedyNumbering(t *testing.T) {
	tests := []struct {
		name       string
		respondent types.Amount
		want       []string
	}{
		{
			name:       "ratio exactly two includes unequal division",
			respondent: "20000",
			want:       []string{"1. להורות על איזון", "2. לחלופין", "3. למנות מומחה", "4. להורות כי החובות", "5. לחייב"},
		},
		{
			name:       "ratio below two omits it",
			respondent: "19,999",
			want:       []string{"1. להורות על איזון", "2. למנות מומחה", "3. להורות כי החובות", "4. לחייב"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := submission()
			sub.FormData.Property.RespondentIncome = tt.respondent

			doc, err := newCompositor(t).GenerateDocument(sub, types.ClaimProperty, nil)
			require.NoError(t, err)

			var remedies []string
			for _, p := range paragraphs(t, doc) {
				if len(p) > 2 && p[0] >= '1' && p[0] <= '9' && p[1] == '.' {
					remedies = append(remedies, p)
				}
			}
			require.Len(t, remedies, len(tt.want))
			for i, prefix := range tt.want {
				assert.True(t, strings.HasPrefix(remedies[i], prefix), "remedy %d: %q", i+1, remedies[i])
			}
		})
	}
}

func TestMissingTemplateIsFatal(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml": {Data: []byte("templates:\n  property:\n    file: property.txt\n    title: רכוש\n")},
		"property.txt":  {Data: []byte("{{applicantName}}")},
	}
	src, err := templates.NewSourceFS(fsys)
	require.NoError(t, err)
	cat, err := clause.Default()
	require.NoError(t, err)

	_, err = New(src, cat).Generate(Request{Submission: submission()})
	require.Error(t, err)

	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "custody", cerr.Identifier)
	assert.ErrorIs(t, err, types.ErrTemplateNotFound)
}

func TestGenerateRejectsBadClaims(t *testing.T) {
	comp := newCompositor(t)

	_, err := comp.GenerateDocument(submission(), types.ClaimDivorce, nil)
	assert.ErrorIs(t, err, types.ErrClaimNotSelected)

	_, err = comp.GenerateDocument(submission(), types.ClaimType("inheritance"), nil)
	assert.ErrorIs(t, err, types.ErrUnknownClaim)

	empty := submission()
	empty.SelectedClaims = nil
	_, err = comp.Generate(Request{Submission: empty})
	assert.ErrorIs(t, err, types.ErrNoClaims)
}

func TestGenerateFailsOnBrokenAttachment(t *testing.T) {
	sub := submission()
	sub.Attachments = []types.AttachmentSpec{{Label: "א", Images: []types.Payload{types.Payload("data:text/plain,oops")}}}

	_, err := newCompositor(t).Generate(Request{Submission: sub})
	assert.ErrorIs(t, err, types.ErrUnsupportedMedia)
}

func TestSignaturesAppendedAtEnd(t *testing.T) {
	sub := submission()
	sub.Signature = types.Payload(pngBytes(t, 40, 20))

	doc, err := newCompositor(t).Generate(Request{
		Submission:      sub,
		Claims:          []types.ClaimType{types.ClaimCustody},
		LawyerSignature: types.Payload(pngBytes(t, 60, 20)),
	})
	require.NoError(t, err)

	pkg, err := docx.Open(doc.Data)
	require.NoError(t, err)
	assert.True(t, pkg.Has("word/media/signature_client.png"))
	assert.True(t, pkg.Has("word/media/signature_lawyer.png"))

	text := pkg.Body().Text()
	client := indexOf(text, clientSignatureLabel)
	lawyer := indexOf(text, lawyerSignatureLabel)
	require.NotEqual(t, -1, client)
	assert.Greater(t, lawyer, client)
}

func TestBuildTOCMatchesPages(t *testing.T) {
	b, err := NewBuild(testTime, LineEstimator{CharsPerLine: 100, LinesPerPage: 5})
	require.NoError(t, err)

	long := make([]Paragraph, 12)
	for i := range long {
		long[i] = Paragraph{Text: "שורה", Style: docx.BodyText}
	}
	sections := []Section{
		{Title: "ראשון", Paragraphs: []Paragraph{{Text: "קצר", Style: docx.BodyText}}},
		{Title: "שני", Paragraphs: long},
	}
	attachments := []types.AttachmentSpec{
		{Label: "א", Images: []types.Payload{types.Payload(pngBytes(t, 10, 10))}},
		{Label: "ב", Images: []types.Payload{types.Payload(pngBytes(t, 10, 10)), types.Payload(pngBytes(t, 12, 12))}},
	}

	require.NoError(t, b.Fill(sections))
	require.NoError(t, b.AppendSections())
	require.NoError(t, b.ComputeTOC(attachments))

	assert.Equal(t, []TOCEntry{
		{Title: "ראשון", Page: 2},
		{Title: "שני", Page: 3},
		{Title: "נספח א", Page: 6},
		{Title: "נספח ב", Page: 7},
	}, b.TOC())

	require.NoError(t, b.AppendAttachments())
	assert.Equal(t, 3, b.Attachments().Pages)

	doc, err := b.Finalize("test.docx")
	require.NoError(t, err)

	pkg, err := docx.Open(doc.Data)
	require.NoError(t, err)
	breaks := 0
	for _, p := range pkg.Body().Paragraphs() {
		if docx.IsPageBreak(p) {
			breaks++
		}
	}
	// toc, between sections, before attachments, between attachment images
	assert.Equal(t, 5, breaks)

	text := pkg.Body().Text()
	assert.Equal(t, tocHeading, text[0])
	assert.Equal(t, "ראשון, עמ' 2", text[1])
	assert.Equal(t, "נספח ב, עמ' 7", text[4])
}

func TestBuildStagesAreSequential(t *testing.T) {
	b, err := NewBuild(testTime, NewLineEstimator(0, 0))
	require.NoError(t, err)

	err = b.AppendSections()
	var serr *StageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, Initializing, serr.From)
	assert.Equal(t, SectionsAppended, serr.To)

	require.NoError(t, b.Fill([]Section{{Title: "כותרת"}}))
	assert.Error(t, b.Fill(nil), "no backtracking")
	require.NoError(t, b.AppendSections())
	require.NoError(t, b.ComputeTOC(nil))
	require.NoError(t, b.AppendAttachments())
	_, err = b.Finalize("x.docx")
	require.NoError(t, err)
	assert.Equal(t, Finalized, b.Stage())

	_, err = b.Finalize("x.docx")
	assert.True(t, errors.Is(err, ErrFinalized))
	assert.ErrorIs(t, b.AppendAttachments(), ErrFinalized)
}

func TestRender(t *testing.T) {
	tmpl := "## כותרת {{name}}\nשורה {{name}}\n{{empty}}\n\n{{empty}}\n\n## {{empty}}\nסוף"
	got := Render(tmpl, map[string]any{"name": "## לא כותרת", "empty": ""})

	assert.Equal(t, []Paragraph{
		{Text: "כותרת ## לא כותרת", Style: docx.Heading},
		{Text: "שורה ## לא כותרת", Style: docx.BodyText},
		{Text: "סוף", Style: docx.BodyText},
	}, got)
}

func TestLineEstimator(t *testing.T) {
	e := NewLineEstimator(10, 4)

	assert.Equal(t, 1, e.Lines(Block{Text: ""}))
	assert.Equal(t, 1, e.Lines(Block{Text: "אבגדהוזחטי"}))
	assert.Equal(t, 2, e.Lines(Block{Text: "אבגדהוזחטיכ"}))
	assert.Equal(t, 3, e.Lines(Block{Text: "א\nב\nג"}))
	assert.Equal(t, SignatureLines, e.Lines(Block{Lines: SignatureLines}))

	assert.Equal(t, 1, e.Pages(nil))
	assert.Equal(t, 1, e.Pages([]Block{{Text: "א"}, {Text: "ב"}, {Text: "ג"}, {Text: "ד"}}))
	assert.Equal(t, 2, e.Pages([]Block{{Text: "א"}, {Text: "ב"}, {Text: "ג"}, {Text: "ד"}, {Text: "ה"}}))
}

func TestZeroLineEstimatorUsesDefaults(t *testing.T) {
	var zero LineEstimator
	long := strings.Repeat("א", DefaultCharsPerLine+1)

	assert.Equal(t, 2, zero.Lines(Block{Text: long}))
	assert.Equal(t, 1, zero.Pages([]Block{{Lines: DefaultLinesPerPage}}))
	assert.Equal(t, 2, zero.Pages([]Block{{Lines: DefaultLinesPerPage + 1}}))

	half := LineEstimator{CharsPerLine: 10}
	assert.Equal(t, 2, half.Pages([]Block{{Lines: DefaultLinesPerPage + 1}}))
}

func TestAgreementReferencesSelectedClaims(t *testing.T) {
	sub := submission()
	sub.SelectedClaims = []types.ClaimType{types.ClaimDivorceAgreement, types.ClaimProperty}
	sub.FormData.DivorceAgreement = &types.DivorceAgreementClaim{
		Property: types.AgreementSection{Mode: types.SectionReferenceClaim},
		Custody:  types.AgreementSection{Mode: types.SectionCustom, Text: "משמורת משותפת לפי הסכמה."},
		Alimony:  types.AgreementSection{Mode: types.SectionNone},
	}

	doc, err := newCompositor(t).GenerateDocument(sub, types.ClaimDivorceAgreement, nil)
	require.NoError(t, err)

	text := paragraphs(t, doc)
	assert.Contains(t, text, "ענייני הרכוש מוסדרים בתביעת הרכוש המצורפת, ראו תביעת הרכוש.")
	assert.Contains(t, text, "משמורת משותפת לפי הסכמה.")
}
