package attach

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

func page(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(0, 0, color.Gray{Y: 200})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURL(b []byte) types.Payload {
	return types.Payload("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
}

func newPackage(t *testing.T) *docx.Package {
	t.Helper()
	pkg, err := docx.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return pkg
}

type kind string

const (
	kHeader  kind = "header"
	kSpacer  kind = "spacer"
	kImage   kind = "image"
	kBreak   kind = "break"
	kUnknown kind = "?"
)

func classify(t *testing.T, data []byte) ([]kind, []string) {
	t.Helper()
	pkg, err := docx.Open(data)
	require.NoError(t, err)

	var kinds []kind
	var headers []string
	for _, p := range pkg.Body().Paragraphs() {
		text := docx.ParagraphText(p)
		switch {
		case docx.IsPageBreak(p):
			kinds = append(kinds, kBreak)
		case docx.HasDrawing(p):
			kinds = append(kinds, kImage)
		case text == "":
			kinds = append(kinds, kSpacer)
		case len(text) > 0:
			kinds = append(kinds, kHeader)
			headers = append(headers, text)
		default:
			kinds = append(kinds, kUnknown)
		}
	}
	return kinds, headers
}

func TestInsertOrdering(t *testing.T) {
	i1, i2, i3 := page(t, 10, 20), page(t, 30, 40), page(t, 50, 60)
	specs := []types.AttachmentSpec{
		{Label: "א", Images: []types.Payload{dataURL(i1)}},
		{Label: "ב", Images: []types.Payload{types.Payload(base64.StdEncoding.EncodeToString(i2)), types.Payload(i3)}},
	}

	pkg := newPackage(t)
	res, err := Insert(pkg, specs)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.PageBreaks)
	assert.Equal(t, []string{"נספח א", "נספח ב"}, res.Headers)
	assert.Equal(t, []string{"attachment1.png", "attachment2.png", "attachment3.png"}, res.Media)

	out, err := pkg.Bytes()
	require.NoError(t, err)

	kinds, headers := classify(t, out)
	assert.Equal(t, []kind{
		kHeader, kSpacer, kImage,
		kBreak, kHeader, kSpacer, kImage,
		kBreak, kImage,
	}, kinds)
	assert.Equal(t, []string{"נספח א", "נספח ב"}, headers)

	reopened, err := docx.Open(out)
	require.NoError(t, err)
	for i, want := range [][]byte{i1, i2, i3} {
		got, err := reopened.ReadPart("word/media/" + res.Media[i])
		require.NoError(t, err)
		assert.Equal(t, want, got, "image %d", i+1)
	}
}

func TestInsertBytesPreservesExistingContent(t *testing.T) {
	pkg := newPackage(t)
	pkg.Body().Append(docx.Paragraph("גוף התביעה", docx.BodyText))
	src, err := pkg.Bytes()
	require.NoError(t, err)

	out, res, err := InsertBytes(src, []types.AttachmentSpec{
		{Label: "נספח ג", Description: "תלוש שכר", Images: []types.Payload{types.Payload(page(t, 5, 5))}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"נספח ג"}, res.Headers)
	assert.Zero(t, res.PageBreaks)

	reopened, err := docx.Open(out)
	require.NoError(t, err)
	text := reopened.Body().Text()
	require.GreaterOrEqual(t, len(text), 4)
	assert.Equal(t, "גוף התביעה", text[0])
	assert.Equal(t, "נספח ג", text[1])
	assert.Equal(t, "תלוש שכר", text[2])

	styles, err := reopened.ReadPart(docx.PartStyles)
	require.NoError(t, err)
	orig, err := pkg.ReadPart(docx.PartStyles)
	require.NoError(t, err)
	assert.Equal(t, orig, styles)
}

func TestInsertCountsExistingMedia(t *testing.T) {
	pkg := newPackage(t)
	_, err := Insert(pkg, []types.AttachmentSpec{{Label: "א", Images: []types.Payload{types.Payload(page(t, 2, 2))}}})
	require.NoError(t, err)

	res, err := Insert(pkg, []types.AttachmentSpec{{Label: "ב", Images: []types.Payload{types.Payload(page(t, 3, 3))}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"attachment2.png"}, res.Media)
}

func TestInsertFailsLoudly(t *testing.T) {
	tests := []struct {
		name  string
		spec  types.AttachmentSpec
		image int
		is    error
	}{
		{
			name: "no images",
			spec: types.AttachmentSpec{Label: "א"},
			is:   ErrNoImages,
		},
		{
			name:  "not an image",
			spec:  types.AttachmentSpec{Label: "א", Images: []types.Payload{types.Payload("data:text/plain,hello")}},
			image: 1,
			is:    types.ErrUnsupportedMedia,
		},
		{
			name:  "undecodable image",
			spec:  types.AttachmentSpec{Label: "ב", Images: []types.Payload{types.Payload(page(t, 1, 1)), types.Payload("data:image/png;base64,AAAAAAAA")}},
			image: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Insert(newPackage(t), []types.AttachmentSpec{tt.spec})
			require.Error(t, err)

			var aerr *Error
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.spec.Label, aerr.Label)
			assert.Equal(t, tt.image, aerr.Image)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestInsertBytesRejectsCorruptPackage(t *testing.T) {
	_, _, err := InsertBytes([]byte("PK\x03\x04broken"), nil)

	var derr *docx.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, docx.StageOpen, derr.Stage)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "נספח א", Header("א"))
	assert.Equal(t, "נספח א", Header(" נספח א "))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "א", Label(1))
	assert.Equal(t, "ב", Label(2))
	assert.Equal(t, "ת", Label(22))
	assert.Equal(t, "תא", Label(23))
	assert.Equal(t, "", Label(0))
}

func TestInsertNumbersAfterHighestExistingMedia(t *testing.T) {
	pkg := newPackage(t)
	_, err := pkg.AddMedia("attachment2.png", page(t, 10, 10), "image/png")
	require.NoError(t, err)
	_, err = pkg.AddMedia("attachment_notes.png", page(t, 10, 10), "image/png")
	require.NoError(t, err)

	res, err := Insert(pkg, []types.AttachmentSpec{
		{Label: "א", Images: []types.Payload{types.Payload(page(t, 20, 20)), types.Payload(page(t, 20, 20))}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"attachment3.png", "attachment4.png"}, res.Media)
	assert.True(t, pkg.Has("word/media/attachment2.png"))
	assert.True(t, pkg.Has("word/media/attachment4.png"))
}
