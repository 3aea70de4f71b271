package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// inked returns the horizontal extent of non-white pixels.
func inked(img image.Image) (minX, maxX int, found bool) {
	b := img.Bounds()
	minX, maxX = b.Max.X, b.Min.X
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r == 0xffff && g == 0xffff && bl == 0xffff {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
	}
	return minX, maxX, found
}

func TestVisual(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello 123", "hello 123"},
		{"שלום", "םולש"},
		{"ת.ז. 123456", "123456 .ז.ת"},
		{"(שלום)", "(םולש)"},
		{"סכום 1,500 ש\"ח", "ח\"ש 1,500 םוכס"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Visual(tt.in), tt.in)
	}
}

func TestDrawAlignment(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	width, err := r.Measure("12345", 20)
	require.NoError(t, err)
	require.Positive(t, width)

	tests := []struct {
		align      Align
		wantMinMax func(minX, maxX int) bool
	}{
		{AlignLeft, func(minX, maxX int) bool { return minX >= 200 && minX < 210 }},
		{AlignRight, func(minX, maxX int) bool { return maxX <= 200 && maxX > 190 }},
		{AlignCenter, func(minX, maxX int) bool { return minX < 200 && maxX > 200 }},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			img := blank(400, 100)
			require.NoError(t, r.Draw(img, []Field{{Text: "12345", X: 200, Y: 60, FontSize: 20, Align: tt.align}}))

			minX, maxX, found := inked(img)
			require.True(t, found)
			assert.True(t, tt.wantMinMax(minX, maxX), "ink spans %d..%d", minX, maxX)
		})
	}
}

func TestDrawSkipsBlankFields(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	img := blank(100, 50)
	require.NoError(t, r.Draw(img, []Field{{Text: "  ", X: 50, Y: 25}}))
	_, _, found := inked(img)
	assert.False(t, found)
}

func TestRendererIsSafeForConcurrentUse(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img := blank(200, 60)
			assert.NoError(t, r.Draw(img, []Field{{Text: "2024", X: 100, Y: 40, FontSize: 18}}))
		}()
	}
	wg.Wait()
}

func TestNewRendererErrors(t *testing.T) {
	_, err := NewRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "font", cerr.Resource)

	empty := filepath.Join(t.TempDir(), "empty.ttf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = NewRenderer(empty)
	assert.ErrorIs(t, err, ErrEmptyFont)

	_, err = NewRendererFromBytes([]byte("not a font"))
	assert.Error(t, err)
}

func TestMissingGlyphs(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	assert.Empty(t, r.Missing("Form 4, 123"))
	assert.Equal(t, []rune("שלום"), r.Missing("שלום שלום"))
}

func TestNewHebrewRendererRequiresCoverage(t *testing.T) {
	var cerr *types.ConfigError

	_, err := NewHebrewRenderer("")
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "FONT_PATH", cerr.Identifier)
	assert.ErrorIs(t, err, ErrMissingGlyphs)

	latin := filepath.Join(t.TempDir(), "latin.ttf")
	require.NoError(t, os.WriteFile(latin, goregular.TTF, 0o600))

	_, err = NewHebrewRenderer(latin)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, latin, cerr.Identifier)
	assert.ErrorIs(t, err, ErrMissingGlyphs)
}

func TestDrawGrid(t *testing.T) {
	img := blank(300, 300)
	DrawGrid(img, 50)

	line := img.At(50, 150)
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, line)

	between := img.At(75, 175)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, between)
}

func TestCalibrateMarksFields(t *testing.T) {
	l, err := DefaultLayout("form4")
	require.NoError(t, err)
	page := l.Page("form4_p1.png")
	require.NotNil(t, page)
	assert.Nil(t, l.Page("missing.png"))

	src := blank(1240, 1754)
	out := Calibrate(src, 100, page)

	f := page.Fields[0]
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, out.At(f.X, f.Y))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, src.At(f.X, f.Y))
}

func TestDefaultLayout(t *testing.T) {
	l, err := DefaultLayout("form4")
	require.NoError(t, err)
	assert.Equal(t, "form4", l.Name)
	require.Len(t, l.Pages, 2)
	assert.Equal(t, "form4_p1.png", l.Pages[0].Image)

	_, err = DefaultLayout("form99")
	var cerr *types.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestParseLayoutValidation(t *testing.T) {
	_, err := ParseLayout([]byte("name: x\npages: []\n"))
	assert.Error(t, err)

	_, err = ParseLayout([]byte("name: x\npages:\n  - image: p.png\n    fields:\n      - {name: a, x: 1, y: 1, align: diagonal}\n"))
	assert.ErrorContains(t, err, "unknown align")

	_, err = ParseLayout([]byte("name: x\npages:\n  - fields: []\n"))
	assert.ErrorContains(t, err, "missing image")
}

func TestFillForm(t *testing.T) {
	layout, err := ParseLayout([]byte(`
name: test
pages:
  - image: p1.png
    fields:
      - {name: id, x: 150, y: 50, fontSize: 20, align: right}
      - {name: missing, x: 20, y: 80}
  - image: p2.png
    fields: []
`))
	require.NoError(t, err)

	encode := func(img image.Image) []byte {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		return buf.Bytes()
	}
	fsys := fstest.MapFS{
		"p1.png": {Data: encode(blank(200, 100))},
		"p2.png": {Data: encode(blank(200, 100))},
	}

	pages, err := LoadPages(fsys, layout)
	require.NoError(t, err)

	r, err := NewRenderer("")
	require.NoError(t, err)

	out, err := FillForm(r, layout, map[string]string{"id": "123456789"}, pages)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first, err := png.Decode(bytes.NewReader(out[0]))
	require.NoError(t, err)
	_, maxX, found := inked(first)
	require.True(t, found)
	assert.LessOrEqual(t, maxX, 150)

	second, err := png.Decode(bytes.NewReader(out[1]))
	require.NoError(t, err)
	_, _, found = inked(second)
	assert.False(t, found)

	// source pages are untouched
	_, _, found = inked(pages[0])
	assert.False(t, found)

	_, err = FillForm(r, layout, nil, pages[:1])
	assert.Error(t, err)

	_, err = LoadPages(fstest.MapFS{}, layout)
	var cerr *types.ConfigError
	assert.ErrorAs(t, err, &cerr)

	spec := Attachment("ג", "טופס 4", out)
	assert.Equal(t, 2, spec.PageCount())
}
