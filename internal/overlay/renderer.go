// Package overlay stamps text at pixel coordinates onto rasterized form pages, and
// draws a labeled coordinate grid used to calibrate field positions.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

const DefaultFontSize = 24

// Field is one piece of text anchored at (X, Y). Y is the text baseline. With
// AlignRight, the default for Hebrew forms, X is where the text ends on the right.
type Field struct {
	Text     string
	X        int
	Y        int
	FontSize float64
	Align    Align
}

var (
	ErrEmptyFont     = errors.New("font file is empty")
	ErrMissingGlyphs = errors.New("font has no glyphs for required characters")
)

// hebrewAlphabet is checked against fonts used to fill Hebrew forms.
const hebrewAlphabet = "אבגדהוזחטיךכלםמןנסעףפץצקרשת"

// Renderer draws text with one parsed font. The font is read once; faces are created
// per call, so a Renderer is safe for concurrent use.
type Renderer struct {
	font  *opentype.Font
	color color.Color
}

// NewRenderer parses the font at path. An empty path selects the bundled Go Regular
// face, which is enough for digits and Latin text in calibration output but has no
// Hebrew glyphs. Use NewHebrewRenderer for filling forms.
func NewRenderer(path string) (*Renderer, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &types.ConfigError{Resource: "font", Identifier: path, Err: err}
		}
		if len(b) == 0 {
			return nil, &types.ConfigError{Resource: "font", Identifier: path, Err: ErrEmptyFont}
		}
		data = b
	}
	return NewRendererFromBytes(data)
}

// NewHebrewRenderer is NewRenderer for a font that must cover the Hebrew alphabet.
// An empty path is a configuration error.
func NewHebrewRenderer(path string) (*Renderer, error) {
	if path == "" {
		return nil, &types.ConfigError{Resource: "font", Identifier: "FONT_PATH", Err: ErrMissingGlyphs}
	}
	r, err := NewRenderer(path)
	if err != nil {
		return nil, err
	}
	if missing := r.Missing(hebrewAlphabet); len(missing) > 0 {
		return nil, &types.ConfigError{
			Resource:   "font",
			Identifier: path,
			Err:        fmt.Errorf("%w: %q", ErrMissingGlyphs, string(missing)),
		}
	}
	return r, nil
}

func NewRendererFromBytes(data []byte) (*Renderer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{font: f, color: color.Black}, nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	return opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Missing returns the distinct runes of text the font has no glyph for. Whitespace
// and control characters are ignored.
func (r *Renderer) Missing(text string) []rune {
	var (
		buf  sfnt.Buffer
		seen = make(map[rune]bool)
		out  []rune
	)
	for _, c := range text {
		if seen[c] || unicode.IsSpace(c) || unicode.IsControl(c) {
			continue
		}
		seen[c] = true
		idx, err := r.font.GlyphIndex(&buf, c)
		if err != nil || idx == 0 {
			out = append(out, c)
		}
	}
	return out
}

// Measure returns the advance width in pixels of text as it would be drawn.
func (r *Renderer) Measure(text string, size float64) (int, error) {
	face, err := r.face(size)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return font.MeasureString(face, Visual(text)).Ceil(), nil
}

// Draw stamps every field onto dst. Multi-line text continues downward at 1.2 times
// the font size.
func (r *Renderer) Draw(dst draw.Image, fields []Field) error {
	src := image.NewUniform(r.color)

	for _, f := range fields {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}

		face, err := r.face(f.FontSize)
		if err != nil {
			return err
		}

		size := f.FontSize
		if size <= 0 {
			size = DefaultFontSize
		}
		lineHeight := int(size*1.2 + 0.5)

		d := &font.Drawer{Dst: dst, Src: src, Face: face}
		for i, line := range strings.Split(f.Text, "\n") {
			visual := Visual(line)
			width := d.MeasureString(visual).Ceil()
			d.Dot = fixed.P(anchor(f.X, width, f.Align), f.Y+i*lineHeight)
			d.DrawString(visual)
		}
		face.Close()
	}
	return nil
}

func anchor(x, width int, align Align) int {
	switch align {
	case AlignLeft:
		return x
	case AlignCenter:
		return x - width/2
	default:
		return x - width
	}
}
