package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	gridMinor = color.NRGBA{R: 0, G: 120, B: 255, A: 70}
	gridMajor = color.NRGBA{R: 0, G: 80, B: 220, A: 150}
	gridLabel = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	marker    = color.RGBA{R: 230, G: 0, B: 90, A: 255}
)

// DrawGrid overlays lines every step pixels, darker every fifth line, and labels each
// line with its coordinate along the top and left edges.
func DrawGrid(dst draw.Image, step int) {
	if step <= 0 {
		step = 50
	}
	b := dst.Bounds()

	for x := b.Min.X; x < b.Max.X; x += step {
		c := gridMinor
		if (x-b.Min.X)%(step*5) == 0 {
			c = gridMajor
		}
		blend(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), c)
	}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		c := gridMinor
		if (y-b.Min.Y)%(step*5) == 0 {
			c = gridMajor
		}
		blend(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), c)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(gridLabel), Face: basicfont.Face7x13}
	for x := b.Min.X + step; x < b.Max.X; x += step {
		d.Dot = fixed.P(x+2, b.Min.Y+12)
		d.DrawString(strconv.Itoa(x))
	}
	for y := b.Min.Y + step; y < b.Max.Y; y += step {
		d.Dot = fixed.P(b.Min.X+2, y-2)
		d.DrawString(strconv.Itoa(y))
	}
}

// DrawMarkers draws a cross and the given name at each field anchor, for checking a
// layout against its page.
func DrawMarkers(dst draw.Image, names []string, fields []Field) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(marker), Face: basicfont.Face7x13}
	for i, f := range fields {
		blend(dst, image.Rect(f.X-6, f.Y, f.X+7, f.Y+1), marker)
		blend(dst, image.Rect(f.X, f.Y-6, f.X+1, f.Y+7), marker)
		if i < len(names) {
			d.Dot = fixed.P(f.X+4, f.Y+14)
			d.DrawString(names[i])
		}
	}
}

func blend(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// Calibrate returns a copy of src with the grid drawn over it and, when page is not
// nil, a marker at every field anchor of page.
func Calibrate(src image.Image, step int, page *PageLayout) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	DrawGrid(dst, step)

	if page != nil {
		names := make([]string, len(page.Fields))
		fields := make([]Field, len(page.Fields))
		for i, f := range page.Fields {
			names[i] = f.Name
			fields[i] = Field{X: f.X, Y: f.Y}
		}
		DrawMarkers(dst, names, fields)
	}
	return dst
}

// Page returns the layout page drawn on the named image, or nil.
func (l *Layout) Page(name string) *PageLayout {
	for i := range l.Pages {
		if l.Pages[i].Image == name {
			return &l.Pages[i]
		}
	}
	return nil
}
