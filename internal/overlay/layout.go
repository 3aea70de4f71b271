package overlay

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

//go:embed layouts/*.yaml
var embeddedLayouts embed.FS

// FieldSpec places a named value on a page.
type FieldSpec struct {
	Name     string  `yaml:"name"`
	X        int     `yaml:"x"`
	Y        int     `yaml:"y"`
	FontSize float64 `yaml:"fontSize"`
	Align    Align   `yaml:"align"`
}

type PageLayout struct {
	Image  string      `yaml:"image"`
	Fields []FieldSpec `yaml:"fields"`
}

// Layout describes a multi-page form: which raster page to use and where each value goes.
type Layout struct {
	Name  string       `yaml:"name"`
	Title string       `yaml:"title"`
	Pages []PageLayout `yaml:"pages"`
}

// ParseLayout reads a YAML layout and rejects unknown alignments and unnamed fields.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if len(l.Pages) == 0 {
		return nil, fmt.Errorf("layout %q has no pages", l.Name)
	}

	for i, p := range l.Pages {
		if p.Image == "" {
			return nil, fmt.Errorf("layout %q page %d: missing image", l.Name, i+1)
		}
		for _, f := range p.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("layout %q page %d: field without name", l.Name, i+1)
			}
			switch f.Align {
			case "", AlignLeft, AlignCenter, AlignRight:
			default:
				return nil, fmt.Errorf("layout %q field %s: unknown align %q", l.Name, f.Name, f.Align)
			}
		}
	}
	return &l, nil
}

// DefaultLayout loads an embedded layout by name, e.g. "form4".
func DefaultLayout(name string) (*Layout, error) {
	data, err := embeddedLayouts.ReadFile("layouts/" + name + ".yaml")
	if err != nil {
		return nil, &types.ConfigError{Resource: "form layout", Identifier: name, Err: err}
	}
	return ParseLayout(data)
}

// Resolve matches a page's field specs against values. Fields without a value are skipped.
func (p PageLayout) Resolve(values map[string]string) []Field {
	out := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		text := strings.TrimSpace(values[f.Name])
		if text == "" {
			continue
		}
		out = append(out, Field{Text: text, X: f.X, Y: f.Y, FontSize: f.FontSize, Align: f.Align})
	}
	return out
}

// LoadPages decodes the raster page of every layout page from fsys.
func LoadPages(fsys fs.FS, l *Layout) ([]image.Image, error) {
	pages := make([]image.Image, len(l.Pages))
	for i, p := range l.Pages {
		data, err := fs.ReadFile(fsys, p.Image)
		if err != nil {
			return nil, &types.ConfigError{Resource: "form page", Identifier: p.Image, Err: err}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode form page %s: %w", p.Image, err)
		}
		pages[i] = img
	}
	return pages, nil
}

// FillForm stamps values onto copies of pages and returns one PNG per page. The source
// images are not modified.
func FillForm(r *Renderer, l *Layout, values map[string]string, pages []image.Image) ([][]byte, error) {
	if len(pages) != len(l.Pages) {
		return nil, fmt.Errorf("layout %q has %d pages, got %d images", l.Name, len(l.Pages), len(pages))
	}

	out := make([][]byte, len(pages))
	for i, src := range pages {
		dst := image.NewRGBA(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

		if err := r.Draw(dst, l.Pages[i].Resolve(values)); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		out[i] = buf.Bytes()
	}
	return out, nil
}

// Attachment wraps filled pages as an attachment spec.
func Attachment(label, description string, pages [][]byte) types.AttachmentSpec {
	images := make([]types.Payload, len(pages))
	for i, p := range pages {
		images[i] = types.Payload(p)
	}
	return types.AttachmentSpec{Label: label, Description: description, Images: images}
}
