// Package attach appends labeled exhibit pages to a document package. Each image of an
// attachment spec becomes one page; the first image of a spec is preceded by a centered
// "נספח" header. Nothing is ever skipped: an image that cannot be embedded fails the call.
package attach

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/image/webp"

	"github.com/Law4Us/Law4Us-sub002/internal/docx"
	"github.com/Law4Us/Law4Us-sub002/internal/media"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const (
	HeaderPrefix = "נספח "
	mediaPrefix  = "attachment"
)

var ErrNoImages = errors.New("attachment has no images")

// Error identifies the attachment and image that could not be embedded. Image is 1-based,
// 0 when the failure concerns the whole spec.
type Error struct {
	Label string
	Image int
	Err   error
}

func (e *Error) Error() string {
	if e.Image > 0 {
		return fmt.Sprintf("attachment %q image %d: %v", e.Label, e.Image, e.Err)
	}
	return fmt.Sprintf("attachment %q: %v", e.Label, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result describes what was inserted.
type Result struct {
	Pages      int      // one per image
	PageBreaks int      // breaks inserted between images
	Headers    []string // header text in insertion order
	Media      []string // media part names in insertion order
}

var letters = []rune("אבגדהוזחטיכלמנסעפצקרשת")

// Label returns the Hebrew ordinal label of the n-th attachment, 1-based: א, ב, ...
// After ת labels continue as תא, תב and so on.
func Label(n int) string {
	if n < 1 {
		return ""
	}
	n--
	prefix := strings.Repeat(string(letters[len(letters)-1]), n/len(letters))
	return prefix + string(letters[n%len(letters)])
}

// Header returns the header paragraph text for an attachment label.
func Header(label string) string {
	label = strings.TrimSpace(label)
	if strings.HasPrefix(label, strings.TrimSpace(HeaderPrefix)) {
		return label
	}
	return HeaderPrefix + label
}

// Insert appends every spec, in order, to the end of the package body.
func Insert(pkg *docx.Package, specs []types.AttachmentSpec) (Result, error) {
	var res Result
	counter := existingMedia(pkg)
	body := pkg.Body()

	for _, spec := range specs {
		if len(spec.Images) == 0 {
			return res, &Error{Label: spec.Label, Err: ErrNoImages}
		}

		for i, payload := range spec.Images {
			counter++
			drawing, name, err := embed(pkg, payload, counter)
			if err != nil {
				return res, &Error{Label: spec.Label, Image: i + 1, Err: err}
			}

			if res.Pages > 0 {
				body.Append(docx.PageBreak())
				res.PageBreaks++
			}
			if i == 0 {
				header := Header(spec.Label)
				body.Append(docx.Paragraph(header, docx.Label))
				if d := strings.TrimSpace(spec.Description); d != "" {
					body.Append(docx.Paragraph(d, docx.ParagraphStyle{Align: docx.AlignCenter, SpacingAfter: -1}))
				}
				body.Append(docx.Spacer())
				res.Headers = append(res.Headers, header)
			}
			body.Append(drawing)

			res.Pages++
			res.Media = append(res.Media, name)
		}
	}

	return res, nil
}

// InsertBytes opens a serialized package, inserts specs and re-serializes it.
func InsertBytes(data []byte, specs []types.AttachmentSpec) ([]byte, Result, error) {
	pkg, err := docx.Open(data)
	if err != nil {
		return nil, Result{}, err
	}

	res, err := Insert(pkg, specs)
	if err != nil {
		return nil, res, err
	}

	out, err := pkg.Bytes()
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}

func embed(pkg *docx.Package, payload types.Payload, n int) (*etree.Element, string, error) {
	f, err := media.Normalize(payload, mediaPrefix+strconv.Itoa(n))
	if err != nil {
		return nil, "", err
	}
	if !media.IsImage(f.MIMEType) {
		return nil, "", fmt.Errorf("%w: %s", types.ErrUnsupportedMedia, f.MIMEType)
	}

	if f.MIMEType == "image/webp" {
		if f, err = webpToPNG(f); err != nil {
			return nil, "", err
		}
	}

	size, _, err := docx.MeasureImage(f.Data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", f.MIMEType, err)
	}
	size = docx.Fit(size, docx.ContentWidthEMU, docx.PageImageHeightEMU)

	el, err := pkg.EmbedImage(f.FileName, f.Data, f.MIMEType, size)
	if err != nil {
		return nil, "", err
	}
	return el, f.FileName, nil
}

// webpToPNG re-encodes a WebP image; word processors do not render WebP reliably.
func webpToPNG(f media.File) (media.File, error) {
	img, err := webp.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return f, fmt.Errorf("decode image/webp: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return f, fmt.Errorf("encode png: %w", err)
	}

	return media.File{
		MIMEType: "image/png",
		Data:     buf.Bytes(),
		FileName: strings.TrimSuffix(f.FileName, ".webp") + ".png",
	}, nil
}

// existingMedia returns the highest attachment number already used in pkg.
func existingMedia(pkg *docx.Package) int {
	highest := 0
	for _, name := range pkg.PartNames() {
		rest, ok := strings.CutPrefix(name, "word/media/"+mediaPrefix)
		if !ok {
			continue
		}
		digits := rest
		if i := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
			digits = rest[:i]
		}
		if n, err := strconv.Atoi(digits); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
