package docx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	EMUPerPixel = 9525
	// A4 width minus one inch margins on each side.
	ContentWidthEMU = 5731510
	// A4 height minus margins and room for the attachment header.
	PageImageHeightEMU = 7974330

	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// Extent is a drawing size in EMUs.
type Extent struct {
	CX int64
	CY int64
}

// MeasureImage decodes the header of an image and returns its natural size in EMUs
// along with the decoder format name.
func MeasureImage(data []byte) (Extent, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Extent{}, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Extent{}, format, fmt.Errorf("image has empty dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return Extent{CX: int64(cfg.Width) * EMUPerPixel, CY: int64(cfg.Height) * EMUPerPixel}, format, nil
}

// Fit scales e down, keeping aspect ratio, so it fits inside the box. It never scales up.
func Fit(e Extent, maxCX, maxCY int64) Extent {
	if e.CX <= 0 || e.CY <= 0 {
		return e
	}
	if e.CX > maxCX {
		e.CY = e.CY * maxCX / e.CX
		e.CX = maxCX
	}
	if e.CY > maxCY {
		e.CX = e.CX * maxCY / e.CY
		e.CY = maxCY
	}
	return e
}

// AddMedia stores data under word/media/ and registers the default content type for
// its extension. The returned string is the part name.
func (p *Package) AddMedia(name string, data []byte, contentType string) (string, error) {
	partName := mediaDir + name
	if err := p.WritePart(partName, data); err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return "", newError(StageMutate, partName, fmt.Errorf("media name has no extension"))
	}
	if err := p.EnsureDefaultContentType(ext, contentType); err != nil {
		return "", err
	}
	return partName, nil
}

// EnsureDefaultContentType adds a Default entry for ext unless one already exists.
func (p *Package) EnsureDefaultContentType(ext, contentType string) error {
	doc, err := p.contentTypeTree()
	if err != nil {
		return err
	}
	root := doc.Root()
	if root == nil {
		return newError(StageParse, PartContentTypes, fmt.Errorf("empty content types"))
	}

	for _, d := range root.ChildElements() {
		if d.Tag == "Default" && strings.EqualFold(d.SelectAttrValue("Extension", ""), ext) {
			return nil
		}
	}

	def := etree.NewElement("Default")
	def.CreateAttr("Extension", strings.ToLower(ext))
	def.CreateAttr("ContentType", contentType)
	root.InsertChildAt(0, def)

	p.byName[PartContentTypes].dirty = true
	return nil
}

// AddRelationship registers a relationship from the main document and returns its id.
func (p *Package) AddRelationship(relType, target string) (string, error) {
	doc, err := p.relationships()
	if err != nil {
		return "", err
	}
	root := doc.Root()
	if root == nil {
		return "", newError(StageParse, PartDocumentRels, fmt.Errorf("empty relationships"))
	}

	highest := 0
	for _, r := range root.ChildElements() {
		id := r.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > highest {
			highest = n
		}
	}

	id := "rId" + strconv.Itoa(highest+1)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)

	p.byName[PartDocumentRels].dirty = true
	return id, nil
}

// EmbedImage adds the media part and relationship for an image and returns a centered
// paragraph holding it as an inline drawing of the given size.
func (p *Package) EmbedImage(name string, data []byte, contentType string, size Extent) (*etree.Element, error) {
	partName, err := p.AddMedia(name, data, contentType)
	if err != nil {
		return nil, err
	}
	rid, err := p.AddRelationship(RelTypeImage, strings.TrimPrefix(partName, "word/"))
	if err != nil {
		return nil, err
	}
	p.ensureDrawingNamespaces()

	if p.nextDrawingID == 0 {
		p.nextDrawingID = p.maxDrawingID() + 1
	}
	id := strconv.Itoa(p.nextDrawingID)
	p.nextDrawingID++

	return inlineDrawing(id, name, rid, size), nil
}

func (p *Package) ensureDrawingNamespaces() {
	root := p.document.Root()
	if root.SelectAttr("xmlns:r") == nil {
		root.CreateAttr("xmlns:r", nsR)
	}
	if root.SelectAttr("xmlns:wp") == nil {
		root.CreateAttr("xmlns:wp", nsWP)
	}
	p.byName[PartDocument].dirty = true
}

func (p *Package) maxDrawingID() int {
	highest := 0
	for _, el := range p.document.FindElements("//docPr") {
		if n, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

func inlineDrawing(id, name, rid string, size Extent) *etree.Element {
	cx := strconv.FormatInt(size.CX, 10)
	cy := strconv.FormatInt(size.CY, 10)

	p := etree.NewElement("w:p")
	ppr := p.CreateElement("w:pPr")
	ppr.CreateElement("w:bidi")
	ppr.CreateElement("w:jc").CreateAttr("w:val", AlignCenter)

	inline := p.CreateElement("w:r").CreateElement("w:drawing").CreateElement("wp:inline")
	for _, d := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(d, "0")
	}
	ext := inline.CreateElement("wp:extent")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", id)
	docPr.CreateAttr("name", name)

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", nsA)
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)

	pic := data.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", nsPic)
	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", id)
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", rid)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	sp := pic.CreateElement("pic:spPr")
	xfrm := sp.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	aext := xfrm.CreateElement("a:ext")
	aext.CreateAttr("cx", cx)
	aext.CreateAttr("cy", cy)
	sp.CreateElement("a:prstGeom").CreateAttr("prst", "rect")

	return p
}
