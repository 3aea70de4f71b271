// Package docx opens, mutates and re-serializes Office Open XML word processing packages.
//
// Parts that are never touched are copied into the output archive with their original
// compressed bytes and headers, so everything but the mutated parts is preserved
// byte for byte. Mutation goes through an etree element tree rather than string
// concatenation, which keeps open, mutate and serialize independently testable.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
)

const (
	PartContentTypes  = "[Content_Types].xml"
	PartRootRels      = "_rels/.rels"
	PartDocument      = "word/document.xml"
	PartDocumentRels  = "word/_rels/document.xml.rels"
	PartCoreProps     = "docProps/core.xml"
	PartAppProps      = "docProps/app.xml"
	PartStyles        = "word/styles.xml"
	PartSettings      = "word/settings.xml"
	mediaDir          = "word/media/"
	RelTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	contentTypesSpace = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// zip entry time for parts written by this package; fixed so output is reproducible
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type part struct {
	name  string
	file  *zip.File // original entry, nil for added parts
	data  []byte    // content of added or rewritten parts
	dirty bool
}

// Package is an in-memory word processing package. It is not safe for concurrent use.
type Package struct {
	parts  []*part
	byName map[string]*part

	document     *etree.Document
	body         *Body
	rels         *etree.Document
	contentTypes *etree.Document

	nextDrawingID int
}

// Open reads a package from data. The main document part must exist and contain a body.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newError(StageOpen, "", err)
	}

	p := &Package{byName: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		pt := &part{name: f.Name, file: f}
		p.parts = append(p.parts, pt)
		p.byName[f.Name] = pt
	}

	if _, ok := p.byName[PartDocument]; !ok {
		return nil, newError(StageOpen, PartDocument, ErrMissingBody)
	}

	if err := p.loadDocument(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Package) loadDocument() error {
	doc, err := p.parseXML(PartDocument)
	if err != nil {
		return err
	}

	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return newError(StageParse, PartDocument, ErrMissingBody)
	}
	bodyEl := firstChild(root, "body")
	if bodyEl == nil {
		return newError(StageParse, PartDocument, ErrMissingBody)
	}

	p.document = doc
	p.body = &Body{pkg: p, el: bodyEl}
	return nil
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// PartNames lists the parts in archive order.
func (p *Package) PartNames() []string {
	out := make([]string, len(p.parts))
	for i, pt := range p.parts {
		out[i] = pt.name
	}
	return out
}

// ReadPart returns the current content of a part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	pt, ok := p.byName[name]
	if !ok {
		return nil, newError(StageOpen, name, fmt.Errorf("part not found"))
	}
	if pt.data != nil || pt.file == nil {
		return pt.data, nil
	}

	rc, err := pt.file.Open()
	if err != nil {
		return nil, newError(StageOpen, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, newError(StageOpen, name, err)
	}
	return data, nil
}

// WritePart adds a new part. Existing parts are never overwritten through this call.
func (p *Package) WritePart(name string, data []byte) error {
	if _, ok := p.byName[name]; ok {
		return newError(StageMutate, name, ErrPartExists)
	}

	pt := &part{name: name, data: data, dirty: true}
	p.parts = append(p.parts, pt)
	p.byName[name] = pt
	return nil
}

func (p *Package) parseXML(name string) (*etree.Document, error) {
	data, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, newError(StageParse, name, err)
	}
	return doc, nil
}

// Body returns the main document body for mutation.
func (p *Package) Body() *Body {
	p.byName[PartDocument].dirty = true
	return p.body
}

// Bytes serializes the package. Untouched parts are copied raw from the source archive;
// rewritten parts keep their original compression method.
func (p *Package) Bytes() ([]byte, error) {
	if err := p.flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, pt := range p.parts {
		if pt.file != nil && !pt.dirty {
			if err := zw.Copy(pt.file); err != nil {
				return nil, newError(StageSerialize, pt.name, err)
			}
			continue
		}

		hdr := &zip.FileHeader{Name: pt.name, Method: zip.Deflate, Modified: zipEpoch}
		if pt.file != nil {
			hdr.Method = pt.file.Method
			hdr.Modified = pt.file.Modified
		}

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, newError(StageSerialize, pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return nil, newError(StageSerialize, pt.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, newError(StageSerialize, "", err)
	}
	return buf.Bytes(), nil
}

// flush writes parsed trees of dirty XML parts back into their part buffers.
func (p *Package) flush() error {
	trees := []struct {
		name string
		doc  *etree.Document
	}{
		{PartDocument, p.document},
		{PartDocumentRels, p.rels},
		{PartContentTypes, p.contentTypes},
	}

	for _, t := range trees {
		pt, ok := p.byName[t.name]
		if !ok || t.doc == nil || !pt.dirty {
			continue
		}
		data, err := t.doc.WriteToBytes()
		if err != nil {
			return newError(StageSerialize, t.name, err)
		}
		pt.data = data
	}
	return nil
}

func (p *Package) relationships() (*etree.Document, error) {
	if p.rels != nil {
		return p.rels, nil
	}

	if !p.Has(PartDocumentRels) {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		root := doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, newError(StageSerialize, PartDocumentRels, err)
		}
		if err := p.WritePart(PartDocumentRels, data); err != nil {
			return nil, err
		}
	}

	doc, err := p.parseXML(PartDocumentRels)
	if err != nil {
		return nil, err
	}
	p.rels = doc
	return doc, nil
}

func (p *Package) contentTypeTree() (*etree.Document, error) {
	if p.contentTypes != nil {
		return p.contentTypes, nil
	}
	if !p.Has(PartContentTypes) {
		return nil, newError(StageOpen, PartContentTypes, fmt.Errorf("part not found"))
	}

	doc, err := p.parseXML(PartContentTypes)
	if err != nil {
		return nil, err
	}
	p.contentTypes = doc
	return doc, nil
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
