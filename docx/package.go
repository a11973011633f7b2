// Package docx reads WordprocessingML packages into an order-preserving
// body tree plus the style, numbering and relationship tables needed to
// interpret it.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tsawler/docform/model"
)

// Well-known failures when opening a package.
var (
	// ErrNotPackage is returned when the input is not a zip container
	// holding a main document part.
	ErrNotPackage = errors.New("docx: not a wordprocessing package")
	// ErrNoBody is returned when the main document has no <w:body>.
	ErrNoBody = errors.New("docx: document body not found")
)

const (
	defaultMainPart  = "word/document.xml"
	relTypeOfficeDoc = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

// Part is a resolved binary part of the package.
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}

// Package is an opened document package. It is read-only after Open and
// safe for concurrent readers.
type Package struct {
	closer io.Closer
	files  map[string]*zip.File

	mainPart string
	rels     map[string]relationshipXML
	types    *contentTypesXML

	// Body is the decoded body tree of the main document.
	Body *Body
	// Styles resolves paragraph and run formatting.
	Styles *StyleResolver
	// Numbering resolves list glyphs.
	Numbering *NumberingResolver
}

// Open opens a package file from disk.
func Open(filename string) (*Package, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}
	pkg, err := load(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	pkg.closer = zr
	return pkg, nil
}

// OpenBytes opens a package held in memory.
func OpenBytes(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}
	return load(zr)
}

// Close releases the underlying file, if any.
func (p *Package) Close() error {
	if p.closer != nil {
		err := p.closer.Close()
		p.closer = nil
		return err
	}
	return nil
}

func load(zr *zip.Reader) (*Package, error) {
	p := &Package{
		files: make(map[string]*zip.File, len(zr.File)),
		rels:  make(map[string]relationshipXML),
	}
	for _, f := range zr.File {
		p.files[strings.TrimPrefix(f.Name, "/")] = f
	}

	p.mainPart = p.findMainPart()
	if _, ok := p.files[p.mainPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPackage, p.mainPart)
	}

	if err := p.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	p.parseContentTypes()

	if err := p.parseDocument(); err != nil {
		return nil, err
	}

	// Styles and numbering are optional; a broken part degrades to defaults.
	var styles *stylesXML
	if data, err := p.readRelated(relTypeStyles, "styles.xml"); err == nil {
		styles = &stylesXML{}
		if xml.Unmarshal(data, styles) != nil {
			styles = nil
		}
	}
	p.Styles = NewStyleResolver(styles)

	var numbering *numberingXML
	if data, err := p.readRelated(relTypeNumbering, "numbering.xml"); err == nil {
		numbering = &numberingXML{}
		if xml.Unmarshal(data, numbering) != nil {
			numbering = nil
		}
	}
	p.Numbering = NewNumberingResolver(numbering)

	return p, nil
}

// findMainPart reads the package relationships for the office document
// target, falling back to word/document.xml.
func (p *Package) findMainPart() string {
	data, err := p.read("_rels/.rels")
	if err != nil {
		return defaultMainPart
	}
	var rels relationshipsXML
	if xml.Unmarshal(data, &rels) != nil {
		return defaultMainPart
	}
	for _, rel := range rels.Relationships {
		if rel.Type == relTypeOfficeDoc && rel.Target != "" {
			return strings.TrimPrefix(rel.Target, "/")
		}
	}
	return defaultMainPart
}

func (p *Package) parseRelationships() error {
	dir, file := path.Split(p.mainPart)
	data, err := p.read(dir + "_rels/" + file + ".rels")
	if err != nil {
		// A document without relationships simply has no images or styles.
		return nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationships {
		p.rels[rel.ID] = rel
	}
	return nil
}

func (p *Package) parseContentTypes() {
	data, err := p.read("[Content_Types].xml")
	if err != nil {
		return
	}
	types := &contentTypesXML{}
	if xml.Unmarshal(data, types) == nil {
		p.types = types
	}
}

func (p *Package) parseDocument() error {
	data, err := p.read(p.mainPart)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotPackage, err)
	}
	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: unmarshaling %s: %v", ErrNoBody, p.mainPart, err)
	}
	if doc.Body == nil {
		return ErrNoBody
	}
	p.Body = doc.Body
	return nil
}

// read returns the content of a part by zip name.
func (p *Package) read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// readRelated reads the first part related to the main document with the
// given relationship type, or the fallback name next to the main document.
func (p *Package) readRelated(relType, fallback string) ([]byte, error) {
	for _, rel := range p.rels {
		if rel.Type == relType && rel.TargetMode != "External" {
			if data, err := p.read(p.resolveTarget(rel.Target)); err == nil {
				return data, nil
			}
		}
	}
	return p.read(path.Join(path.Dir(p.mainPart), fallback))
}

// resolveTarget turns a relationship target into a zip entry name.
func (p *Package) resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Join(path.Dir(p.mainPart), target)
}

// Part resolves an embedded relationship id to its binary part. External
// targets and dangling ids do not resolve.
func (p *Package) Part(rID string) (Part, bool) {
	rel, ok := p.rels[rID]
	if !ok || rel.TargetMode == "External" {
		return Part{}, false
	}
	name := p.resolveTarget(rel.Target)
	data, err := p.read(name)
	if err != nil {
		return Part{}, false
	}
	return Part{Name: name, ContentType: p.ContentType(name), Data: data}, true
}

// ContentType returns the declared content type of a part: the override for
// its name, else the default for its extension.
func (p *Package) ContentType(name string) string {
	if p.types == nil {
		return ""
	}
	for _, o := range p.types.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == name {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	for _, d := range p.types.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// Sections returns page geometry for every section break: paragraph-level
// breaks in body order, then the final body-level section.
func (p *Package) Sections() []model.Section {
	var props []*SectionProps
	for _, blk := range p.Body.Children {
		if para, ok := blk.(*Paragraph); ok && para.Props != nil && para.Props.SectPr != nil {
			props = append(props, para.Props.SectPr)
		}
	}
	if p.Body.SectPr != nil {
		props = append(props, p.Body.SectPr)
	}

	sections := make([]model.Section, 0, len(props))
	for i, sp := range props {
		sections = append(sections, sectionFromProps(i, sp))
	}
	return sections
}

func sectionFromProps(index int, sp *SectionProps) model.Section {
	s := model.Section{Index: index, Orientation: model.OrientationPortrait}
	if sp.PageSize != nil {
		s.PageWidth = parseTwips(sp.PageSize.W)
		s.PageHeight = parseTwips(sp.PageSize.H)
		if s.PageWidth > s.PageHeight || sp.PageSize.Orient == "landscape" {
			s.Orientation = model.OrientationLandscape
		}
	}
	if m := sp.Margins; m != nil {
		s.MarginTop = parseTwips(m.Top)
		s.MarginBottom = parseTwips(m.Bottom)
		s.MarginLeft = parseTwips(m.Left)
		s.MarginRight = parseTwips(m.Right)
		s.HeaderDistance = parseTwips(m.Header)
		s.FooterDistance = parseTwips(m.Footer)
	}
	return s
}
