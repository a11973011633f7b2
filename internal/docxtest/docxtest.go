// Package docxtest assembles small WordprocessingML packages in memory for
// tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const namespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" ` +
	`xmlns:v="urn:schemas-microsoft-com:vml" ` +
	`xmlns:o="urn:schemas-microsoft-com:office:office"`

type part struct {
	name string
	data []byte
}

type rel struct {
	id, typ, target string
	external        bool
}

// Builder collects the parts of a test package.
type Builder struct {
	body      strings.Builder
	styles    string
	numbering string
	rels      []rel
	parts     []part
	defaults  map[string]string
	omitTypes bool
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{defaults: map[string]string{
		"rels": "application/vnd.openxmlformats-package.relationships+xml",
		"xml":  "application/xml",
	}}
}

// Body appends raw body XML.
func (b *Builder) Body(xml ...string) *Builder {
	for _, s := range xml {
		b.body.WriteString(s)
	}
	return b
}

// Styles sets the inner XML of word/styles.xml.
func (b *Builder) Styles(xml string) *Builder {
	b.styles = xml
	return b
}

// Numbering sets the inner XML of word/numbering.xml.
func (b *Builder) Numbering(xml string) *Builder {
	b.numbering = xml
	return b
}

// Media adds word/media/<name> and a relationship rID pointing to it.
func (b *Builder) Media(rID, name string, data []byte) *Builder {
	b.parts = append(b.parts, part{name: "word/media/" + name, data: data})
	b.rels = append(b.rels, rel{
		id:     rID,
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
		target: "media/" + name,
	})
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		if _, ok := b.defaults[ext]; !ok {
			b.defaults[ext] = "image/" + strings.ReplaceAll(ext, "jpg", "jpeg")
		}
	}
	return b
}

// UntypedMedia adds a media part whose extension has no content type.
func (b *Builder) UntypedMedia(rID, name string, data []byte) *Builder {
	b.parts = append(b.parts, part{name: "word/media/" + name, data: data})
	b.rels = append(b.rels, rel{
		id:     rID,
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
		target: "media/" + name,
	})
	return b
}

// ExternalImage adds an external image relationship.
func (b *Builder) ExternalImage(rID, url string) *Builder {
	b.rels = append(b.rels, rel{
		id:       rID,
		typ:      "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
		target:   url,
		external: true,
	})
	return b
}

// Bytes returns the zipped package.
func (b *Builder) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	var types strings.Builder
	types.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	for _, ext := range []string{"rels", "xml", "png", "jpeg", "jpg", "gif"} {
		if ct, ok := b.defaults[ext]; ok {
			fmt.Fprintf(&types, `<Default Extension="%s" ContentType="%s"/>`, ext, ct)
		}
	}
	types.WriteString(`<Override PartName="/word/document.xml" ` +
		`ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	types.WriteString(`</Types>`)
	write("[Content_Types].xml", types.String())

	write("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>`+
		`</Relationships>`)

	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document `+namespaces+`><w:body>`+b.body.String()+`</w:body></w:document>`)

	rels := b.rels
	if b.styles != "" {
		write("word/styles.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<w:styles `+namespaces+`>`+b.styles+`</w:styles>`)
		rels = append(rels, rel{id: "rIdStyles", typ: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles", target: "styles.xml"})
	}
	if b.numbering != "" {
		write("word/numbering.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<w:numbering `+namespaces+`>`+b.numbering+`</w:numbering>`)
		rels = append(rels, rel{id: "rIdNumbering", typ: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering", target: "numbering.xml"})
	}

	var relsXML strings.Builder
	relsXML.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		mode := ""
		if r.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&relsXML, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.typ, html.EscapeString(r.target), mode)
	}
	relsXML.WriteString(`</Relationships>`)
	write("word/_rels/document.xml.rels", relsXML.String())

	for _, p := range b.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("creating %s: %v", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			t.Fatalf("writing %s: %v", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes the package into a temp directory and returns its path.
func (b *Builder) WriteFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	if err := os.WriteFile(path, b.Bytes(t), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// P returns a paragraph with optional properties and inner content.
func P(pPr string, content ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	if pPr != "" {
		sb.WriteString("<w:pPr>" + pPr + "</w:pPr>")
	}
	for _, c := range content {
		sb.WriteString(c)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// Para returns a paragraph holding a single text run.
func Para(text string) string {
	return P("", R("", text))
}

// R returns a run with optional properties holding text.
func R(rPr, text string) string {
	s := "<w:r>"
	if rPr != "" {
		s += "<w:rPr>" + rPr + "</w:rPr>"
	}
	if text != "" {
		s += `<w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t>`
	}
	return s + "</w:r>"
}

// PageBreak returns a run holding an explicit page break.
func PageBreak() string {
	return `<w:r><w:br w:type="page"/></w:r>`
}

// RenderedPageBreak returns a run holding a rendered page break marker.
func RenderedPageBreak() string {
	return `<w:r><w:lastRenderedPageBreak/></w:r>`
}

// Inline returns a run holding an inline drawing of cx by cy EMU.
func Inline(rID string, cx, cy int64) string {
	return fmt.Sprintf(`<w:r><w:drawing><wp:inline><wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="1" name="Picture 1" descr="inline image"/>`+
		`<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="%s"/></pic:blipFill></pic:pic>`+
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`, cx, cy, rID)
}

// Anchor returns a run holding a floating drawing aligned horizontally.
func Anchor(rID string, cx, cy int64, align string) string {
	pos := ""
	if align != "" {
		pos = `<wp:positionH relativeFrom="column"><wp:align>` + align + `</wp:align></wp:positionH>`
	}
	return AnchorAt(rID, cx, cy, pos)
}

// AnchorAt returns a run holding a floating drawing whose position is the
// given raw positionH/positionV markup.
func AnchorAt(rID string, cx, cy int64, position string) string {
	return fmt.Sprintf(`<w:r><w:drawing><wp:anchor>%s<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="2" name="Picture 2"/>`+
		`<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="%s"/></pic:blipFill></pic:pic>`+
		`</a:graphicData></a:graphic></wp:anchor></w:drawing></w:r>`, position, cx, cy, rID)
}

// VML returns a run holding a legacy picture with a shape style.
func VML(rID, style string) string {
	return `<w:r><w:pict><v:shape style="` + style + `"><v:imagedata r:id="` + rID + `" o:title=""/></v:shape></w:pict></w:r>`
}

// Cell returns a table cell with optional properties and paragraphs.
func Cell(tcPr string, paragraphs ...string) string {
	s := "<w:tc>"
	if tcPr != "" {
		s += "<w:tcPr>" + tcPr + "</w:tcPr>"
	}
	if len(paragraphs) == 0 {
		paragraphs = []string{"<w:p/>"}
	}
	return s + strings.Join(paragraphs, "") + "</w:tc>"
}

// TextCell returns a cell holding one paragraph of text.
func TextCell(text string) string {
	return Cell("", Para(text))
}

// Row returns a table row.
func Row(trPr string, cells ...string) string {
	s := "<w:tr>"
	if trPr != "" {
		s += "<w:trPr>" + trPr + "</w:trPr>"
	}
	return s + strings.Join(cells, "") + "</w:tr>"
}

// TextRow returns a row of text cells.
func TextRow(texts ...string) string {
	cells := make([]string, len(texts))
	for i, t := range texts {
		cells[i] = TextCell(t)
	}
	return Row("", cells...)
}

// Table returns a table with optional properties and rows.
func Table(tblPr string, rows ...string) string {
	s := "<w:tbl>"
	if tblPr != "" {
		s += "<w:tblPr>" + tblPr + "</w:tblPr>"
	}
	return s + strings.Join(rows, "") + "</w:tbl>"
}

// Borders returns a tblBorders or tcBorders body with every named edge set
// to the given value, size and color.
func Borders(val, sz, color string, edges ...string) string {
	var sb strings.Builder
	for _, e := range edges {
		fmt.Fprintf(&sb, `<w:%s w:val="%s" w:sz="%s" w:space="0" w:color="%s"/>`, e, val, sz, color)
	}
	return sb.String()
}

// PNG returns an encoded solid PNG of the given pixel size.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}
