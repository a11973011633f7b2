package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// NodeKind enumerates the closed set of body tree nodes this package
// understands. Anything else decodes to an *Ignored node.
type NodeKind int

const (
	KindIgnored NodeKind = iota
	KindParagraph
	KindRun
	KindTable
	KindRow
	KindCell
	KindDrawing
	KindPicture
	KindBreak
	KindField
	KindHyperlink
	KindText
	KindTab
	KindSymbol
)

func (k NodeKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindRun:
		return "run"
	case KindTable:
		return "table"
	case KindRow:
		return "row"
	case KindCell:
		return "cell"
	case KindDrawing:
		return "drawing"
	case KindPicture:
		return "picture"
	case KindBreak:
		return "break"
	case KindField:
		return "field"
	case KindHyperlink:
		return "hyperlink"
	case KindText:
		return "text"
	case KindTab:
		return "tab"
	case KindSymbol:
		return "symbol"
	default:
		return "ignored"
	}
}

// Node is implemented by every body tree node.
type Node interface {
	Kind() NodeKind
}

// Block is a child of the body or of a table cell: *Paragraph, *Table or
// *Ignored.
type Block interface {
	Node
	block()
}

// Inline is a child of a paragraph: *Run, *Hyperlink, *SimpleField,
// *Drawing, *Picture or *Ignored.
type Inline interface {
	Node
	inline()
}

// RunItem is a child of a run: *Text, *Tab, *Break, *Symbol, *Drawing,
// *Picture or *Ignored.
type RunItem interface {
	Node
	runItem()
}

// Body is the decoded <w:body>. Children preserve source order.
type Body struct {
	Children []Block
	SectPr   *SectionProps
}

// Paragraph is a <w:p>.
type Paragraph struct {
	Props   *ParagraphProps
	Content []Inline
}

// Run is a <w:r>.
type Run struct {
	Props   *RunProps
	Content []RunItem
}

// Hyperlink is a <w:hyperlink> wrapping runs.
type Hyperlink struct {
	RelID  string
	Anchor string
	Runs   []*Run
}

// SimpleField is a <w:fldSimple>; its runs hold the cached field result.
type SimpleField struct {
	Instr string
	Runs  []*Run
}

// Table is a <w:tbl>.
type Table struct {
	Props *TableProps
	Grid  GridXML
	Rows  []*Row
}

// Row is a <w:tr>.
type Row struct {
	Props *RowProps
	Cells []*Cell
}

// Cell is a <w:tc>. Blocks holds its paragraphs and nested tables in order.
type Cell struct {
	Props  *CellProps
	Blocks []Block
}

// Text is a <w:t>.
type Text struct {
	Value string
}

// Tab is a <w:tab> inside a run.
type Tab struct{}

// BreakType distinguishes the break flavours that share the break kind.
type BreakType string

const (
	BreakLine         BreakType = "line"
	BreakPage         BreakType = "page"
	BreakColumn       BreakType = "column"
	BreakCarriage     BreakType = "cr"
	BreakRenderedPage BreakType = "lastRenderedPage"
)

// Break is a <w:br>, <w:cr> or <w:lastRenderedPageBreak>.
type Break struct {
	Type BreakType
}

// IsPageBreak reports whether the break ends a page. Rendered page breaks
// count only when includeRendered is set.
func (b *Break) IsPageBreak(includeRendered bool) bool {
	switch b.Type {
	case BreakPage:
		return true
	case BreakRenderedPage:
		return includeRendered
	}
	return false
}

// Symbol is a <w:sym>.
type Symbol struct {
	Font string
	Char string
}

// Drawing is a DrawingML <w:drawing> container.
type Drawing struct {
	Anchored  bool
	ExtentCX  int64 // EMU
	ExtentCY  int64 // EMU
	RelID     string
	Name      string
	Descr     string
	AlignH    string // anchor positionH/align
	hasExtent bool
}

// Picture is a legacy VML <w:pict> container.
type Picture struct {
	RelID string
	Style string // v:shape style, e.g. "width:100pt;height:50pt"
}

// Ignored is any element outside the closed node set.
type Ignored struct {
	Name string
}

func (*Paragraph) Kind() NodeKind   { return KindParagraph }
func (*Run) Kind() NodeKind         { return KindRun }
func (*Hyperlink) Kind() NodeKind   { return KindHyperlink }
func (*SimpleField) Kind() NodeKind { return KindField }
func (*Table) Kind() NodeKind       { return KindTable }
func (*Row) Kind() NodeKind         { return KindRow }
func (*Cell) Kind() NodeKind        { return KindCell }
func (*Text) Kind() NodeKind        { return KindText }
func (*Tab) Kind() NodeKind         { return KindTab }
func (*Break) Kind() NodeKind       { return KindBreak }
func (*Symbol) Kind() NodeKind      { return KindSymbol }
func (*Drawing) Kind() NodeKind     { return KindDrawing }
func (*Picture) Kind() NodeKind     { return KindPicture }
func (*Ignored) Kind() NodeKind     { return KindIgnored }

func (*Paragraph) block() {}
func (*Table) block()     {}
func (*Ignored) block()   {}

func (*Run) inline()         {}
func (*Hyperlink) inline()   {}
func (*SimpleField) inline() {}
func (*Drawing) inline()     {}
func (*Picture) inline()     {}
func (*Ignored) inline()     {}

func (*Text) runItem()    {}
func (*Tab) runItem()     {}
func (*Break) runItem()   {}
func (*Symbol) runItem()  {}
func (*Drawing) runItem() {}
func (*Picture) runItem() {}
func (*Ignored) runItem() {}

// Graphic is an embedded image container: *Drawing or *Picture.
type Graphic interface {
	Node
	// EmbedID returns the relationship id of the image part.
	EmbedID() string
	// Floating reports whether the graphic is anchored rather than inline.
	Floating() bool
	// SizePoints returns the declared size in points, if any.
	SizePoints() (w, h float64, ok bool)
}

// EMUPerPoint converts DrawingML extents to points.
const EMUPerPoint = 12700

func (d *Drawing) EmbedID() string { return d.RelID }
func (d *Drawing) Floating() bool  { return d.Anchored }

func (d *Drawing) SizePoints() (float64, float64, bool) {
	if !d.hasExtent {
		return 0, 0, false
	}
	return float64(d.ExtentCX) / EMUPerPoint, float64(d.ExtentCY) / EMUPerPoint, true
}

func (p *Picture) EmbedID() string { return p.RelID }
func (p *Picture) Floating() bool  { return false }

// SizePoints reads width and height from the VML shape style.
func (p *Picture) SizePoints() (float64, float64, bool) {
	var w, h float64
	for _, decl := range strings.Split(p.Style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "width":
			w = cssLengthPoints(value)
		case "height":
			h = cssLengthPoints(value)
		}
	}
	return w, h, w > 0 && h > 0
}

// cssLengthPoints converts a VML length ("72pt", "1in", "96px") to points.
func cssLengthPoints(s string) float64 {
	s = strings.TrimSpace(s)
	units := []struct {
		suffix string
		factor float64
	}{
		{"pt", 1}, {"in", 72}, {"px", 0.75}, {"cm", 72 / 2.54}, {"mm", 72 / 25.4},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil {
				return 0
			}
			return v * u.factor
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// UnmarshalXML decodes the body children in source order.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		if t.Name.Local == "sectPr" {
			b.SectPr = &SectionProps{}
			return d.DecodeElement(b.SectPr, &t)
		}
		blk, err := decodeBlock(d, t)
		if err != nil {
			return err
		}
		b.Children = append(b.Children, blk)
		return nil
	})
}

// decodeBlock decodes a body or cell child.
func decodeBlock(d *xml.Decoder, t xml.StartElement) (Block, error) {
	switch t.Name.Local {
	case "p":
		p := &Paragraph{}
		if err := d.DecodeElement(p, &t); err != nil {
			return nil, fmt.Errorf("decoding paragraph: %w", err)
		}
		return p, nil
	case "tbl":
		tbl := &Table{}
		if err := d.DecodeElement(tbl, &t); err != nil {
			return nil, fmt.Errorf("decoding table: %w", err)
		}
		return tbl, nil
	}
	return skip(d, t)
}

// UnmarshalXML decodes paragraph properties and inline content.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "pPr":
			p.Props = &ParagraphProps{}
			return d.DecodeElement(p.Props, &t)
		case "r":
			r := &Run{}
			if err := d.DecodeElement(r, &t); err != nil {
				return err
			}
			p.Content = append(p.Content, r)
		case "hyperlink":
			h := &Hyperlink{RelID: attr(t, "id"), Anchor: attr(t, "anchor")}
			runs, err := decodeRuns(d)
			if err != nil {
				return err
			}
			h.Runs = runs
			p.Content = append(p.Content, h)
		case "fldSimple":
			f := &SimpleField{Instr: strings.TrimSpace(attr(t, "instr"))}
			runs, err := decodeRuns(d)
			if err != nil {
				return err
			}
			f.Runs = runs
			p.Content = append(p.Content, f)
		case "drawing":
			dr, err := decodeDrawing(d)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, dr)
		case "pict":
			pic, err := decodePicture(d)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, pic)
		default:
			ig, err := skip(d, t)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, ig)
		}
		return nil
	})
}

// decodeRuns collects the <w:r> children of a hyperlink or simple field.
func decodeRuns(d *xml.Decoder) ([]*Run, error) {
	var runs []*Run
	err := eachChild(d, func(t xml.StartElement) error {
		if t.Name.Local != "r" {
			return d.Skip()
		}
		r := &Run{}
		if err := d.DecodeElement(r, &t); err != nil {
			return err
		}
		runs = append(runs, r)
		return nil
	})
	return runs, err
}

// UnmarshalXML decodes run properties and run content in order.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "rPr":
			r.Props = &RunProps{}
			return d.DecodeElement(r.Props, &t)
		case "AlternateContent":
			items, err := decodeAlternateContent(d)
			if err != nil {
				return err
			}
			r.Content = append(r.Content, items...)
			return nil
		}
		item, err := decodeRunItem(d, t)
		if err != nil {
			return err
		}
		r.Content = append(r.Content, item)
		return nil
	})
}

// decodeRunItem decodes one child of a run.
func decodeRunItem(d *xml.Decoder, t xml.StartElement) (RunItem, error) {
	switch t.Name.Local {
	case "t":
		var s string
		if err := d.DecodeElement(&s, &t); err != nil {
			return nil, err
		}
		return &Text{Value: s}, nil
	case "tab":
		return &Tab{}, d.Skip()
	case "br":
		bt := BreakType(attr(t, "type"))
		if bt == "" || bt == "textWrapping" {
			bt = BreakLine
		}
		return &Break{Type: bt}, d.Skip()
	case "cr":
		return &Break{Type: BreakCarriage}, d.Skip()
	case "lastRenderedPageBreak":
		return &Break{Type: BreakRenderedPage}, d.Skip()
	case "sym":
		return &Symbol{Font: attr(t, "font"), Char: attr(t, "char")}, d.Skip()
	case "drawing":
		return decodeDrawing(d)
	case "pict":
		return decodePicture(d)
	}
	return skip(d, t)
}

// decodeAlternateContent keeps the items of the Choice branch, falling back
// to the Fallback branch when the choice yields nothing usable.
func decodeAlternateContent(d *xml.Decoder) ([]RunItem, error) {
	var choice, fallback []RunItem
	err := eachChild(d, func(t xml.StartElement) error {
		var dst *[]RunItem
		switch t.Name.Local {
		case "Choice":
			if choice != nil {
				return d.Skip()
			}
			choice = []RunItem{}
			dst = &choice
		case "Fallback":
			dst = &fallback
		default:
			return d.Skip()
		}
		return eachChild(d, func(c xml.StartElement) error {
			item, err := decodeRunItem(d, c)
			if err != nil {
				return err
			}
			if _, ok := item.(*Ignored); !ok {
				*dst = append(*dst, item)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(choice) > 0 {
		return choice, nil
	}
	return fallback, nil
}

// decodeDrawing scans a <w:drawing> subtree for the pieces this engine uses:
// placement, extent, docPr, horizontal alignment and the blip reference.
func decodeDrawing(d *xml.Decoder) (*Drawing, error) {
	dr := &Drawing{}
	var inAlign, seenFrame bool
	posH := 0 // depth of the open <wp:positionH>, 0 outside it
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding drawing: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "inline", "anchor":
				if !seenFrame {
					seenFrame = true
					dr.Anchored = t.Name.Local == "anchor"
				}
			case "extent":
				if !dr.hasExtent {
					dr.ExtentCX, _ = strconv.ParseInt(attr(t, "cx"), 10, 64)
					dr.ExtentCY, _ = strconv.ParseInt(attr(t, "cy"), 10, 64)
					dr.hasExtent = true
				}
			case "docPr":
				dr.Name = attr(t, "name")
				dr.Descr = attr(t, "descr")
			case "positionH":
				if posH == 0 {
					posH = depth
				}
			case "align":
				inAlign = posH > 0
			case "blip":
				if dr.RelID == "" {
					dr.RelID = attr(t, "embed")
					if dr.RelID == "" {
						dr.RelID = attr(t, "link")
					}
				}
			}
		case xml.CharData:
			if inAlign && dr.AlignH == "" {
				dr.AlignH = strings.TrimSpace(string(t))
			}
		case xml.EndElement:
			if depth == posH {
				posH = 0
			}
			depth--
			if t.Name.Local == "align" {
				inAlign = false
			}
		}
	}
	return dr, nil
}

// decodePicture scans a <w:pict> subtree for the VML image reference.
func decodePicture(d *xml.Decoder) (*Picture, error) {
	pic := &Picture{}
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding picture: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "shape":
				if pic.Style == "" {
					pic.Style = attr(t, "style")
				}
			case "imagedata":
				if pic.RelID == "" {
					pic.RelID = attrNS(t, nsR, "id")
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return pic, nil
}

// UnmarshalXML decodes table properties, grid and rows.
func (tbl *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "tblPr":
			tbl.Props = &TableProps{}
			return d.DecodeElement(tbl.Props, &t)
		case "tblGrid":
			return d.DecodeElement(&tbl.Grid, &t)
		case "tr":
			row := &Row{}
			if err := d.DecodeElement(row, &t); err != nil {
				return err
			}
			tbl.Rows = append(tbl.Rows, row)
			return nil
		}
		return d.Skip()
	})
}

// UnmarshalXML decodes row properties and cells.
func (row *Row) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "trPr":
			row.Props = &RowProps{}
			return d.DecodeElement(row.Props, &t)
		case "tc":
			c := &Cell{}
			if err := d.DecodeElement(c, &t); err != nil {
				return err
			}
			row.Cells = append(row.Cells, c)
			return nil
		}
		return d.Skip()
	})
}

// UnmarshalXML decodes cell properties and block content.
func (c *Cell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(t xml.StartElement) error {
		if t.Name.Local == "tcPr" {
			c.Props = &CellProps{}
			return d.DecodeElement(c.Props, &t)
		}
		blk, err := decodeBlock(d, t)
		if err != nil {
			return err
		}
		c.Blocks = append(c.Blocks, blk)
		return nil
	})
}

// Paragraphs returns the direct paragraphs of the cell.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range c.Blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// eachChild calls fn for every direct child element until the enclosing
// element ends. fn must consume the child (decode it or skip it).
func eachChild(d *xml.Decoder, fn func(xml.StartElement) error) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func skip(d *xml.Decoder, t xml.StartElement) (*Ignored, error) {
	if err := d.Skip(); err != nil {
		return nil, err
	}
	return &Ignored{Name: t.Name.Local}, nil
}

// attr returns the value of the attribute with the given local name.
func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// attrNS prefers the attribute in the given namespace, falling back to the
// local name alone.
func attrNS(t xml.StartElement, space, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return attr(t, local)
}
