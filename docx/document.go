package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// ValAttr is an element whose only payload is a w:val attribute.
type ValAttr struct {
	Val string `xml:"val,attr"`
}

// value returns the attribute value, or "" when the element is absent.
func (v *ValAttr) value() string {
	if v == nil {
		return ""
	}
	return v.Val
}

// OnOff is a toggle property such as <w:b/> or <w:keepNext w:val="0"/>.
// A nil *OnOff means the property is absent.
type OnOff struct {
	Val string `xml:"val,attr"`
}

// On reports whether the toggle is present and not switched off.
func (o *OnOff) On() bool {
	if o == nil {
		return false
	}
	switch o.Val {
	case "false", "0", "off":
		return false
	}
	return true
}

// ParagraphProps represents paragraph properties (<w:pPr>).
type ParagraphProps struct {
	Style           *ValAttr        `xml:"pStyle"`
	KeepNext        *OnOff          `xml:"keepNext"`
	KeepLines       *OnOff          `xml:"keepLines"`
	PageBreakBefore *OnOff          `xml:"pageBreakBefore"`
	WidowControl    *OnOff          `xml:"widowControl"`
	NumPr           *NumberingProps `xml:"numPr"`
	Spacing         *SpacingProps   `xml:"spacing"`
	Indent          *IndentProps    `xml:"ind"`
	Justification   *ValAttr        `xml:"jc"`
	OutlineLvl      *ValAttr        `xml:"outlineLvl"`
	SectPr          *SectionProps   `xml:"sectPr"`
}

// StyleID returns the referenced paragraph style id.
func (p *ParagraphProps) StyleID() string {
	if p == nil {
		return ""
	}
	return p.Style.value()
}

// NumberingProps represents numbering properties for lists.
type NumberingProps struct {
	ILvl  *ValAttr `xml:"ilvl"`
	NumID *ValAttr `xml:"numId"`
}

// SpacingProps represents paragraph spacing. Before and After are twips;
// Line is 240ths of a line for the auto rule and twips otherwise.
type SpacingProps struct {
	Before   string `xml:"before,attr"`
	After    string `xml:"after,attr"`
	Line     string `xml:"line,attr"`
	LineRule string `xml:"lineRule,attr"` // auto, exact, atLeast
}

// IndentProps represents paragraph indentation in twips.
type IndentProps struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	Right     string `xml:"right,attr"`
	End       string `xml:"end,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// RunProps represents run properties (<w:rPr>).
type RunProps struct {
	Style     *ValAttr  `xml:"rStyle"`
	Fonts     *FontsXML `xml:"rFonts"`
	Bold      *OnOff    `xml:"b"`
	Italic    *OnOff    `xml:"i"`
	Underline *ValAttr  `xml:"u"`
	Strike    *OnOff    `xml:"strike"`
	Size      *ValAttr  `xml:"sz"` // half-points
	Color     *ValAttr  `xml:"color"`
	Highlight *ValAttr  `xml:"highlight"`
}

// FontsXML represents font settings.
type FontsXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// TableProps represents table properties (<w:tblPr>).
type TableProps struct {
	Style         *ValAttr    `xml:"tblStyle"`
	Width         *WidthProps `xml:"tblW"`
	Indent        *WidthProps `xml:"tblInd"`
	Borders       *BordersXML `xml:"tblBorders"`
	Justification *ValAttr    `xml:"jc"`
}

// StyleID returns the referenced table style id.
func (t *TableProps) StyleID() string {
	if t == nil {
		return ""
	}
	return t.Style.value()
}

// WidthProps represents a table/cell width or indent.
type WidthProps struct {
	W    string `xml:"w,attr"`
	Type string `xml:"type,attr"` // dxa (twips), pct (50ths of a percent), auto, nil
}

// BordersXML represents tblBorders or tcBorders. Start/End are the
// bidi-aware spellings of Left/Right.
type BordersXML struct {
	Top     *BorderSpec `xml:"top"`
	Bottom  *BorderSpec `xml:"bottom"`
	Left    *BorderSpec `xml:"left"`
	Start   *BorderSpec `xml:"start"`
	Right   *BorderSpec `xml:"right"`
	End     *BorderSpec `xml:"end"`
	InsideH *BorderSpec `xml:"insideH"`
	InsideV *BorderSpec `xml:"insideV"`
}

// LeftEdge returns the left border, accepting the start spelling.
func (b *BordersXML) LeftEdge() *BorderSpec {
	if b == nil {
		return nil
	}
	if b.Left != nil {
		return b.Left
	}
	return b.Start
}

// RightEdge returns the right border, accepting the end spelling.
func (b *BordersXML) RightEdge() *BorderSpec {
	if b == nil {
		return nil
	}
	if b.Right != nil {
		return b.Right
	}
	return b.End
}

// BorderSpec represents a single border.
type BorderSpec struct {
	Val   string `xml:"val,attr"`   // single, double, dotted, nil, none...
	Sz    string `xml:"sz,attr"`    // eighths of a point
	Space string `xml:"space,attr"` // points
	Color string `xml:"color,attr"` // hex or auto
}

// GridXML represents the table grid definition.
type GridXML struct {
	Cols []GridColXML `xml:"gridCol"`
}

// GridColXML represents a grid column width in twips.
type GridColXML struct {
	W string `xml:"w,attr"`
}

// RowProps represents row properties (<w:trPr>).
type RowProps struct {
	Height *RowHeightXML `xml:"trHeight"`
	Header *OnOff        `xml:"tblHeader"`
}

// RowHeightXML represents row height.
type RowHeightXML struct {
	Val  string `xml:"val,attr"`
	Rule string `xml:"hRule,attr"` // exact, atLeast, auto
}

// CellProps represents cell properties (<w:tcPr>).
type CellProps struct {
	Width         *WidthProps `xml:"tcW"`
	GridSpan      *ValAttr    `xml:"gridSpan"`
	VMerge        *ValAttr    `xml:"vMerge"` // val "restart"; absent val means continue
	Borders       *BordersXML `xml:"tcBorders"`
	Shading       *ShadingXML `xml:"shd"`
	VAlign        *ValAttr    `xml:"vAlign"`
	TextDirection *ValAttr    `xml:"textDirection"`
}

// ShadingXML represents cell shading.
type ShadingXML struct {
	Val   string `xml:"val,attr"`
	Color string `xml:"color,attr"`
	Fill  string `xml:"fill,attr"` // background color
}

// SectionProps represents section properties (<w:sectPr>).
type SectionProps struct {
	PageSize *PageSizeXML   `xml:"pgSz"`
	Margins  *PageMarginXML `xml:"pgMar"`
}

// PageSizeXML represents page size in twips.
type PageSizeXML struct {
	W      string `xml:"w,attr"`
	H      string `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

// PageMarginXML represents page margins in twips.
type PageMarginXML struct {
	Top    string `xml:"top,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
	Right  string `xml:"right,attr"`
	Header string `xml:"header,attr"`
	Footer string `xml:"footer,attr"`
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Defaults  []contentDefault  `xml:"Default"`
	Overrides []contentOverride `xml:"Override"`
}

type contentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}
