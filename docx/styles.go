package docx

import "encoding/xml"

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName     xml.Name       `xml:"styles"`
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleDefXML  `xml:"style"`
}

// docDefaultsXML represents document default styles.
type docDefaultsXML struct {
	RPr *RunProps       `xml:"rPrDefault>rPr"`
	PPr *ParagraphProps `xml:"pPrDefault>pPr"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string          `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string          `xml:"styleId,attr"`
	Default string          `xml:"default,attr"` // "1" if default style
	Name    *ValAttr        `xml:"name"`
	BasedOn *ValAttr        `xml:"basedOn"`
	PPr     *ParagraphProps `xml:"pPr"`
	RPr     *RunProps       `xml:"rPr"`
	TblPr   *TableProps     `xml:"tblPr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl    string   `xml:"ilvl,attr"`
	Start   *ValAttr `xml:"start"`
	NumFmt  *ValAttr `xml:"numFmt"`  // decimal, bullet, lowerLetter, ...
	LvlText *ValAttr `xml:"lvlText"` // e.g. "%1." or a bullet glyph
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string   `xml:"numId,attr"`
	AbstractNumID *ValAttr `xml:"abstractNumId"`
}
