package model

// Template is the complete result of parsing one document package.
type Template struct {
	TemplateID     string           `json:"template_id"`
	TemplateName   string           `json:"template_name"`
	DocDefaultSize *float64         `json:"doc_default_size,omitempty"`
	Sections       []Section        `json:"sections"`
	Fields         []Field          `json:"fields"`
	Tables         []TableSchema    `json:"tables"`
	Images         []ImageAsset     `json:"images"`
	Structure      []StructureNode  `json:"structure"`
	Paragraphs     []ParagraphBlock `json:"paragraphs"`
	Styles         StyleSummary     `json:"styles"`
}

// StyleSummary reports the document-wide default font.
type StyleSummary struct {
	DefaultFont string  `json:"default_font"`
	DefaultSize float64 `json:"default_size"`
}

// Section holds page geometry for one document section. All lengths are in
// points.
type Section struct {
	Index          int     `json:"index"`
	PageWidth      float64 `json:"page_width"`
	PageHeight     float64 `json:"page_height"`
	Orientation    string  `json:"orientation"`
	MarginTop      float64 `json:"margin_top"`
	MarginBottom   float64 `json:"margin_bottom"`
	MarginLeft     float64 `json:"margin_left"`
	MarginRight    float64 `json:"margin_right"`
	HeaderDistance float64 `json:"header_distance"`
	FooterDistance float64 `json:"footer_distance"`
}

// Orientation values.
const (
	OrientationPortrait  = "PORTRAIT"
	OrientationLandscape = "LANDSCAPE"
)

// NewTemplate returns a Template with every collection initialised so that
// JSON output never contains null arrays.
func NewTemplate(id, name string) *Template {
	return &Template{
		TemplateID:   id,
		TemplateName: name,
		Sections:     []Section{},
		Fields:       []Field{},
		Tables:       []TableSchema{},
		Images:       []ImageAsset{},
		Structure:    []StructureNode{},
		Paragraphs:   []ParagraphBlock{},
	}
}

// Field returns the field with the given name, or nil.
func (t *Template) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Table returns the table schema with the given name, or nil.
func (t *Template) Table(name string) *TableSchema {
	for i := range t.Tables {
		if t.Tables[i].Name == name {
			return &t.Tables[i]
		}
	}
	return nil
}

// Image returns the image asset with the given id, or nil.
func (t *Template) Image(id string) *ImageAsset {
	for i := range t.Images {
		if t.Images[i].ID == id {
			return &t.Images[i]
		}
	}
	return nil
}

// Paragraph returns the paragraph block with the given id, or nil.
func (t *Template) Paragraph(id string) *ParagraphBlock {
	for i := range t.Paragraphs {
		if t.Paragraphs[i].ID == id {
			return &t.Paragraphs[i]
		}
	}
	return nil
}
