package model

// FieldType is the input kind inferred for a fill-in field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
)

// Field is a fill-in location detected in a body paragraph.
type Field struct {
	Name           string      `json:"name"`
	Label          string      `json:"label"`
	Type           FieldType   `json:"type"`
	Required       bool        `json:"required"`
	Placeholder    string      `json:"placeholder"`
	ParagraphIndex int         `json:"paragraph_index"`
	Pattern        string      `json:"pattern"`
	Style          StyleRecord `json:"style"`
}
