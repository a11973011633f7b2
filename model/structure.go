package model

import "strings"

// NodeType discriminates the entity a StructureNode refers to.
type NodeType string

const (
	NodeField     NodeType = "field"
	NodeParagraph NodeType = "paragraph"
	NodeTable     NodeType = "table"
	NodeImage     NodeType = "image"
	NodePageBreak NodeType = "page_break"
)

// StructureNode is one entry of the ordered document structure. ID refers
// to a Field name, ParagraphBlock id, TableSchema name or ImageAsset id;
// page breaks carry their own id. BlockIndex is the position of the
// originating child in the document body.
type StructureNode struct {
	Type       NodeType `json:"type"`
	ID         string   `json:"id"`
	BlockIndex int      `json:"block_index"`
	Label      string   `json:"label,omitempty"`
}

// RunType discriminates text runs from embedded images in a run list.
type RunType string

const (
	RunText  RunType = "text"
	RunImage RunType = "image"
)

// Run is one element of an ordered run list.
type Run struct {
	Type    RunType   `json:"type"`
	Text    string    `json:"text,omitempty"`
	ImageID string    `json:"image_id,omitempty"`
	Format  *RunStyle `json:"format,omitempty"`
}

// TextRun returns a text run with the given formatting (nil for none).
func TextRun(text string, format *RunStyle) Run {
	return Run{Type: RunText, Text: text, Format: format}
}

// ImageRun returns a run referencing an extracted image.
func ImageRun(imageID string, format *RunStyle) Run {
	return Run{Type: RunImage, ImageID: imageID, Format: format}
}

// ParagraphBlock is a committed block of paragraph text. One source
// paragraph yields several blocks when images or page breaks split it.
type ParagraphBlock struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	StyleName string      `json:"style"`
	Style     StyleRecord `json:"format"`
	Runs      []Run       `json:"runs"`
	Index     int         `json:"index"`
}

// RunsText concatenates the text of all text runs.
func RunsText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Type == RunText {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}
