package model

// Placement describes how an image is positioned relative to text.
type Placement string

const (
	PlacementInline   Placement = "inline"
	PlacementFloating Placement = "floating"
)

// ImageAsset is an embedded image extracted from the package.
//
// URL is empty when no asset sink is configured or the upload failed.
// ParagraphIndex is -1 when the owning paragraph is not a body-level
// paragraph; ParagraphRef is the stable structural handle of the owner.
type ImageAsset struct {
	ID             string    `json:"id"`
	URL            string    `json:"url,omitempty"`
	Width          float64   `json:"width"`
	Height         float64   `json:"height"`
	Index          int       `json:"index"`
	ParagraphIndex int       `json:"paragraph_index"`
	ParagraphRef   string    `json:"paragraph_ref,omitempty"`
	Placement      Placement `json:"placement"`
	Alignment      string    `json:"alignment,omitempty"`
	ContentType    string    `json:"content_type"`
	AltText        string    `json:"alt_text,omitempty"`
	OCRText        string    `json:"ocr_text,omitempty"`
}

// IsFloating reports whether the image is anchored rather than inline.
func (a ImageAsset) IsFloating() bool {
	return a.Placement == PlacementFloating
}
