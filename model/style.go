package model

// StyleRecord is the normalized formatting of a paragraph: character
// formatting taken from its first run plus paragraph-level formatting.
type StyleRecord struct {
	FontName    string      `json:"font_name,omitempty"`
	FontNameCJK string      `json:"font_name_cjk,omitempty"`
	FontSize    float64     `json:"font_size"`
	Color       string      `json:"color,omitempty"`
	Bold        bool        `json:"bold"`
	Italic      bool        `json:"italic"`
	Underline   bool        `json:"underline"`
	Alignment   string      `json:"alignment"`
	Indentation Indentation `json:"indentation"`
	Spacing     Spacing     `json:"spacing"`
	Pagination  Pagination  `json:"pagination"`

	// HasPageBreak is set on field styles whose paragraph carries a page break.
	HasPageBreak bool `json:"has_page_break,omitempty"`
}

// Indentation in points. FirstLine is negative for hanging indents.
type Indentation struct {
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
	FirstLine float64 `json:"first_line"`
}

// Spacing in points; LineSpacing is a multiple for the SINGLE,
// ONE_POINT_FIVE, DOUBLE and MULTIPLE rules and points otherwise.
type Spacing struct {
	Before          float64 `json:"before"`
	After           float64 `json:"after"`
	LineSpacing     float64 `json:"line_spacing"`
	LineSpacingRule string  `json:"line_spacing_rule"`
}

// Pagination flags of a paragraph.
type Pagination struct {
	KeepTogether    bool `json:"keep_together"`
	KeepWithNext    bool `json:"keep_with_next"`
	PageBreakBefore bool `json:"page_break_before"`
	WidowControl    bool `json:"widow_control"`
}

// Line spacing rules.
const (
	LineSingle       = "SINGLE"
	LineOnePointFive = "ONE_POINT_FIVE"
	LineDouble       = "DOUBLE"
	LineMultiple     = "MULTIPLE"
	LineExactly      = "EXACTLY"
	LineAtLeast      = "AT_LEAST"
)

// RunStyle is the direct formatting of a single run. Zero values mean the
// run inherits from its paragraph.
type RunStyle struct {
	Font      string  `json:"font,omitempty"`
	FontCJK   string  `json:"fontCJK,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
}

// IsZero reports whether the run carries no direct formatting.
func (s RunStyle) IsZero() bool {
	return s == RunStyle{}
}
