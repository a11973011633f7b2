package tables

import (
	"strconv"
	"strings"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/model"
)

// DefaultBorderSize is the w:sz assumed when a border omits it, in eighths
// of a point.
const DefaultBorderSize = 4

// TableBorders holds the parsed table-level border defaults. A nil edge is
// unspecified.
type TableBorders struct {
	Top, Bottom, Left, Right *model.Edge
	InsideH, InsideV         *model.Edge
}

// ParseTableBorders converts tblBorders into resolved edges.
func ParseTableBorders(b *docx.BordersXML) TableBorders {
	if b == nil {
		return TableBorders{}
	}
	return TableBorders{
		Top:     ParseEdge(b.Top),
		Bottom:  ParseEdge(b.Bottom),
		Left:    ParseEdge(b.LeftEdge()),
		Right:   ParseEdge(b.RightEdge()),
		InsideH: ParseEdge(b.InsideH),
		InsideV: ParseEdge(b.InsideV),
	}
}

// ParseCellBorders converts tcBorders into the cell's explicit overrides.
func ParseCellBorders(b *docx.BordersXML) model.CellBorderSet {
	if b == nil {
		return model.CellBorderSet{}
	}
	return model.CellBorderSet{
		Top:    ParseEdge(b.Top),
		Bottom: ParseEdge(b.Bottom),
		Left:   ParseEdge(b.LeftEdge()),
		Right:  ParseEdge(b.RightEdge()),
	}
}

// ParseEdge converts one border element. A missing element is unspecified
// (nil); val nil or none is an explicit "none" edge.
func ParseEdge(spec *docx.BorderSpec) *model.Edge {
	if spec == nil {
		return nil
	}
	switch spec.Val {
	case "nil", "none":
		return model.NoEdge()
	}

	sz := DefaultBorderSize
	if spec.Sz != "" {
		if v, err := strconv.Atoi(spec.Sz); err == nil {
			sz = v
		}
	}
	color := strings.TrimPrefix(spec.Color, "#")
	if color == "" || color == "auto" {
		color = "000000"
	}
	return &model.Edge{
		Width: edgeWidth(float64(sz) / 8),
		Style: edgeStyle(spec.Val),
		Color: "#" + strings.ToLower(color),
	}
}

// edgeWidth buckets a width in points into 1, 2 or 3 pixels.
func edgeWidth(pt float64) int {
	switch {
	case pt < 1:
		return 1
	case pt < 2.5:
		return 2
	default:
		return 3
	}
}

// edgeStyle maps OOXML border styles onto CSS border styles.
func edgeStyle(val string) string {
	lower := strings.ToLower(val)
	switch {
	case strings.Contains(lower, "dot"):
		return "dotted"
	case strings.Contains(lower, "dash"):
		return "dashed"
	case strings.Contains(lower, "double"), strings.Contains(val, "Gap"):
		return "double"
	}
	return "solid"
}

// ResolveCellBorders computes the effective borders of the cell at row,
// col. Edges on the table's outside use the table's outer borders; edges
// between cells use insideH or insideV. A cell override replaces the
// positional default for its edge. It has no side effects.
func ResolveCellBorders(table TableBorders, row, col, rowCount, colsInRow int, overrides model.CellBorderSet) model.CellBorderSet {
	var out model.CellBorderSet

	if row == 0 {
		out.Top = table.Top
	} else {
		out.Top = table.InsideH
	}
	if row == rowCount-1 {
		out.Bottom = table.Bottom
	} else {
		out.Bottom = table.InsideH
	}
	if col == 0 {
		out.Left = table.Left
	} else {
		out.Left = table.InsideV
	}
	if col == colsInRow-1 {
		out.Right = table.Right
	} else {
		out.Right = table.InsideV
	}

	if overrides.Top != nil {
		out.Top = overrides.Top
	}
	if overrides.Bottom != nil {
		out.Bottom = overrides.Bottom
	}
	if overrides.Left != nil {
		out.Left = overrides.Left
	}
	if overrides.Right != nil {
		out.Right = overrides.Right
	}
	return out
}
