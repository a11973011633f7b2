package tables

import (
	"testing"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/model"
)

func edge(w int, style, color string) *model.Edge {
	return &model.Edge{Width: w, Style: style, Color: color}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		name string
		spec *docx.BorderSpec
		want *model.Edge
	}{
		{"absent", nil, nil},
		{"nil", &docx.BorderSpec{Val: "nil"}, model.NoEdge()},
		{"none", &docx.BorderSpec{Val: "none", Sz: "12"}, model.NoEdge()},
		{"default size", &docx.BorderSpec{Val: "single"}, edge(1, "solid", "#000000")},
		{"hairline", &docx.BorderSpec{Val: "single", Sz: "4", Color: "auto"}, edge(1, "solid", "#000000")},
		{"medium", &docx.BorderSpec{Val: "single", Sz: "12", Color: "FF0000"}, edge(2, "solid", "#ff0000")},
		{"medium upper bound", &docx.BorderSpec{Val: "single", Sz: "19"}, edge(2, "solid", "#000000")},
		{"bold", &docx.BorderSpec{Val: "single", Sz: "20"}, edge(3, "solid", "#000000")},
		{"dotted", &docx.BorderSpec{Val: "dotDash", Sz: "8"}, edge(2, "dotted", "#000000")},
		{"dashed", &docx.BorderSpec{Val: "dashSmallGap"}, edge(1, "dashed", "#000000")},
		{"double", &docx.BorderSpec{Val: "double"}, edge(1, "double", "#000000")},
		{"gap", &docx.BorderSpec{Val: "thinThickSmallGap"}, edge(1, "double", "#000000")},
		{"bad size", &docx.BorderSpec{Val: "single", Sz: "x"}, edge(1, "solid", "#000000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEdge(tt.spec)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseEdge() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseEdge() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func testTableBorders() TableBorders {
	return TableBorders{
		Top:     edge(3, "solid", "#000001"),
		Bottom:  edge(3, "solid", "#000002"),
		Left:    edge(3, "solid", "#000003"),
		Right:   edge(3, "solid", "#000004"),
		InsideH: edge(1, "dotted", "#00000a"),
		InsideV: edge(1, "dashed", "#00000b"),
	}
}

func TestResolveCellBorders_Positions(t *testing.T) {
	tb := testTableBorders()

	tests := []struct {
		name                     string
		row, col                 int
		top, bottom, left, right *model.Edge
	}{
		{"top-left corner", 0, 0, tb.Top, tb.InsideH, tb.Left, tb.InsideV},
		{"interior", 1, 1, tb.InsideH, tb.InsideH, tb.InsideV, tb.InsideV},
		{"bottom-right corner", 2, 2, tb.InsideH, tb.Bottom, tb.InsideV, tb.Right},
		{"top-right", 0, 2, tb.Top, tb.InsideH, tb.InsideV, tb.Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCellBorders(tb, tt.row, tt.col, 3, 3, model.CellBorderSet{})
			if got.Top != tt.top || got.Bottom != tt.bottom || got.Left != tt.left || got.Right != tt.right {
				t.Errorf("ResolveCellBorders(%d,%d) = %+v", tt.row, tt.col, got)
			}
		})
	}
}

func TestResolveCellBorders_SingleCell(t *testing.T) {
	tb := testTableBorders()
	got := ResolveCellBorders(tb, 0, 0, 1, 1, model.CellBorderSet{})
	if got.Top != tb.Top || got.Bottom != tb.Bottom || got.Left != tb.Left || got.Right != tb.Right {
		t.Errorf("single cell should use all outer borders, got %+v", got)
	}
}

func TestResolveCellBorders_Overrides(t *testing.T) {
	tb := testTableBorders()
	red := edge(2, "solid", "#ff0000")
	got := ResolveCellBorders(tb, 1, 1, 3, 3, model.CellBorderSet{Top: model.NoEdge(), Right: red})

	if got.Top == nil || !got.Top.None {
		t.Errorf("Top = %+v, want explicit none", got.Top)
	}
	if got.Right != red {
		t.Errorf("Right = %+v, want override", got.Right)
	}
	if got.Bottom != tb.InsideH || got.Left != tb.InsideV {
		t.Error("edges without override should keep positional defaults")
	}
}

func TestResolveCellBorders_Unspecified(t *testing.T) {
	got := ResolveCellBorders(TableBorders{}, 0, 0, 2, 2, model.CellBorderSet{})
	if !got.IsEmpty() {
		t.Errorf("no table borders should resolve to an empty set, got %+v", got)
	}
}

func TestParseTableBorders_StartEnd(t *testing.T) {
	tb := ParseTableBorders(&docx.BordersXML{
		Start: &docx.BorderSpec{Val: "single"},
		End:   &docx.BorderSpec{Val: "nil"},
	})
	if tb.Left == nil || tb.Left.Style != "solid" {
		t.Errorf("Left = %+v, want solid from start", tb.Left)
	}
	if tb.Right == nil || !tb.Right.None {
		t.Errorf("Right = %+v, want none from end", tb.Right)
	}
	if tb.Top != nil {
		t.Errorf("Top = %+v, want unspecified", tb.Top)
	}
}
