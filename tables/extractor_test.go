package tables

import (
	"testing"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/internal/docxtest"
	"github.com/tsawler/docform/model"
)

type pathIndex map[string]string

func (p pathIndex) ImageAt(path docx.Path) (string, bool) {
	id, ok := p[path.String()]
	return id, ok
}

func extractFirst(t *testing.T, b *docxtest.Builder, images ImageLookup) model.TableSchema {
	t.Helper()
	pkg, err := docx.OpenBytes(b.Bytes(t))
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	schemas := NewExtractor(pkg, images).ExtractAll(pkg.Body)
	if len(schemas) == 0 {
		t.Fatal("no tables extracted")
	}
	return schemas[0]
}

func TestExtract_Columns(t *testing.T) {
	schema := extractFirst(t, docxtest.New().Body(docxtest.Table("",
		docxtest.Row("",
			docxtest.Cell(`<w:tcW w:w="2880" w:type="dxa"/>`, docxtest.Para("Item Name")),
			docxtest.Cell(`<w:tcW w:w="1250" w:type="pct"/>`, docxtest.Para("Unit Price")),
			docxtest.Cell("", docxtest.Para("交貨日期")),
			docxtest.Cell("", docxtest.Para("")),
			docxtest.Cell("", docxtest.Para("數量")),
			docxtest.Cell("", docxtest.Para("金額")),
		),
		docxtest.TextRow("pen", "10", "2024-01-01", "x", "3", "30"),
	)), nil)

	want := []model.Column{
		{Name: "item_name", Label: "Item Name", Type: model.ColumnText, Width: model.Points(144)},
		{Name: "unit_price", Label: "Unit Price", Type: model.ColumnNumber, Width: model.Percentage(25)},
		{Name: "____", Label: "交貨日期", Type: model.ColumnDate},
		{Name: "col_3", Label: "Column", Type: model.ColumnText},
		{Name: "__", Label: "數量", Type: model.ColumnNumber},
		{Name: "___5", Label: "金額", Type: model.ColumnNumber},
	}
	if len(schema.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(schema.Columns), len(want))
	}
	for i, w := range want {
		if got := schema.Columns[i]; got != w {
			t.Errorf("column %d = %+v, want %+v", i, got, w)
		}
	}

	if len(schema.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(schema.Rows))
	}
	if got := schema.Rows[1]["unit_price"]; got != "10" {
		t.Errorf("rows[1][unit_price] = %q, want 10", got)
	}
	if schema.Name != "table_1" || schema.Label != "Table 1" || schema.MinRows != 1 || schema.MaxRows != 100 {
		t.Errorf("schema identity = %s %s %d %d", schema.Name, schema.Label, schema.MinRows, schema.MaxRows)
	}
	if schema.IsPart || schema.PartIndex != nil {
		t.Error("unsplit table should not be marked as a part")
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		header string
		index  int
		want   string
	}{
		{"Applicant Name", 0, "applicant_name"},
		{"", 4, "col_4"},
		{"Qty (pcs)", 1, "qty__pcs_"},
		{"名稱", 0, "__"},
		{"snake_case9", 0, "snake_case9"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.header, tt.index); got != tt.want {
			t.Errorf("ColumnName(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestColumnTypeOf(t *testing.T) {
	tests := map[string]model.ColumnType{
		"Total Cost": model.ColumnNumber,
		"單價":         model.ColumnNumber,
		"Start Date": model.ColumnDate,
		"時間":         model.ColumnDate,
		"Remarks":    model.ColumnText,
	}
	for header, want := range tests {
		if got := ColumnTypeOf(header); got != want {
			t.Errorf("ColumnTypeOf(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestExtract_VerticalMergeHeuristic(t *testing.T) {
	restart := `<w:vMerge w:val="restart"/>`
	schema := extractFirst(t, docxtest.New().Body(docxtest.Table("",
		docxtest.TextRow("Dept", "Name"),
		docxtest.Row("", docxtest.Cell(restart, docxtest.Para("Sales")), docxtest.TextCell("Ann")),
		docxtest.Row("", docxtest.Cell(restart, docxtest.Para("Sales")), docxtest.TextCell("Bob")),
		docxtest.Row("", docxtest.Cell(`<w:vMerge/>`), docxtest.TextCell("Cid")),
		docxtest.Row("", docxtest.Cell(restart, docxtest.Para("Ops")), docxtest.TextCell("Dee")),
	)), nil)

	want := []model.VMerge{model.VMergeStart, model.VMergeContinue, model.VMergeContinue, model.VMergeStart}
	for i, w := range want {
		cell := schema.CellsInRow(i + 1)[0]
		if cell.VMerge != w {
			t.Errorf("row %d v_merge = %q, want %q", i+1, cell.VMerge, w)
		}
	}
	if got := schema.CellsInRow(0)[0].VMerge; got != model.VMergeNone {
		t.Errorf("header v_merge = %q, want none", got)
	}
}

func TestExtract_MergeHeuristicUsesGridColumn(t *testing.T) {
	restart := `<w:vMerge w:val="restart"/>`
	schema := extractFirst(t, docxtest.New().Body(docxtest.Table("",
		docxtest.Row("", docxtest.Cell(`<w:gridSpan w:val="2"/>`, docxtest.Para("A")), docxtest.Cell(restart, docxtest.Para("X"))),
		docxtest.Row("", docxtest.TextCell("B"), docxtest.Cell(restart, docxtest.Para("X")), docxtest.Cell(restart, docxtest.Para("X"))),
	)), nil)

	row := schema.CellsInRow(1)
	// Column 1 of row 1 sits under the span of "A"; column 2 sits under "X".
	if row[1].VMerge != model.VMergeStart {
		t.Errorf("cell (1,1) v_merge = %q, want start", row[1].VMerge)
	}
	if row[2].VMerge != model.VMergeContinue {
		t.Errorf("cell (1,2) v_merge = %q, want continue", row[2].VMerge)
	}
	if got := schema.CellsInRow(0)[0].ColSpan; got != 2 {
		t.Errorf("col_span = %d, want 2", got)
	}
}

func TestExtract_CellFormatting(t *testing.T) {
	schema := extractFirst(t, docxtest.New().Body(docxtest.Table("",
		docxtest.Row("",
			docxtest.Cell(`<w:shd w:val="clear" w:color="auto" w:fill="D9E2F3"/><w:vAlign w:val="center"/><w:textDirection w:val="tbRl"/>`,
				docxtest.P(`<w:jc w:val="center"/>`, docxtest.R("", "one")),
				docxtest.P(`<w:jc w:val="right"/>`, docxtest.R("", "two"))),
			docxtest.Cell(`<w:shd w:fill="auto"/><w:vAlign w:val="bottom"/>`, docxtest.P(`<w:jc w:val="left"/>`, docxtest.R("", "three"))),
		),
	)), nil)

	c := schema.Cells[0]
	if c.Background != "D9E2F3" || c.VAlign != "middle" || c.TextDirection != "vertical-rl" || c.HAlign != "center" {
		t.Errorf("cell 0 formatting = %+v", c)
	}
	if c.Text != "one\ntwo" {
		t.Errorf("cell 0 text = %q", c.Text)
	}
	wantRuns := []string{"one", "\n", "two"}
	if len(c.Runs) != len(wantRuns) {
		t.Fatalf("cell 0 runs = %+v", c.Runs)
	}
	for i, w := range wantRuns {
		if c.Runs[i].Text != w {
			t.Errorf("run %d = %q, want %q", i, c.Runs[i].Text, w)
		}
	}

	c = schema.Cells[1]
	if c.Background != "" || c.VAlign != "bottom" || c.HAlign != "" {
		t.Errorf("cell 1 formatting = %+v", c)
	}
}

func TestExtract_BulletAndImageRuns(t *testing.T) {
	b := docxtest.New().
		Numbering(`<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="▪"/></w:lvl></w:abstractNum>` +
			`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>`).
		Body(docxtest.Table("",
			docxtest.Row("", docxtest.Cell("",
				docxtest.P(`<w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr>`, docxtest.R(`<w:b/>`, "point")),
				docxtest.P("", docxtest.R("", "see"), docxtest.Inline("rId1", 12700, 12700)),
			)),
		))
	// table 0, row 0, cell 0, block 1, content 1, item 0
	images := pathIndex{"0.0.0.1.1.0": "img_1"}
	schema := extractFirst(t, b, images)

	runs := schema.Cells[0].Runs
	if len(runs) != 5 {
		t.Fatalf("got %d runs, want 5: %+v", len(runs), runs)
	}
	if runs[0].Text != "▪ " || runs[0].Format == nil || !runs[0].Format.Bold {
		t.Errorf("bullet run = %+v, want bold ▪", runs[0])
	}
	if runs[1].Text != "point" || runs[2].Text != "\n" || runs[3].Text != "see" {
		t.Errorf("text runs = %+v", runs[:4])
	}
	if runs[4].Type != model.RunImage || runs[4].ImageID != "img_1" {
		t.Errorf("image run = %+v", runs[4])
	}
}

func TestExtract_Borders(t *testing.T) {
	tblPr := `<w:tblBorders>` + docxtest.Borders("single", "24", "auto", "top", "left", "bottom", "right") +
		docxtest.Borders("single", "4", "808080", "insideH", "insideV") + `</w:tblBorders>`
	schema := extractFirst(t, docxtest.New().Body(docxtest.Table(tblPr,
		docxtest.TextRow("a", "b", "c"),
		docxtest.Row("", docxtest.TextCell("d"),
			docxtest.Cell(`<w:tcBorders><w:top w:val="nil"/></w:tcBorders>`, docxtest.Para("e")),
			docxtest.TextCell("f")),
		docxtest.TextRow("g", "h", "i"),
	)), nil)

	outer := model.Edge{Width: 3, Style: "solid", Color: "#000000"}
	inner := model.Edge{Width: 1, Style: "solid", Color: "#808080"}

	first := schema.Cells[0].Borders
	if *first.Top != outer || *first.Left != outer || *first.Bottom != inner || *first.Right != inner {
		t.Errorf("corner borders = %+v", first)
	}
	center := schema.CellsInRow(1)[1].Borders
	if !center.Top.None {
		t.Errorf("override top = %+v, want none", center.Top)
	}
	if *center.Bottom != inner || *center.Left != inner || *center.Right != inner {
		t.Errorf("interior borders = %+v", center)
	}
}

func TestExtract_TableStyleBorders(t *testing.T) {
	schema := extractFirst(t, docxtest.New().
		Styles(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders>`+
			docxtest.Borders("single", "4", "auto", "top", "left", "bottom", "right", "insideH", "insideV")+
			`</w:tblBorders></w:tblPr></w:style>`).
		Body(docxtest.Table(`<w:tblStyle w:val="TableGrid"/>`, docxtest.TextRow("a"))), nil)

	if schema.StyleName != "Table Grid" {
		t.Errorf("StyleName = %q, want Table Grid", schema.StyleName)
	}
	if b := schema.Cells[0].Borders; b.Top == nil || b.Top.Style != "solid" {
		t.Errorf("borders from table style = %+v", b)
	}
}

func TestExtract_TableProperties(t *testing.T) {
	tests := []struct {
		name      string
		tblPr     string
		wantWidth string
		wantInd   float64
	}{
		{"fixed", `<w:tblW w:w="9000" w:type="dxa"/><w:tblInd w:w="120" w:type="dxa"/>`, "450", 6},
		{"percent", `<w:tblW w:w="5000" w:type="pct"/>`, "100%", 0},
		{"percent literal", `<w:tblW w:w="80%" w:type="pct"/>`, "80%", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := extractFirst(t, docxtest.New().Body(docxtest.Table(tt.tblPr,
				docxtest.Row(`<w:trHeight w:val="567" w:hRule="exact"/><w:tblHeader/>`, docxtest.TextCell("a")))), nil)
			if schema.Width == nil || schema.Width.String() != tt.wantWidth {
				t.Errorf("Width = %v, want %s", schema.Width, tt.wantWidth)
			}
			if tt.wantInd != 0 && (schema.Indent == nil || *schema.Indent != tt.wantInd) {
				t.Errorf("Indent = %v, want %v", schema.Indent, tt.wantInd)
			}
			rf := schema.RowFormats[0]
			if rf.Height == nil || *rf.Height != 28.35 || rf.HeightRule != "exact" || !rf.IsHeader {
				t.Errorf("RowFormats[0] = %+v", rf)
			}
		})
	}
}

func TestExtractAll_Indexes(t *testing.T) {
	pkg, err := docx.OpenBytes(docxtest.New().Body(
		docxtest.Para("intro"),
		docxtest.Table("", docxtest.TextRow("a")),
		docxtest.Para("middle"),
		docxtest.Table("", docxtest.TextRow("b")),
	).Bytes(t))
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	schemas := NewExtractor(pkg, nil).ExtractAll(pkg.Body)
	if len(schemas) != 2 {
		t.Fatalf("got %d tables, want 2", len(schemas))
	}
	if schemas[1].Name != "table_2" || schemas[1].TableIndex != 1 {
		t.Errorf("second table = %s/%d", schemas[1].Name, schemas[1].TableIndex)
	}
}
