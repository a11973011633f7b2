package tables

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/model"
)

// Schema limits reported on every extracted table.
const (
	DefaultMinRows = 1
	DefaultMaxRows = 100
)

// ImageLookup finds the asset id assigned to the graphic at a path.
type ImageLookup interface {
	ImageAt(path docx.Path) (string, bool)
}

var (
	numberKeywords = []string{
		"數量", "金額", "價格", "單價", "数量", "金额", "价格", "单价",
		"amount", "price", "quantity", "qty", "total", "cost",
	}
	dateKeywords = []string{"日期", "時間", "时间", "date", "time"}
)

// Extractor builds table schemas from body tables. It only reads the
// package and is safe to reuse across tables of the same document.
type Extractor struct {
	styles    *docx.StyleResolver
	numbering *docx.NumberingResolver
	images    ImageLookup
}

// NewExtractor returns an extractor for tables of pkg. images may be nil,
// in which case cell images produce no runs.
func NewExtractor(pkg *docx.Package, images ImageLookup) *Extractor {
	return &Extractor{
		styles:    pkg.Styles,
		numbering: pkg.Numbering,
		images:    images,
	}
}

// ExtractAll returns a schema for every body-level table in body order.
func (e *Extractor) ExtractAll(body *docx.Body) []model.TableSchema {
	schemas := []model.TableSchema{}
	for i, blk := range body.Children {
		if tbl, ok := blk.(*docx.Table); ok {
			schemas = append(schemas, e.Extract(tbl, docx.Path{i}, len(schemas)))
		}
	}
	return schemas
}

// Extract builds the schema of one table. path is the table's body path and
// index its position among body tables.
func (e *Extractor) Extract(tbl *docx.Table, path docx.Path, index int) model.TableSchema {
	schema := model.TableSchema{
		Name:       fmt.Sprintf("table_%d", index+1),
		Label:      fmt.Sprintf("Table %d", index+1),
		TableIndex: index,
		Columns:    []model.Column{},
		Rows:       []map[string]string{},
		Cells:      []model.TableCell{},
		RowFormats: []model.RowFormat{},
		MinRows:    DefaultMinRows,
		MaxRows:    DefaultMaxRows,
	}

	var borders TableBorders
	if tbl.Props != nil {
		styleID := tbl.Props.StyleID()
		if styleID != "" {
			schema.StyleName = e.styles.StyleName(styleID)
		}
		b := tbl.Props.Borders
		if b == nil {
			b = e.styles.TableBorders(styleID)
		}
		borders = ParseTableBorders(b)
		schema.Width = tableWidth(tbl.Props.Width)
		if ind := tbl.Props.Indent; ind != nil && (ind.Type == "dxa" || ind.Type == "") && ind.W != "" {
			v := docx.ParseTwips(ind.W)
			schema.Indent = &v
		}
	}

	if len(tbl.Rows) > 0 {
		schema.Columns = buildColumns(tbl.Rows[0], tbl.Grid)
	}

	rowCount := len(tbl.Rows)
	var above map[int]string // grid column -> trimmed text of the previous row
	for ri, row := range tbl.Rows {
		schema.RowFormats = append(schema.RowFormats, rowFormat(row))

		values := make(map[string]string)
		current := make(map[int]string)
		gridCol := 0
		for ci, cell := range row.Cells {
			text := strings.TrimSpace(cell.Text())
			if ci < len(schema.Columns) {
				values[schema.Columns[ci].Name] = text
			}

			tc := e.cell(cell, path.Child(ri).Child(ci))
			tc.Row = ri
			tc.Col = ci
			tc.Text = text

			// Word and several generators mark every cell of a vertical
			// merge as restart; identical text to the cell above is taken
			// as a continuation.
			if tc.VMerge == model.VMergeStart && ri > 0 {
				if prev, ok := above[gridCol]; ok && prev == text {
					tc.VMerge = model.VMergeContinue
				}
			}

			var overrides model.CellBorderSet
			if cell.Props != nil {
				overrides = ParseCellBorders(cell.Props.Borders)
			}
			tc.Borders = ResolveCellBorders(borders, ri, ci, rowCount, len(row.Cells), overrides)

			schema.Cells = append(schema.Cells, tc)
			current[gridCol] = text
			gridCol += cell.GridSpan()
		}
		schema.Rows = append(schema.Rows, values)
		above = current
	}
	return schema
}

// cell extracts the layout properties and run list of one cell.
func (e *Extractor) cell(c *docx.Cell, path docx.Path) model.TableCell {
	tc := model.TableCell{ColSpan: c.GridSpan(), Runs: []model.Run{}}

	if p := c.Props; p != nil {
		if p.VMerge != nil {
			if p.VMerge.Val == "restart" {
				tc.VMerge = model.VMergeStart
			} else {
				tc.VMerge = model.VMergeContinue
			}
		}
		if p.Shading != nil && p.Shading.Fill != "" && p.Shading.Fill != "auto" {
			tc.Background = p.Shading.Fill
		}
		if p.VAlign != nil {
			tc.VAlign = p.VAlign.Val
			if tc.VAlign == "center" {
				tc.VAlign = "middle"
			}
		}
		if p.TextDirection != nil {
			switch p.TextDirection.Val {
			case "tbRl", "btLr":
				tc.TextDirection = "vertical-rl"
			}
		}
	}

	first := true
	for bi, blk := range c.Blocks {
		para, ok := blk.(*docx.Paragraph)
		if !ok {
			continue
		}
		if first {
			tc.HAlign = cellAlignment(para)
		} else {
			tc.Runs = append(tc.Runs, model.TextRun("\n", nil))
		}
		first = false

		runs := ParagraphRuns(para, path.Child(bi), e.styles, e.images)
		if para.Props != nil && docx.IsList(para.Props.NumPr) {
			var format *model.RunStyle
			if len(runs) > 0 {
				format = runs[0].Format
			}
			bullet := model.TextRun(e.numbering.Bullet(para.Props.NumPr)+" ", format)
			runs = append([]model.Run{bullet}, runs...)
		}
		tc.Runs = append(tc.Runs, runs...)
	}
	return tc
}

// ParagraphRuns returns the run list of a paragraph: consecutive text of one
// source run becomes one text run, and every graphic with an assigned asset
// id becomes an image run. path is the paragraph's path.
func ParagraphRuns(p *docx.Paragraph, path docx.Path, styles *docx.StyleResolver, images ImageLookup) []model.Run {
	runs := []model.Run{}
	emit := func(r *docx.Run, at docx.Path) {
		format := styles.RunStyle(r.Props)
		var text strings.Builder
		for k, item := range r.Content {
			if _, ok := item.(docx.Graphic); ok {
				id, found := lookupImage(images, at.Child(k))
				if !found {
					continue
				}
				if text.Len() > 0 {
					runs = append(runs, model.TextRun(text.String(), format))
					text.Reset()
				}
				runs = append(runs, model.ImageRun(id, format))
				continue
			}
			text.WriteString(docx.ItemText(item))
		}
		if text.Len() > 0 {
			runs = append(runs, model.TextRun(text.String(), format))
		}
	}

	for j, in := range p.Content {
		at := path.Child(j)
		switch n := in.(type) {
		case *docx.Run:
			emit(n, at)
		case *docx.Hyperlink:
			for m, r := range n.Runs {
				emit(r, at.Child(m))
			}
		case *docx.SimpleField:
			for m, r := range n.Runs {
				emit(r, at.Child(m))
			}
		case docx.Graphic:
			if id, ok := lookupImage(images, at); ok {
				runs = append(runs, model.ImageRun(id, nil))
			}
		}
	}
	return runs
}

func lookupImage(images ImageLookup, path docx.Path) (string, bool) {
	if images == nil {
		return "", false
	}
	return images.ImageAt(path)
}

// cellAlignment returns the horizontal alignment of a cell's first
// paragraph: center, right or both.
func cellAlignment(p *docx.Paragraph) string {
	if p.Props == nil || p.Props.Justification == nil {
		return ""
	}
	switch v := p.Props.Justification.Val; v {
	case "center", "right", "both":
		return v
	}
	return ""
}

// buildColumns derives the column schema from the header row.
func buildColumns(header *docx.Row, grid docx.GridXML) []model.Column {
	columns := make([]model.Column, 0, len(header.Cells))
	used := make(map[string]bool)
	gridCol := 0
	for i, cell := range header.Cells {
		text := strings.TrimSpace(cell.Text())

		name := ColumnName(text, i)
		if used[name] {
			name = name + "_" + strconv.Itoa(i)
		}
		used[name] = true

		label := text
		if label == "" {
			label = "Column"
		}
		columns = append(columns, model.Column{
			Name:  name,
			Label: label,
			Type:  ColumnTypeOf(text),
			Width: columnWidth(cell, grid, gridCol),
		})
		gridCol += cell.GridSpan()
	}
	return columns
}

// ColumnName sanitizes header text into a lower-case identifier: every
// rune other than an ASCII letter, digit or underscore becomes an
// underscore. Empty headers become col_<index>.
func ColumnName(header string, index int) string {
	if header == "" {
		return "col_" + strconv.Itoa(index)
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(header) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// ColumnTypeOf infers a column type from header keywords.
func ColumnTypeOf(header string) model.ColumnType {
	lower := strings.ToLower(header)
	for _, kw := range numberKeywords {
		if strings.Contains(lower, kw) {
			return model.ColumnNumber
		}
	}
	for _, kw := range dateKeywords {
		if strings.Contains(lower, kw) {
			return model.ColumnDate
		}
	}
	return model.ColumnText
}

// columnWidth reads the header cell width; without tcW it sums the grid
// columns the cell spans.
func columnWidth(cell *docx.Cell, grid docx.GridXML, gridCol int) model.Measure {
	if cell.Props != nil && cell.Props.Width != nil {
		w := cell.Props.Width
		switch w.Type {
		case "pct":
			v, _ := strconv.ParseFloat(strings.TrimSuffix(w.W, "%"), 64)
			if strings.HasSuffix(w.W, "%") {
				return model.Percentage(v)
			}
			return model.Percentage(v / 50)
		case "dxa", "":
			if w.W != "" && w.W != "0" {
				return model.Points(docx.ParseTwips(w.W))
			}
		}
	}
	var total float64
	for i := gridCol; i < gridCol+cell.GridSpan() && i < len(grid.Cols); i++ {
		total += docx.ParseTwips(grid.Cols[i].W)
	}
	return model.Points(total)
}

// tableWidth converts tblW into a fixed or relative measure.
func tableWidth(w *docx.WidthProps) *model.Measure {
	if w == nil || w.W == "" {
		return nil
	}
	var m model.Measure
	switch w.Type {
	case "dxa":
		m = model.Points(docx.ParseTwips(w.W))
	case "pct":
		v, err := strconv.ParseFloat(strings.TrimSuffix(w.W, "%"), 64)
		if err != nil {
			return nil
		}
		if !strings.HasSuffix(w.W, "%") {
			v /= 50
		}
		m = model.Percentage(v)
	default:
		return nil
	}
	return &m
}

// rowFormat reads height, height rule and the repeat-header flag.
func rowFormat(row *docx.Row) model.RowFormat {
	var rf model.RowFormat
	if row.Props == nil {
		return rf
	}
	if h := row.Props.Height; h != nil && h.Val != "" {
		v := docx.ParseTwips(h.Val)
		rf.Height = &v
		rf.HeightRule = h.Rule
		if rf.HeightRule == "" {
			rf.HeightRule = "atLeast"
		}
	}
	rf.IsHeader = row.Props.Header.On()
	return rf
}
