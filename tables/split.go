package tables

import (
	"fmt"
	"maps"

	"github.com/tsawler/docform/model"
)

// Split partitions schema at the given break rows. Each break row closes
// the chunk it belongs to; rows after the last break form the final chunk.
// Break rows outside the table, duplicates and an empty trailing chunk are
// ignored, so a break on the last row yields a single part. Split returns
// nil only when no break row falls inside the table.
//
// Every part is a full schema named <name>_part_<n> (n from 1) with
// is_part set, part_index n-1, and its rows, cells and row formats
// re-indexed from zero. Parts own their storage; the input schema is not
// modified and shares nothing with them.
func Split(schema model.TableSchema, breakRows []int) []model.TableSchema {
	rowCount := len(schema.RowFormats)
	if n := len(schema.Rows); n > rowCount {
		rowCount = n
	}

	var bounds [][2]int // [start, end)
	start := 0
	for _, brk := range breakRows {
		if brk < start || brk >= rowCount {
			continue
		}
		bounds = append(bounds, [2]int{start, brk + 1})
		start = brk + 1
	}
	if len(bounds) == 0 {
		return nil
	}
	if start < rowCount {
		bounds = append(bounds, [2]int{start, rowCount})
	}

	parts := make([]model.TableSchema, 0, len(bounds))
	for i, b := range bounds {
		parts = append(parts, slicePart(schema, i, b[0], b[1]))
	}
	return parts
}

func slicePart(schema model.TableSchema, part, start, end int) model.TableSchema {
	p := schema
	p.Name = fmt.Sprintf("%s_part_%d", schema.Name, part+1)
	p.Label = fmt.Sprintf("%s (%d)", schema.Label, part+1)
	p.IsPart = true
	idx := part
	p.PartIndex = &idx

	p.Columns = append([]model.Column{}, schema.Columns...)
	p.Width = clonePtr(schema.Width)
	p.Indent = clonePtr(schema.Indent)
	p.Rows = []map[string]string{}
	for r := start; r < end && r < len(schema.Rows); r++ {
		p.Rows = append(p.Rows, maps.Clone(schema.Rows[r]))
	}
	p.RowFormats = []model.RowFormat{}
	for r := start; r < end && r < len(schema.RowFormats); r++ {
		f := schema.RowFormats[r]
		f.Height = clonePtr(f.Height)
		p.RowFormats = append(p.RowFormats, f)
	}
	p.Cells = []model.TableCell{}
	for _, c := range schema.Cells {
		if c.Row >= start && c.Row < end {
			c.Row -= start
			// A continuation cannot start a part.
			if c.Row == 0 && c.VMerge == model.VMergeContinue {
				c.VMerge = model.VMergeStart
			}
			p.Cells = append(p.Cells, cloneCell(c))
		}
	}
	return p
}

func cloneCell(c model.TableCell) model.TableCell {
	runs := make([]model.Run, len(c.Runs))
	for i, run := range c.Runs {
		run.Format = clonePtr(run.Format)
		runs[i] = run
	}
	c.Runs = runs
	c.Borders = model.CellBorderSet{
		Top:    clonePtr(c.Borders.Top),
		Bottom: clonePtr(c.Borders.Bottom),
		Left:   clonePtr(c.Borders.Left),
		Right:  clonePtr(c.Borders.Right),
	}
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
