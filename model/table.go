package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is the value kind inferred from a header cell.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
)

// VMerge is the vertical-merge state of a table cell.
type VMerge string

const (
	VMergeNone     VMerge = ""
	VMergeStart    VMerge = "start"
	VMergeContinue VMerge = "continue"
)

// Measure is a length that is either fixed (points) or a percentage of the
// available width. It encodes as a JSON number or as a string like "50%".
type Measure struct {
	Value   float64
	Percent bool
}

// Points returns a fixed measure.
func Points(v float64) Measure { return Measure{Value: v} }

// Percentage returns a relative measure.
func Percentage(v float64) Measure { return Measure{Value: v, Percent: true} }

func (m Measure) String() string {
	s := strconv.FormatFloat(m.Value, 'f', -1, 64)
	if m.Percent {
		return s + "%"
	}
	return s
}

// MarshalJSON implements json.Marshaler.
func (m Measure) MarshalJSON() ([]byte, error) {
	if m.Percent {
		return json.Marshal(m.String())
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measure) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return fmt.Errorf("decoding measure %q: %w", s, err)
		}
		*m = Measure{Value: v, Percent: strings.HasSuffix(s, "%")}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding measure: %w", err)
	}
	*m = Measure{Value: v}
	return nil
}

// Column describes one column of a table schema, derived from the header row.
type Column struct {
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
	Width Measure    `json:"width"`
}

// RowFormat is the row-level formatting of a table row.
type RowFormat struct {
	Height     *float64 `json:"height,omitempty"`
	HeightRule string   `json:"height_rule,omitempty"`
	IsHeader   bool     `json:"is_header"`
}

// TableCell is one <w:tc> of a table with its resolved layout.
type TableCell struct {
	Row           int           `json:"row"`
	Col           int           `json:"col"`
	Text          string        `json:"text"`
	Runs          []Run         `json:"runs"`
	ColSpan       int           `json:"col_span"`
	VMerge        VMerge        `json:"v_merge,omitempty"`
	Background    string        `json:"background_color,omitempty"`
	VAlign        string        `json:"v_align,omitempty"`
	HAlign        string        `json:"h_align,omitempty"`
	TextDirection string        `json:"text_direction,omitempty"`
	Borders       CellBorderSet `json:"borders"`
}

// TableSchema is the extracted form of a table: a column schema for simple
// consumption plus the full cell grid for layout fidelity.
type TableSchema struct {
	Name       string              `json:"name"`
	Label      string              `json:"label"`
	TableIndex int                 `json:"table_index"`
	StyleName  string              `json:"style_name,omitempty"`
	Columns    []Column            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
	Cells      []TableCell         `json:"cells"`
	RowFormats []RowFormat         `json:"row_formats"`
	MinRows    int                 `json:"min_rows"`
	MaxRows    int                 `json:"max_rows"`
	Width      *Measure            `json:"width,omitempty"`
	Indent     *float64            `json:"indent,omitempty"`
	IsPart     bool                `json:"is_part,omitempty"`
	PartIndex  *int                `json:"part_index,omitempty"`
}

// RowCount returns the number of rows in the table.
func (t *TableSchema) RowCount() int {
	return len(t.Rows)
}

// CellsInRow returns the cells of the given row in column order.
func (t *TableSchema) CellsInRow(row int) []TableCell {
	var out []TableCell
	for _, c := range t.Cells {
		if c.Row == row {
			out = append(out, c)
		}
	}
	return out
}
