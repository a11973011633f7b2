package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Edge is the resolved style of one cell edge. An Edge with None set means
// "draw nothing here", which is distinct from a nil *Edge ("unspecified,
// inherit the renderer default").
type Edge struct {
	None  bool
	Width int    // pixels: 1, 2 or 3
	Style string // solid, dotted, dashed, double
	Color string // #rrggbb
}

// NoEdge returns an explicit "none" edge.
func NoEdge() *Edge {
	return &Edge{None: true}
}

// CSS returns the edge as a CSS border shorthand.
func (e Edge) CSS() string {
	if e.None {
		return "none"
	}
	return fmt.Sprintf("%dpx %s %s", e.Width, e.Style, e.Color)
}

type edgeJSON struct {
	Width int    `json:"width"`
	Style string `json:"style"`
	Color string `json:"color"`
}

// MarshalJSON encodes "none" edges as the string "none" and drawn edges as
// {width, style, color}.
func (e Edge) MarshalJSON() ([]byte, error) {
	if e.None {
		return []byte(`"none"`), nil
	}
	return json.Marshal(edgeJSON{Width: e.Width, Style: e.Style, Color: e.Color})
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (e *Edge) UnmarshalJSON(data []byte) error {
	if s := strings.TrimSpace(string(data)); s == `"none"` {
		*e = Edge{None: true}
		return nil
	}
	var v edgeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding edge: %w", err)
	}
	*e = Edge{Width: v.Width, Style: v.Style, Color: v.Color}
	return nil
}

// CellBorderSet holds up to four resolved edges of a table cell.
type CellBorderSet struct {
	Top    *Edge `json:"top,omitempty"`
	Bottom *Edge `json:"bottom,omitempty"`
	Left   *Edge `json:"left,omitempty"`
	Right  *Edge `json:"right,omitempty"`
}

// IsEmpty reports whether no edge is specified.
func (b CellBorderSet) IsEmpty() bool {
	return b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil
}
