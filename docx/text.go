package docx

import (
	"strconv"
	"strings"
)

// checkbox glyphs for the Wingdings code points Word uses in forms.
var wingdingsSymbols = map[string]string{
	"F06F": "☐",
	"F0A8": "☑",
	"F0FE": "☑",
	"F078": "☒",
}

// SymbolText returns the text a w:sym stands for. Wingdings checkboxes map
// to their Unicode glyphs; other code points outside the private use area
// are emitted as is.
func SymbolText(s *Symbol) string {
	code := strings.ToUpper(s.Char)
	if g, ok := wingdingsSymbols[code]; ok {
		return g
	}
	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return ""
	}
	r := rune(v)
	if r >= 0xE000 && r <= 0xF8FF {
		// Symbol fonts map 0xF0xx onto their 8-bit code.
		r -= 0xF000
		if r < 0x20 || r > 0x7E {
			return ""
		}
	}
	return string(r)
}

// ItemText returns the text contributed by one run item.
func ItemText(item RunItem) string {
	switch n := item.(type) {
	case *Text:
		return n.Value
	case *Tab:
		return "\t"
	case *Break:
		switch n.Type {
		case BreakLine, BreakCarriage:
			return "\n"
		}
	case *Symbol:
		return SymbolText(n)
	}
	return ""
}

// Text returns the concatenated text of a run.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, item := range r.Content {
		sb.WriteString(ItemText(item))
	}
	return sb.String()
}

// Runs returns the paragraph's runs in order, including those nested in
// hyperlinks and simple fields.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, in := range p.Content {
		switch n := in.(type) {
		case *Run:
			runs = append(runs, n)
		case *Hyperlink:
			runs = append(runs, n.Runs...)
		case *SimpleField:
			runs = append(runs, n.Runs...)
		}
	}
	return runs
}

// FirstRun returns the first run of the paragraph, or nil.
func (p *Paragraph) FirstRun() *Run {
	for _, in := range p.Content {
		switch n := in.(type) {
		case *Run:
			return n
		case *Hyperlink:
			if len(n.Runs) > 0 {
				return n.Runs[0]
			}
		case *SimpleField:
			if len(n.Runs) > 0 {
				return n.Runs[0]
			}
		}
	}
	return nil
}

// Text returns the paragraph text: run text, tabs as \t and line breaks
// as \n.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// HasPageBreak reports whether the paragraph starts on a new page or holds
// a page break character. Rendered page breaks count when includeRendered
// is set.
func (p *Paragraph) HasPageBreak(includeRendered bool) bool {
	if p.Props != nil && p.Props.PageBreakBefore.On() {
		return true
	}
	return p.hasBreakChar(includeRendered)
}

// hasBreakChar reports whether a run of the paragraph holds a page break.
func (p *Paragraph) hasBreakChar(includeRendered bool) bool {
	for _, r := range p.Runs() {
		for _, item := range r.Content {
			if br, ok := item.(*Break); ok && br.IsPageBreak(includeRendered) {
				return true
			}
		}
	}
	return false
}

// Text returns the cell text with paragraphs joined by newlines.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// HasPageBreak reports whether any run in the row, including those of
// nested tables, holds a page break character. Paragraph-level
// page-break-before flags do not count.
func (row *Row) HasPageBreak(includeRendered bool) bool {
	for _, c := range row.Cells {
		if blocksHavePageBreak(c.Blocks, includeRendered) {
			return true
		}
	}
	return false
}

func blocksHavePageBreak(blocks []Block, includeRendered bool) bool {
	for _, blk := range blocks {
		switch b := blk.(type) {
		case *Paragraph:
			if b.hasBreakChar(includeRendered) {
				return true
			}
		case *Table:
			for _, row := range b.Rows {
				if row.HasPageBreak(includeRendered) {
					return true
				}
			}
		}
	}
	return false
}

// GridSpan returns the number of grid columns a cell spans.
func (c *Cell) GridSpan() int {
	if c.Props == nil || c.Props.GridSpan == nil {
		return 1
	}
	n, err := strconv.Atoi(c.Props.GridSpan.Val)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
