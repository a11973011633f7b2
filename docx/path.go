package docx

import (
	"strconv"
	"strings"
)

// Path locates a node by child indexes starting at the body. The first
// element is the body child index. Inside a paragraph the next index is the
// paragraph content index, then the run item index; runs nested in a
// hyperlink or simple field add one level. Inside a table the indexes are
// row, cell and cell block.
type Path []int

// Child returns a new path extended by i. The receiver is not modified.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// String renders the path as dot-separated indexes, e.g. "3.0.2".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// GraphicVisit describes one graphic found by Walk.
type GraphicVisit struct {
	Graphic       Graphic
	Path          Path
	Paragraph     *Paragraph
	ParagraphPath Path
	// BodyParagraph is the index of the owning paragraph among body-level
	// paragraphs, or -1 when the owner is inside a table.
	BodyParagraph int
}

// Walk visits every Drawing and Picture under body in document order.
func Walk(body *Body, fn func(GraphicVisit)) {
	if body == nil {
		return
	}
	paraCount := 0
	for i, blk := range body.Children {
		path := Path{i}
		switch b := blk.(type) {
		case *Paragraph:
			walkParagraph(b, path, paraCount, fn)
			paraCount++
		case *Table:
			walkTable(b, path, fn)
		}
	}
}

func walkTable(t *Table, path Path, fn func(GraphicVisit)) {
	for ri, row := range t.Rows {
		for ci, cell := range row.Cells {
			cellPath := path.Child(ri).Child(ci)
			for bi, blk := range cell.Blocks {
				switch b := blk.(type) {
				case *Paragraph:
					walkParagraph(b, cellPath.Child(bi), -1, fn)
				case *Table:
					walkTable(b, cellPath.Child(bi), fn)
				}
			}
		}
	}
}

func walkParagraph(p *Paragraph, path Path, bodyIndex int, fn func(GraphicVisit)) {
	visit := func(g Graphic, at Path) {
		fn(GraphicVisit{
			Graphic:       g,
			Path:          at,
			Paragraph:     p,
			ParagraphPath: path,
			BodyParagraph: bodyIndex,
		})
	}
	for j, in := range p.Content {
		at := path.Child(j)
		switch n := in.(type) {
		case *Run:
			walkRun(n, at, visit)
		case *Hyperlink:
			for m, r := range n.Runs {
				walkRun(r, at.Child(m), visit)
			}
		case *SimpleField:
			for m, r := range n.Runs {
				walkRun(r, at.Child(m), visit)
			}
		case Graphic:
			visit(n, at)
		}
	}
}

func walkRun(r *Run, path Path, visit func(Graphic, Path)) {
	for k, item := range r.Content {
		if g, ok := item.(Graphic); ok {
			visit(g, path.Child(k))
		}
	}
}
