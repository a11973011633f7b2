// Package preview renders a parsed template as a standalone HTML page.
//
// The page follows the structure list exactly: paragraph blocks become <p>
// elements with their runs, fields become labelled inputs, tables are laid
// out from their cell grid with resolved borders and merges, images link to
// their uploaded URL (or a placeholder when there is none), and page breaks
// become div.page-break markers. It is a visual check of the extraction,
// not a faithful re-typesetting of the document.
package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docform/model"
)

const stylesheet = `
body { font-family: sans-serif; margin: 2em auto; max-width: 48em; }
.page-break { border-top: 1px dashed #999; margin: 2em 0; }
.field { margin: 0.5em 0; }
.field label { display: block; font-weight: bold; }
.image-placeholder { border: 1px dashed #bbb; color: #777; padding: 0.5em; }
.floating { float: right; margin: 0 0 0.5em 0.5em; }
table { border-collapse: collapse; margin: 0.5em 0; }
td { padding: 2px 4px; }
`

// Render writes the HTML preview of t to w.
func Render(w io.Writer, t *model.Template) error {
	doc := Build(t)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	return nil
}

// Build returns the preview as an HTML document node.
func Build(t *model.Template) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(text(t.TemplateName))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(text(stylesheet))
	head.AppendChild(style)
	root.AppendChild(head)

	body := element(atom.Body)
	if t.Styles.DefaultFont != "" {
		body.Attr = append(body.Attr, html.Attribute{
			Key: "style",
			Val: fmt.Sprintf("font-family: %q, sans-serif; font-size: %spt", t.Styles.DefaultFont, num(t.Styles.DefaultSize)),
		})
	}
	root.AppendChild(body)

	for _, node := range t.Structure {
		body.AppendChild(renderNode(t, node))
	}
	return doc
}

func renderNode(t *model.Template, node model.StructureNode) *html.Node {
	switch node.Type {
	case model.NodeParagraph:
		if p := t.Paragraph(node.ID); p != nil {
			return paragraph(t, p)
		}
	case model.NodeField:
		if f := t.Field(node.ID); f != nil {
			return field(f)
		}
	case model.NodeTable:
		if tbl := t.Table(node.ID); tbl != nil {
			return table(t, tbl)
		}
	case model.NodeImage:
		if img := t.Image(node.ID); img != nil {
			return image(img)
		}
	case model.NodePageBreak:
		return element(atom.Div, "class", "page-break", "id", node.ID)
	}
	return &html.Node{Type: html.CommentNode, Data: fmt.Sprintf(" missing %s %s ", node.Type, node.ID)}
}

func paragraph(t *model.Template, p *model.ParagraphBlock) *html.Node {
	n := element(atom.P, "id", p.ID, "style", paragraphCSS(p.Style))
	appendRuns(t, n, p.Runs)
	if n.FirstChild == nil {
		n.AppendChild(element(atom.Br))
	}
	return n
}

func paragraphCSS(s model.StyleRecord) string {
	var css cssBuilder
	css.set("text-align", s.Alignment)
	if s.FontSize > 0 {
		css.set("font-size", num(s.FontSize)+"pt")
	}
	if s.Bold {
		css.set("font-weight", "bold")
	}
	if s.Italic {
		css.set("font-style", "italic")
	}
	if s.Color != "" {
		css.set("color", "#"+s.Color)
	}
	if s.Indentation.Left != 0 {
		css.set("margin-left", num(s.Indentation.Left)+"pt")
	}
	if s.Indentation.FirstLine != 0 {
		css.set("text-indent", num(s.Indentation.FirstLine)+"pt")
	}
	css.set("margin-top", num(s.Spacing.Before)+"pt")
	css.set("margin-bottom", num(s.Spacing.After)+"pt")
	return css.String()
}

// appendRuns renders runs as spans; newlines become <br> and image runs
// become inline images.
func appendRuns(t *model.Template, parent *html.Node, runs []model.Run) {
	for _, r := range runs {
		if r.Type == model.RunImage {
			if img := t.Image(r.ImageID); img != nil {
				parent.AppendChild(image(img))
			}
			continue
		}
		span := element(atom.Span)
		if css := runCSS(r.Format); css != "" {
			span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: css})
		}
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				span.AppendChild(element(atom.Br))
			}
			if line != "" {
				span.AppendChild(text(line))
			}
		}
		parent.AppendChild(span)
	}
}

func runCSS(f *model.RunStyle) string {
	if f == nil {
		return ""
	}
	var css cssBuilder
	if font := firstNonEmpty(f.Font, f.FontCJK); font != "" {
		css.set("font-family", strconv.Quote(font))
	}
	if f.Size > 0 {
		css.set("font-size", num(f.Size)+"pt")
	}
	if f.Color != "" {
		css.set("color", "#"+f.Color)
	}
	if f.Bold {
		css.set("font-weight", "bold")
	}
	if f.Italic {
		css.set("font-style", "italic")
	}
	if f.Underline {
		css.set("text-decoration", "underline")
	}
	return css.String()
}

func field(f *model.Field) *html.Node {
	div := element(atom.Div, "class", "field")
	label := element(atom.Label, "for", f.Name)
	label.AppendChild(text(f.Label))
	div.AppendChild(label)

	var input *html.Node
	if f.Type == model.FieldTextarea {
		input = element(atom.Textarea, "id", f.Name, "name", f.Name, "placeholder", f.Placeholder)
	} else {
		input = element(atom.Input, "type", "text", "id", f.Name, "name", f.Name, "placeholder", f.Placeholder)
	}
	if f.Required {
		input.Attr = append(input.Attr, html.Attribute{Key: "required"})
	}
	div.AppendChild(input)
	return div
}

func image(img *model.ImageAsset) *html.Node {
	class := "image"
	if img.IsFloating() {
		class += " floating"
	}
	var css cssBuilder
	if img.Width > 0 && img.Height > 0 {
		css.set("width", num(img.Width)+"pt")
		css.set("height", num(img.Height)+"pt")
	}

	if img.URL == "" {
		div := element(atom.Div, "class", class+" image-placeholder", "id", img.ID)
		div.AppendChild(text("[image " + img.ID + "]"))
		return div
	}
	n := element(atom.Img, "class", class, "id", img.ID, "src", img.URL, "alt", img.AltText)
	if s := css.String(); s != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: s})
	}
	return n
}

func table(t *model.Template, s *model.TableSchema) *html.Node {
	tbl := element(atom.Table, "id", s.Name)
	if s.Width != nil {
		w := s.Width.String()
		if !s.Width.Percent {
			w += "pt"
		}
		tbl.Attr = append(tbl.Attr, html.Attribute{Key: "style", Val: "width: " + w})
	}
	caption := element(atom.Caption)
	caption.AppendChild(text(s.Label))
	tbl.AppendChild(caption)

	rows := 0
	for _, c := range s.Cells {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
	}
	byRow := make([][]model.TableCell, rows)
	for _, c := range s.Cells {
		byRow[c.Row] = append(byRow[c.Row], c)
	}

	tbody := element(atom.Tbody)
	for ri, cells := range byRow {
		tr := element(atom.Tr)
		if ri < len(s.RowFormats) && s.RowFormats[ri].Height != nil {
			tr.Attr = append(tr.Attr, html.Attribute{Key: "style", Val: "height: " + num(*s.RowFormats[ri].Height) + "pt"})
		}
		col := 0
		for _, c := range cells {
			span := max(c.ColSpan, 1)
			if c.VMerge != model.VMergeContinue {
				tr.AppendChild(cell(t, c, span, rowSpan(byRow, ri, col)))
			}
			col += span
		}
		tbody.AppendChild(tr)
	}
	tbl.AppendChild(tbody)
	return tbl
}

// rowSpan counts the continuation cells below the cell at grid column col.
func rowSpan(rows [][]model.TableCell, row, col int) int {
	n := 1
	for r := row + 1; r < len(rows); r++ {
		c, ok := cellAt(rows[r], col)
		if !ok || c.VMerge != model.VMergeContinue {
			break
		}
		n++
	}
	return n
}

func cellAt(cells []model.TableCell, col int) (model.TableCell, bool) {
	at := 0
	for _, c := range cells {
		if at == col {
			return c, true
		}
		at += max(c.ColSpan, 1)
	}
	return model.TableCell{}, false
}

func cell(t *model.Template, c model.TableCell, colSpan, rowSpan int) *html.Node {
	td := element(atom.Td)
	if colSpan > 1 {
		td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(colSpan)})
	}
	if rowSpan > 1 {
		td.Attr = append(td.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(rowSpan)})
	}

	var css cssBuilder
	edges := []struct {
		prop string
		edge *model.Edge
	}{
		{"border-top", c.Borders.Top},
		{"border-bottom", c.Borders.Bottom},
		{"border-left", c.Borders.Left},
		{"border-right", c.Borders.Right},
	}
	for _, e := range edges {
		if e.edge != nil {
			css.set(e.prop, e.edge.CSS())
		}
	}
	if c.Background != "" {
		css.set("background-color", "#"+c.Background)
	}
	css.set("vertical-align", c.VAlign)
	css.set("text-align", c.HAlign)
	if strings.HasPrefix(c.TextDirection, "vertical") {
		css.set("writing-mode", c.TextDirection)
	}
	if s := css.String(); s != "" {
		td.Attr = append(td.Attr, html.Attribute{Key: "style", Val: s})
	}

	if len(c.Runs) > 0 {
		appendRuns(t, td, c.Runs)
	} else if c.Text != "" {
		td.AppendChild(text(c.Text))
	}
	return td
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

type cssBuilder struct {
	decls []string
}

func (b *cssBuilder) set(prop, value string) {
	if value != "" {
		b.decls = append(b.decls, prop+": "+value)
	}
}

func (b *cssBuilder) String() string {
	return strings.Join(b.decls, "; ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
