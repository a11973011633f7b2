package preview

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/tsawler/docform/model"
)

func sampleTemplate() *model.Template {
	t := model.NewTemplate("tmpl-1", "Application")
	t.Styles = model.StyleSummary{DefaultFont: "微軟正黑體", DefaultSize: 12}
	t.Paragraphs = []model.ParagraphBlock{
		{
			ID:    "p_1",
			Text:  "Hello\nworld",
			Style: model.StyleRecord{FontSize: 14, Alignment: "center"},
			Runs:  []model.Run{model.TextRun("Hello\nworld", &model.RunStyle{Bold: true})},
		},
		{ID: "p_2", Runs: []model.Run{}},
	}
	t.Fields = []model.Field{
		{Name: "field_1", Label: "Name", Type: model.FieldText, Required: true, Placeholder: "Enter Name"},
		{Name: "field_2", Label: "Notes", Type: model.FieldTextarea},
	}
	t.Images = []model.ImageAsset{
		{ID: "img_1", URL: "https://cdn.example.com/a.png", Width: 10, Height: 20, AltText: "logo"},
		{ID: "img_2", Placement: model.PlacementFloating},
	}
	solid := &model.Edge{Width: 1, Style: "solid", Color: "#000000"}
	t.Tables = []model.TableSchema{{
		Name:  "table_1",
		Label: "Table 1",
		Cells: []model.TableCell{
			{Row: 0, Col: 0, Text: "A", ColSpan: 2, Borders: model.CellBorderSet{Top: solid, Left: model.NoEdge()}},
			{Row: 1, Col: 0, Text: "B", ColSpan: 1, VMerge: model.VMergeStart, Background: "D9E2F3"},
			{Row: 1, Col: 1, Text: "C", ColSpan: 1},
			{Row: 2, Col: 0, ColSpan: 1, VMerge: model.VMergeContinue},
			{Row: 2, Col: 1, Text: "D", ColSpan: 1},
		},
	}}
	t.Structure = []model.StructureNode{
		{Type: model.NodeParagraph, ID: "p_1"},
		{Type: model.NodeField, ID: "field_1"},
		{Type: model.NodeImage, ID: "img_1"},
		{Type: model.NodePageBreak, ID: "page_break_1"},
		{Type: model.NodeTable, ID: "table_1"},
		{Type: model.NodeField, ID: "field_2"},
		{Type: model.NodeImage, ID: "img_2"},
		{Type: model.NodeParagraph, ID: "p_2"},
	}
	return t
}

func render(t *testing.T, tmpl *model.Template) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, tmpl); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	return doc
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestRender_StructureOrder(t *testing.T) {
	doc := render(t, sampleTemplate())
	body := findAll(doc, "body")[0]

	var got []string
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		got = append(got, c.Data+"#"+attr(c, "id")+"."+attr(c, "class"))
	}
	want := []string{
		"p#p_1.",
		"div#.field",
		"img#img_1.image",
		"div#page_break_1.page-break",
		"table#table_1.",
		"div#.field",
		"div#img_2.image floating image-placeholder",
		"p#p_2.",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("body children =\n%v\nwant\n%v", got, want)
	}
	if !strings.Contains(attr(body, "style"), `"微軟正黑體"`) {
		t.Errorf("body style = %q", attr(body, "style"))
	}
}

func TestRender_Paragraphs(t *testing.T) {
	doc := render(t, sampleTemplate())
	ps := findAll(doc, "p")
	if len(ps) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(ps))
	}
	if style := attr(ps[0], "style"); !strings.Contains(style, "text-align: center") || !strings.Contains(style, "font-size: 14pt") {
		t.Errorf("paragraph style = %q", style)
	}
	spans := findAll(ps[0], "span")
	if len(spans) != 1 || attr(spans[0], "style") != "font-weight: bold" {
		t.Fatalf("spans = %d", len(spans))
	}
	if len(findAll(spans[0], "br")) != 1 || textOf(spans[0]) != "Helloworld" {
		t.Errorf("newline not rendered as <br>: %q", textOf(spans[0]))
	}
	if len(findAll(ps[1], "br")) != 1 {
		t.Error("empty paragraph should hold a <br>")
	}
}

func TestRender_Fields(t *testing.T) {
	doc := render(t, sampleTemplate())
	inputs := findAll(doc, "input")
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1", len(inputs))
	}
	in := inputs[0]
	if attr(in, "name") != "field_1" || attr(in, "placeholder") != "Enter Name" || !hasAttr(in, "required") {
		t.Errorf("input attrs = %v", in.Attr)
	}
	labels := findAll(doc, "label")
	if len(labels) != 2 || textOf(labels[0]) != "Name" || attr(labels[0], "for") != "field_1" {
		t.Errorf("labels = %d", len(labels))
	}
	areas := findAll(doc, "textarea")
	if len(areas) != 1 || hasAttr(areas[0], "required") {
		t.Errorf("textareas = %d", len(areas))
	}
}

func TestRender_Images(t *testing.T) {
	doc := render(t, sampleTemplate())
	imgs := findAll(doc, "img")
	if len(imgs) != 1 {
		t.Fatalf("got %d img elements, want 1", len(imgs))
	}
	img := imgs[0]
	if attr(img, "src") != "https://cdn.example.com/a.png" || attr(img, "alt") != "logo" ||
		attr(img, "style") != "width: 10pt; height: 20pt" {
		t.Errorf("img attrs = %v", img.Attr)
	}
}

func TestRender_Table(t *testing.T) {
	doc := render(t, sampleTemplate())
	rows := findAll(doc, "tr")
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	tests := []struct {
		row   int
		cells int
	}{
		{0, 1},
		{1, 2},
		{2, 1},
	}
	for _, tt := range tests {
		if got := len(findAll(rows[tt.row], "td")); got != tt.cells {
			t.Errorf("row %d has %d cells, want %d", tt.row, got, tt.cells)
		}
	}

	a := findAll(rows[0], "td")[0]
	if attr(a, "colspan") != "2" {
		t.Errorf("colspan = %q", attr(a, "colspan"))
	}
	if style := attr(a, "style"); style != "border-top: 1px solid #000000; border-left: none" {
		t.Errorf("cell style = %q", style)
	}
	b := findAll(rows[1], "td")[0]
	if attr(b, "rowspan") != "2" || !strings.Contains(attr(b, "style"), "background-color: #D9E2F3") {
		t.Errorf("merged cell attrs = %v", b.Attr)
	}
	if got := textOf(findAll(rows[2], "td")[0]); got != "D" {
		t.Errorf("row 2 first rendered cell = %q, want D", got)
	}
	if caption := findAll(doc, "caption"); len(caption) != 1 || textOf(caption[0]) != "Table 1" {
		t.Error("missing table caption")
	}
}

func TestRender_MissingReference(t *testing.T) {
	tmpl := model.NewTemplate("x", "x")
	tmpl.Structure = []model.StructureNode{{Type: model.NodeTable, ID: "table_9"}}

	var buf bytes.Buffer
	if err := Render(&buf, tmpl); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<!-- missing table table_9 -->") {
		t.Errorf("output lacks missing-reference comment:\n%s", buf.String())
	}
}
