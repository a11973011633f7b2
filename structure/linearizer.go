// Package structure builds the ordered structure list of a document.
//
// The Linearizer walks body children in source order and emits one
// StructureNode per field, paragraph block, table, image and page break.
// Paragraph content is interleaved at run-item granularity: an image in the
// middle of a paragraph splits the paragraph into a block before it, the
// image node, and a block after it. Tables that contain page breaks are
// split into parts, with a page_break node between consecutive parts.
package structure

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/internal/diag"
	"github.com/tsawler/docform/internal/idgen"
	"github.com/tsawler/docform/model"
	"github.com/tsawler/docform/tables"
)

// errMissingAsset reports an index entry whose asset is not in the image list.
var errMissingAsset = errors.New("image index refers to an unknown asset")

// Input is everything the Linearizer consumes. Tables holds one schema per
// body-level table in body order.
type Input struct {
	Body   *docx.Body
	Fields []model.Field
	Tables []model.TableSchema
	Images []model.ImageAsset
	Index  tables.ImageLookup
}

// Output is the ordered model. Tables holds the input schemas followed by
// any parts produced by page-break splitting.
type Output struct {
	Structure  []model.StructureNode
	Paragraphs []model.ParagraphBlock
	Tables     []model.TableSchema
	Warnings   []diag.Warning
}

// Linearizer produces the structure list. It holds no per-document state
// and may be reused.
type Linearizer struct {
	styles          *docx.StyleResolver
	newParagraphID  func() idgen.Generator
	newBreakID      func() idgen.Generator
	includeRendered bool
	logger          *slog.Logger
}

// New returns a Linearizer with deterministic ids (p_1, p_2, ... for
// paragraph blocks and page_break_1, ... for page breaks) that treats
// rendered page breaks as page-break markers.
func New(styles *docx.StyleResolver) *Linearizer {
	return &Linearizer{
		styles:          styles,
		newParagraphID:  func() idgen.Generator { return idgen.Sequence("p_") },
		newBreakID:      func() idgen.Generator { return idgen.Sequence("page_break_") },
		includeRendered: true,
		logger:          slog.Default(),
	}
}

// WithIDs sets the generator factories for paragraph block and page break
// ids. Each factory is called once per Linearize call.
func (l *Linearizer) WithIDs(paragraphs, breaks func() idgen.Generator) *Linearizer {
	if paragraphs != nil {
		l.newParagraphID = paragraphs
	}
	if breaks != nil {
		l.newBreakID = breaks
	}
	return l
}

// IgnoreRenderedPageBreaks stops w:lastRenderedPageBreak from counting as a
// page-break marker.
func (l *Linearizer) IgnoreRenderedPageBreaks(ignore bool) *Linearizer {
	l.includeRendered = !ignore
	return l
}

// WithLogger sets the logger.
func (l *Linearizer) WithLogger(logger *slog.Logger) *Linearizer {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// pass holds the state of one Linearize call.
type pass struct {
	*Linearizer
	in      Input
	out     *Output
	fields  map[int]model.Field
	assets  map[string]bool
	paraID  idgen.Generator
	breakID idgen.Generator
}

// Linearize walks in.Body and returns the ordered model.
func (l *Linearizer) Linearize(in Input) *Output {
	out := &Output{
		Structure:  []model.StructureNode{},
		Paragraphs: []model.ParagraphBlock{},
		Tables:     append([]model.TableSchema{}, in.Tables...),
		Warnings:   []diag.Warning{},
	}
	if in.Body == nil {
		return out
	}

	r := &pass{
		Linearizer: l,
		in:         in,
		out:        out,
		fields:     make(map[int]model.Field, len(in.Fields)),
		assets:     make(map[string]bool, len(in.Images)),
		paraID:     l.newParagraphID(),
		breakID:    l.newBreakID(),
	}
	for _, f := range in.Fields {
		if _, dup := r.fields[f.ParagraphIndex]; !dup {
			r.fields[f.ParagraphIndex] = f
		}
	}
	for _, img := range in.Images {
		r.assets[img.ID] = true
	}

	paraIndex, tableIndex := 0, 0
	for i, blk := range in.Body.Children {
		switch b := blk.(type) {
		case *docx.Paragraph:
			r.paragraph(b, i, paraIndex)
			paraIndex++
		case *docx.Table:
			r.table(b, i, tableIndex)
			tableIndex++
		default:
			l.logger.Debug("skipping body element", slog.Int("block", i), slog.String("kind", blk.Kind().String()))
		}
	}
	return out
}

func (r *pass) emit(typ model.NodeType, id string, blockIndex int, label string) {
	r.out.Structure = append(r.out.Structure, model.StructureNode{
		Type:       typ,
		ID:         id,
		BlockIndex: blockIndex,
		Label:      label,
	})
}

func (r *pass) pageBreak(blockIndex int) {
	r.emit(model.NodePageBreak, r.breakID(), blockIndex, "")
}

// paragraph emits a field node, or the interleaved blocks, images and page
// breaks of the paragraph. A failed walk is rolled back and replaced by one
// flat text block.
func (r *pass) paragraph(p *docx.Paragraph, blockIndex, paraIndex int) {
	if f, ok := r.fields[paraIndex]; ok {
		r.emit(model.NodeField, f.Name, blockIndex, f.Label)
		return
	}

	nodes, blocks := len(r.out.Structure), len(r.out.Paragraphs)
	if err := r.interleave(p, blockIndex, paraIndex); err != nil {
		r.out.Structure = r.out.Structure[:nodes]
		r.out.Paragraphs = r.out.Paragraphs[:blocks]

		ref := docx.Path{blockIndex}.String()
		r.logger.Warn("paragraph content walk failed, using flat text",
			slog.Int("paragraph", paraIndex),
			slog.Any("error", err))
		r.out.Warnings = append(r.out.Warnings, diag.Warning{
			Code:    diag.ParagraphFallback,
			Message: err.Error(),
			Ref:     ref,
		})

		runs := tables.ParagraphRuns(p, docx.Path{blockIndex}, r.styles, nil)
		r.commit(p, blockIndex, paraIndex, runs, true)
	}
}

// pendingRuns accumulates text runs of a paragraph between commit points.
type pendingRuns struct {
	runs   []model.Run
	text   strings.Builder
	format *model.RunStyle
}

func (b *pendingRuns) add(s string, format *model.RunStyle) {
	if s == "" {
		return
	}
	b.format = format
	b.text.WriteString(s)
}

// close ends the current source run's text.
func (b *pendingRuns) close() {
	if b.text.Len() > 0 {
		b.runs = append(b.runs, model.TextRun(b.text.String(), b.format))
		b.text.Reset()
	}
}

func (b *pendingRuns) take() []model.Run {
	b.close()
	runs := b.runs
	b.runs = nil
	return runs
}

func (r *pass) interleave(p *docx.Paragraph, blockIndex, paraIndex int) error {
	path := docx.Path{blockIndex}
	hasImages := r.hasImages(p, path)
	emitted := false
	var buf pendingRuns

	flush := func() {
		runs := buf.take()
		if len(runs) == 0 {
			return
		}
		if hasImages && strings.TrimSpace(model.RunsText(runs)) == "" {
			return
		}
		r.commit(p, blockIndex, paraIndex, runs, false)
		emitted = true
	}

	graphic := func(at docx.Path) error {
		id, ok := r.lookup(at)
		if !ok {
			return nil
		}
		if !r.assets[id] {
			return fmt.Errorf("%w: %s at %s", errMissingAsset, id, at)
		}
		flush()
		r.emit(model.NodeImage, id, blockIndex, "")
		emitted = true
		return nil
	}

	walkRun := func(run *docx.Run, at docx.Path) error {
		format := r.styles.RunStyle(run.Props)
		for k, item := range run.Content {
			switch it := item.(type) {
			case docx.Graphic:
				if err := graphic(at.Child(k)); err != nil {
					return err
				}
			case *docx.Break:
				if it.IsPageBreak(r.includeRendered) {
					flush()
					r.pageBreak(blockIndex)
					continue
				}
				buf.add(docx.ItemText(it), format)
			default:
				buf.add(docx.ItemText(item), format)
			}
		}
		buf.close()
		return nil
	}

	for j, in := range p.Content {
		at := path.Child(j)
		var err error
		switch n := in.(type) {
		case *docx.Run:
			err = walkRun(n, at)
		case *docx.Hyperlink:
			for m, run := range n.Runs {
				if err = walkRun(run, at.Child(m)); err != nil {
					break
				}
			}
		case *docx.SimpleField:
			for m, run := range n.Runs {
				if err = walkRun(run, at.Child(m)); err != nil {
					break
				}
			}
		case docx.Graphic:
			err = graphic(at)
		}
		if err != nil {
			return err
		}
	}
	flush()

	if !emitted {
		r.commit(p, blockIndex, paraIndex, []model.Run{}, true)
	}
	return nil
}

// hasImages reports whether any graphic of the paragraph has an asset id.
func (r *pass) hasImages(p *docx.Paragraph, path docx.Path) bool {
	found := false
	docx.Walk(&docx.Body{Children: []docx.Block{p}}, func(v docx.GraphicVisit) {
		// Walk numbers the lone paragraph 0; re-root under the real index.
		at := append(docx.Path{path[0]}, v.Path[1:]...)
		if _, ok := r.lookup(at); ok {
			found = true
		}
	})
	return found
}

func (r *pass) lookup(at docx.Path) (string, bool) {
	if r.in.Index == nil {
		return "", false
	}
	return r.in.Index.ImageAt(at)
}

// commit appends a paragraph block and its structure node. Empty run lists
// are committed only when force is set.
func (r *pass) commit(p *docx.Paragraph, blockIndex, paraIndex int, runs []model.Run, force bool) {
	if len(runs) == 0 && !force {
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	id := r.paraID()
	r.out.Paragraphs = append(r.out.Paragraphs, model.ParagraphBlock{
		ID:        id,
		Text:      model.RunsText(runs),
		StyleName: r.styles.ParagraphStyleName(p),
		Style:     r.styles.ParagraphStyle(p),
		Runs:      runs,
		Index:     paraIndex,
	})
	r.emit(model.NodeParagraph, id, blockIndex, "")
}

// table emits one table node, or one node per part with page breaks in
// between when rows carry page-break markers. A marker on the last row
// still yields a single part, with no trailing page break.
func (r *pass) table(t *docx.Table, blockIndex, tableIndex int) {
	if tableIndex >= len(r.in.Tables) {
		r.logger.Warn("no schema for table", slog.Int("table", tableIndex))
		return
	}
	schema := r.in.Tables[tableIndex]

	var breaks []int
	for ri, row := range t.Rows {
		if row.HasPageBreak(r.includeRendered) {
			breaks = append(breaks, ri)
		}
	}

	parts := tables.Split(schema, breaks)
	if parts == nil {
		r.emit(model.NodeTable, schema.Name, blockIndex, schema.Label)
		return
	}

	for i, part := range parts {
		r.out.Tables = append(r.out.Tables, part)
		r.emit(model.NodeTable, part.Name, blockIndex, part.Label)
		if i < len(parts)-1 {
			r.pageBreak(blockIndex)
		}
	}
}
