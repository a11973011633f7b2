package docx

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/docform/model"
)

// Defaults applied when neither direct formatting nor the style chain
// provides a value.
const (
	DefaultFontSize    = 12.0
	DefaultAlignment   = "left"
	DefaultLineSpacing = 1.0
)

// StyleResolver resolves formatting through basedOn style chains. All
// chains are computed at construction; the resolver is never mutated
// afterwards and is safe for concurrent use.
type StyleResolver struct {
	styles       map[string]*styleDefXML
	chains       map[string][]*styleDefXML // base first, derived last
	defaultStyle string                    // default paragraph style id
	defaults     docDefaultsXML
}

// NewStyleResolver creates a resolver from parsed styles. A nil styles
// document yields a resolver that only applies direct formatting.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles: make(map[string]*styleDefXML),
		chains: make(map[string][]*styleDefXML),
	}
	if styles == nil {
		return sr
	}

	for i := range styles.Styles {
		def := &styles.Styles[i]
		if def.StyleID == "" {
			continue
		}
		sr.styles[def.StyleID] = def
		if def.Type == "paragraph" && def.Default == "1" && sr.defaultStyle == "" {
			sr.defaultStyle = def.StyleID
		}
	}
	sr.defaults = styles.DocDefaults

	for id := range sr.styles {
		sr.chains[id] = sr.buildInheritanceChain(id)
	}
	return sr
}

// buildInheritanceChain returns style definitions from base to derived.
// Cycles in basedOn are cut at the first repeated id.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []*styleDefXML {
	var chain []*styleDefXML
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		def, ok := sr.styles[current]
		if !ok {
			break
		}
		chain = append([]*styleDefXML{def}, chain...)
		current = def.BasedOn.value()
	}
	return chain
}

// paragraphStyleID returns the style a paragraph uses, falling back to the
// document's default paragraph style.
func (sr *StyleResolver) paragraphStyleID(props *ParagraphProps) string {
	if id := props.StyleID(); id != "" {
		return id
	}
	return sr.defaultStyle
}

// StyleName returns the display name of a paragraph style. An empty id
// names the default paragraph style, "Normal" when there is none.
func (sr *StyleResolver) StyleName(styleID string) string {
	if styleID == "" {
		styleID = sr.defaultStyle
	}
	if styleID == "" {
		return "Normal"
	}
	if def, ok := sr.styles[styleID]; ok {
		if name := def.Name.value(); name != "" {
			return name
		}
	}
	return styleID
}

// ParagraphStyleName returns the display name of the paragraph's style.
func (sr *StyleResolver) ParagraphStyleName(p *Paragraph) string {
	return sr.StyleName(sr.paragraphStyleID(p.Props))
}

// ParagraphStyle resolves the style record of a paragraph. Character
// formatting comes from the first run; paragraph formatting from the
// paragraph properties. Both fall back to the paragraph style chain and
// then to the package defaults.
func (sr *StyleResolver) ParagraphStyle(p *Paragraph) model.StyleRecord {
	rec := model.StyleRecord{
		FontSize:  DefaultFontSize,
		Alignment: DefaultAlignment,
		Spacing: model.Spacing{
			LineSpacing:     DefaultLineSpacing,
			LineSpacingRule: model.LineSingle,
		},
	}
	if p == nil {
		return rec
	}

	for _, def := range sr.chains[sr.paragraphStyleID(p.Props)] {
		applyParagraphProps(&rec, def.PPr)
		applyRunProps(&rec, def.RPr)
	}
	if r := p.FirstRun(); r != nil && r.Props != nil {
		for _, def := range sr.chains[r.Props.Style.value()] {
			applyRunProps(&rec, def.RPr)
		}
		applyRunProps(&rec, r.Props)
	}
	applyParagraphProps(&rec, p.Props)
	return rec
}

// RunStyle resolves the direct formatting of a run, including its character
// style. It returns nil when the run carries no formatting.
func (sr *StyleResolver) RunStyle(props *RunProps) *model.RunStyle {
	if props == nil {
		return nil
	}
	var rec model.StyleRecord
	for _, def := range sr.chains[props.Style.value()] {
		applyRunProps(&rec, def.RPr)
	}
	applyRunProps(&rec, props)

	rs := &model.RunStyle{
		Font:      rec.FontName,
		FontCJK:   rec.FontNameCJK,
		Size:      rec.FontSize,
		Color:     rec.Color,
		Bold:      rec.Bold,
		Italic:    rec.Italic,
		Underline: rec.Underline,
	}
	if rs.FontCJK != "" {
		rs.Font = rs.FontCJK
	}
	if rs.IsZero() {
		return nil
	}
	return rs
}

// TableBorders returns the borders declared by a table style or one of its
// bases, nearest definition first.
func (sr *StyleResolver) TableBorders(styleID string) *BordersXML {
	chain := sr.chains[styleID]
	for i := len(chain) - 1; i >= 0; i-- {
		if tp := chain[i].TblPr; tp != nil && tp.Borders != nil {
			return tp.Borders
		}
	}
	return nil
}

// DocumentDefaults returns the document default font and size declared in
// docDefaults. ok is false when neither is declared.
func (sr *StyleResolver) DocumentDefaults() (font string, size float64, ok bool) {
	rp := sr.defaults.RPr
	if rp == nil {
		return "", 0, false
	}
	if rp.Fonts != nil {
		font = firstNonEmpty(rp.Fonts.EastAsia, rp.Fonts.ASCII, rp.Fonts.HAnsi)
	}
	if rp.Size != nil {
		size = parseHalfPoints(rp.Size.Val)
	}
	return font, size, font != "" || size > 0
}

// applyRunProps overlays character formatting onto rec.
func applyRunProps(rec *model.StyleRecord, rp *RunProps) {
	if rp == nil {
		return
	}
	if rp.Fonts != nil {
		if f := firstNonEmpty(rp.Fonts.ASCII, rp.Fonts.HAnsi); f != "" {
			rec.FontName = f
		}
		if rp.Fonts.EastAsia != "" {
			rec.FontNameCJK = rp.Fonts.EastAsia
		}
	}
	if rp.Size != nil {
		if size := parseHalfPoints(rp.Size.Val); size > 0 {
			rec.FontSize = size
		}
	}
	if c := rp.Color.value(); c != "" && c != "auto" {
		rec.Color = "#" + strings.ToLower(c)
	}
	if rp.Bold != nil {
		rec.Bold = rp.Bold.On()
	}
	if rp.Italic != nil {
		rec.Italic = rp.Italic.On()
	}
	if rp.Underline != nil {
		rec.Underline = rp.Underline.Val != "none"
	}
}

// applyParagraphProps overlays paragraph formatting onto rec.
func applyParagraphProps(rec *model.StyleRecord, pp *ParagraphProps) {
	if pp == nil {
		return
	}
	if jc := pp.Justification.value(); jc != "" {
		rec.Alignment = Alignment(jc)
	}
	if ind := pp.Indent; ind != nil {
		if v := firstNonEmpty(ind.Left, ind.Start); v != "" {
			rec.Indentation.Left = parseTwips(v)
		}
		if v := firstNonEmpty(ind.Right, ind.End); v != "" {
			rec.Indentation.Right = parseTwips(v)
		}
		if ind.FirstLine != "" {
			rec.Indentation.FirstLine = parseTwips(ind.FirstLine)
		}
		if ind.Hanging != "" {
			rec.Indentation.FirstLine = -parseTwips(ind.Hanging)
		}
	}
	if sp := pp.Spacing; sp != nil {
		if sp.Before != "" {
			rec.Spacing.Before = parseTwips(sp.Before)
		}
		if sp.After != "" {
			rec.Spacing.After = parseTwips(sp.After)
		}
		if v, rule, ok := lineSpacing(sp); ok {
			rec.Spacing.LineSpacing = v
			rec.Spacing.LineSpacingRule = rule
		}
	}
	if pp.KeepLines != nil {
		rec.Pagination.KeepTogether = pp.KeepLines.On()
	}
	if pp.KeepNext != nil {
		rec.Pagination.KeepWithNext = pp.KeepNext.On()
	}
	if pp.PageBreakBefore != nil {
		rec.Pagination.PageBreakBefore = pp.PageBreakBefore.On()
	}
	if pp.WidowControl != nil {
		rec.Pagination.WidowControl = pp.WidowControl.On()
	}
}

// Alignment maps a w:jc value to the alignment vocabulary
// left|center|right|justify|distribute.
func Alignment(jc string) string {
	switch jc {
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "both":
		return "justify"
	case "distribute":
		return "distribute"
	}
	return DefaultAlignment
}

// lineSpacing converts w:spacing line/lineRule. The auto rule is a multiple
// of single spacing (240ths of a line); exact and atLeast are twips.
func lineSpacing(sp *SpacingProps) (float64, string, bool) {
	if sp.Line == "" {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(sp.Line, 64)
	if err != nil {
		return 0, "", false
	}
	switch sp.LineRule {
	case "exact":
		return v / 20, model.LineExactly, true
	case "atLeast":
		return v / 20, model.LineAtLeast, true
	}
	mult := math.Round(v/240*100) / 100
	switch mult {
	case 1:
		return mult, model.LineSingle, true
	case 1.5:
		return mult, model.LineOnePointFive, true
	case 2:
		return mult, model.LineDouble, true
	}
	return mult, model.LineMultiple, true
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 2
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 20
}

// ParseTwips is parseTwips for other packages.
func ParseTwips(s string) float64 {
	return parseTwips(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
