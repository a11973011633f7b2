// Package fields detects fill-in locations in body paragraphs.
//
// Paragraph text is NFKC-normalized before matching so that full-width
// colons and underscores behave like their ASCII forms. Matchers are tried
// in order and the first match wins; a paragraph yields at most one field.
package fields

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/model"
)

// Detector scans body paragraphs for fill-in markers.
type Detector struct {
	styles   *docx.StyleResolver
	matchers []Matcher
	logger   *slog.Logger
}

// NewDetector returns a detector using styles for field formatting. With
// no matchers the DefaultMatchers are used.
func NewDetector(styles *docx.StyleResolver, matchers ...Matcher) *Detector {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Detector{
		styles:   styles,
		matchers: matchers,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger used for debug output.
func (d *Detector) WithLogger(l *slog.Logger) *Detector {
	if l != nil {
		d.logger = l
	}
	return d
}

// Detect returns the fields found in the body-level paragraphs of body.
// ParagraphIndex is the paragraph's position among body-level paragraphs.
func (d *Detector) Detect(body *docx.Body) []model.Field {
	fields := []model.Field{}
	if body == nil {
		return fields
	}
	paraIndex := 0
	for _, blk := range body.Children {
		p, ok := blk.(*docx.Paragraph)
		if !ok {
			continue
		}
		if f, ok := d.DetectParagraph(p, paraIndex, len(fields)+1); ok {
			fields = append(fields, f)
		}
		paraIndex++
	}
	return fields
}

// DetectParagraph tests one paragraph. n is the 1-based number given to the
// field, used for its name and default label.
func (d *Detector) DetectParagraph(p *docx.Paragraph, paraIndex, n int) (model.Field, bool) {
	text := Normalize(p.Text())
	if text == "" {
		return model.Field{}, false
	}
	for _, m := range d.matchers {
		match, ok := m.Match(text)
		if !ok {
			continue
		}
		label := match.Label
		if label == "" {
			label = fmt.Sprintf("Field %d", n)
		}
		typ := match.Type
		if typ == "" {
			typ = model.FieldText
		}

		style := d.styles.ParagraphStyle(p)
		style.HasPageBreak = p.HasPageBreak(false)

		d.logger.Debug("field detected",
			slog.Int("paragraph", paraIndex),
			slog.String("pattern", match.Pattern),
			slog.String("label", label))

		return model.Field{
			Name:           fmt.Sprintf("field_%d", n),
			Label:          label,
			Type:           typ,
			Required:       true,
			Placeholder:    "Enter " + label,
			ParagraphIndex: paraIndex,
			Pattern:        match.Pattern,
			Style:          style,
		}, true
	}
	return model.Field{}, false
}

// Normalize applies NFKC and trims surrounding white space.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
