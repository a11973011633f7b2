package docform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tsawler/docform/assets"
	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/fields"
	"github.com/tsawler/docform/format"
	"github.com/tsawler/docform/images"
	"github.com/tsawler/docform/internal/idgen"
	"github.com/tsawler/docform/model"
	"github.com/tsawler/docform/structure"
	"github.com/tsawler/docform/tables"
)

// Defaults for the document-wide style summary when the package declares
// no docDefaults.
const (
	DefaultFont     = "微軟正黑體"
	DefaultFontSize = 12.0
)

// options holds Parser configuration.
type options struct {
	templateID     string
	name           string
	sink           assets.Sink
	workers        int
	assetPrefix    string
	logger         *slog.Logger
	matchers       []fields.Matcher
	ids            IDFactory
	ignoreRendered bool
	recognizer     images.Recognizer
	defaultFont    string
	defaultSize    float64
}

func defaultOptions() options {
	return options{
		workers:     assets.DefaultWorkers,
		assetPrefix: images.DefaultPrefix,
		ids:         SequentialIDs,
		defaultFont: DefaultFont,
		defaultSize: DefaultFontSize,
	}
}

func (o options) clone() options {
	c := o
	c.matchers = append([]fields.Matcher(nil), o.matchers...)
	return c
}

// Parser provides a fluent interface for parsing one document. Each
// configuration method returns a new Parser, so a configured Parser can be
// shared and reused.
type Parser struct {
	filename string
	data     []byte
	options  options
}

func (p *Parser) with(set func(*options)) *Parser {
	c := &Parser{filename: p.filename, data: p.data, options: p.options.clone()}
	set(&c.options)
	return c
}

// TemplateID sets the template id. Without one a random UUID is used.
func (p *Parser) TemplateID(id string) *Parser {
	return p.with(func(o *options) { o.templateID = id })
}

// Name sets the template name. It defaults to the file name without its
// extension.
func (p *Parser) Name(name string) *Parser {
	return p.with(func(o *options) { o.name = name })
}

// Sink sets where image blobs are uploaded. Without a sink images are
// extracted without URLs.
func (p *Parser) Sink(s assets.Sink) *Parser {
	return p.with(func(o *options) { o.sink = s })
}

// UploadWorkers bounds the number of concurrent image uploads.
func (p *Parser) UploadWorkers(n int) *Parser {
	return p.with(func(o *options) {
		if n > 0 {
			o.workers = n
		}
	})
}

// AssetPrefix sets the first segment of image upload paths.
func (p *Parser) AssetPrefix(prefix string) *Parser {
	return p.with(func(o *options) { o.assetPrefix = prefix })
}

// Logger sets the logger for degraded events and debug output.
func (p *Parser) Logger(l *slog.Logger) *Parser {
	return p.with(func(o *options) { o.logger = l })
}

// Matchers replaces the field matchers. They are tried in order.
func (p *Parser) Matchers(m ...fields.Matcher) *Parser {
	return p.with(func(o *options) { o.matchers = append([]fields.Matcher(nil), m...) })
}

// IDGenerator sets the id strategy for images, paragraph blocks and page
// breaks.
func (p *Parser) IDGenerator(f IDFactory) *Parser {
	return p.with(func(o *options) {
		if f != nil {
			o.ids = f
		}
	})
}

// IgnoreRenderedPageBreaks stops page breaks recorded by the last layout
// pass (w:lastRenderedPageBreak) from splitting tables and paragraphs.
func (p *Parser) IgnoreRenderedPageBreaks() *Parser {
	return p.with(func(o *options) { o.ignoreRendered = true })
}

// Recognizer enables OCR on extracted images.
func (p *Parser) Recognizer(r images.Recognizer) *Parser {
	return p.with(func(o *options) { o.recognizer = r })
}

// DefaultFont sets the style summary font used when the document declares
// none.
func (p *Parser) DefaultFont(font string) *Parser {
	return p.with(func(o *options) {
		if font != "" {
			o.defaultFont = font
		}
	})
}

// DefaultSize sets the style summary size used when the document declares
// none.
func (p *Parser) DefaultSize(size float64) *Parser {
	return p.with(func(o *options) {
		if size > 0 {
			o.defaultSize = size
		}
	})
}

// Parse runs the extraction pipeline. The error is always a *ParseError;
// recoverable problems are returned as warnings beside the template.
func (p *Parser) Parse(ctx context.Context) (*model.Template, []Warning, error) {
	o := p.options
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, &ParseError{Op: "parse", Path: p.filename, Err: err}
	}

	pkg, err := p.open()
	if err != nil {
		return nil, nil, err
	}
	defer pkg.Close()

	templateID := o.templateID
	if templateID == "" {
		templateID = idgen.NewTemplateID()
	}
	name := o.name
	if name == "" && p.filename != "" {
		base := filepath.Base(p.filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	logger = logger.With(slog.String("template_id", templateID))

	newIDs := func(prefix string) idgen.Generator { return o.ids(prefix) }

	imgs, err := images.NewExtractor(pkg).
		WithSink(o.sink).
		WithWorkers(o.workers).
		WithPrefix(o.assetPrefix).
		WithIDs(newIDs("img_")).
		WithRecognizer(o.recognizer).
		WithLogger(logger).
		Extract(ctx, templateID)
	if err != nil {
		return nil, nil, &ParseError{Op: "upload", Path: p.filename, Err: err}
	}

	found := fields.NewDetector(pkg.Styles, o.matchers...).WithLogger(logger).Detect(pkg.Body)
	schemas := tables.NewExtractor(pkg, imgs.Index).ExtractAll(pkg.Body)

	out := structure.New(pkg.Styles).
		WithIDs(
			func() idgen.Generator { return newIDs("p_") },
			func() idgen.Generator { return newIDs("page_break_") },
		).
		IgnoreRenderedPageBreaks(o.ignoreRendered).
		WithLogger(logger).
		Linearize(structure.Input{
			Body:   pkg.Body,
			Fields: found,
			Tables: schemas,
			Images: imgs.Images,
			Index:  imgs.Index,
		})

	tmpl := model.NewTemplate(templateID, name)
	tmpl.Sections = pkg.Sections()
	tmpl.Fields = found
	tmpl.Tables = out.Tables
	tmpl.Images = imgs.Images
	tmpl.Structure = out.Structure
	tmpl.Paragraphs = out.Paragraphs
	tmpl.Styles = model.StyleSummary{DefaultFont: o.defaultFont, DefaultSize: o.defaultSize}
	if font, size, ok := pkg.Styles.DocumentDefaults(); ok {
		if font != "" {
			tmpl.Styles.DefaultFont = font
		}
		if size > 0 {
			tmpl.Styles.DefaultSize = size
			tmpl.DocDefaultSize = &size
		}
	}

	warnings := make([]Warning, 0, len(imgs.Warnings)+len(out.Warnings))
	warnings = append(warnings, imgs.Warnings...)
	warnings = append(warnings, out.Warnings...)

	logger.Debug("parsed template",
		slog.Int("fields", len(tmpl.Fields)),
		slog.Int("tables", len(tmpl.Tables)),
		slog.Int("images", len(tmpl.Images)),
		slog.Int("nodes", len(tmpl.Structure)),
		slog.Int("warnings", len(warnings)))
	return tmpl, warnings, nil
}

// open checks the input format and opens the package.
func (p *Parser) open() (*docx.Package, error) {
	if p.filename != "" {
		if f := format.Detect(p.filename); f != format.DOCX && f != format.Unknown {
			return nil, &ParseError{Op: "format", Path: p.filename, Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)}
		}
		pkg, err := docx.Open(p.filename)
		if err != nil {
			return nil, &ParseError{Op: "open", Path: p.filename, Err: err}
		}
		return pkg, nil
	}

	if f := format.DetectBytes(p.data); f != format.DOCX && f != format.Unknown {
		return nil, &ParseError{Op: "format", Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)}
	}
	pkg, err := docx.OpenBytes(p.data)
	if err != nil {
		return nil, &ParseError{Op: "open", Err: err}
	}
	return pkg, nil
}
