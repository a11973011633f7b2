// Package images extracts embedded pictures from a document package.
//
// The Extractor walks the body for drawings and legacy pictures, resolves
// each through the relationship table, and assigns ids in document order.
// Blobs are then handed to an optional asset sink on a bounded worker pool.
// The resulting Index maps the structural path of every extracted graphic
// to its asset id, so later stages can find images without re-walking or
// annotating the tree.
package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsawler/docform/assets"
	"github.com/tsawler/docform/docx"
	"github.com/tsawler/docform/format"
	"github.com/tsawler/docform/internal/diag"
	"github.com/tsawler/docform/internal/idgen"
	"github.com/tsawler/docform/model"
)

// DefaultPrefix is the first segment of every upload path.
const DefaultPrefix = "template_assets"

// pixelToPoint converts image pixels at 96 dpi to points.
const pixelToPoint = 0.75

// Recognizer extracts text from an encoded image.
type Recognizer interface {
	RecognizeImage(data []byte) (string, error)
}

// Index maps graphic paths to asset ids.
type Index map[string]string

// ImageAt returns the asset id of the graphic at path.
func (ix Index) ImageAt(path docx.Path) (string, bool) {
	id, ok := ix[path.String()]
	return id, ok
}

// Result is the output of Extract.
type Result struct {
	Images   []model.ImageAsset
	Index    Index
	Warnings []diag.Warning
}

// Extractor pulls images out of a package.
type Extractor struct {
	pkg        *docx.Package
	sink       assets.Sink
	workers    int
	prefix     string
	ids        idgen.Generator
	recognizer Recognizer
	logger     *slog.Logger
}

// NewExtractor returns an extractor for pkg with no sink, ids img_1,
// img_2, ... and the default upload prefix.
func NewExtractor(pkg *docx.Package) *Extractor {
	return &Extractor{
		pkg:     pkg,
		workers: assets.DefaultWorkers,
		prefix:  DefaultPrefix,
		ids:     idgen.Sequence("img_"),
		logger:  slog.Default(),
	}
}

// WithSink sets the asset sink. Without one, images are extracted but
// carry no URL.
func (e *Extractor) WithSink(s assets.Sink) *Extractor {
	e.sink = s
	return e
}

// WithWorkers bounds the number of concurrent uploads.
func (e *Extractor) WithWorkers(n int) *Extractor {
	if n > 0 {
		e.workers = n
	}
	return e
}

// WithPrefix sets the first segment of upload paths.
func (e *Extractor) WithPrefix(prefix string) *Extractor {
	if prefix != "" {
		e.prefix = prefix
	}
	return e
}

// WithIDs sets the id generator.
func (e *Extractor) WithIDs(gen idgen.Generator) *Extractor {
	if gen != nil {
		e.ids = gen
	}
	return e
}

// WithRecognizer enables OCR on extracted images.
func (e *Extractor) WithRecognizer(r Recognizer) *Extractor {
	e.recognizer = r
	return e
}

// WithLogger sets the logger.
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	if l != nil {
		e.logger = l
	}
	return e
}

type pending struct {
	asset model.ImageAsset
	path  string
	data  []byte
}

// Extract collects every resolvable image under the package body. Upload
// and OCR failures degrade to warnings; the only error is cancellation of
// ctx during upload.
func (e *Extractor) Extract(ctx context.Context, templateID string) (*Result, error) {
	res := &Result{
		Images:   []model.ImageAsset{},
		Index:    Index{},
		Warnings: []diag.Warning{},
	}

	var found []pending
	docx.Walk(e.pkg.Body, func(v docx.GraphicVisit) {
		ref := v.Path.String()
		part, ok := e.pkg.Part(v.Graphic.EmbedID())
		if !ok {
			e.logger.Warn("image reference does not resolve",
				slog.String("rel_id", v.Graphic.EmbedID()),
				slog.String("path", ref))
			res.Warnings = append(res.Warnings, diag.Warning{
				Code:    diag.ImageUnresolved,
				Message: fmt.Sprintf("relationship %q does not resolve to a package part", v.Graphic.EmbedID()),
				Ref:     ref,
			})
			return
		}

		asset := e.describe(v, part)
		asset.ID = e.ids()
		asset.Index = len(found)
		res.Index[ref] = asset.ID

		ext := format.ImageExtension(asset.ContentType, part.Name)
		found = append(found, pending{
			asset: asset,
			path:  fmt.Sprintf("%s/%s/parsed_image_%s.%s", e.prefix, templateID, asset.ID, ext),
			data:  part.Data,
		})
	})

	if e.sink != nil && len(found) > 0 {
		jobs := make([]assets.Job, len(found))
		for i, p := range found {
			jobs[i] = assets.Job{Path: p.path, Data: p.data, ContentType: p.asset.ContentType}
		}
		results, err := assets.UploadAll(ctx, e.sink, jobs, e.workers)
		if err != nil {
			return nil, fmt.Errorf("uploading images: %w", err)
		}
		for i, r := range results {
			if r.Err != nil {
				e.logger.Warn("image upload failed",
					slog.String("image", found[i].asset.ID),
					slog.Any("error", r.Err))
				res.Warnings = append(res.Warnings, diag.Warning{
					Code:    diag.ImageUploadFailed,
					Message: r.Err.Error(),
					Ref:     found[i].asset.ID,
				})
				continue
			}
			found[i].asset.URL = r.URL
		}
	}

	for i := range found {
		if e.recognizer != nil {
			text, err := e.recognizer.RecognizeImage(found[i].data)
			if err != nil {
				e.logger.Warn("image OCR failed", slog.String("image", found[i].asset.ID), slog.Any("error", err))
				res.Warnings = append(res.Warnings, diag.Warning{
					Code:    diag.OCRFailed,
					Message: err.Error(),
					Ref:     found[i].asset.ID,
				})
			} else {
				found[i].asset.OCRText = text
			}
		}
		res.Images = append(res.Images, found[i].asset)
	}
	return res, nil
}

// describe computes everything about an image except its id and URL.
func (e *Extractor) describe(v docx.GraphicVisit, part docx.Part) model.ImageAsset {
	asset := model.ImageAsset{
		ParagraphIndex: v.BodyParagraph,
		ParagraphRef:   v.ParagraphPath.String(),
		Placement:      model.PlacementInline,
		ContentType:    part.ContentType,
	}

	sniffedType, pxW, pxH, sniffed := format.SniffImage(part.Data)
	if format.IsGenericType(asset.ContentType) {
		asset.ContentType = "application/octet-stream"
		if sniffed {
			asset.ContentType = sniffedType
		}
	}

	if w, h, ok := v.Graphic.SizePoints(); ok {
		asset.Width, asset.Height = w, h
	} else if sniffed {
		asset.Width = float64(pxW) * pixelToPoint
		asset.Height = float64(pxH) * pixelToPoint
	}

	if v.Paragraph != nil {
		asset.Alignment = e.pkg.Styles.ParagraphStyle(v.Paragraph).Alignment
	}
	if v.Graphic.Floating() {
		asset.Placement = model.PlacementFloating
	}
	if d, ok := v.Graphic.(*docx.Drawing); ok {
		switch d.AlignH {
		case "left", "center", "right":
			asset.Alignment = d.AlignH
		}
		asset.AltText = d.Descr
	}
	return asset
}
