// Package docform extracts the structure of a word-processing document
// package into a renderable template model.
//
// Basic usage:
//
//	tmpl, warnings, err := docform.Open("form.docx").Parse(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docform.FormatWarnings(warnings))
//	}
//
// With options:
//
//	tmpl, _, err := docform.Open("form.docx").
//	    TemplateID("b7c1...").
//	    Sink(assets.NewDirSink("out/assets", "")).
//	    UploadWorkers(8).
//	    Parse(ctx)
//
// The result holds the document's sections, fill-in fields, tables (with
// resolved borders, merges and page-break parts), images and paragraph
// blocks, plus a structure list that records their document order. Only
// the structure list is ordered; everything else is looked up by id.
package docform

import (
	"github.com/tsawler/docform/internal/diag"
	"github.com/tsawler/docform/internal/idgen"
)

// Warning is a non-fatal event recorded during a parse.
type Warning = diag.Warning

// Warning codes.
const (
	WarnImageUnresolved   = diag.ImageUnresolved
	WarnImageUploadFailed = diag.ImageUploadFailed
	WarnParagraphFallback = diag.ParagraphFallback
	WarnOCRFailed         = diag.OCRFailed
)

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	return diag.Format(warnings)
}

// IDFactory returns an id generator for ids starting with prefix. The
// parser asks for one generator per id kind (img_, p_, page_break_) on
// every Parse.
type IDFactory func(prefix string) func() string

// SequentialIDs numbers ids in document order: img_1, img_2, ... It is the
// default and makes output reproducible.
func SequentialIDs(prefix string) func() string {
	return idgen.Sequence(prefix)
}

// UUIDIDs appends a UUID v7 to the prefix.
func UUIDIDs(prefix string) func() string {
	return idgen.Prefixed(prefix, idgen.UUIDv7())
}

// Open returns a Parser for the document at filename.
//
// Example:
//
//	tmpl, warnings, err := docform.Open("form.docx").Parse(ctx)
func Open(filename string) *Parser {
	return &Parser{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Parser for an in-memory document package.
func FromBytes(data []byte) *Parser {
	return &Parser{
		data:    data,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to Parse and panics if the error is
// non-nil. It discards warnings and is intended for scripts and tests.
//
// Example:
//
//	tmpl := docform.Must(docform.Open("form.docx").Parse(ctx))
func Must[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
