// Command docform parses a .docx file into template JSON.
//
// Usage:
//
//	docform [options] <file.docx>
//
// The template is written to -out (stdout by default); -html additionally
// writes a preview page. Warnings are logged to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tsawler/docform"
	"github.com/tsawler/docform/assets"
	"github.com/tsawler/docform/config"
	"github.com/tsawler/docform/model"
	"github.com/tsawler/docform/ocr"
	"github.com/tsawler/docform/preview"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "docform: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("docform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docform [options] <file.docx>\n\n")
		fmt.Fprintf(stderr, "Extract fields, tables, images and document structure as JSON.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML config file")
	templateID := fs.String("template-id", "", "template id (default: random UUID)")
	name := fs.String("name", "", "template name (default: file name)")
	outPath := fs.String("out", "", "write template JSON to this file instead of stdout")
	htmlPath := fs.String("html", "", "also write an HTML preview to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one input file")
	}
	input := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	sink, closeSink, err := newSink(cfg.Sink)
	if err != nil {
		return err
	}
	defer closeSink()

	parser := docform.Open(input).
		TemplateID(*templateID).
		Name(*name).
		Sink(sink).
		UploadWorkers(cfg.UploadWorkers).
		AssetPrefix(cfg.AssetPrefix).
		DefaultFont(cfg.DefaultFont).
		DefaultSize(cfg.DefaultFontSize).
		Logger(logger)
	if cfg.IgnoreRenderedPageBreaks {
		parser = parser.IgnoreRenderedPageBreaks()
	}
	if cfg.OCR.Enabled {
		client, err := ocr.New(cfg.OCR.Languages()...)
		switch {
		case errors.Is(err, ocr.ErrOCRNotEnabled):
			logger.Warn("ocr requested but this binary was built without the ocr tag")
		case err != nil:
			return fmt.Errorf("starting ocr: %w", err)
		default:
			defer client.Close()
			parser = parser.Recognizer(client)
		}
	}

	tmpl, warnings, err := parser.Parse(ctx)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w.Message, slog.String("code", w.Code), slog.String("ref", w.Ref))
	}

	if *outPath == "" {
		if err := writeJSON(stdout, tmpl); err != nil {
			return err
		}
	} else if err := writeFile(*outPath, func(w io.Writer) error { return writeJSON(w, tmpl) }); err != nil {
		return err
	}

	if *htmlPath != "" {
		if err := writeFile(*htmlPath, func(w io.Writer) error { return preview.Render(w, tmpl) }); err != nil {
			return err
		}
	}

	logger.Info("parsed template",
		slog.String("template_id", tmpl.TemplateID),
		slog.Int("fields", len(tmpl.Fields)),
		slog.Int("tables", len(tmpl.Tables)),
		slog.Int("images", len(tmpl.Images)),
		slog.Int("warnings", len(warnings)))
	return nil
}

func writeJSON(w io.Writer, tmpl *model.Template) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tmpl); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

// writeFile creates name, fills it with write and closes it. Close errors
// are returned.
func writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", name, cerr)
		}
	}()
	return write(f)
}

// newSink builds the configured asset sink. The returned func releases it.
func newSink(c config.SinkConfig) (assets.Sink, func(), error) {
	noop := func() {}
	switch c.Kind {
	case config.SinkDir:
		return assets.NewDirSink(c.Dir, c.BaseURL), noop, nil
	case config.SinkSQLite:
		s, err := assets.OpenSQLiteSink(c.SQLitePath, c.BaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { s.Close() }, nil
	case config.SinkS3:
		s, err := assets.NewS3Sink(c.Bucket, c.Region)
		if err != nil {
			return nil, noop, err
		}
		s.PublicBaseURL = c.PublicBaseURL
		return s, noop, nil
	default:
		return nil, noop, nil
	}
}
