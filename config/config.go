// Package config loads the docform CLI configuration.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// file, a .env file, and the process environment (DOCFORM_* variables plus
// AWS_REGION).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/docform"
	"github.com/tsawler/docform/assets"
	"github.com/tsawler/docform/images"
)

// Sink kinds.
const (
	SinkNone   = "none"
	SinkDir    = "dir"
	SinkSQLite = "sqlite"
	SinkS3     = "s3"
)

// Config is the full CLI configuration.
type Config struct {
	UploadWorkers            int        `yaml:"upload_workers"`
	AssetPrefix              string     `yaml:"asset_prefix"`
	DefaultFont              string     `yaml:"default_font"`
	DefaultFontSize          float64    `yaml:"default_font_size"`
	IgnoreRenderedPageBreaks bool       `yaml:"ignore_rendered_page_breaks"`
	LogLevel                 string     `yaml:"log_level"`
	Sink                     SinkConfig `yaml:"sink"`
	OCR                      OCRConfig  `yaml:"ocr"`
}

// SinkConfig selects and configures the image asset sink.
type SinkConfig struct {
	Kind          string `yaml:"kind"` // none | dir | sqlite | s3
	Dir           string `yaml:"dir"`
	BaseURL       string `yaml:"base_url"`
	SQLitePath    string `yaml:"sqlite_path"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// OCRConfig enables text recognition on extracted images.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"` // tesseract languages joined by "+"
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.ensureDefaults()
	return cfg
}

// Load reads the YAML file at path (skipped when path is empty), then the
// given .env files, then the environment. With no envFiles, ./.env is
// loaded when it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.ensureDefaults()
	return cfg, cfg.Validate()
}

// loadDotEnv exports .env variables that are not already set.
func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files %v: %w", files, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("DOCFORM_ASSET_PREFIX", &c.AssetPrefix)
	str("DOCFORM_DEFAULT_FONT", &c.DefaultFont)
	str("DOCFORM_LOG_LEVEL", &c.LogLevel)
	str("DOCFORM_SINK_KIND", &c.Sink.Kind)
	str("DOCFORM_SINK_DIR", &c.Sink.Dir)
	str("DOCFORM_SINK_BASE_URL", &c.Sink.BaseURL)
	str("DOCFORM_SQLITE_PATH", &c.Sink.SQLitePath)
	str("DOCFORM_S3_BUCKET", &c.Sink.Bucket)
	str("AWS_REGION", &c.Sink.Region)
	str("DOCFORM_S3_PUBLIC_BASE_URL", &c.Sink.PublicBaseURL)
	str("DOCFORM_OCR_LANGUAGE", &c.OCR.Language)

	if v, ok := lookup("DOCFORM_UPLOAD_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DOCFORM_UPLOAD_WORKERS: %w", err)
		}
		c.UploadWorkers = n
	}
	if v, ok := lookup("DOCFORM_DEFAULT_FONT_SIZE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DOCFORM_DEFAULT_FONT_SIZE: %w", err)
		}
		c.DefaultFontSize = f
	}
	bools := []struct {
		key string
		dst *bool
	}{
		{"DOCFORM_IGNORE_RENDERED_PAGE_BREAKS", &c.IgnoreRenderedPageBreaks},
		{"DOCFORM_OCR_ENABLED", &c.OCR.Enabled},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = parsed
	}
	return nil
}

func (c *Config) ensureDefaults() {
	if c.UploadWorkers <= 0 {
		c.UploadWorkers = assets.DefaultWorkers
	}
	if c.AssetPrefix == "" {
		c.AssetPrefix = images.DefaultPrefix
	}
	if c.DefaultFont == "" {
		c.DefaultFont = docform.DefaultFont
	}
	if c.DefaultFontSize <= 0 {
		c.DefaultFontSize = docform.DefaultFontSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Sink.Kind == "" {
		c.Sink.Kind = SinkNone
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "eng"
	}
}

// Validate checks the sink settings and log level.
func (c *Config) Validate() error {
	switch c.Sink.Kind {
	case SinkNone:
	case SinkDir:
		if c.Sink.Dir == "" {
			return fmt.Errorf("sink.dir is required for the dir sink")
		}
	case SinkSQLite:
		if c.Sink.SQLitePath == "" {
			return fmt.Errorf("sink.sqlite_path is required for the sqlite sink")
		}
	case SinkS3:
		if c.Sink.Bucket == "" {
			return fmt.Errorf("sink.bucket is required for the s3 sink")
		}
	default:
		return fmt.Errorf("unsupported sink.kind %q (use none, dir, sqlite or s3)", c.Sink.Kind)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Languages splits the OCR language setting.
func (o OCRConfig) Languages() []string {
	var langs []string
	for _, l := range strings.Split(o.Language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
