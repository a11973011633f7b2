package format

import (
	"archive/zip"
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/tsawler/docform/internal/docxtest"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{XLSX, "XLSX"},
		{PPTX, "PPTX"},
		{ODT, "ODT"},
		{PDF, "PDF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"form.docx", DOCX},
		{"FORM.DOCX", DOCX},
		{"/path/to/macro.docm", DOCX},
		{"sheet.xlsx", XLSX},
		{"deck.pptx", PPTX},
		{"letter.odt", ODT},
		{"scan.pdf", PDF},
		{"legacy.doc", Unknown},
		{"noext", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Detect(tt.filename); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectBytes(t *testing.T) {
	types := "[Content_Types].xml"
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"docx", docxtest.New().Body(docxtest.Para("x")).Bytes(t), DOCX},
		{"xlsx", zipWith(t, map[string]string{types: "", "xl/workbook.xml": ""}), XLSX},
		{"pptx", zipWith(t, map[string]string{types: "", "ppt/presentation.xml": ""}), PPTX},
		{"odt", zipWith(t, map[string]string{"mimetype": "application/vnd.oasis.opendocument.text", "content.xml": ""}), ODT},
		{"plain zip", zipWith(t, map[string]string{"word/readme.txt": "hi"}), Unknown},
		{"pdf", []byte("%PDF-1.7\n"), PDF},
		{"truncated zip", []byte("PK\x03\x04garbage"), Unknown},
		{"text", []byte("hello"), Unknown},
		{"empty", nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(tt.data); got != tt.want {
				t.Errorf("DetectBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSniffImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	encode := map[string]func(*bytes.Buffer) error{
		"image/png": func(b *bytes.Buffer) error { return png.Encode(b, img) },
		"image/gif": func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) },
		"image/bmp": func(b *bytes.Buffer) error { return bmp.Encode(b, img) },
	}
	for want, enc := range encode {
		t.Run(want, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatalf("encoding: %v", err)
			}
			ct, w, h, ok := SniffImage(buf.Bytes())
			if !ok || ct != want || w != 40 || h != 30 {
				t.Errorf("SniffImage() = %q %dx%d %v", ct, w, h, ok)
			}
		})
	}

	if _, _, _, ok := SniffImage([]byte("\x01\x00\x00\x00emf")); ok {
		t.Error("SniffImage() recognized an EMF header")
	}
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		contentType, name, want string
	}{
		{"image/png", "word/media/image1.png", "png"},
		{"image/jpeg", "image1.jpeg", "jpg"},
		{"image/x-emf", "image2.emf", "emf"},
		{"application/octet-stream", "word/media/image3.TIF", "tif"},
		{"", "blob", "bin"},
	}
	for _, tt := range tests {
		if got := ImageExtension(tt.contentType, tt.name); got != tt.want {
			t.Errorf("ImageExtension(%q, %q) = %q, want %q", tt.contentType, tt.name, got, tt.want)
		}
	}
}

func TestIsGenericType(t *testing.T) {
	for ct, want := range map[string]bool{
		"":                         true,
		"application/octet-stream": true,
		"image/png":                false,
	} {
		if got := IsGenericType(ct); got != want {
			t.Errorf("IsGenericType(%q) = %v, want %v", ct, got, want)
		}
	}
}
