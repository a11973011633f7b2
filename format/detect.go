// Package format identifies document packages and embedded image parts.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format is a document container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a WordprocessingML package.
	DOCX
	// XLSX indicates a SpreadsheetML package.
	XLSX
	// PPTX indicates a PresentationML package.
	PPTX
	// ODT indicates an OpenDocument text package.
	ODT
	// PDF indicates a PDF file.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ODT:
		return "ODT"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Detect determines the format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx", ".docm", ".dotx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".odt":
		return ODT
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

var (
	zipMagic = []byte("PK\x03\x04")
	pdfMagic = []byte("%PDF")
)

// DetectBytes inspects content. Zip containers are classified by the parts
// they hold; a zip that is neither OOXML nor ODF is Unknown.
func DetectBytes(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, zipMagic):
		f, err := DetectZip(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return Unknown
		}
		return f
	}
	return Unknown
}

// DetectZip classifies an opened zip container.
func DetectZip(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// ODF stores its mimetype as the first, uncompressed entry.
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		head := make([]byte, 128)
		n, _ := io.ReadFull(rc, head)
		rc.Close()
		if strings.HasPrefix(string(head[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	hasTypes := false
	found := Unknown
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "/")
		switch {
		case name == "[Content_Types].xml":
			hasTypes = true
		case found == Unknown && strings.HasPrefix(name, "word/"):
			found = DOCX
		case found == Unknown && strings.HasPrefix(name, "xl/"):
			found = XLSX
		case found == Unknown && strings.HasPrefix(name, "ppt/"):
			found = PPTX
		}
	}
	if !hasTypes {
		return Unknown, nil
	}
	return found, nil
}
