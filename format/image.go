package format

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var imageTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// SniffImage decodes only the header of an image and reports its content
// type and pixel size. ok is false for formats without a registered
// decoder, such as EMF and WMF.
func SniffImage(data []byte) (contentType string, width, height int, ok bool) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, false
	}
	ct, known := imageTypes[name]
	if !known {
		ct = "image/" + name
	}
	return ct, cfg.Width, cfg.Height, true
}

// ImageExtension returns the file extension, without a dot, used for an
// image content type. It falls back to the extension of name, then "bin".
func ImageExtension(contentType, name string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tiff"
	case "image/webp":
		return "webp"
	case "image/x-emf", "image/emf":
		return "emf"
	case "image/x-wmf", "image/wmf":
		return "wmf"
	case "image/svg+xml":
		return "svg"
	}
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), "."); ext != "" {
		return ext
	}
	return "bin"
}

// IsGenericType reports whether a content type says nothing about the image
// format, so the data should be sniffed instead.
func IsGenericType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "", "application/octet-stream", "application/xml", "binary/octet-stream":
		return true
	}
	return false
}
