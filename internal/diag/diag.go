// Package diag carries non-fatal parse diagnostics between components.
package diag

import (
	"fmt"
	"strings"
)

// Warning codes.
const (
	ImageUnresolved   = "image_unresolved"
	ImageUploadFailed = "image_upload_failed"
	ParagraphFallback = "paragraph_fallback"
	OCRFailed         = "ocr_failed"
)

// Warning is a degraded event that did not stop the parse. Ref locates the
// source node, usually a structural path such as "4.0.1".
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

func (w Warning) String() string {
	if w.Ref == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", w.Code, w.Message, w.Ref)
}

// Format joins warnings one per line.
func Format(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
