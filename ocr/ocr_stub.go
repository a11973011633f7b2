//go:build !ocr

// Package ocr recognizes text in images extracted from documents.
//
// This is the stub used when the "ocr" build tag is not set: New and
// RecognizeImage return ErrOCRNotEnabled. Rebuild with
//
//	go build -tags ocr
//
// to use Tesseract.
package ocr

// Enabled reports whether OCR support is compiled in.
const Enabled = false

// Client is a stub OCR client.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(languages ...string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
