//go:build ocr

// Package ocr recognizes text in images extracted from documents, such as
// scanned stamps or form headers pasted as pictures.
//
// This implementation wraps Tesseract via gosseract and is compiled with
// the "ocr" build tag. Tesseract must be installed:
//
//	apt-get install tesseract-ocr tesseract-ocr-chi-tra
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Enabled reports whether OCR support is compiled in.
const Enabled = true

// Client wraps a Tesseract handle. Calls are serialized because a
// Tesseract handle holds a single current image.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client for the given languages, joined by "+" as in
// "eng+chi_tra". An empty language keeps Tesseract's default.
func New(languages ...string) (*Client, error) {
	c := gosseract.NewClient()
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			c.Close()
			return nil, fmt.Errorf("setting OCR language: %w", err)
		}
	}
	return &Client{client: c}, nil
}

// Close releases the Tesseract handle. It is safe to call more than once.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// RecognizeImage returns the trimmed text found in an encoded image.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return "", fmt.Errorf("OCR client closed")
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
