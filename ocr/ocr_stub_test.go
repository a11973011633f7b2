//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New("eng")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("New() error = %v, want ErrOCRNotEnabled", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
	if Enabled {
		t.Error("Enabled should be false without the ocr tag")
	}
}

func TestStubClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
	if _, err := (&Client{}).RecognizeImage([]byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage() error = %v, want ErrOCRNotEnabled", err)
	}
}
