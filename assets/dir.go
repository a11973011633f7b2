package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSink writes blobs below a root directory.
type DirSink struct {
	root    string
	baseURL string
}

// NewDirSink returns a sink rooted at root. With an empty baseURL the
// returned URLs are file:// URLs of the written files.
func NewDirSink(root, baseURL string) *DirSink {
	return &DirSink{root: root, baseURL: baseURL}
}

// Upload implements Sink.
func (s *DirSink) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	if rel == "" || strings.HasPrefix(filepath.Clean(rel), "..") {
		return "", fmt.Errorf("invalid asset path %q", path)
	}
	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating asset directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("writing asset: %w", err)
	}

	if s.baseURL != "" {
		return strings.TrimSuffix(s.baseURL, "/") + "/" + filepath.ToSlash(rel), nil
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	return "file://" + filepath.ToSlash(abs), nil
}
