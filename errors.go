package docform

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for inputs recognized as another
// document format (spreadsheet, presentation, ODF, PDF).
var ErrUnsupportedFormat = errors.New("docform: unsupported document format")

// ParseError reports a fatal parse failure. Op names the stage that failed:
// "open", "format", "upload" or "parse".
type ParseError struct {
	Op   string
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("docform: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("docform: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
