package reader

import (
	"errors"
	"fmt"
)

// ErrNoHeader is returned when a display file has no beginScreenProperties block
var ErrNoHeader = errors.New("missing beginScreenProperties")

// FormatError reports malformed display file input
type FormatError struct {
	Path   string // file name, if known
	Line   int    // 1-based line number
	Offset int64  // byte offset of the line
	Msg    string
	Err    error // underlying sentinel, if any
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d (offset %d): %s", e.Line, e.Offset, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
