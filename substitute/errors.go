package substitute

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRules is returned when a substitution is requested without any rules
var ErrNoRules = errors.New("no substitution rules")

// UnknownReferenceError reports an embedded display that cannot be found or
// read. It aborts only the branch below the referencing file.
type UnknownReferenceError struct {
	From     string   // file containing the reference
	Ref      string   // reference as written
	Resolved string   // resolved path, if the file exists but could not be used
	Tried    []string // candidate paths that were checked
	Err      error
}

func (e *UnknownReferenceError) Error() string {
	if e.Resolved != "" {
		return fmt.Sprintf("%s: embedded display %q (%s): %v", e.From, e.Ref, e.Resolved, e.Err)
	}
	return fmt.Sprintf("%s: embedded display %q not found: %v", e.From, e.Ref, e.Err)
}

func (e *UnknownReferenceError) Unwrap() error {
	return e.Err
}

// CycleError reports a display that embeds itself, directly or through other
// displays. Chain lists the files from the root to the repeated file.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "embedded display cycle: " + strings.Join(e.Chain, " -> ")
}

// DepthError reports an embedding chain deeper than the configured maximum
type DepthError struct {
	Path string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: maximum embedding depth (%d) exceeded", e.Path, e.Max)
}
