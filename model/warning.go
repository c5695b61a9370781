package model

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue found while transforming or validating
// a display. Operations return warnings instead of logging them.
type Warning struct {
	Object  string // "Type (class)" of the object concerned, if any
	Line    int    // source line of the object, if known
	Message string
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", w.Line)
	}
	if w.Object != "" {
		b.WriteString(w.Object)
		b.WriteString(": ")
	}
	b.WriteString(w.Message)
	return b.String()
}

// WarnObject creates a warning about an object
func WarnObject(o *Object, format string, args ...any) Warning {
	w := Warning{Message: fmt.Sprintf(format, args...)}
	if o != nil {
		w.Object = o.Describe()
		if o.Source.ObjectLine != nil {
			w.Line = o.Source.ObjectLine.Num
		}
	}
	return w
}

// Describe returns a short human-readable label for the object
func (o *Object) Describe() string {
	if o.Type == "" {
		return o.Class
	}
	return fmt.Sprintf("%s (%s)", o.Type, o.Class)
}

// FormatWarnings joins warnings into a multi-line report
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
