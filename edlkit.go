// Package edlkit provides a fluent API for editing EDM display files.
//
// Basic usage:
//
//	warnings, err := edlkit.Open("motor.edl").
//	    Titlebar("Motor $(M)").
//	    Resize(1.5, 1.5).
//	    WriteFile("motor-large.edl")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", edlkit.FormatWarnings(warnings))
//	}
//
// Operations run in the order they are chained, when a terminal method such
// as Document, String or WriteFile is called. If any operation fails, nothing
// is returned and nothing is written.
//
// For finer control the reader, writer, transform, substitute and titlebar
// packages can be used directly.
package edlkit

import (
	"github.com/tsawler/edlkit/model"
)

// Warning describes a non-fatal issue found while editing a display
type Warning = model.Warning

// FormatWarnings joins warnings into a multi-line report
func FormatWarnings(warnings []Warning) string {
	return model.FormatWarnings(warnings)
}

// Open returns an Editor for the display file at filename. The file is read
// when a terminal method is called.
//
// Example:
//
//	out, _, err := edlkit.Open("motor.edl").Flip().String()
func Open(filename string) *Editor {
	return &Editor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument returns an Editor for an already parsed display. The document
// itself is never modified; terminal methods work on a copy.
func FromDocument(doc *model.Document) *Editor {
	return &Editor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := edlkit.Must(edlkit.Open("motor.edl").Parse())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Document or String and panics
// if the error is non-nil. It discards warnings and returns just the value.
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

func defaultKnown(class string) bool {
	return model.KnownClass(class)
}
