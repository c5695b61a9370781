// Package reader parses EDM display files into the editable model.
//
// # Parsing
//
// Use [ParseFile] to read a display from disk:
//
//	doc, err := reader.ParseFile("motor.edl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or [Parse], [ParseBytes] and [ParseString] for in-memory input. Files are
// decoded as Latin-1 unless [WithEncoding] says otherwise.
//
// The parser is line oriented. Every line keeps its exact text and line
// terminator; blank lines and comments are attached to the element that
// follows them. Unknown attributes and blocks are kept as opaque values.
//
// # Errors
//
// Malformed input yields a [*FormatError] carrying the file name, line number
// and byte offset. No partial document is returned. A file without a screen
// header wraps [ErrNoHeader].
//
// # Widget Catalogs
//
// [ParseObjects] reads a header-less list of objects and tolerates stray lines
// between them.
package reader
