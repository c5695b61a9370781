// Package writer serializes display documents back to EDM text.
//
// Untouched content is written from the source lines it was parsed from, so
// String(reader.ParseString(text)) returns text unchanged, line endings
// included. Modified attributes are rendered canonically:
//
//	name value
//	name {
//	  item
//	}
//
// keeping the indentation and line terminator of the original attribute.
// Objects created in memory are rendered in the layout EDM itself writes.
package writer
