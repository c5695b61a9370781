// Package core provides the low-level lexical primitives and value types used to
// read and write EDM display files (.edl).
//
// A display file is line oriented. Every attribute line has the form
//
//	name [value]
//
// where the value is either absent (a flag), a single token, a color reference,
// or the opening brace of a multi-line block:
//
//	displayFileName {
//	  0 "motor.edl"
//	}
//
// # Value Types
//
// All attribute values implement the [Value] interface:
//
//   - [Flag] - an attribute present without a value (e.g. useDisplayBg)
//   - [Int] - a signed integer (geometry, counts)
//   - [Real] - a real number
//   - [String] - a quoted string, stored unescaped
//   - [Color] - a palette index ("index 14") or RGB triple ("rgb 0 0 0")
//   - [List] - a multi-line block holding one value per line
//   - [Block] - a multi-line block holding "key value" entries
//   - [Raw] - any other token sequence, kept verbatim
//
// Values are immutable: helpers that change a value return a new one.
//
// # Lines and Tokens
//
// [SplitLines] breaks source text into [Line] values that remember their line
// number, byte offset and exact end-of-line sequence so that the writer can
// reproduce untouched input byte for byte. [Fields] splits the value part of a
// line into tokens, keeping quoted strings intact.
package core
