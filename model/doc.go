// Package model provides the editable tree for EDM display files.
//
// A [Document] holds the format [Version], a [Header] with the screen
// properties (canvas geometry, fonts, colors, title) and an ordered list of
// top-level [Object] values in draw order. Container objects
// (activeGroupClass) hold child objects in a [Group]; every other object is a
// leaf widget.
//
// # Lossless Editing
//
// Every [Attr] remembers the source lines it was parsed from, and every object
// remembers its structural lines. The writer reproduces untouched input byte
// for byte and renders only modified attributes canonically. Setting an
// attribute back to its parsed value restores the original text.
//
// # Geometry
//
// Positioned objects carry x, y, w and h attributes, available as a [Rect]
// through [Properties.Geometry]. Children of a container use the same absolute
// coordinate frame as the display itself.
//
// # Embedded Displays
//
// Embedded windows (activePipClass) reference other display files.
// [Object.References] returns each referenced path with its macro list and
// [Object.SetReference] writes a changed reference back.
package model
