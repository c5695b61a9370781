// Package transform implements the geometric transforms applied to whole
// displays: scaling with [Resize] and mirroring with [FlipHorizontal].
//
// Transforms work on the absolute coordinates EDM uses for every object,
// including the children of groups, and keep a container consistent with its
// descendants. They never fail on a well-formed document; problems such as an
// unparseable font name are reported as warnings.
//
// Both transforms write back only the attributes whose values change, and an
// attribute set back to its parsed value keeps its source text. A flip applied
// twice therefore reproduces the original file exactly.
package transform
