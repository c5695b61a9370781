package model

// Point represents a 2D point in display pixels
type Point struct {
	X, Y int
}

// Size represents a width and height in display pixels
type Size struct {
	W, H int
}

// Rect represents the geometry of a positioned object.
// Display coordinates grow to the right and downwards.
type Rect struct {
	X int // Left
	Y int // Top
	W int
	H int
}

// NewRect creates a rectangle from position and size
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Left returns the left edge X coordinate
func (r Rect) Left() int {
	return r.X
}

// Right returns the right edge X coordinate
func (r Rect) Right() int {
	return r.X + r.W
}

// Top returns the top edge Y coordinate
func (r Rect) Top() int {
	return r.Y
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Size returns the width and height
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains checks if a point is inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() &&
		p.Y >= r.Top() && p.Y < r.Bottom()
}

// Intersects checks if two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() <= other.Left() ||
		r.Left() >= other.Right() ||
		r.Bottom() <= other.Top() ||
		r.Top() >= other.Bottom())
}

// Union returns the smallest rectangle containing both rectangles
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X: x,
		Y: y,
		W: max(r.Right(), other.Right()) - x,
		H: max(r.Bottom(), other.Bottom()) - y,
	}
}

// Translate returns the rectangle moved by (dx, dy)
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// MirrorX returns the rectangle reflected about the vertical axis through the
// middle of the frame [fx, fx+fw)
func (r Rect) MirrorX(fx, fw int) Rect {
	return Rect{X: 2*fx + fw - r.X - r.W, Y: r.Y, W: r.W, H: r.H}
}
