package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/edlkit/core"
)

// Version is the file format version from the first line of a display file
type Version struct {
	Major   int
	Minor   int
	Release int
}

// ErrNoCanvas is returned when a display header has no usable w and h
var ErrNoCanvas = errors.New("display header has no canvas size")

// DefaultVersion is the format version written for new documents
var DefaultVersion = Version{Major: 4, Minor: 0, Release: 1}

func (v Version) String() string {
	return fmt.Sprintf("%d %d %d", v.Major, v.Minor, v.Release)
}

// ParseVersion parses a "major minor release" line
func ParseVersion(line string) (Version, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Version{}, fmt.Errorf("version line must have 3 fields, got %d", len(fields))
	}
	var n [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version number %q", f)
		}
		n[i] = v
	}
	return Version{Major: n[0], Minor: n[1], Release: n[2]}, nil
}

// Header is the screen properties block: canvas geometry, fonts, colors, title
type Header struct {
	Lead []core.Line // trivia before beginScreenProperties
	Properties
	EndLead []core.Line // trivia before endScreenProperties

	Begin *core.Line
	End   *core.Line
}

// Document represents a complete display file
type Document struct {
	Lead    []core.Line // trivia before the version line
	Version Version
	Header  *Header
	Objects []*Object
	Tail    []core.Line // trivia after the last object

	versionLine *core.Line
	eol         string
}

// NewDocument creates an empty display with the given canvas size
func NewDocument(w, h int) *Document {
	d := &Document{Version: DefaultVersion, Header: &Header{}}
	d.Header.SetInt("major", 4)
	d.Header.SetInt("minor", 0)
	d.Header.SetInt("release", 1)
	d.Header.SetInt("x", 0)
	d.Header.SetInt("y", 0)
	d.Header.SetInt("w", w)
	d.Header.SetInt("h", h)
	return d
}

// SetVersionLine records the version line the document was parsed from
func (d *Document) SetVersionLine(line *core.Line) {
	d.versionLine = line
}

// VersionLine returns the parsed version line if the version has not been
// changed since parsing, or nil
func (d *Document) VersionLine() *core.Line {
	if d.versionLine == nil {
		return nil
	}
	if v, err := ParseVersion(d.versionLine.Text); err != nil || v != d.Version {
		return nil
	}
	return d.versionLine
}

// SetVersion explicitly upgrades (or downgrades) the format version
func (d *Document) SetVersion(v Version) {
	d.Version = v
}

// SetEOL sets the line terminator used for newly rendered lines
func (d *Document) SetEOL(eol string) {
	d.eol = eol
}

// EOL returns the line terminator used for newly rendered lines
func (d *Document) EOL() string {
	if d.eol == "" {
		return "\n"
	}
	return d.eol
}

// Canvas returns the display geometry from the header
func (d *Document) Canvas() (Rect, bool) {
	if d.Header == nil {
		return Rect{}, false
	}
	return d.Header.Geometry()
}

// SetCanvasSize sets the header w and h
func (d *Document) SetCanvasSize(w, h int) {
	if d.Header == nil {
		d.Header = &Header{}
	}
	d.Header.SetSize(w, h)
}

// Title returns the window title from the header
func (d *Document) Title() string {
	if d.Header == nil {
		return ""
	}
	t, _ := d.Header.Text("title")
	return t
}

// Insert places obj at index i among the top-level objects
func (d *Document) Insert(i int, obj *Object) {
	if i < 0 {
		i = 0
	}
	if i > len(d.Objects) {
		i = len(d.Objects)
	}
	d.Objects = append(d.Objects, nil)
	copy(d.Objects[i+1:], d.Objects[i:])
	d.Objects[i] = obj
}

// Append adds objects after the last top-level object
func (d *Document) Append(objs ...*Object) {
	d.Objects = append(d.Objects, objs...)
}

// Walk visits every object depth-first in draw order
func (d *Document) Walk(fn WalkFunc) {
	Walk(d.Objects, fn)
}

// Count returns the total number of objects including nested ones
func (d *Document) Count() int {
	n := 0
	d.Walk(func(*Object, *Object) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	c := *d
	if d.Header != nil {
		h := *d.Header
		h.Attrs = cloneAttrs(d.Header.Attrs)
		h.Trailing = cloneAttrs(d.Header.Trailing)
		c.Header = &h
	}
	c.Objects = make([]*Object, len(d.Objects))
	for i, o := range d.Objects {
		c.Objects[i] = o.Clone()
	}
	return &c
}

// WalkFunc is called for each object with its parent container, or nil at the
// top level. Returning false skips the object's children.
type WalkFunc func(obj, parent *Object) bool

// Walk visits objects depth-first in draw order
func Walk(objs []*Object, fn WalkFunc) {
	walk(objs, nil, fn)
}

func walk(objs []*Object, parent *Object, fn WalkFunc) {
	for _, o := range objs {
		if fn(o, parent) && o.IsContainer() {
			walk(o.Children(), o, fn)
		}
	}
}
