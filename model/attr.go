package model

import (
	"strings"

	"github.com/tsawler/edlkit/core"
)

// Attr is a single attribute of an object or of the screen header.
//
// An attribute parsed from a file remembers the lines it came from. As long as
// its value equals the parsed value the writer reproduces those lines exactly;
// setting a different value makes the writer render it canonically.
type Attr struct {
	Name string
	Lead []core.Line // blank and comment lines before the attribute

	value core.Value
	orig  core.Value
	raw   []core.Line
}

// NewAttr creates an attribute that has no source representation
func NewAttr(name string, value core.Value) *Attr {
	return &Attr{Name: name, value: value}
}

// ParsedAttr creates an attribute read from source lines
func ParsedAttr(name string, value core.Value, raw []core.Line) *Attr {
	return &Attr{Name: name, value: value, orig: value, raw: raw}
}

// Value returns the current value
func (a *Attr) Value() core.Value {
	return a.value
}

// Set replaces the value. Setting a value equal to the parsed one restores the
// original source text.
func (a *Attr) Set(v core.Value) {
	if a.raw != nil && core.Equal(v, a.orig) {
		a.value = a.orig
		return
	}
	a.value = v
}

// Modified reports whether the attribute must be rendered canonically
func (a *Attr) Modified() bool {
	return a.raw == nil || !core.Equal(a.value, a.orig)
}

// Raw returns the source lines of the attribute, or nil for a new attribute
func (a *Attr) Raw() []core.Line {
	return a.raw
}

// Indent returns the indentation used by the attribute's first source line
func (a *Attr) Indent() string {
	if len(a.raw) == 0 {
		return ""
	}
	return a.raw[0].Indent()
}

// EOL returns the line terminator used by the attribute's first source line
func (a *Attr) EOL() string {
	if len(a.raw) == 0 {
		return ""
	}
	return a.raw[0].EOL
}

func (a *Attr) clone() *Attr {
	c := *a
	return &c
}

// Properties is an ordered attribute list shared by objects and the screen
// header. Container objects may also carry attributes after their group body;
// those live in Trailing.
type Properties struct {
	Attrs    []*Attr
	Trailing []*Attr
}

// Attr returns the first attribute with the given name
func (p *Properties) Attr(name string) *Attr {
	for _, a := range p.Attrs {
		if a.Name == name {
			return a
		}
	}
	for _, a := range p.Trailing {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Has reports whether the attribute is present
func (p *Properties) Has(name string) bool {
	return p.Attr(name) != nil
}

// Get returns the value of an attribute
func (p *Properties) Get(name string) (core.Value, bool) {
	if a := p.Attr(name); a != nil {
		return a.Value(), true
	}
	return nil, false
}

// Int returns an integer attribute
func (p *Properties) Int(name string) (int, bool) {
	v, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case core.Int:
		return int(n), true
	case core.Real:
		return int(n), true
	}
	return 0, false
}

// Text returns a string attribute
func (p *Properties) Text(name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(core.String)
	return string(s), ok
}

// Set sets an attribute value, appending a new attribute if absent
func (p *Properties) Set(name string, v core.Value) {
	if a := p.Attr(name); a != nil {
		a.Set(v)
		return
	}
	p.Attrs = append(p.Attrs, NewAttr(name, v))
}

// SetInt sets an integer attribute
func (p *Properties) SetInt(name string, n int) {
	p.Set(name, core.Int(n))
}

// SetString sets a string attribute
func (p *Properties) SetString(name, s string) {
	p.Set(name, core.String(s))
}

// Delete removes every attribute with the given name
func (p *Properties) Delete(name string) {
	p.Attrs = deleteAttr(p.Attrs, name)
	p.Trailing = deleteAttr(p.Trailing, name)
}

func deleteAttr(attrs []*Attr, name string) []*Attr {
	out := attrs[:0]
	for _, a := range attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}

// All returns every attribute in source order
func (p *Properties) All() []*Attr {
	all := make([]*Attr, 0, len(p.Attrs)+len(p.Trailing))
	all = append(all, p.Attrs...)
	return append(all, p.Trailing...)
}

// Geometry returns the x, y, w, h attributes. ok is false unless all four are
// present.
func (p *Properties) Geometry() (r Rect, ok bool) {
	var okX, okY, okW, okH bool
	r.X, okX = p.Int("x")
	r.Y, okY = p.Int("y")
	r.W, okW = p.Int("w")
	r.H, okH = p.Int("h")
	return r, okX && okY && okW && okH
}

// SetGeometry writes x, y, w, h. Fields that do not change are left untouched.
func (p *Properties) SetGeometry(r Rect) {
	p.setIfChanged("x", r.X)
	p.setIfChanged("y", r.Y)
	p.setIfChanged("w", r.W)
	p.setIfChanged("h", r.H)
}

// SetPosition writes x and y
func (p *Properties) SetPosition(x, y int) {
	p.setIfChanged("x", x)
	p.setIfChanged("y", y)
}

// SetSize writes w and h
func (p *Properties) SetSize(w, h int) {
	p.setIfChanged("w", w)
	p.setIfChanged("h", h)
}

func (p *Properties) setIfChanged(name string, n int) {
	if cur, ok := p.Int(name); ok && cur == n {
		return
	}
	p.SetInt(name, n)
}

// ReplaceText replaces old with new inside every string-bearing value.
// It returns the number of attributes changed.
func (p *Properties) ReplaceText(old, new string) int {
	if old == "" {
		return 0
	}
	changed := 0
	for _, a := range p.All() {
		if v, ok := replaceInValue(a.Value(), old, new); ok {
			a.Set(v)
			changed++
		}
	}
	return changed
}

func replaceInValue(v core.Value, old, new string) (core.Value, bool) {
	switch val := v.(type) {
	case core.String:
		if strings.Contains(string(val), old) {
			return core.String(strings.ReplaceAll(string(val), old, new)), true
		}
	case core.Raw:
		if strings.Contains(string(val), old) {
			return core.Raw(strings.ReplaceAll(string(val), old, new)), true
		}
	case core.List:
		var out core.List
		for i, item := range val {
			if r, ok := replaceInValue(item, old, new); ok {
				if out == nil {
					out = append(core.List(nil), val...)
				}
				out[i] = r
			}
		}
		if out != nil {
			return out, true
		}
	case core.Block:
		var out core.Block
		for i, e := range val {
			if r, ok := replaceInValue(e.Value, old, new); ok {
				if out == nil {
					out = append(core.Block(nil), val...)
				}
				out[i].Value = r
			}
		}
		if out != nil {
			return out, true
		}
	}
	return nil, false
}

func cloneAttrs(attrs []*Attr) []*Attr {
	if attrs == nil {
		return nil
	}
	out := make([]*Attr, len(attrs))
	for i, a := range attrs {
		out[i] = a.clone()
	}
	return out
}
