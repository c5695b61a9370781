package model

import (
	"strings"

	"github.com/tsawler/edlkit/core"
)

// Object is a widget in a display. Objects of class activeGroupClass are
// containers and hold child objects in Group; every other object is a leaf.
type Object struct {
	Type  string // display type name from the "# (Type)" comment
	Class string // widget class from the "object" line

	Lead []core.Line // trivia before the type comment
	Properties
	Group   *Group      // nil for leaf widgets
	EndLead []core.Line // trivia before endObjectProperties

	Source ObjectSource
}

// ObjectSource holds the structural lines an object was parsed from.
// Nil lines are rendered canonically.
type ObjectSource struct {
	TypeLine   *core.Line  // "# (Type)"
	ObjectLine *core.Line  // "object <class>"
	PreBegin   []core.Line // trivia between the object line and beginObjectProperties
	BeginLine  *core.Line
	EndLine    *core.Line
}

// Group is the child list of a container object
type Group struct {
	Lead     []core.Line // trivia before beginGroup
	Children []*Object
	Tail     []core.Line // trivia before endGroup

	Begin *core.Line
	End   *core.Line
}

// NewObject creates an empty object of the given display type. The class is
// looked up in the class registry.
func NewObject(typeName string) *Object {
	return NewObjectWithClass(typeName, ClassForType(typeName))
}

// NewObjectWithClass creates an object with explicit type and class and the
// default version and geometry attributes
func NewObjectWithClass(typeName, class string) *Object {
	o := &Object{Type: typeName, Class: class}
	o.SetInt("major", 4)
	o.SetInt("minor", 0)
	o.SetInt("release", 0)
	o.SetInt("x", 0)
	o.SetInt("y", 0)
	o.SetInt("w", 100)
	o.SetInt("h", 100)
	if class == ClassGroup {
		o.Group = &Group{}
	}
	return o
}

// NewGroup creates an empty container object
func NewGroup() *Object {
	return NewObjectWithClass(TypeGroup, ClassGroup)
}

// IsContainer reports whether the object holds child objects
func (o *Object) IsContainer() bool {
	return o.Group != nil
}

// Children returns the child objects of a container, or nil
func (o *Object) Children() []*Object {
	if o.Group == nil {
		return nil
	}
	return o.Group.Children
}

// Add appends child objects to a container
func (o *Object) Add(children ...*Object) {
	if o.Group == nil {
		o.Group = &Group{}
	}
	o.Group.Children = append(o.Group.Children, children...)
}

// Move translates the object and all of its descendants by (dx, dy),
// including line point lists
func (o *Object) Move(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	if x, ok := o.Int("x"); ok {
		o.setIfChanged("x", x+dx)
	}
	if y, ok := o.Int("y"); ok {
		o.setIfChanged("y", y+dy)
	}
	o.MapPoints("xPoints", func(p int) int { return p + dx })
	o.MapPoints("yPoints", func(p int) int { return p + dy })
	for _, c := range o.Children() {
		c.Move(dx, dy)
	}
}

// MapPoints applies fn to every integer in a point list attribute such as
// xPoints, in either the plain or the indexed form. Non-integer items and
// index keys are left as they are.
func (o *Object) MapPoints(name string, fn func(int) int) {
	a := o.Attr(name)
	if a == nil {
		return
	}
	switch v := a.Value().(type) {
	case core.List:
		out := make(core.List, len(v))
		for i, item := range v {
			out[i] = mapInt(item, fn)
		}
		a.Set(out)
	case core.Block:
		// keyed form: "0 100", "1 140"
		out := make(core.Block, len(v))
		for i, e := range v {
			out[i] = core.Entry{Key: e.Key, Value: mapInt(e.Value, fn)}
		}
		a.Set(out)
	}
}

func mapInt(v core.Value, fn func(int) int) core.Value {
	if n, ok := v.(core.Int); ok {
		return core.Int(fn(int(n)))
	}
	return v
}

// ReplaceTextDeep replaces text in the object and all of its descendants
func (o *Object) ReplaceTextDeep(old, new string) int {
	n := o.ReplaceText(old, new)
	for _, c := range o.Children() {
		n += c.ReplaceTextDeep(old, new)
	}
	return n
}

// TypeFromComment extracts the type name from a "# (Type)" line
func TypeFromComment(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "#") {
		return "", false
	}
	t = strings.TrimSpace(t[1:])
	if len(t) < 2 || t[0] != '(' || t[len(t)-1] != ')' {
		return "", false
	}
	return t[1 : len(t)-1], true
}

// ClassFromLine extracts the class from an "object <class>" line
func ClassFromLine(line string) (string, bool) {
	key, rest := core.SplitKey(line)
	if key != "object" || rest == "" || strings.ContainsAny(rest, " \t") {
		return "", false
	}
	return rest, true
}

// Clone returns a deep copy of the object and its descendants
func (o *Object) Clone() *Object {
	c := *o
	c.Attrs = cloneAttrs(o.Attrs)
	c.Trailing = cloneAttrs(o.Trailing)
	if o.Group != nil {
		g := *o.Group
		g.Children = make([]*Object, len(o.Group.Children))
		for i, child := range o.Group.Children {
			g.Children[i] = child.Clone()
		}
		c.Group = &g
	}
	return &c
}
