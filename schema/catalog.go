package schema

import (
	"fmt"
	"sort"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
)

// Catalog holds one example object per widget type, as dumped by EDM
type Catalog struct {
	byType  map[string]*model.Object
	byClass map[string]*model.Object
	types   []string
}

// Load reads a widget catalog file. The file may be a plain list of objects
// or a complete display.
func Load(path string) (*Catalog, error) {
	src, err := format.ReadFile(path, format.Latin1)
	if err != nil {
		return nil, fmt.Errorf("failed to read widget catalog: %w", err)
	}
	c, err := Parse(src, reader.WithPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse widget catalog: %w", err)
	}
	return c, nil
}

// Parse builds a catalog from catalog text
func Parse(src string, opts ...reader.Option) (*Catalog, error) {
	var objs []*model.Object
	if format.DetectFromMagic([]byte(src)) == format.Display {
		doc, err := reader.ParseString(src, opts...)
		if err != nil {
			return nil, err
		}
		objs = doc.Objects
	} else {
		var err error
		objs, err = reader.ParseObjects(src, opts...)
		if err != nil {
			return nil, err
		}
	}

	c := &Catalog{
		byType:  make(map[string]*model.Object),
		byClass: make(map[string]*model.Object),
	}
	model.Walk(objs, func(o, _ *model.Object) bool {
		c.add(o)
		return true
	})
	return c, nil
}

func (c *Catalog) add(o *model.Object) {
	if o.Class == "" {
		return
	}
	if _, ok := c.byClass[o.Class]; !ok {
		c.byClass[o.Class] = o
	}
	if o.Type == "" {
		return
	}
	if _, ok := c.byType[o.Type]; !ok {
		c.byType[o.Type] = o
		c.types = append(c.types, o.Type)
	}
}

// Len returns the number of widget classes in the catalog
func (c *Catalog) Len() int {
	return len(c.byClass)
}

// Known reports whether a widget class is in the catalog
func (c *Catalog) Known(class string) bool {
	_, ok := c.byClass[class]
	return ok
}

// ClassOf returns the class of a display type name
func (c *Catalog) ClassOf(typeName string) (string, bool) {
	o, ok := c.byType[typeName]
	if !ok {
		return "", false
	}
	return o.Class, true
}

// Template returns a copy of the example object for a display type name
func (c *Catalog) Template(typeName string) (*model.Object, bool) {
	o, ok := c.byType[typeName]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

// Types returns the display type names in catalog order
func (c *Catalog) Types() []string {
	return append([]string(nil), c.types...)
}

// Classes returns the widget classes, sorted
func (c *Catalog) Classes() []string {
	out := make([]string, 0, len(c.byClass))
	for class := range c.byClass {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Register adds the catalog's classes to the default class registry
func (c *Catalog) Register() {
	c.RegisterWith(model.DefaultRegistry)
}

// RegisterWith adds the catalog's classes to a registry
func (c *Catalog) RegisterWith(r *model.Registry) {
	for class, o := range c.byClass {
		r.Register(o.Type, class)
	}
}

// Validate checks every object in doc against the catalog. It reports
// classes the catalog does not know, type names that do not match the
// class and positioned objects with incomplete geometry.
func (c *Catalog) Validate(doc *model.Document) []model.Warning {
	var warnings []model.Warning
	doc.Walk(func(o, _ *model.Object) bool {
		if !c.Known(o.Class) {
			warnings = append(warnings, model.WarnObject(o, "unknown widget class %q", o.Class))
		} else if want, ok := c.ClassOf(o.Type); ok && want != o.Class {
			warnings = append(warnings, model.WarnObject(o, "type %q is class %q in the catalog", o.Type, want))
		}
		if missing := missingGeometry(o); len(missing) > 0 && len(missing) < 4 {
			warnings = append(warnings, model.WarnObject(o, "incomplete geometry, missing %v", missing))
		}
		return true
	})
	return warnings
}

func missingGeometry(o *model.Object) []string {
	var missing []string
	for _, name := range []string{"x", "y", "w", "h"} {
		if _, ok := o.Int(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
