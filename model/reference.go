package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/edlkit/core"
)

// Attribute names used by embedded windows
const (
	AttrDisplayFileName = "displayFileName"
	AttrFile            = "file"
	AttrSymbols         = "symbols"
	AttrFilePv          = "filePv"
	AttrNumDsps         = "numDsps"
)

// Macro is a single NAME=value substitution
type Macro struct {
	Name  string
	Value string
}

// MacroList is an ordered list of macros as written in a symbols entry,
// e.g. "P=SR01,M=1"
type MacroList []Macro

// ParseMacros parses a comma separated macro list. Entries without "=" are
// kept with an empty value.
func ParseMacros(s string) MacroList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var list MacroList
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		list = append(list, Macro{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return list
}

// String renders the list in symbols syntax
func (m MacroList) String() string {
	parts := make([]string, len(m))
	for i, mac := range m {
		parts[i] = mac.Name + "=" + mac.Value
	}
	return strings.Join(parts, ",")
}

// Format renders the list like String but keeps the text of entries that
// are unchanged from src, the list as previously written. Spacing around
// untouched entries survives a rewrite of another one.
func (m MacroList) Format(src string) string {
	var raw []string
	for _, part := range strings.Split(src, ",") {
		if strings.TrimSpace(part) != "" {
			raw = append(raw, part)
		}
	}
	old := ParseMacros(src)
	if len(raw) != len(old) {
		return m.String()
	}

	parts := make([]string, len(m))
	for i, mac := range m {
		switch {
		case i < len(old) && old[i] == mac:
			parts[i] = raw[i]
		case i < len(raw):
			lead := raw[i][:len(raw[i])-len(strings.TrimLeft(raw[i], " \t"))]
			parts[i] = lead + mac.Name + "=" + mac.Value
		default:
			parts[i] = mac.Name + "=" + mac.Value
		}
	}
	return strings.Join(parts, ",")
}

// Get returns the value of a macro. Later entries win.
func (m MacroList) Get(name string) (string, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Name == name {
			return m[i].Value, true
		}
	}
	return "", false
}

// Set returns a copy of the list with name set to value. The first entry with
// that name is updated in place and any later duplicates are dropped; a new
// name is appended.
func (m MacroList) Set(name, value string) MacroList {
	out := make(MacroList, 0, len(m)+1)
	found := false
	for _, mac := range m {
		if mac.Name == name {
			if found {
				continue
			}
			found = true
			mac.Value = value
		}
		out = append(out, mac)
	}
	if !found {
		out = append(out, Macro{Name: name, Value: value})
	}
	return out
}

// Map returns the macros as a map with last-write-wins semantics
func (m MacroList) Map() map[string]string {
	out := make(map[string]string, len(m))
	for _, mac := range m {
		out[mac.Name] = mac.Value
	}
	return out
}

// Equal reports whether two lists hold the same entries in the same order
func (m MacroList) Equal(other MacroList) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Reference is one display referenced by an embedded window
type Reference struct {
	Key    string // displayFileName entry key, or "" for a single file attribute
	Path   string
	Macros MacroList
}

// References returns the displays referenced by an embedded window, ordered
// by entry key. Objects of other classes return nil.
func (o *Object) References() []Reference {
	if !o.IsEmbedded() {
		return nil
	}

	var symbols core.Block
	if v, ok := o.Get(AttrSymbols); ok {
		symbols, _ = v.(core.Block)
	}

	var refs []Reference
	if v, ok := o.Get(AttrDisplayFileName); ok {
		if files, ok := v.(core.Block); ok {
			for _, e := range files {
				path, ok := e.Value.(core.String)
				if !ok {
					continue
				}
				ref := Reference{Key: e.Key, Path: string(path)}
				if m, ok := symbols.GetString(e.Key); ok {
					ref.Macros = ParseMacros(m)
				}
				refs = append(refs, ref)
			}
		}
	}
	if file, ok := o.Text(AttrFile); ok && file != "" {
		ref := Reference{Path: file}
		if m, ok := o.Text("macros"); ok {
			ref.Macros = ParseMacros(m)
		}
		refs = append(refs, ref)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return keyOrder(refs[i].Key) < keyOrder(refs[j].Key)
	})
	return refs
}

func keyOrder(key string) int {
	n, err := strconv.Atoi(key)
	if err != nil {
		return -1
	}
	return n
}

// SetReference writes a reference back to the embedded window. Only the
// attributes whose content actually changes are touched, so an unchanged
// reference leaves the source text as it was.
func (o *Object) SetReference(ref Reference) {
	var current *Reference
	for _, r := range o.References() {
		if r.Key == ref.Key {
			r := r
			current = &r
			break
		}
	}

	if ref.Key == "" {
		if current == nil || current.Path != ref.Path {
			o.SetString(AttrFile, ref.Path)
		}
		if current == nil || !current.Macros.Equal(ref.Macros) {
			src, _ := o.Text("macros")
			o.SetString("macros", ref.Macros.Format(src))
		}
		return
	}

	if current == nil || current.Path != ref.Path {
		var files core.Block
		if v, ok := o.Get(AttrDisplayFileName); ok {
			files, _ = v.(core.Block)
		}
		o.Set(AttrDisplayFileName, files.With(ref.Key, core.String(ref.Path)))
		if current == nil {
			if n, ok := o.Int(AttrNumDsps); !ok || n < len(files)+1 {
				o.SetInt(AttrNumDsps, len(files)+1)
			}
		}
	}

	var old MacroList
	if current != nil {
		old = current.Macros
	}
	if !old.Equal(ref.Macros) {
		var symbols core.Block
		if v, ok := o.Get(AttrSymbols); ok {
			symbols, _ = v.(core.Block)
		}
		src, _ := symbols.GetString(ref.Key)
		o.Set(AttrSymbols, symbols.With(ref.Key, core.String(ref.Macros.Format(src))))
	}
}

// NewEmbeddedWindow creates an embedded window showing a single display
func NewEmbeddedWindow(r Rect, path string, macros MacroList) *Object {
	o := NewObjectWithClass(TypeEmbeddedWindow, ClassEmbeddedWindow)
	o.SetGeometry(r)
	o.SetString("displaySource", "menu")
	o.SetString(AttrFilePv, `LOC\dummy=i:0`)
	o.Set(AttrDisplayFileName, core.Block{{Key: "0", Value: core.String(path)}})
	if len(macros) > 0 {
		o.Set(AttrSymbols, core.Block{{Key: "0", Value: core.String(macros.String())}})
	}
	o.SetInt(AttrNumDsps, 1)
	o.Set("noScroll", core.Flag{})
	return o
}

// IsStatic reports whether an embedded window always shows the same display,
// which is the case when its selector PV is a local dummy
func (o *Object) IsStatic() bool {
	pv, _ := o.Text(AttrFilePv)
	return strings.Contains(pv, "dummy")
}
