package writer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
)

// Write serializes doc to w
func Write(w io.Writer, doc *model.Document) error {
	if _, err := io.WriteString(w, String(doc)); err != nil {
		return fmt.Errorf("failed to write display: %w", err)
	}
	return nil
}

// String serializes doc to a string
func String(doc *model.Document) string {
	var b strings.Builder
	dw := &docWriter{b: &b, eol: doc.EOL()}
	dw.document(doc)
	return b.String()
}

// Bytes serializes doc and encodes it
func Bytes(doc *model.Document, enc format.Encoding) ([]byte, error) {
	return format.Encode(String(doc), enc)
}

// WriteFile serializes doc and writes it atomically to path
func WriteFile(path string, doc *model.Document, enc format.Encoding) error {
	return format.WriteFile(path, String(doc), enc)
}

// ObjectString renders a single object and its children
func ObjectString(o *model.Object) string {
	var b strings.Builder
	dw := &docWriter{b: &b, eol: "\n"}
	dw.object(o)
	return b.String()
}

// Changed reports whether serializing doc would produce something other than
// original
func Changed(doc *model.Document, original []byte, enc format.Encoding) (bool, error) {
	out, err := Bytes(doc, enc)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(out, original), nil
}

type docWriter struct {
	b       *strings.Builder
	eol     string
	needEOL bool // last line written had no terminator
}

func (w *docWriter) write(text, eol string) {
	if w.needEOL {
		w.b.WriteString(w.eol)
		w.needEOL = false
	}
	w.b.WriteString(text)
	w.b.WriteString(eol)
	w.needEOL = eol == ""
}

func (w *docWriter) raw(l core.Line) {
	w.write(l.Text, l.EOL)
}

func (w *docWriter) lines(ls []core.Line) {
	for _, l := range ls {
		w.raw(l)
	}
}

func (w *docWriter) text(s string) {
	w.write(s, w.eol)
}

// line writes a structural source line, or the canonical keyword when the
// element was created in memory
func (w *docWriter) line(src *core.Line, keyword string) {
	if src != nil {
		w.raw(*src)
		return
	}
	w.text(keyword)
}

func (w *docWriter) document(doc *model.Document) {
	w.lines(doc.Lead)
	if vl := doc.VersionLine(); vl != nil {
		w.raw(*vl)
	} else {
		w.text(doc.Version.String())
	}

	h := doc.Header
	if h == nil {
		h = &model.Header{}
	}
	w.lines(h.Lead)
	w.line(h.Begin, "beginScreenProperties")
	w.attrs(h.Attrs)
	w.attrs(h.Trailing)
	w.lines(h.EndLead)
	w.line(h.End, "endScreenProperties")
	if h.End == nil && len(doc.Objects) > 0 && len(doc.Objects[0].Lead) == 0 {
		w.text("")
	}

	for _, o := range doc.Objects {
		w.object(o)
	}
	w.lines(doc.Tail)
}

func (w *docWriter) object(o *model.Object) {
	w.lines(o.Lead)

	if tl := o.Source.TypeLine; tl != nil && typeOf(tl) == o.Type {
		w.raw(*tl)
	} else if o.Type != "" {
		w.text("# (" + o.Type + ")")
	}

	if ol := o.Source.ObjectLine; ol != nil && classOf(ol) == o.Class {
		w.raw(*ol)
	} else {
		w.text("object " + o.Class)
	}

	w.lines(o.Source.PreBegin)
	w.line(o.Source.BeginLine, "beginObjectProperties")
	w.attrs(o.Attrs)

	if g := o.Group; g != nil {
		w.lines(g.Lead)
		w.line(g.Begin, "beginGroup")
		if g.Begin == nil {
			w.text("")
		}
		for _, c := range g.Children {
			w.object(c)
		}
		w.lines(g.Tail)
		w.line(g.End, "endGroup")
		if g.End == nil {
			w.text("")
		}
	}

	w.attrs(o.Trailing)
	w.lines(o.EndLead)
	w.line(o.Source.EndLine, "endObjectProperties")
	if o.Source.EndLine == nil {
		w.text("")
	}
}

func typeOf(l *core.Line) string {
	t, _ := model.TypeFromComment(l.Text)
	return t
}

func classOf(l *core.Line) string {
	c, _ := model.ClassFromLine(l.Trimmed())
	return c
}

func (w *docWriter) attrs(attrs []*model.Attr) {
	for _, a := range attrs {
		w.attr(a)
	}
}

func (w *docWriter) attr(a *model.Attr) {
	w.lines(a.Lead)
	if !a.Modified() {
		w.lines(a.Raw())
		return
	}

	indent := a.Indent()
	eol := a.EOL()
	if eol == "" {
		eol = w.eol
	}

	switch v := a.Value().(type) {
	case core.Flag:
		w.write(indent+a.Name, eol)
	case core.Multiline:
		w.write(indent+a.Name+" {", eol)
		for _, item := range v.Lines() {
			w.write(indent+"  "+item, eol)
		}
		w.write(indent+"}", eol)
	default:
		w.write(indent+a.Name+" "+v.String(), eol)
	}
}
