package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
)

// Option configures parsing
type Option func(*options)

type options struct {
	path     string
	encoding format.Encoding
}

// WithPath sets the file name reported in errors
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithEncoding sets the character encoding used by Parse and ParseFile.
// The default is Latin-1.
func WithEncoding(enc format.Encoding) Option {
	return func(o *options) {
		o.encoding = enc
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse reads a display file from r
func Parse(r io.Reader, opts ...Option) (*model.Document, error) {
	o := buildOptions(opts)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	src, err := format.Decode(data, o.encoding)
	if err != nil {
		return nil, err
	}
	return parseDocument(src, o)
}

// ParseBytes parses a display file held in memory
func ParseBytes(data []byte, opts ...Option) (*model.Document, error) {
	o := buildOptions(opts)
	src, err := format.Decode(data, o.encoding)
	if err != nil {
		return nil, err
	}
	return parseDocument(src, o)
}

// ParseString parses already decoded display file text
func ParseString(src string, opts ...Option) (*model.Document, error) {
	return parseDocument(src, buildOptions(opts))
}

// ParseFile reads and parses a display file
func ParseFile(path string, opts ...Option) (*model.Document, error) {
	o := buildOptions(opts)
	if o.path == "" {
		o.path = path
	}
	src, err := format.ReadFile(path, o.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	return parseDocument(src, o)
}

// ParseObjects parses a header-less list of objects, as found in widget
// catalogs. Lines outside objects are kept as trivia instead of being errors.
func ParseObjects(src string, opts ...Option) ([]*model.Object, error) {
	p := newParser(src, buildOptions(opts))
	p.lenient = true
	objs, _, _, err := p.parseObjectList(false)
	if err != nil {
		return nil, err
	}
	return objs, nil
}

func parseDocument(src string, o options) (*model.Document, error) {
	p := newParser(src, o)
	return p.parseDocument()
}

type parser struct {
	lines   []core.Line
	pos     int
	path    string
	size    int64
	lenient bool
}

func newParser(src string, o options) *parser {
	return &parser{
		lines: core.SplitLines(src),
		path:  o.path,
		size:  int64(len(src)),
	}
}

func (p *parser) next() (core.Line, bool) {
	if p.pos >= len(p.lines) {
		return core.Line{}, false
	}
	l := p.lines[p.pos]
	p.pos++
	return l, true
}

// trivia consumes blank and comment lines
func (p *parser) trivia() []core.Line {
	var out []core.Line
	for p.pos < len(p.lines) && p.lines[p.pos].IsTrivia() {
		out = append(out, p.lines[p.pos])
		p.pos++
	}
	return out
}

func (p *parser) errorf(line core.Line, format string, args ...any) *FormatError {
	return &FormatError{
		Path:   p.path,
		Line:   line.Num,
		Offset: line.Offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) eofErrorf(format string, args ...any) *FormatError {
	return &FormatError{
		Path:   p.path,
		Line:   len(p.lines) + 1,
		Offset: p.size,
		Msg:    "unexpected end of file: " + fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseDocument() (*model.Document, error) {
	doc := &model.Document{Lead: p.trivia()}

	vl, ok := p.next()
	if !ok {
		return nil, p.eofErrorf("missing version line")
	}
	v, err := model.ParseVersion(vl.Trimmed())
	if err != nil {
		return nil, p.errorf(vl, "bad version line: %v", err)
	}
	doc.Version = v
	doc.SetVersionLine(&vl)
	doc.SetEOL(vl.EOL)

	header := &model.Header{Lead: p.trivia()}
	bl, ok := p.next()
	if !ok {
		e := p.eofErrorf("%v", ErrNoHeader)
		e.Err = ErrNoHeader
		return nil, e
	}
	if bl.Trimmed() != "beginScreenProperties" {
		e := p.errorf(bl, "%v, got %q", ErrNoHeader, bl.Trimmed())
		e.Err = ErrNoHeader
		return nil, e
	}
	header.Begin = &bl

	props, endLead, endLine, err := p.parseAttrs("endScreenProperties", nil)
	if err != nil {
		return nil, err
	}
	header.Properties = props
	header.EndLead = endLead
	header.End = endLine
	doc.Header = header

	objs, tail, _, err := p.parseObjectList(false)
	if err != nil {
		return nil, err
	}
	doc.Objects = objs
	doc.Tail = tail
	return doc, nil
}

// parseObjectList reads objects until EOF or, inside a group, endGroup.
// It returns the trivia before the terminator and the endGroup line.
func (p *parser) parseObjectList(inGroup bool) ([]*model.Object, []core.Line, *core.Line, error) {
	var objs []*model.Object
	var lead []core.Line
	for {
		lead = append(lead, p.trivia()...)
		line, ok := p.next()
		if !ok {
			if inGroup {
				return nil, nil, nil, p.eofErrorf("missing endGroup")
			}
			return objs, lead, nil, nil
		}

		t := line.Trimmed()
		if inGroup && t == "endGroup" {
			return objs, lead, &line, nil
		}
		if _, ok := model.ClassFromLine(t); ok {
			obj, err := p.parseObject(line, lead)
			if err != nil {
				return nil, nil, nil, err
			}
			objs = append(objs, obj)
			lead = nil
			continue
		}
		if p.lenient {
			lead = append(lead, line)
			continue
		}
		if t == "endGroup" {
			return nil, nil, nil, p.errorf(line, "endGroup without beginGroup")
		}
		return nil, nil, nil, p.errorf(line, "expected object, got %q", t)
	}
}

func (p *parser) parseObject(objLine core.Line, lead []core.Line) (*model.Object, error) {
	class, _ := model.ClassFromLine(objLine.Trimmed())
	obj := &model.Object{Class: class}

	if n := len(lead); n > 0 {
		if typ, ok := model.TypeFromComment(lead[n-1].Text); ok {
			tl := lead[n-1]
			obj.Type = typ
			obj.Source.TypeLine = &tl
			lead = lead[:n-1]
		}
	}
	obj.Lead = lead
	obj.Source.ObjectLine = &objLine
	obj.Source.PreBegin = p.trivia()

	bl, ok := p.next()
	if !ok {
		return nil, p.eofErrorf("object %s without beginObjectProperties", class)
	}
	if bl.Trimmed() != "beginObjectProperties" {
		return nil, p.errorf(bl, "object %s without beginObjectProperties", class)
	}
	obj.Source.BeginLine = &bl

	props, endLead, endLine, err := p.parseAttrs("endObjectProperties", obj)
	if err != nil {
		return nil, err
	}
	obj.Properties = props
	obj.EndLead = endLead
	obj.Source.EndLine = endLine
	return obj, nil
}

// parseAttrs reads attribute lines up to the end keyword. For objects, a
// beginGroup section is parsed into obj.Group and attributes after it are
// returned as trailing attributes.
func (p *parser) parseAttrs(end string, obj *model.Object) (model.Properties, []core.Line, *core.Line, error) {
	var props model.Properties
	var pending []core.Line
	afterGroup := false

	for {
		line, ok := p.next()
		if !ok {
			return props, nil, nil, p.eofErrorf("missing %s", end)
		}
		if line.IsTrivia() {
			pending = append(pending, line)
			continue
		}

		t := line.Trimmed()
		switch {
		case t == end:
			return props, pending, &line, nil

		case t == "beginGroup":
			if obj == nil {
				return props, nil, nil, p.errorf(line, "beginGroup outside an object")
			}
			if obj.Group != nil {
				return props, nil, nil, p.errorf(line, "duplicate beginGroup")
			}
			begin := line
			children, tail, endLine, err := p.parseObjectList(true)
			if err != nil {
				return props, nil, nil, err
			}
			obj.Group = &model.Group{
				Lead:     pending,
				Children: children,
				Tail:     tail,
				Begin:    &begin,
				End:      endLine,
			}
			pending = nil
			afterGroup = true

		case t == "endGroup":
			return props, nil, nil, p.errorf(line, "endGroup without beginGroup")

		case isStructural(t):
			return props, nil, nil, p.errorf(line, "unexpected %q before %s", t, end)

		default:
			attr, err := p.parseAttr(line, pending)
			if err != nil {
				return props, nil, nil, err
			}
			pending = nil
			if afterGroup {
				props.Trailing = append(props.Trailing, attr)
			} else {
				props.Attrs = append(props.Attrs, attr)
			}
		}
	}
}

func (p *parser) parseAttr(line core.Line, lead []core.Line) (*model.Attr, error) {
	name, rest := core.SplitKey(line.Text)
	raw := []core.Line{line}

	if rest != "{" {
		a := model.ParsedAttr(name, core.ParseValue(rest), raw)
		a.Lead = lead
		return a, nil
	}

	var body []string
	for {
		l, ok := p.next()
		if !ok {
			return nil, p.errorf(line, "unterminated block %q", name)
		}
		raw = append(raw, l)
		t := l.Trimmed()
		if t == "}" {
			break
		}
		if t != "" {
			body = append(body, t)
		}
	}
	a := model.ParsedAttr(name, core.ParseBlock(body), raw)
	a.Lead = lead
	return a, nil
}

func isStructural(t string) bool {
	switch t {
	case "beginScreenProperties", "endScreenProperties",
		"beginObjectProperties", "endObjectProperties":
		return true
	}
	return strings.HasPrefix(t, "object ")
}
