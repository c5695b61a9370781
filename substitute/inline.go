package substitute

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
)

// Inline replaces embedded windows in doc by a group holding the content of
// the display they show. Only windows that always show the same display are
// inlined unless WithInlineAll is set; the first referenced display is used.
//
// The group takes the window's position and the embedded display's size.
// Objects are translated by the window's position and the window's macros are
// expanded in their attributes, with '' standing for an empty value. Objects
// lying outside the embedded display's bounds are placed at the top level
// after everything else. Embedded windows inside inlined displays are inlined
// too.
//
// Unresolvable references leave the window in place and are reported in the
// joined error. A cycle or too deep a chain aborts and leaves doc unchanged.
func (e *Engine) Inline(ctx context.Context, doc *model.Document, docPath string) (*Result, error) {
	root := filepath.Clean(docPath)
	in := &inliner{e: e, ctx: ctx, res: &Result{Visited: []string{root}}}

	work := doc.Clone()
	objs, outside, err := in.objects(work.Objects, root, []string{root})
	if err != nil {
		return in.res, err
	}
	work.Objects = append(objs, outside...)

	*doc = *work
	return in.res, errors.Join(in.errs...)
}

type inliner struct {
	e    *Engine
	ctx  context.Context
	res  *Result
	errs []error
}

// objects inlines the embedded windows among objs. from is the file objs were
// read from and chain the files being inlined, outermost first. It returns
// the new object list and the objects that must move to the top level.
func (in *inliner) objects(objs []*model.Object, from string, chain []string) ([]*model.Object, []*model.Object, error) {
	out := make([]*model.Object, 0, len(objs))
	var outside []*model.Object

	for _, o := range objs {
		if err := in.ctx.Err(); err != nil {
			return nil, nil, err
		}

		if o.IsContainer() {
			children, extra, err := in.objects(o.Children(), from, chain)
			if err != nil {
				return nil, nil, err
			}
			o.Group.Children = children
			out = append(out, o)
			outside = append(outside, extra...)
			continue
		}

		if !in.candidate(o) {
			out = append(out, o)
			continue
		}

		group, extra, err := in.inline(o, from, chain)
		if err != nil {
			var unknown *UnknownReferenceError
			if errors.As(err, &unknown) {
				in.errs = append(in.errs, err)
				out = append(out, o)
				continue
			}
			return nil, nil, err
		}
		if group == nil {
			out = append(out, o)
			continue
		}
		in.res.Inlined++
		out = append(out, group)
		outside = append(outside, extra...)
	}
	return out, outside, nil
}

func (in *inliner) candidate(o *model.Object) bool {
	if !o.IsEmbedded() {
		return false
	}
	return in.e.inlineAll || o.IsStatic()
}

// inline builds the group replacing an embedded window. A nil group means the
// window is kept as it is.
func (in *inliner) inline(o *model.Object, from string, chain []string) (*model.Object, []*model.Object, error) {
	refs := o.References()
	if len(refs) == 0 {
		in.res.Warnings = append(in.res.Warnings, model.WarnObject(o, "embedded window shows no display; not inlined"))
		return nil, nil, nil
	}
	r, ok := o.Geometry()
	if !ok {
		in.res.Warnings = append(in.res.Warnings, model.WarnObject(o, "embedded window has no geometry; not inlined"))
		return nil, nil, nil
	}

	ref, _ := in.e.rewriteRef(refs[0])
	path, err := in.e.Resolve(from, ref.Path)
	if err != nil {
		return nil, nil, err
	}
	if slices.Contains(chain, path) {
		return nil, nil, &CycleError{Chain: append(slices.Clone(chain), path)}
	}
	if len(chain) > in.e.maxDepth {
		return nil, nil, &DepthError{Path: path, Max: in.e.maxDepth}
	}

	sub, err := in.e.load(path)
	if err != nil {
		return nil, nil, &UnknownReferenceError{From: from, Ref: ref.Path, Resolved: path, Err: err}
	}
	in.res.Visited = append(in.res.Visited, path)
	in.e.log.Debug().Str("path", path).Str("into", from).Msg("inlining")

	children, extra, err := in.objects(sub.Objects, path, append(slices.Clone(chain), path))
	if err != nil {
		return nil, nil, err
	}

	canvas, ok := sub.Canvas()
	if !ok {
		canvas = model.Rect{W: r.W, H: r.H}
	}

	group := model.NewGroup()
	group.Lead = o.Lead
	group.SetGeometry(model.Rect{X: r.X, Y: r.Y, W: canvas.W, H: canvas.H})

	var outside []*model.Object
	for _, c := range append(children, extra...) {
		c.Move(r.X, r.Y)
		if cr, ok := c.Geometry(); ok && (cr.X-r.X >= canvas.W || cr.Y-r.Y >= canvas.H) {
			outside = append(outside, c)
			continue
		}
		group.Add(c)
	}
	if kids := group.Children(); len(kids) > 0 && blank(kids[0].Lead) {
		kids[0].Lead = nil
	}

	for _, m := range ref.Macros {
		value := m.Value
		if value == "''" {
			value = ""
		}
		token := "$(" + m.Name + ")"
		group.ReplaceTextDeep(token, value)
		for _, c := range outside {
			c.ReplaceTextDeep(token, value)
		}
	}
	return group, outside, nil
}

// load returns a private copy of a parsed display, caching the parse
func (e *Engine) load(path string) (*model.Document, error) {
	if doc, ok := e.cache.Get(path); ok {
		return doc.Clone(), nil
	}
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := reader.ParseBytes(data, reader.WithPath(path), reader.WithEncoding(e.encoding))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded display: %w", err)
	}
	e.cache.Add(path, doc)
	return doc.Clone(), nil
}

func blank(lines []core.Line) bool {
	for _, l := range lines {
		if l.Trimmed() != "" {
			return false
		}
	}
	return true
}
