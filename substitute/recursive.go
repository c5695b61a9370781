package substitute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
	"github.com/tsawler/edlkit/writer"
)

// frame is one file on the traversal stack
type frame struct {
	path      string
	doc       *model.Document
	original  []byte // nil for the root document
	refs      []string
	next      int
	rewritten int
}

// ApplyRecursive rewrites doc and every display it embeds, directly or
// through other displays. docPath locates doc so relative references can be
// resolved.
//
// This writes files other than doc. Each file is visited once and is written
// as soon as everything below it has been processed, only if its content
// changed; doc itself is updated in memory and left for the caller to save.
// Result.Visited and Result.Written record the traversal as it goes.
//
// A reference that cannot be resolved or parsed skips that branch; the error
// is joined into the returned error and the walk continues. A cycle, an
// embedding chain deeper than the maximum depth or a cancelled context stops
// the walk at once. Files already written stay written and doc is left
// unchanged.
func (e *Engine) ApplyRecursive(ctx context.Context, doc *model.Document, docPath string) (*Result, error) {
	res := &Result{}
	var errs []error
	done := make(map[string]bool)
	onStack := make(map[string]bool)

	work := doc.Clone()
	push := func(stack []*frame, path string, d *model.Document, original []byte) []*frame {
		f := &frame{path: path, doc: d, original: original}
		res.Visited = append(res.Visited, path)
		done[path] = true
		onStack[path] = true
		f.rewritten = e.Apply(d)
		res.Rewritten += f.rewritten
		f.refs = e.references(d, res)
		e.log.Debug().Str("path", path).Int("depth", len(stack)).Int("rewritten", f.rewritten).Msg("visited")
		return append(stack, f)
	}

	stack := push(nil, filepath.Clean(docPath), work, nil)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		top := stack[len(stack)-1]
		if top.next == len(top.refs) {
			stack = stack[:len(stack)-1]
			onStack[top.path] = false
			if err := e.commit(top, res); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		ref := top.refs[top.next]
		top.next++

		target, err := e.Resolve(top.path, ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if onStack[target] {
			return res, &CycleError{Chain: append(chain(stack), target)}
		}
		if done[target] {
			continue
		}
		// the stack holds depths 0..len(stack)-1; target would be len(stack)
		if len(stack) > e.maxDepth {
			return res, &DepthError{Path: target, Max: e.maxDepth}
		}

		data, err := e.fs.ReadFile(target)
		if err == nil {
			var child *model.Document
			child, err = reader.ParseBytes(data, reader.WithPath(target), reader.WithEncoding(e.encoding))
			if err == nil {
				stack = push(stack, target, child, data)
				continue
			}
		}
		done[target] = true
		errs = append(errs, &UnknownReferenceError{From: top.path, Ref: ref, Resolved: target, Err: err})
	}

	*doc = *work
	return res, errors.Join(errs...)
}

func chain(stack []*frame) []string {
	paths := make([]string, len(stack))
	for i, f := range stack {
		paths[i] = f.path
	}
	return paths
}

// commit writes a fully processed file back if its content changed. The root
// document is never written.
func (e *Engine) commit(f *frame, res *Result) error {
	if f.original == nil || f.rewritten == 0 {
		return nil
	}
	after, err := writer.Bytes(f.doc, e.encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}
	if bytes.Equal(after, f.original) {
		return nil
	}
	res.Changes = append(res.Changes, Change{Path: f.path, Before: f.original, After: after})
	if e.dryRun {
		e.log.Info().Str("path", f.path).Msg("would rewrite")
		return nil
	}
	if err := e.fs.WriteFile(f.path, after); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	e.log.Info().Str("path", f.path).Msg("rewrote")
	res.Written = append(res.Written, f.path)
	return nil
}

// references lists the distinct display paths embedded in doc, in draw
// order. Paths built from macros cannot be followed and produce a warning.
func (e *Engine) references(doc *model.Document, res *Result) []string {
	var refs []string
	seen := make(map[string]bool)
	doc.Walk(func(o, _ *model.Object) bool {
		if !o.IsEmbedded() {
			return true
		}
		for _, ref := range o.References() {
			if ref.Path == "" || seen[ref.Path] {
				continue
			}
			seen[ref.Path] = true
			if strings.Contains(ref.Path, "$(") {
				res.Warnings = append(res.Warnings, model.WarnObject(o, "reference %q depends on macros; not followed", ref.Path))
				continue
			}
			refs = append(refs, ref.Path)
		}
		return true
	})
	return refs
}
