package substitute

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
	"github.com/tsawler/edlkit/writer"
)

func display(w, h int, objects ...string) string {
	return fmt.Sprintf(`4 0 1
beginScreenProperties
major 4
minor 0
release 1
x 0
y 0
w %d
h %d
font "helvetica-medium-r-18.0"
title "test"
endScreenProperties

%s`, w, h, strings.Join(objects, ""))
}

func text(x, y int, value string) string {
	return fmt.Sprintf(`# (Static Text)
object activeXTextClass
beginObjectProperties
major 4
minor 1
release 1
x %d
y %d
w 50
h 20
font "helvetica-medium-r-12.0"
fgColor index 14
bgColor index 0
useDisplayBg
value {
  "%s"
}
endObjectProperties

`, x, y, value)
}

func embed(x, y int, filePv, file, symbols string) string {
	return fmt.Sprintf(`# (Embedded Window)
object activePipClass
beginObjectProperties
major 4
minor 1
release 0
x %d
y %d
w 200
h 100
fgColor index 14
bgColor index 0
displaySource "menu"
filePv "%s"
sizeOfs 5
numDsps 1
displayFileName {
  0 "%s"
}
symbols {
  0 "%s"
}
noScroll
endObjectProperties

`, x, y, filePv, file, symbols)
}

const static = `LOC\\dummy=i:0`

func parse(t *testing.T, fsys *MemFS, path string) *model.Document {
	t.Helper()
	doc, err := reader.ParseString(fsys.File(path), reader.WithPath(path))
	require.NoError(t, err)
	return doc
}

func textValue(t *testing.T, o *model.Object) string {
	t.Helper()
	v, ok := o.Get("value")
	require.True(t, ok)
	list, ok := v.(core.List)
	require.True(t, ok)
	require.Len(t, list.Strings(), 1)
	return list.Strings()[0]
}

func TestParseRules(t *testing.T) {
	data := []byte(`
paths:
  - from: old/motor.edl
    to: new/motor.edl
macros:
  - name: P
    match: SR01
    value: SR02
  - name: DEBUG
    value: "0"
`)
	r, err := ParseRules(data)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, []PathRule{{From: "old/motor.edl", To: "new/motor.edl"}}, r.Paths)
	assert.Equal(t, []MacroRule{{Name: "P", Match: "SR01", Value: "SR02"}, {Name: "DEBUG", Value: "0"}}, r.Macros)

	_, err = ParseRules([]byte("paths:\n  - form: a\n"))
	assert.Error(t, err)

	empty, err := ParseRules(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, empty.Validate(), ErrNoRules)

	assert.Error(t, Rules{Paths: []PathRule{{From: "a.edl"}}}.Validate())
	assert.Error(t, Rules{Macros: []MacroRule{{Value: "x"}}}.Validate())
}

func TestMatchPath(t *testing.T) {
	r := Rules{Paths: []PathRule{
		{From: "motor.edl", To: "motor2.edl"},
		{From: "./motor", To: "never.edl"},
		{From: "sub/../pump.edl", To: "pump2.edl"},
	}}

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"motor.edl", "motor2.edl", true},
		{"motor", "motor2.edl", true},
		{"pump.edl", "pump2.edl", true},
		{"valve.edl", "", false},
		{"other/motor.edl", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := r.MatchPath(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteMacros(t *testing.T) {
	r := Rules{Macros: []MacroRule{
		{Name: "P", Match: "SR01", Value: "SR02"},
		{Name: "M", Value: "9"},
	}}

	out, changed := r.RewriteMacros(model.ParseMacros("P=SR01,M=1,X=2"))
	assert.True(t, changed)
	assert.Equal(t, "P=SR02,M=9,X=2", out.String())

	out, changed = r.RewriteMacros(model.ParseMacros("P=SR03"))
	assert.False(t, changed)
	assert.Equal(t, "P=SR03", out.String())

	_, changed = r.RewriteMacros(model.ParseMacros("M=9"))
	assert.False(t, changed)
}

func TestMergeAndPathRules(t *testing.T) {
	a := Rules{Paths: PathRules(map[string]string{"b.edl": "b2.edl", "a.edl": "a2.edl"})}
	assert.Equal(t, []PathRule{{From: "a.edl", To: "a2.edl"}, {From: "b.edl", To: "b2.edl"}}, a.Paths)

	m := a.Merge(Rules{Paths: []PathRule{{From: "a.edl", To: "ignored.edl"}}})
	assert.Len(t, m.Paths, 3)
	got, _ := m.MatchPath("a.edl")
	assert.Equal(t, "a2.edl", got)
	assert.Len(t, a.Paths, 2)
}

func TestApply(t *testing.T) {
	src := display(400, 300,
		text(10, 10, "hello"),
		embed(10, 40, static, "mid.edl", "P=A"),
		embed(10, 150, static, "other.edl", "P=B"),
	)
	doc, err := reader.ParseString(src)
	require.NoError(t, err)

	e := New(Rules{
		Paths:  []PathRule{{From: "mid", To: "mid2.edl"}},
		Macros: []MacroRule{{Name: "P", Match: "B", Value: "C"}},
	})
	assert.Equal(t, 2, e.Apply(doc))

	want := strings.Replace(src, `0 "mid.edl"`, `0 "mid2.edl"`, 1)
	want = strings.Replace(want, `0 "P=B"`, `0 "P=C"`, 1)
	assert.Equal(t, want, writer.String(doc))

	// already rewritten
	assert.Equal(t, 0, e.Apply(doc))
}

func TestResolve(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/a.edl":       "",
		"/lib/b.edl":     "",
		"/lib/sub/c.edl": "",
	})
	e := New(Rules{}, WithFileSystem(fsys), WithSearchPaths("/lib"))

	tests := []struct {
		ref  string
		want string
	}{
		{"a.edl", "/d/a.edl"},
		{"a", "/d/a.edl"},
		{"b", "/lib/b.edl"},
		{"sub/c.edl", "/lib/sub/c.edl"},
		{"/lib/b.edl", "/lib/b.edl"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := e.Resolve("/d/top.edl", tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := e.Resolve("/d/top.edl", "missing")
	var unknown *UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Ref)
	assert.Equal(t, []string{"/d/missing", "/d/missing.edl", "/lib/missing", "/lib/missing.edl"}, unknown.Tried)
}

func hierarchy() *MemFS {
	return NewMemFS(map[string]string{
		"/d/top.edl":   display(400, 300, embed(10, 10, static, "mid.edl", "P=A")),
		"/d/mid.edl":   display(300, 200, embed(0, 0, static, "leaf", "P=$(P)")),
		"/d/leaf.edl":  display(100, 50, text(5, 5, "$(P)")),
		"/d/leaf2.edl": display(100, 50, text(5, 5, "$(P) v2")),
	})
}

func TestApplyRecursive(t *testing.T) {
	fsys := hierarchy()
	doc := parse(t, fsys, "/d/top.edl")
	before := writer.String(doc)

	e := New(Rules{Paths: []PathRule{{From: "leaf.edl", To: "leaf2.edl"}}}, WithFileSystem(fsys))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)

	assert.Equal(t, []string{"/d/top.edl", "/d/mid.edl", "/d/leaf2.edl"}, res.Visited)
	assert.Equal(t, 1, res.Rewritten)
	assert.Equal(t, []string{"/d/mid.edl"}, res.Written)
	assert.Equal(t, []string{"/d/mid.edl"}, fsys.Writes())
	assert.Contains(t, fsys.File("/d/mid.edl"), `0 "leaf2.edl"`)
	require.Len(t, res.Changes, 1)
	assert.Contains(t, string(res.Changes[0].Before), `0 "leaf"`)

	// the root is not rewritten
	assert.Equal(t, before, writer.String(doc))
}

func TestApplyRecursiveDryRun(t *testing.T) {
	fsys := hierarchy()
	doc := parse(t, fsys, "/d/top.edl")
	orig := fsys.File("/d/mid.edl")

	e := New(Rules{Paths: []PathRule{{From: "leaf.edl", To: "leaf2.edl"}}}, WithFileSystem(fsys), WithDryRun(true))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)

	require.Len(t, res.Changes, 1)
	assert.Equal(t, "/d/mid.edl", res.Changes[0].Path)
	assert.Empty(t, res.Written)
	assert.Empty(t, fsys.Writes())
	assert.Equal(t, orig, fsys.File("/d/mid.edl"))
}

func TestApplyRecursiveRootChange(t *testing.T) {
	fsys := hierarchy()
	doc := parse(t, fsys, "/d/top.edl")

	e := New(Rules{Macros: []MacroRule{{Name: "P", Match: "A", Value: "Z"}}}, WithFileSystem(fsys))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rewritten)
	assert.Empty(t, res.Written)
	assert.Contains(t, writer.String(doc), `0 "P=Z"`)
}

func TestApplyRecursiveSharedDisplay(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":  display(400, 300, embed(0, 0, static, "a.edl", ""), embed(0, 100, static, "b.edl", "")),
		"/d/a.edl":    display(100, 100, embed(0, 0, static, "leaf.edl", "X=1")),
		"/d/b.edl":    display(100, 100, embed(0, 0, static, "leaf.edl", "X=1")),
		"/d/leaf.edl": display(10, 10),
	})
	doc := parse(t, fsys, "/d/top.edl")

	e := New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/top.edl", "/d/a.edl", "/d/leaf.edl", "/d/b.edl"}, res.Visited)
	assert.ElementsMatch(t, []string{"/d/a.edl", "/d/b.edl"}, res.Written)
}

func TestApplyRecursiveCycle(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/a.edl": display(100, 100, embed(0, 0, static, "b.edl", "X=1")),
		"/d/b.edl": display(100, 100, embed(0, 0, static, "a.edl", "X=1")),
	})
	doc := parse(t, fsys, "/d/a.edl")
	before := writer.String(doc)

	e := New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys))
	_, err := e.ApplyRecursive(context.Background(), doc, "/d/a.edl")

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"/d/a.edl", "/d/b.edl", "/d/a.edl"}, cycle.Chain)
	assert.Empty(t, fsys.Writes())
	assert.Equal(t, before, writer.String(doc))
}

func TestApplyRecursiveCycleAfterWrites(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/a.edl":    display(100, 100, embed(0, 0, static, "done.edl", "X=1"), embed(0, 50, static, "b.edl", "X=1")),
		"/d/done.edl": display(100, 100, embed(0, 0, static, "leaf.edl", "X=1")),
		"/d/leaf.edl": display(10, 10),
		"/d/b.edl":    display(100, 100, embed(0, 0, static, "a.edl", "X=1")),
	})
	doc := parse(t, fsys, "/d/a.edl")

	e := New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/a.edl")

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"/d/done.edl"}, res.Written)
	assert.Contains(t, fsys.File("/d/done.edl"), `0 "X=2"`)
	assert.Contains(t, fsys.File("/d/b.edl"), `0 "X=1"`)
	assert.Contains(t, writer.String(doc), `0 "X=1"`)
}

func TestApplyRecursiveUnknownReference(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl": display(400, 300,
			embed(0, 0, static, "missing.edl", "X=1"),
			embed(0, 100, static, "broken.edl", "X=1"),
			embed(0, 200, static, "ok.edl", "X=1"),
		),
		"/d/broken.edl": "not a display\n",
		"/d/ok.edl":     display(100, 100, embed(0, 0, static, "gone.edl", "X=1")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	e := New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys))
	res, err := e.ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.Error(t, err)

	var unknown *UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing.edl", unknown.Ref)
	assert.Contains(t, err.Error(), "broken.edl")
	assert.Contains(t, err.Error(), "gone.edl")

	// the walk went on past the failures
	assert.Equal(t, []string{"/d/ok.edl"}, res.Written)
	assert.Contains(t, writer.String(doc), `0 "X=2"`)
}

func TestApplyRecursiveDepth(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/l0.edl": display(10, 10, embed(0, 0, static, "l1.edl", "X=1")),
		"/d/l1.edl": display(10, 10, embed(0, 0, static, "l2.edl", "X=1")),
		"/d/l2.edl": display(10, 10),
	})
	doc := parse(t, fsys, "/d/l0.edl")

	e := New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys), WithMaxDepth(1))
	_, err := e.ApplyRecursive(context.Background(), doc, "/d/l0.edl")
	var depth *DepthError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, "/d/l2.edl", depth.Path)
	assert.Empty(t, fsys.Writes())

	e = New(Rules{Macros: []MacroRule{{Name: "X", Value: "2"}}}, WithFileSystem(fsys), WithMaxDepth(2))
	_, err = e.ApplyRecursive(context.Background(), doc, "/d/l0.edl")
	assert.NoError(t, err)
}

func TestApplyRecursiveMacroPath(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl": display(100, 100, embed(0, 0, static, "$(D)/x.edl", "")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	res, err := New(Rules{}, WithFileSystem(fsys)).ApplyRecursive(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "depends on macros")
}

func TestApplyRecursiveCancelled(t *testing.T) {
	fsys := hierarchy()
	doc := parse(t, fsys, "/d/top.edl")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Rules{}, WithFileSystem(fsys)).ApplyRecursive(ctx, doc, "/d/top.edl")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInline(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":  display(400, 300, text(0, 0, "title"), embed(10, 20, static, "leaf.edl", "P=A")),
		"/d/leaf.edl": display(100, 50, text(5, 5, "$(P)"), text(200, 5, "far $(P)")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	res, err := New(Rules{}, WithFileSystem(fsys)).Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inlined)
	assert.Equal(t, []string{"/d/top.edl", "/d/leaf.edl"}, res.Visited)

	require.Len(t, doc.Objects, 3)
	group := doc.Objects[1]
	require.True(t, group.IsContainer())
	r, _ := group.Geometry()
	assert.Equal(t, model.Rect{X: 10, Y: 20, W: 100, H: 50}, r)

	require.Len(t, group.Children(), 1)
	child := group.Children()[0]
	cr, _ := child.Geometry()
	assert.Equal(t, 15, cr.X)
	assert.Equal(t, 25, cr.Y)
	assert.Equal(t, "A", textValue(t, child))

	far := doc.Objects[2]
	fr, _ := far.Geometry()
	assert.Equal(t, 210, fr.X)
	assert.Equal(t, "far A", textValue(t, far))

	// the rendered file parses again
	_, err = reader.ParseString(writer.String(doc))
	require.NoError(t, err)
}

func TestInlineNested(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":  display(400, 300, embed(100, 100, static, "mid.edl", "Q=''")),
		"/d/mid.edl":  display(200, 100, embed(10, 10, static, "leaf.edl", "P=x$(Q)y")),
		"/d/leaf.edl": display(50, 50, text(1, 2, "$(P)")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	res, err := New(Rules{}, WithFileSystem(fsys)).Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inlined)

	outer := doc.Objects[0]
	require.Len(t, outer.Children(), 1)
	inner := outer.Children()[0]
	ir, _ := inner.Geometry()
	assert.Equal(t, model.Rect{X: 110, Y: 110, W: 50, H: 50}, ir)

	leaf := inner.Children()[0]
	lr, _ := leaf.Geometry()
	assert.Equal(t, 111, lr.X)
	assert.Equal(t, 112, lr.Y)
	assert.Equal(t, "xy", textValue(t, leaf))
}

func TestInlineSkipsDynamicWindows(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":  display(400, 300, embed(0, 0, "loc://sel", "leaf.edl", "")),
		"/d/leaf.edl": display(50, 50, text(1, 2, "x")),
	})

	doc := parse(t, fsys, "/d/top.edl")
	res, err := New(Rules{}, WithFileSystem(fsys)).Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inlined)
	assert.True(t, doc.Objects[0].IsEmbedded())

	res, err = New(Rules{}, WithFileSystem(fsys), WithInlineAll(true)).Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inlined)
	assert.True(t, doc.Objects[0].IsContainer())
}

func TestInlineAppliesRules(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":   display(400, 300, embed(0, 0, static, "leaf.edl", "P=A")),
		"/d/leaf2.edl": display(50, 50, text(1, 2, "new $(P)")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	e := New(Rules{Paths: []PathRule{{From: "leaf.edl", To: "leaf2.edl"}}}, WithFileSystem(fsys))
	_, err := e.Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, "new A", textValue(t, doc.Objects[0].Children()[0]))
}

func TestInlineErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		fsys := NewMemFS(map[string]string{
			"/d/a.edl": display(100, 100, embed(0, 0, static, "b.edl", "")),
			"/d/b.edl": display(100, 100, embed(0, 0, static, "a.edl", "")),
		})
		doc := parse(t, fsys, "/d/a.edl")
		before := writer.String(doc)

		_, err := New(Rules{}, WithFileSystem(fsys)).Inline(context.Background(), doc, "/d/a.edl")
		var cycle *CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, before, writer.String(doc))
	})

	t.Run("missing", func(t *testing.T) {
		fsys := NewMemFS(map[string]string{
			"/d/top.edl":  display(400, 300, embed(0, 0, static, "gone.edl", ""), embed(0, 100, static, "leaf.edl", "")),
			"/d/leaf.edl": display(50, 50, text(1, 2, "x")),
		})
		doc := parse(t, fsys, "/d/top.edl")

		res, err := New(Rules{}, WithFileSystem(fsys)).Inline(context.Background(), doc, "/d/top.edl")
		var unknown *UnknownReferenceError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, 1, res.Inlined)
		assert.True(t, doc.Objects[0].IsEmbedded())
		assert.True(t, doc.Objects[1].IsContainer())
	})
}

func TestInlineDepth(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/l0.edl": display(100, 100, embed(0, 0, static, "l1.edl", "")),
		"/d/l1.edl": display(100, 100, embed(0, 0, static, "l2.edl", "")),
		"/d/l2.edl": display(50, 50, text(1, 2, "x")),
	})

	doc := parse(t, fsys, "/d/l0.edl")
	_, err := New(Rules{}, WithFileSystem(fsys), WithMaxDepth(1)).Inline(context.Background(), doc, "/d/l0.edl")
	var depth *DepthError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, "/d/l2.edl", depth.Path)
	assert.True(t, doc.Objects[0].IsEmbedded())

	res, err := New(Rules{}, WithFileSystem(fsys), WithMaxDepth(2)).Inline(context.Background(), doc, "/d/l0.edl")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inlined)
}

func TestInlineCache(t *testing.T) {
	fsys := NewMemFS(map[string]string{
		"/d/top.edl":  display(400, 300, embed(0, 0, static, "leaf.edl", "P=1"), embed(0, 100, static, "leaf.edl", "P=2")),
		"/d/leaf.edl": display(50, 50, text(1, 2, "$(P)")),
	})
	doc := parse(t, fsys, "/d/top.edl")

	res, err := New(Rules{}, WithFileSystem(fsys), WithCacheSize(4)).Inline(context.Background(), doc, "/d/top.edl")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inlined)
	assert.Equal(t, "1", textValue(t, doc.Objects[0].Children()[0]))
	assert.Equal(t, "2", textValue(t, doc.Objects[1].Children()[0]))
}
