package substitute

import (
	"io/fs"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
)

// Engine applies substitution rules to embedded windows and inlines embedded
// displays
type Engine struct {
	rules       Rules
	fs          FileSystem
	searchPaths []string
	maxDepth    int
	dryRun      bool
	encoding    format.Encoding
	inlineAll   bool
	cacheSize   int
	cache       *lru.Cache[string, *model.Document]
	log         zerolog.Logger
}

// Option configures the engine
type Option func(*Engine)

// WithFileSystem sets the storage displays are read from and written to
// (default: the local file system)
func WithFileSystem(fsys FileSystem) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithSearchPaths sets directories searched for referenced displays that are
// not found next to the referencing file
func WithSearchPaths(dirs ...string) Option {
	return func(e *Engine) {
		e.searchPaths = append(e.searchPaths, dirs...)
	}
}

// WithMaxDepth sets the maximum embedding depth (default: 100). The display
// being edited is depth 0, so with a maximum of 1 its embedded displays are
// followed but nothing they embed.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithDryRun computes changes without writing any file
func WithDryRun(dry bool) Option {
	return func(e *Engine) {
		e.dryRun = dry
	}
}

// WithEncoding sets the encoding of referenced displays (default: Latin-1)
func WithEncoding(enc format.Encoding) Option {
	return func(e *Engine) {
		e.encoding = enc
	}
}

// WithInlineAll inlines every embedded window, not only those that always
// show the same display
func WithInlineAll(all bool) Option {
	return func(e *Engine) {
		e.inlineAll = all
	}
}

// WithCacheSize sets how many parsed displays are kept for inlining
// (default: 64)
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithLogger sets the logger for progress messages
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine for the given rules
func New(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules:     rules,
		fs:        OSFS{},
		maxDepth:  100,
		encoding:  format.Latin1,
		cacheSize: 64,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize <= 0 {
		e.cacheSize = 1
	}
	e.cache, _ = lru.New[string, *model.Document](e.cacheSize)
	return e
}

// Rules returns the engine's rules
func (e *Engine) Rules() Rules {
	return e.rules
}

// Change is the before and after content of a rewritten file
type Change struct {
	Path   string
	Before []byte
	After  []byte
}

// Result summarises a substitution or inline run
type Result struct {
	Rewritten int      // references rewritten, over all files
	Inlined   int      // embedded windows replaced by their content
	Visited   []string // files opened, root first
	Written   []string // files written, deepest first
	Changes   []Change // file changes, including those skipped by a dry run
	Warnings  []model.Warning
}

// Apply rewrites the references of every embedded window in doc. Referenced
// files are not opened. It returns the number of references rewritten.
func (e *Engine) Apply(doc *model.Document) int {
	n := 0
	doc.Walk(func(o, _ *model.Object) bool {
		if !o.IsEmbedded() {
			return true
		}
		for _, ref := range o.References() {
			if out, changed := e.rewriteRef(ref); changed {
				o.SetReference(out)
				n++
			}
		}
		return true
	})
	return n
}

func (e *Engine) rewriteRef(ref model.Reference) (model.Reference, bool) {
	out := ref
	if to, ok := e.rules.MatchPath(ref.Path); ok {
		out.Path = to
	}
	if m, ok := e.rules.RewriteMacros(ref.Macros); ok {
		out.Macros = m
	}
	return out, out.Path != ref.Path || !out.Macros.Equal(ref.Macros)
}

// Resolve finds the file a reference in from points to. Relative references
// are tried next to from, then in each search path; a missing .edl
// extension is added.
func (e *Engine) Resolve(from, ref string) (string, error) {
	var candidates []string
	if filepath.IsAbs(ref) {
		candidates = []string{ref}
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(from), ref))
		for _, dir := range e.searchPaths {
			candidates = append(candidates, filepath.Join(dir, ref))
		}
	}

	var tried []string
	for _, c := range candidates {
		for _, p := range withExtension(c) {
			tried = append(tried, p)
			if e.fs.Exists(p) {
				return filepath.Clean(p), nil
			}
		}
	}
	return "", &UnknownReferenceError{From: from, Ref: ref, Tried: tried, Err: fs.ErrNotExist}
}

func withExtension(p string) []string {
	if filepath.Ext(p) == ".edl" {
		return []string{p}
	}
	return []string{p, p + ".edl"}
}
