package edlkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
	"github.com/tsawler/edlkit/schema"
	"github.com/tsawler/edlkit/substitute"
	"github.com/tsawler/edlkit/titlebar"
	"github.com/tsawler/edlkit/transform"
	"github.com/tsawler/edlkit/writer"
)

// ErrNoCatalog is returned by Validate when no widget catalog was set
var ErrNoCatalog = errors.New("no widget catalog")

// ErrNoFile is returned by Save for an Editor without a file name
var ErrNoFile = errors.New("no file name")

// step is one chained operation
type step struct {
	name string
	run  func(o EditOptions, doc *model.Document, path string) ([]Warning, error)
}

// Editor provides a fluent interface for editing a display.
// Each configuration method returns a new Editor instance, making it
// safe for concurrent use and allowing method chaining.
//
// Settings such as Rounding or Encoding apply to the whole chain, wherever
// they appear in it.
type Editor struct {
	// Source
	filename string
	doc      *model.Document

	// Configuration
	options EditOptions

	// Operations, in chain order
	steps []step

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Editor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Editor) clone() *Editor {
	return &Editor{
		filename: e.filename,
		doc:      e.doc,
		options:  e.options.clone(),
		steps:    append([]step(nil), e.steps...),
		err:      e.err,
	}
}

func (e *Editor) then(name string, run func(o EditOptions, doc *model.Document, path string) ([]Warning, error)) *Editor {
	c := e.clone()
	c.steps = append(c.steps, step{name: name, run: run})
	return c
}

// Context sets the context checked by file-walking operations.
func (e *Editor) Context(ctx context.Context) *Editor {
	c := e.clone()
	c.options.ctx = ctx
	return c
}

// Encoding sets the character encoding used to read and write display files.
func (e *Editor) Encoding(enc format.Encoding) *Editor {
	c := e.clone()
	c.options.encoding = enc
	return c
}

// FileSystem sets where display files are read and written.
func (e *Editor) FileSystem(fsys substitute.FileSystem) *Editor {
	c := e.clone()
	c.options.fsys = fsys
	return c
}

// Rounding sets how scaled coordinates are rounded.
func (e *Editor) Rounding(r transform.Rounding) *Editor {
	c := e.clone()
	c.options.rounding = r
	return c
}

// SnapFonts selects whether scaled fonts snap to the EDM font ladder.
func (e *Editor) SnapFonts(snap bool) *Editor {
	c := e.clone()
	c.options.snapFonts = snap
	return c
}

// NoFontScale names widget classes whose fonts are never scaled.
func (e *Editor) NoFontScale(classes ...string) *Editor {
	c := e.clone()
	c.options.noFontScale = append(c.options.noFontScale, classes...)
	return c
}

// KeepGroupsIntact makes Flip move groups without mirroring their contents.
func (e *Editor) KeepGroupsIntact() *Editor {
	c := e.clone()
	c.options.keepGroups = true
	return c
}

// FlippedVariants makes Flip swap images and symbols for their mirrored
// variants when one exists in any of dirs.
func (e *Editor) FlippedVariants(dirs ...string) *Editor {
	c := e.clone()
	c.options.variantDirs = append(c.options.variantDirs, dirs...)
	return c
}

// SearchPaths adds directories searched for embedded displays.
func (e *Editor) SearchPaths(dirs ...string) *Editor {
	c := e.clone()
	c.options.searchPaths = append(c.options.searchPaths, dirs...)
	return c
}

// MaxDepth sets the maximum embedding depth followed by Inline.
func (e *Editor) MaxDepth(depth int) *Editor {
	c := e.clone()
	c.options.maxDepth = depth
	return c
}

// InlineAll makes Inline replace every embedded window, not only static ones.
func (e *Editor) InlineAll() *Editor {
	c := e.clone()
	c.options.inlineAll = true
	return c
}

// Catalog sets the widget catalog. Its classes count as known when resizing
// and Validate checks against it.
func (e *Editor) Catalog(cat *schema.Catalog) *Editor {
	c := e.clone()
	c.options.catalog = cat
	return c
}

// Resize scales the display by the given factors.
//
// Example:
//
//	out, _, err := edlkit.Open("motor.edl").Resize(2, 1).String()
func (e *Editor) Resize(scaleX, scaleY float64) *Editor {
	return e.then("resize", func(o EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		return transform.ResizeBy(doc, scaleX, scaleY, o.rounding, o.resizeOptions()...)
	})
}

// ResizeTo scales the display to a new canvas size.
func (e *Editor) ResizeTo(width, height int) *Editor {
	if width <= 0 || height <= 0 {
		c := e.clone()
		if c.err == nil {
			c.err = fmt.Errorf("invalid canvas size %dx%d", width, height)
		}
		return c
	}
	return e.then("resize", func(o EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		return transform.ResizeTo(doc, width, height, o.rounding, o.resizeOptions()...)
	})
}

// Flip mirrors the display horizontally.
func (e *Editor) Flip() *Editor {
	return e.then("flip", func(o EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		return transform.Flip(doc, o.flipOptions()...)
	})
}

// Titlebar adds or replaces the standard title bar.
//
// Example:
//
//	warnings, err := edlkit.Open("motor.edl").Titlebar("Motor $(M)").Save()
func (e *Editor) Titlebar(title string, opts ...titlebar.Option) *Editor {
	return e.then("titlebar", func(_ EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		_, err := titlebar.Apply(doc, title, opts...)
		return nil, err
	})
}

// Substitute rewrites the references of embedded windows in the display.
// Referenced files are not touched.
func (e *Editor) Substitute(rules substitute.Rules) *Editor {
	return e.then("substitute", func(o EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		substitute.New(rules, o.engineOptions()...).Apply(doc)
		return nil, nil
	})
}

// Inline replaces static embedded windows by the content of their display.
// References that cannot be resolved are reported as warnings.
func (e *Editor) Inline() *Editor {
	return e.then("inline", func(o EditOptions, doc *model.Document, path string) ([]Warning, error) {
		res, err := substitute.New(substitute.Rules{}, o.engineOptions()...).Inline(o.ctx, doc, path)
		var warnings []Warning
		if res != nil {
			warnings = res.Warnings
		}
		if err == nil {
			return warnings, nil
		}
		var cycle *substitute.CycleError
		var depth *substitute.DepthError
		if errors.As(err, &cycle) || errors.As(err, &depth) || o.ctx.Err() != nil {
			return warnings, err
		}
		for _, err := range unjoin(err) {
			warnings = append(warnings, Warning{Message: err.Error()})
		}
		return warnings, nil
	})
}

// Validate checks the display against the widget catalog set with Catalog.
func (e *Editor) Validate() *Editor {
	return e.then("validate", func(o EditOptions, doc *model.Document, _ string) ([]Warning, error) {
		if o.catalog == nil {
			return nil, ErrNoCatalog
		}
		return o.catalog.Validate(doc), nil
	})
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// Parse reads the display without running any operation.
func (e *Editor) Parse() (*model.Document, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.load()
}

func (e *Editor) load() (*model.Document, error) {
	if e.doc != nil {
		return e.doc.Clone(), nil
	}
	data, err := e.options.fsys.ReadFile(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	return reader.ParseBytes(data, reader.WithPath(e.filename), reader.WithEncoding(e.options.encoding))
}

// Document runs the chained operations and returns the edited display.
// Warnings indicate non-fatal issues. If an operation fails, no document is
// returned.
func (e *Editor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	doc, err := e.load()
	if err != nil {
		return nil, nil, err
	}

	path := e.filename
	if path == "" {
		path = "display.edl"
	}

	var warnings []Warning
	for _, s := range e.steps {
		w, err := s.run(e.options, doc, path)
		warnings = append(warnings, w...)
		if err != nil {
			if e.filename != "" {
				return nil, warnings, fmt.Errorf("%s: %s failed: %w", e.filename, s.name, err)
			}
			return nil, warnings, fmt.Errorf("%s failed: %w", s.name, err)
		}
	}
	return doc, warnings, nil
}

// String runs the chained operations and returns the display text.
func (e *Editor) String() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return writer.String(doc), warnings, nil
}

// Bytes runs the chained operations and returns the encoded display.
func (e *Editor) Bytes() ([]byte, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, warnings, err
	}
	data, err := writer.Bytes(doc, e.options.encoding)
	if err != nil {
		return nil, warnings, err
	}
	return data, warnings, nil
}

// WriteFile runs the chained operations and writes the result to path.
// Nothing is written if an operation fails.
func (e *Editor) WriteFile(path string) ([]Warning, error) {
	data, warnings, err := e.Bytes()
	if err != nil {
		return warnings, err
	}
	if err := e.options.fsys.WriteFile(path, data); err != nil {
		return warnings, fmt.Errorf("failed to write display: %w", err)
	}
	return warnings, nil
}

// Save runs the chained operations and writes the result back to the file
// the Editor was opened from.
func (e *Editor) Save() ([]Warning, error) {
	if e.filename == "" {
		return nil, ErrNoFile
	}
	return e.WriteFile(e.filename)
}
