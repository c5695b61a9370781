package transform

import (
	"path"
	"strings"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
)

// Attributes holding a horizontal text alignment
var alignAttrs = []string{"fontAlign", "alignment"}

// FlipOption configures FlipHorizontal
type FlipOption func(*flipConfig)

type flipConfig struct {
	keepGroups bool
	variant    func(name string) bool
}

// WithKeepGroupsIntact mirrors containers as rigid units: a container moves to
// its mirrored position but its contents are only translated, not mirrored
func WithKeepGroupsIntact(keep bool) FlipOption {
	return func(c *flipConfig) {
		c.keepGroups = keep
	}
}

// WithFlippedVariants enables swapping image and symbol files for mirrored
// variants. Images use "arrow.png" and "arrow-flipped.png", symbols use
// "valve-symbol" and "valve-flipped-symbol". exists reports whether a
// candidate file is available; the swap works in both directions.
func WithFlippedVariants(exists func(name string) bool) FlipOption {
	return func(c *flipConfig) {
		c.variant = exists
	}
}

// FlipHorizontal mirrors doc about the vertical centre line of a canvas of
// the given width. Containers are processed depth-first: children are flipped
// within the container's own frame, then the container is flipped within its
// parent's frame and its descendants move with it. The result is the same as
// reflecting every object about the canvas centre, and flipping twice gives
// back the original document.
func FlipHorizontal(doc *model.Document, canvasWidth int, opts ...FlipOption) []model.Warning {
	var cfg flipConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &flipper{cfg: cfg}
	f.objects(doc.Objects, 0, canvasWidth)
	if cfg.variant != nil {
		// symbols inside intact groups are swapped too
		doc.Walk(func(o, _ *model.Object) bool {
			f.swapVariant(o)
			return true
		})
	}
	return f.warnings
}

// Flip mirrors doc using the canvas width from its header
func Flip(doc *model.Document, opts ...FlipOption) ([]model.Warning, error) {
	canvas, ok := doc.Canvas()
	if !ok {
		return nil, ErrNoCanvas
	}
	return FlipHorizontal(doc, canvas.W, opts...), nil
}

type flipper struct {
	cfg      flipConfig
	warnings []model.Warning
}

// objects flips objs within the frame [fx, fx+fw)
func (f *flipper) objects(objs []*model.Object, fx, fw int) {
	for _, o := range objs {
		r, ok := o.Geometry()
		if !ok {
			f.warnings = append(f.warnings, model.WarnObject(o, "object has no geometry; not flipped"))
			continue
		}

		if o.IsContainer() {
			if !f.cfg.keepGroups {
				f.objects(o.Children(), r.X, r.W)
			}
			dx := r.MirrorX(fx, fw).X - r.X
			for _, c := range o.Children() {
				c.Move(dx, 0)
			}
			o.SetPosition(r.X+dx, r.Y)
			continue
		}

		o.SetPosition(r.MirrorX(fx, fw).X, r.Y)
		o.MapPoints("xPoints", func(p int) int { return 2*fx + fw - p })
		toggleAlignment(o)
	}
}

func toggleAlignment(o *model.Object) {
	for _, name := range alignAttrs {
		a := o.Attr(name)
		if a == nil {
			continue
		}
		s, ok := a.Value().(core.String)
		if !ok {
			continue
		}
		switch string(s) {
		case "left":
			a.Set(core.String("right"))
		case "right":
			a.Set(core.String("left"))
		}
	}
}

func (f *flipper) swapVariant(o *model.Object) {
	var flipped func(string) (string, bool)
	switch {
	case o.IsImage():
		flipped = func(name string) (string, bool) { return FlippedName(name), true }
	case o.IsSymbol():
		flipped = FlippedSymbolName
	default:
		return
	}

	a := o.Attr(model.AttrFile)
	if a == nil {
		return
	}
	s, ok := a.Value().(core.String)
	if !ok || s == "" {
		return
	}
	candidate, ok := flipped(string(s))
	if !ok {
		return
	}
	lookup := candidate
	if o.IsSymbol() && path.Ext(lookup) != ".edl" {
		lookup += ".edl"
	}
	if f.cfg.variant(lookup) {
		a.Set(core.String(candidate))
		return
	}
	f.warnings = append(f.warnings, model.WarnObject(o, "no mirrored variant %q", lookup))
}

// FlippedName returns the mirrored variant of an image file name:
// "arrow.png" becomes "arrow-flipped.png" and "arrow-flipped.png" becomes
// "arrow.png"
func FlippedName(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if strings.HasSuffix(base, "-flipped") {
		return strings.TrimSuffix(base, "-flipped") + ext
	}
	return base + "-flipped" + ext
}

// FlippedSymbolName returns the mirrored variant of a symbol display name:
// "valve-symbol" becomes "valve-flipped-symbol" and back. Names without the
// "-symbol" marker have no variant.
func FlippedSymbolName(name string) (string, bool) {
	switch {
	case strings.Contains(name, "-flipped-symbol"):
		return strings.Replace(name, "-flipped-symbol", "-symbol", 1), true
	case strings.Contains(name, "-symbol"):
		return strings.Replace(name, "-symbol", "-flipped-symbol", 1), true
	}
	return "", false
}
