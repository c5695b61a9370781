package transform

import (
	"fmt"
	"math"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
)

// ErrNoCanvas is returned when a display header has no usable w and h
var ErrNoCanvas = model.ErrNoCanvas

// ResizeOption configures Resize
type ResizeOption func(*resizeConfig)

type resizeConfig struct {
	snapFonts   bool
	noFontScale map[string]bool
	skipFont    func(*model.Object) bool
	known       func(class string) bool
}

func defaultResizeConfig() resizeConfig {
	return resizeConfig{
		snapFonts:   true,
		noFontScale: map[string]bool{},
		known:       model.KnownClass,
	}
}

// WithFontSnap selects whether scaled fonts snap to the EDM font ladder
// (the default) or round to the nearest point
func WithFontSnap(snap bool) ResizeOption {
	return func(c *resizeConfig) {
		c.snapFonts = snap
	}
}

// WithNoFontScale names widget classes whose fonts are never scaled
func WithNoFontScale(classes ...string) ResizeOption {
	return func(c *resizeConfig) {
		for _, cl := range classes {
			c.noFontScale[cl] = true
		}
	}
}

// WithNoFontScaleFunc sets a predicate selecting objects whose fonts are
// never scaled
func WithNoFontScaleFunc(fn func(*model.Object) bool) ResizeOption {
	return func(c *resizeConfig) {
		c.skipFont = fn
	}
}

// WithKnownClasses replaces the test deciding whether a widget class is
// understood. Fonts of unknown (opaque) widgets are never scaled. The default
// consults the model class registry.
func WithKnownClasses(fn func(class string) bool) ResizeOption {
	return func(c *resizeConfig) {
		c.known = fn
	}
}

// Resize scales every positioned object of doc by scaleX and scaleY about the
// display origin. canvas is the nominal display size the factors apply to;
// the header w and h become the scaled canvas. Point lists are scaled per
// coordinate and fonts by sqrt(scaleX*scaleY).
//
// Each of x, y, w and h is scaled and rounded independently, so Resize(1, 1)
// leaves the document untouched.
func Resize(doc *model.Document, canvas model.Size, scaleX, scaleY float64, policy Rounding, opts ...ResizeOption) []model.Warning {
	if !validScale(scaleX) || !validScale(scaleY) {
		return []model.Warning{{Message: fmt.Sprintf("invalid scale factors %v x %v; display left unchanged", scaleX, scaleY)}}
	}

	cfg := defaultResizeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &resizer{sx: scaleX, sy: scaleY, policy: policy, cfg: cfg}
	r.fontFactor = math.Sqrt(scaleX * scaleY)

	if doc.Header != nil {
		doc.Header.SetSize(policy.Scale(canvas.W, scaleX), policy.Scale(canvas.H, scaleY))
		r.scaleFonts(&doc.Header.Properties, nil)
	}
	doc.Walk(func(o, _ *model.Object) bool {
		r.object(o)
		return true
	})
	return r.warnings
}

// ResizeTo scales doc so that its canvas becomes width x height, taking the
// factors from the header
func ResizeTo(doc *model.Document, width, height int, policy Rounding, opts ...ResizeOption) ([]model.Warning, error) {
	canvas, ok := doc.Canvas()
	if !ok || canvas.W <= 0 || canvas.H <= 0 {
		return nil, ErrNoCanvas
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	sx := float64(width) / float64(canvas.W)
	sy := float64(height) / float64(canvas.H)
	return Resize(doc, canvas.Size(), sx, sy, policy, opts...), nil
}

// ResizeBy scales doc by the given factors using the header canvas
func ResizeBy(doc *model.Document, scaleX, scaleY float64, policy Rounding, opts ...ResizeOption) ([]model.Warning, error) {
	canvas, ok := doc.Canvas()
	if !ok {
		return nil, ErrNoCanvas
	}
	return Resize(doc, canvas.Size(), scaleX, scaleY, policy, opts...), nil
}

func validScale(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

type resizer struct {
	sx, sy     float64
	fontFactor float64
	policy     Rounding
	cfg        resizeConfig
	warnings   []model.Warning
}

func (r *resizer) object(o *model.Object) {
	r.scaleAttr(o, "x", r.sx)
	r.scaleAttr(o, "y", r.sy)
	r.scaleAttr(o, "w", r.sx)
	r.scaleAttr(o, "h", r.sy)

	o.MapPoints("xPoints", func(p int) int { return r.policy.Scale(p, r.sx) })
	o.MapPoints("yPoints", func(p int) int { return r.policy.Scale(p, r.sy) })

	if o.IsImage() && (r.sx != 1 || r.sy != 1) {
		r.warnings = append(r.warnings, model.WarnObject(o, "image widget resized; the image itself is not rescaled"))
	}

	if r.fontScalable(o) {
		r.scaleFonts(&o.Properties, o)
	}
}

func (r *resizer) scaleAttr(o *model.Object, name string, factor float64) {
	if n, ok := o.Int(name); ok {
		o.SetInt(name, r.policy.Scale(n, factor))
	}
}

func (r *resizer) fontScalable(o *model.Object) bool {
	if r.cfg.noFontScale[o.Class] {
		return false
	}
	if r.cfg.skipFont != nil && r.cfg.skipFont(o) {
		return false
	}
	if r.cfg.known != nil && !r.cfg.known(o.Class) {
		return false
	}
	return true
}

func (r *resizer) scaleFonts(p *model.Properties, o *model.Object) {
	if r.fontFactor == 1 {
		return
	}
	for _, a := range p.All() {
		if !isFontAttr(a.Name) {
			continue
		}
		s, ok := a.Value().(core.String)
		if !ok {
			continue
		}
		f, err := ParseFont(string(s))
		if err != nil {
			r.warnings = append(r.warnings, model.WarnObject(o, "%v; font not scaled", err))
			continue
		}
		a.Set(core.String(f.Scale(r.fontFactor, r.cfg.snapFonts).String()))
	}
}
