package titlebar

import (
	"fmt"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
)

// DefaultHeight is the height of a standard title bar
const DefaultHeight = 30

// TooltipLabel is the buttonLabel of the tooltip button that marks a
// container as a title bar
const TooltipLabel = "tooltip"

// Default related display files
const (
	DefaultTooltipFile = "generic-tooltip"
	DefaultHelpFile    = "generic-help"
)

// Palette holds the colors used by the title bar
type Palette struct {
	Foreground   core.Color
	Canvas       core.Color
	Title        core.Color
	TopShadow    core.Color
	BottomShadow core.Color
	Exit         core.Color
}

// DefaultPalette uses the indices of the standard site color list
var DefaultPalette = Palette{
	Foreground:   core.IndexColor(14),
	Canvas:       core.IndexColor(3),
	Title:        core.IndexColor(26),
	TopShadow:    core.IndexColor(1),
	BottomShadow: core.IndexColor(11),
	Exit:         core.IndexColor(46),
}

// PaletteFrom builds a palette from named colors. area selects the title
// color "<area> title", e.g. "CO title". Names lookup cannot resolve keep
// their default.
func PaletteFrom(lookup func(name string) (core.Color, bool), area string) Palette {
	p := DefaultPalette
	set := func(dst *core.Color, name string) {
		if c, ok := lookup(name); ok {
			*dst = c
		}
	}
	set(&p.Foreground, "Black")
	set(&p.Canvas, "Canvas")
	set(&p.Title, area+" title")
	set(&p.TopShadow, "Top Shadow")
	set(&p.BottomShadow, "Bottom Shadow")
	set(&p.Exit, "Exit/Quit/Kill")
	return p
}

// Option configures the title bar
type Option func(*config)

type config struct {
	height  int
	shift   bool
	tooltip string
	help    string
	macros  model.MacroList
	exit    bool
	palette Palette
	font    string
}

func defaults() config {
	return config{
		height:  DefaultHeight,
		shift:   true,
		tooltip: DefaultTooltipFile,
		help:    DefaultHelpFile,
		exit:    true,
		palette: DefaultPalette,
		font:    "arial-bold-r-16.0",
	}
}

// WithHeight sets the bar height (default: 30)
func WithHeight(h int) Option {
	return func(c *config) {
		c.height = h
	}
}

// WithShiftContent controls whether existing objects move down to make room
// for a new bar (default: true). It has no effect when a bar is replaced.
func WithShiftContent(shift bool) Option {
	return func(c *config) {
		c.shift = shift
	}
}

// WithTooltipFile sets the display shown by right-clicking the bar
func WithTooltipFile(name string) Option {
	return func(c *config) {
		c.tooltip = name
	}
}

// WithHelpFile sets the display opened by the help button. An empty name
// leaves the help button out.
func WithHelpFile(name string, macros model.MacroList) Option {
	return func(c *config) {
		c.help = name
		c.macros = macros
	}
}

// WithExitButton controls whether the bar has a close button (default: true)
func WithExitButton(exit bool) Option {
	return func(c *config) {
		c.exit = exit
	}
}

// WithPalette sets the bar colors
func WithPalette(p Palette) Option {
	return func(c *config) {
		c.palette = p
	}
}

// WithFont sets the title font
func WithFont(font string) Option {
	return func(c *config) {
		c.font = font
	}
}

// New builds a title bar of the given width at (0,0)
func New(width int, title string, opts ...Option) *model.Object {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	return build(width, title, cfg)
}

func build(width int, title string, cfg config) *model.Object {
	h := cfg.height
	p := cfg.palette

	bar := model.NewGroup()
	bar.SetGeometry(model.NewRect(0, 0, width, h))

	top := model.NewObject(model.TypeRectangle)
	top.SetGeometry(model.NewRect(0, 2, width-2, h-5))
	top.Set("lineColor", p.TopShadow)
	top.Set("fillColor", p.TopShadow)

	bottom := model.NewObject(model.TypeRectangle)
	bottom.SetGeometry(model.NewRect(1, 3, width-2, h-5))
	bottom.Set("lineColor", p.BottomShadow)
	bottom.Set("fillColor", p.BottomShadow)

	tooltip := model.NewObject(model.TypeRelatedDisplay)
	tooltip.SetGeometry(model.NewRect(1, 3, width-2, h-6))
	tooltip.Set("fgColor", p.Foreground)
	tooltip.Set("bgColor", p.Canvas)
	tooltip.Set("topShadowColor", p.TopShadow)
	tooltip.Set("botShadowColor", p.BottomShadow)
	tooltip.SetString("font", "arial-bold-r-14.0")
	tooltip.SetInt("xPosOffset", 5)
	tooltip.SetInt("yPosOffset", 5)
	tooltip.Set("button3Popup", core.Flag{})
	tooltip.Set("invisible", core.Flag{})
	tooltip.SetString("buttonLabel", TooltipLabel)
	tooltip.SetInt("numPvs", 4)
	tooltip.SetInt("numDsps", 1)
	tooltip.Set(model.AttrDisplayFileName, core.Block{{Key: "0", Value: core.String(cfg.tooltip)}})
	tooltip.Set("setPosition", core.Block{{Key: "0", Value: core.String("button")}})

	label := model.NewObject(model.TypeStaticText)
	label.SetGeometry(model.NewRect(1, 3, width-2, h-6))
	label.SetString("font", cfg.font)
	label.SetString("fontAlign", "center")
	label.Set("fgColor", p.Foreground)
	label.Set("bgColor", p.Title)
	label.Set("value", core.List{core.String(title)})

	bar.Add(top, bottom, tooltip, label)

	side := h - 10
	if cfg.help != "" {
		help := model.NewObject(model.TypeRelatedDisplay)
		help.SetGeometry(model.NewRect(5, 5, side, side))
		help.Set("fgColor", p.Foreground)
		help.Set("bgColor", p.Title)
		help.Set("topShadowColor", p.TopShadow)
		help.Set("botShadowColor", p.BottomShadow)
		help.SetString("font", "arial-bold-r-14.0")
		help.SetString("buttonLabel", "?")
		help.SetInt("numPvs", 4)
		help.SetInt("numDsps", 1)
		help.Set(model.AttrDisplayFileName, core.Block{{Key: "0", Value: core.String(cfg.help)}})
		if len(cfg.macros) > 0 {
			help.Set(model.AttrSymbols, core.Block{{Key: "0", Value: core.String(cfg.macros.String())}})
		}
		bar.Add(help)
	}

	if cfg.exit {
		exit := model.NewObject(model.TypeExitButton)
		exit.SetGeometry(model.NewRect(width-5-2*side, 5, 2*side, side))
		exit.Set("fgColor", p.Exit)
		exit.Set("bgColor", p.Canvas)
		exit.Set("topShadowColor", p.TopShadow)
		exit.Set("botShadowColor", p.BottomShadow)
		exit.SetString("label", "EXIT")
		exit.SetString("font", "arial-medium-r-12.0")
		exit.Set("3d", core.Flag{})
		bar.Add(exit)
	}
	return bar
}

// IsTitlebar reports whether o is a title bar: a container at (0,0)
// holding a tooltip button. The height is not checked, so a bar that was
// resized since it was added is still recognised.
func IsTitlebar(o *model.Object) bool {
	if !o.IsContainer() {
		return false
	}
	r, ok := o.Geometry()
	if !ok || r.X != 0 || r.Y != 0 {
		return false
	}
	found := false
	model.Walk(o.Children(), func(c, _ *model.Object) bool {
		if label, ok := c.Text("buttonLabel"); ok && label == TooltipLabel {
			found = true
		}
		return !found
	})
	return found
}

// Find returns the index of the first top-level title bar in doc
func Find(doc *model.Document) (int, bool) {
	for i, o := range doc.Objects {
		if IsTitlebar(o) {
			return i, true
		}
	}
	return -1, false
}

// Apply adds a title bar spanning the canvas width to doc and sets the
// window title. An existing title bar is replaced in place. Otherwise the bar
// is inserted first in draw order and, unless disabled with
// WithShiftContent, the other objects move down by the bar height and the
// canvas grows to match.
//
// A replaced bar of another height, for instance one scaled by a Resize,
// moves the content by the difference so it stays right below the bar.
func Apply(doc *model.Document, title string, opts ...Option) (*model.Object, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.height <= 10 {
		return nil, fmt.Errorf("invalid title bar height %d", cfg.height)
	}
	canvas, ok := doc.Canvas()
	if !ok {
		return nil, model.ErrNoCanvas
	}

	bar := build(canvas.W, title, cfg)
	if i, ok := Find(doc); ok {
		old, _ := doc.Objects[i].Geometry()
		bar.Lead = doc.Objects[i].Lead
		doc.Objects[i] = bar
		if delta := cfg.height - old.H; cfg.shift && delta != 0 {
			for _, o := range doc.Objects {
				if o != bar {
					o.Move(0, delta)
				}
			}
			doc.SetCanvasSize(canvas.W, canvas.H+delta)
		}
	} else {
		if cfg.shift {
			for _, o := range doc.Objects {
				o.Move(0, cfg.height)
			}
			doc.SetCanvasSize(canvas.W, canvas.H+cfg.height)
		}
		if len(doc.Objects) > 0 {
			bar.Lead, doc.Objects[0].Lead = doc.Objects[0].Lead, nil
		}
		doc.Insert(0, bar)
	}
	doc.Header.SetString("title", title)
	return bar, nil
}
