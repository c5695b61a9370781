package model

import (
	"sort"
	"strings"
	"sync"
)

// Widget classes with special handling
const (
	ClassGroup          = "activeGroupClass"
	ClassEmbeddedWindow = "activePipClass"
	ClassStaticText     = "activeXTextClass"
	ClassRectangle      = "activeRectangleClass"
	ClassLine           = "activeLineClass"
	ClassRelatedDisplay = "relatedDisplayClass"
	ClassExitButton     = "activeExitButtonClass"
	ClassImage          = "cfcf6c8a_dbeb_11d2_8a97_00104b8742df"
	ClassPNG            = "activePngClass"
	ClassSymbol         = "activeSymbolClass"
	ClassMenuMux        = "activeMenuMuxClass"
)

// Display type names for the classes above
const (
	TypeGroup          = "Group"
	TypeEmbeddedWindow = "Embedded Window"
	TypeStaticText     = "Static Text"
	TypeRectangle      = "Rectangle"
	TypeLine           = "Lines"
	TypeRelatedDisplay = "Related Display"
	TypeExitButton     = "Exit Button"
)

var defaultClasses = map[string]string{
	TypeGroup:           ClassGroup,
	TypeEmbeddedWindow:  ClassEmbeddedWindow,
	TypeStaticText:      ClassStaticText,
	TypeRectangle:       ClassRectangle,
	TypeLine:            ClassLine,
	TypeRelatedDisplay:  ClassRelatedDisplay,
	TypeExitButton:      ClassExitButton,
	"Image":             ClassImage,
	"PNG Image":         ClassPNG,
	"Symbol":            ClassSymbol,
	"Menu Mux":          ClassMenuMux,
	"Text Monitor":      "activeXTextDspClass:noedit",
	"Text Control":      "activeXTextDspClass",
	"Circle":            "activeCircleClass",
	"Arc":               "activeArcClass",
	"Message Button":    "activeMessageButtonClass",
	"Button":            "activeButtonClass",
	"Shell Command":     "shellCmdClass",
	"Menu Button":       "activeMenuButtonClass",
	"Choice Button":     "activeChoiceButtonClass",
	"Bar":               "activeBarClass",
	"Meter":             "activeMeterClass",
	"Slider":            "activeSliderClass",
	"Motif Slider":      "activeMotifSliderClass",
	"Radio Box":         "activeRadioButtonClass",
	"Byte":              "ByteClass",
	"X-Y Graph":         "xyGraphClass",
	"Up/Down Button":    "activeUpdownButtonClass",
	"Text Entry":        "activeXTextDspClass",
	"Multi-line Text":   "activeMultiLineTextClass",
	"Strip Chart":       "activeStripClass",
	"Indicator":         "activeIndicatorClass",
	"Table":             "activeTableClass",
	"Dynamic Symbol":    "activeDynSymbolClass",
	"Multi-line Entry":  "activeMultiLineEntryClass",
	"Regexp Text":       "activeRegTextClass",
	"Embedded Window 2": ClassEmbeddedWindow,
}

// Registry maps display type names to widget classes. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byType  map[string]string
	classes map[string]bool
}

// NewRegistry creates a registry holding the standard EDM widget classes
func NewRegistry() *Registry {
	r := &Registry{
		byType:  make(map[string]string, len(defaultClasses)),
		classes: make(map[string]bool, len(defaultClasses)),
	}
	for t, c := range defaultClasses {
		r.Register(t, c)
	}
	return r
}

// Register adds a type name and its class
func (r *Registry) Register(typeName, class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if typeName != "" {
		r.byType[typeName] = class
	}
	r.classes[class] = true
}

// Known reports whether a class is registered
func (r *Registry) Known(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[class]
}

// Class returns the class registered for a type name
func (r *Registry) Class(typeName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[typeName]
	return c, ok
}

// Classes returns every registered class, sorted
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry is the process-wide class registry
var DefaultRegistry = NewRegistry()

// RegisterClass adds a class to the default registry
func RegisterClass(typeName, class string) {
	DefaultRegistry.Register(typeName, class)
}

// KnownClass reports whether a class is in the default registry
func KnownClass(class string) bool {
	return DefaultRegistry.Known(class)
}

// ClassForType returns the class for a display type name. Unregistered names
// follow the EDM naming convention: "Meter Bar" becomes "activeMeterBarClass".
func ClassForType(typeName string) string {
	if c, ok := DefaultRegistry.Class(typeName); ok {
		return c
	}
	return "active" + strings.ReplaceAll(typeName, " ", "") + "Class"
}

// IsEmbedded reports whether the object is an embedded window
func (o *Object) IsEmbedded() bool {
	return o.Class == ClassEmbeddedWindow
}

// IsImage reports whether the object displays a raster image
func (o *Object) IsImage() bool {
	return o.Class == ClassImage || o.Class == ClassPNG
}

// IsSymbol reports whether the object is a symbol widget
func (o *Object) IsSymbol() bool {
	return o.Class == ClassSymbol
}
