package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/model"
	"github.com/tsawler/edlkit/reader"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("testdata/allwidgets.edl")
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := loadCatalog(t)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"Static Text", "Rectangle", "Meter Bar", "Hyper Widget"}, c.Types())
	assert.Equal(t, []string{"activeBarClass", "activeRectangleClass", "activeXTextClass", "xyzHyperClass"}, c.Classes())
	assert.True(t, c.Known("xyzHyperClass"))
	assert.False(t, c.Known("activePipClass"))

	class, ok := c.ClassOf("Meter Bar")
	assert.True(t, ok)
	assert.Equal(t, "activeBarClass", class)
}

func TestTemplate(t *testing.T) {
	c := loadCatalog(t)

	tmpl, ok := c.Template("Rectangle")
	require.True(t, ok)
	w, _ := tmpl.Int("lineWidth")
	assert.Equal(t, 1, w)

	tmpl.SetInt("lineWidth", 5)
	again, _ := c.Template("Rectangle")
	w, _ = again.Int("lineWidth")
	assert.Equal(t, 1, w)

	_, ok = c.Template("Nothing")
	assert.False(t, ok)
}

func TestRegisterWith(t *testing.T) {
	c := loadCatalog(t)
	r := model.NewRegistry()
	assert.False(t, r.Known("xyzHyperClass"))

	c.RegisterWith(r)
	assert.True(t, r.Known("xyzHyperClass"))
	class, ok := r.Class("Hyper Widget")
	assert.True(t, ok)
	assert.Equal(t, "xyzHyperClass", class)
}

func TestParseDisplayCatalog(t *testing.T) {
	src := `4 0 1
beginScreenProperties
major 4
minor 0
release 1
w 500
h 600
endScreenProperties

# (Group)
object activeGroupClass
beginObjectProperties
major 4
minor 0
release 0
x 0
y 0
w 10
h 10

beginGroup

# (Circle)
object activeCircleClass
beginObjectProperties
major 4
minor 0
release 0
x 0
y 0
w 10
h 10
endObjectProperties

endGroup

endObjectProperties
`
	c, err := Parse(src)
	require.NoError(t, err)
	assert.True(t, c.Known("activeGroupClass"))
	assert.True(t, c.Known("activeCircleClass"))
	assert.Equal(t, []string{"Group", "Circle"}, c.Types())
}

func TestValidate(t *testing.T) {
	c := loadCatalog(t)
	doc, err := reader.ParseString(`4 0 1
beginScreenProperties
major 4
minor 0
release 1
w 500
h 600
endScreenProperties

# (Rectangle)
object activeRectangleClass
beginObjectProperties
major 4
minor 0
release 0
x 0
y 0
w 100
h 100
endObjectProperties

# (Mystery)
object mysteryClass
beginObjectProperties
x 0
y 0
w 10
h 10
endObjectProperties

# (Meter Bar)
object activeRectangleClass
beginObjectProperties
x 0
y 0
endObjectProperties
`)
	require.NoError(t, err)

	warnings := c.Validate(doc)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0].Message, `unknown widget class "mysteryClass"`)
	assert.Equal(t, 23, warnings[0].Line)
	assert.Contains(t, warnings[1].Message, `type "Meter Bar" is class "activeBarClass"`)
	assert.Contains(t, warnings[2].Message, "missing [w h]")
}

func TestColors(t *testing.T) {
	c, err := LoadColors("testdata/colors.list")
	require.NoError(t, err)

	col, ok := c.Lookup("Top Shadow")
	assert.True(t, ok)
	assert.Equal(t, core.IndexColor(1), col)

	col, ok = c.Lookup("alarm")
	assert.True(t, ok)
	assert.Equal(t, core.IndexColor(64), col)

	col, ok = c.Lookup("White")
	assert.True(t, ok)
	assert.Equal(t, core.IndexColor(0), col)

	_, ok = c.Lookup("Purple")
	assert.False(t, ok)
	assert.Contains(t, c.Names(), "Exit/Quit/Kill")

	_, err = ParseColors(strings.NewReader("static x Black { 0 0 0 }\n"))
	assert.Error(t, err)
}
