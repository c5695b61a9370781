package reader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/edlkit/core"
	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/model"
)

func TestParseFile(t *testing.T) {
	doc, err := ParseFile("testdata/motor.edl")
	require.NoError(t, err)

	assert.Equal(t, model.Version{Major: 4, Minor: 0, Release: 1}, doc.Version)
	canvas, ok := doc.Canvas()
	require.True(t, ok)
	assert.Equal(t, model.NewRect(712, 318, 400, 260), canvas)
	assert.Equal(t, "Motor $(M)", doc.Title())
	assert.True(t, doc.Header.Has("showGrid"))

	require.Len(t, doc.Objects, 3)
	assert.Equal(t, 6, doc.Count())

	text := doc.Objects[0]
	assert.Equal(t, "Static Text", text.Type)
	assert.Equal(t, model.ClassStaticText, text.Class)
	assert.False(t, text.IsContainer())
	v, ok := text.Get("value")
	require.True(t, ok)
	assert.Equal(t, []string{"Speed setpoint"}, v.(core.List).Strings())
	flag, _ := text.Get("useDisplayBg")
	assert.Equal(t, core.KindFlag, flag.Kind())
	color, _ := text.Get("fgColor")
	assert.Equal(t, core.IndexColor(14), color)

	group := doc.Objects[1]
	require.True(t, group.IsContainer())
	require.Len(t, group.Children(), 3)
	assert.Equal(t, "Text Monitor", group.Children()[1].Type)
	assert.Equal(t, "activeXTextDspClass:noedit", group.Children()[1].Class)
	require.Len(t, group.Trailing, 3)
	assert.Equal(t, "visPv", group.Trailing[0].Name)
	pv, _ := group.Text("visPv")
	assert.Equal(t, "$(P):ENABLED", pv)

	line := group.Children()[2]
	xs, _ := line.Get("xPoints")
	assert.Equal(t, core.List{core.Int(160), core.Int(185), core.Int(210)}, xs)

	pip := doc.Objects[2]
	require.True(t, pip.IsEmbedded())
	assert.True(t, pip.IsStatic())
	filePv, _ := pip.Text(model.AttrFilePv)
	assert.Equal(t, `LOC\dummy=i:0`, filePv)
	refs := pip.References()
	require.Len(t, refs, 2)
	assert.Equal(t, "valve.edl", refs[0].Path)
	assert.Equal(t, model.MacroList{{Name: "P", Value: "$(P)"}, {Name: "V", Value: "1"}}, refs[0].Macros)
	assert.Equal(t, "pump", refs[1].Path)
}

func TestParseKeepsTrivia(t *testing.T) {
	src := "# leading comment\n4 0 1\nbeginScreenProperties\n# note\nw 10\nh 10\nendScreenProperties\n\n# (Rectangle)\nobject activeRectangleClass\nbeginObjectProperties\nx 1\n\n# end note\nendObjectProperties\n\n\n"
	doc, err := ParseString(src)
	require.NoError(t, err)

	require.Len(t, doc.Lead, 1)
	assert.Equal(t, "# leading comment", doc.Lead[0].Text)
	require.Len(t, doc.Header.Attrs[0].Lead, 1)
	assert.Equal(t, "# note", doc.Header.Attrs[0].Lead[0].Text)

	rect := doc.Objects[0]
	assert.Equal(t, "Rectangle", rect.Type)
	require.Len(t, rect.Lead, 1)
	assert.Equal(t, "", rect.Lead[0].Text)
	require.Len(t, rect.EndLead, 2)
	assert.Len(t, doc.Tail, 2)
}

func TestParseCRLF(t *testing.T) {
	src := "4 0 1\r\nbeginScreenProperties\r\nw 10\r\nendScreenProperties\r\n"
	doc, err := ParseString(src)
	require.NoError(t, err)
	assert.Equal(t, "\r\n", doc.EOL())
	assert.Equal(t, "\r\n", doc.Header.Attrs[0].EOL())
}

func TestParseObjectWithoutTypeComment(t *testing.T) {
	src := "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeCircleClass\nbeginObjectProperties\nendObjectProperties\n"
	doc, err := ParseString(src)
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "", doc.Objects[0].Type)
	assert.Equal(t, "activeCircleClass", doc.Objects[0].Class)
}

func TestParseUnknownAttributesAreOpaque(t *testing.T) {
	src := "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject myWidgetClass\nbeginObjectProperties\nweird 1 2 \"three\"\ncustomBlock {\n  a b\n  \"c\"\n}\nendObjectProperties\n"
	doc, err := ParseString(src)
	require.NoError(t, err)

	o := doc.Objects[0]
	weird, _ := o.Get("weird")
	assert.Equal(t, core.Raw(`1 2 "three"`), weird)
	block, _ := o.Get("customBlock")
	assert.Equal(t, core.KindList, block.Kind())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		contains string
	}{
		{
			name:     "empty input",
			src:      "",
			line:     1,
			contains: "missing version line",
		},
		{
			name:     "bad version",
			src:      "four 0 1\nbeginScreenProperties\n",
			line:     1,
			contains: "bad version line",
		},
		{
			name:     "missing header",
			src:      "4 0 1\nobject activeXTextClass\n",
			line:     2,
			contains: "missing beginScreenProperties",
		},
		{
			name:     "unterminated header",
			src:      "4 0 1\nbeginScreenProperties\nw 10\n",
			line:     4,
			contains: "missing endScreenProperties",
		},
		{
			name:     "unterminated block",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeXTextClass\nbeginObjectProperties\nvalue {\n  \"a\"\n",
			line:     6,
			contains: `unterminated block "value"`,
		},
		{
			name:     "endGroup without beginGroup",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeXTextClass\nbeginObjectProperties\nendGroup\nendObjectProperties\n",
			line:     6,
			contains: "endGroup without beginGroup",
		},
		{
			name:     "top level endGroup",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nendGroup\n",
			line:     4,
			contains: "endGroup without beginGroup",
		},
		{
			name:     "object without beginObjectProperties",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeXTextClass\nx 10\n",
			line:     5,
			contains: "without beginObjectProperties",
		},
		{
			name:     "unterminated object",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeXTextClass\nbeginObjectProperties\nx 10\n",
			line:     7,
			contains: "missing endObjectProperties",
		},
		{
			name:     "unterminated group",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nobject activeGroupClass\nbeginObjectProperties\nbeginGroup\n",
			line:     7,
			contains: "missing endGroup",
		},
		{
			name:     "stray line",
			src:      "4 0 1\nbeginScreenProperties\nendScreenProperties\nx 10\n",
			line:     4,
			contains: `expected object, got "x 10"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.src, WithPath("bad.edl"))
			require.Error(t, err)
			assert.Nil(t, doc)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "error %v is not a FormatError", err)
			assert.Equal(t, "bad.edl", fe.Path)
			assert.Equal(t, tt.line, fe.Line)
			assert.Contains(t, fe.Msg, tt.contains)
			assert.True(t, strings.HasPrefix(err.Error(), "bad.edl:"))
		})
	}
}

func TestParseMissingHeaderIsErrNoHeader(t *testing.T) {
	_, err := ParseString("4 0 1\n")
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestFormatErrorWithoutPath(t *testing.T) {
	e := &FormatError{Line: 3, Offset: 17, Msg: "boom"}
	assert.Equal(t, "line 3 (offset 17): boom", e.Error())
}

func TestParseLatin1(t *testing.T) {
	data := []byte("4 0 1\nbeginScreenProperties\ntitle \"\xb5A\"\nendScreenProperties\n")
	doc, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "µA", doc.Title())

	_, err = ParseBytes(data, WithEncoding(format.UTF8))
	assert.Error(t, err)
}

func TestParseObjects(t *testing.T) {
	src := `# Additional properties
beginObjectProperties
endObjectProperties

# (Circle)
object activeCircleClass
beginObjectProperties
major 4
endObjectProperties

garbage line
# (Meter)
object activeMeterClass
beginObjectProperties
endObjectProperties
`
	objs, err := ParseObjects(src)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "Circle", objs[0].Type)
	assert.Equal(t, "Meter", objs[1].Type)
	assert.Equal(t, "activeMeterClass", objs[1].Class)
}
