package edlkit_test

import (
	"fmt"

	"github.com/tsawler/edlkit"
	"github.com/tsawler/edlkit/substitute"
)

const panel = `4 0 1
beginScreenProperties
major 4
minor 0
release 1
x 0
y 0
w 200
h 100
endScreenProperties

# (Rectangle)
object activeRectangleClass
beginObjectProperties
major 4
minor 0
release 0
x 10
y 20
w 30
h 40
lineColor index 14
endObjectProperties
`

func ExampleOpen() {
	fsys := substitute.NewMemFS(map[string]string{"panel.edl": panel})

	doc, _, err := edlkit.Open("panel.edl").FileSystem(fsys).Resize(2, 1).Document()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r, _ := doc.Objects[0].Geometry()
	fmt.Println(r.X, r.Y, r.W, r.H)
	// Output: 20 20 60 40
}

func ExampleEditor_Flip() {
	fsys := substitute.NewMemFS(map[string]string{"panel.edl": panel})

	doc := edlkit.MustResult(edlkit.Open("panel.edl").FileSystem(fsys).Flip().Document())
	r, _ := doc.Objects[0].Geometry()
	fmt.Println(r.X)
	// Output: 160
}

func ExampleEditor_Substitute() {
	fsys := substitute.NewMemFS(map[string]string{"panel.edl": panel})
	rules := substitute.Rules{
		Paths: []substitute.PathRule{{From: "old.edl", To: "new.edl"}},
	}

	warnings, err := edlkit.Open("panel.edl").
		FileSystem(fsys).
		Substitute(rules).
		Titlebar("Panel").
		WriteFile("panel-new.edl")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(warnings), fsys.Writes())
	// Output: 0 [panel-new.edl]
}
