package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FontLadder lists the font sizes EDM offers, in tenths of a point
var FontLadder = []int{
	80, 100, 120, 140, 160, 180, 200, 240, 280, 320, 360, 420,
	480, 600, 720, 960, 1200, 1680, 2160, 3120, 4080, 5040,
}

// Font is an EDM font name such as "arial-bold-r-14.0": family, weight and
// slant followed by the size in points
type Font struct {
	Prefix   string  // everything before the size, e.g. "arial-bold-r"
	Size     float64 // points
	Decimals int     // decimals used when writing the size
}

// ParseFont splits an EDM font name
func ParseFont(name string) (Font, error) {
	i := strings.LastIndexByte(name, '-')
	if i <= 0 || i == len(name)-1 {
		return Font{}, fmt.Errorf("font %q has no size", name)
	}
	sizeText := name[i+1:]
	size, err := strconv.ParseFloat(sizeText, 64)
	if err != nil || size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		return Font{}, fmt.Errorf("font %q has an invalid size %q", name, sizeText)
	}
	decimals := 0
	if dot := strings.IndexByte(sizeText, '.'); dot >= 0 {
		decimals = len(sizeText) - dot - 1
	}
	return Font{Prefix: name[:i], Size: size, Decimals: decimals}, nil
}

func (f Font) String() string {
	return f.Prefix + "-" + strconv.FormatFloat(f.Size, 'f', f.Decimals, 64)
}

// Scale returns the font scaled by factor. With snap the size moves to the
// nearest ladder entry, otherwise to the nearest whole point. The result is
// never smaller than the smallest ladder size.
func (f Font) Scale(factor float64, snap bool) Font {
	size := f.Size * factor
	if snap {
		size = SnapFontSize(size)
	} else {
		size = math.Max(math.Round(size), float64(FontLadder[0])/10)
	}
	f.Size = size
	return f
}

// SnapFontSize returns the ladder size closest to size. Ties go to the
// larger size.
func SnapFontSize(size float64) float64 {
	tenths := size * 10
	best := FontLadder[0]
	bestDiff := math.Abs(tenths - float64(best))
	for _, s := range FontLadder[1:] {
		d := math.Abs(tenths - float64(s))
		if d <= bestDiff {
			best, bestDiff = s, d
		}
	}
	return float64(best) / 10
}

// isFontAttr reports whether an attribute holds a font name: "font" itself
// and names ending in "Font" such as ctlFont or btnFont
func isFontAttr(name string) bool {
	return name == "font" || strings.HasSuffix(name, "Font")
}
