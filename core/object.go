package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value represents an attribute value in a display file
type Value interface {
	Kind() Kind
	String() string
}

// Kind represents the type of an attribute value
type Kind int

const (
	KindFlag Kind = iota
	KindInt
	KindReal
	KindString
	KindColor
	KindList
	KindBlock
	KindRaw
)

// String returns the string representation of the value kind
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "Flag"
	case KindInt:
		return "Int"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindColor:
		return "Color"
	case KindList:
		return "List"
	case KindBlock:
		return "Block"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Multiline is implemented by values that are written as a brace-delimited
// block, one item per line.
type Multiline interface {
	Value
	Lines() []string
}

// Flag represents an attribute that is present without a value
type Flag struct{}

func (Flag) Kind() Kind     { return KindFlag }
func (Flag) String() string { return "" }

// Int represents an integer value
type Int int64

func (i Int) Kind() Kind     { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Real represents a real number
type Real float64

func (r Real) Kind() Kind { return KindReal }
func (r Real) String() string {
	s := strconv.FormatFloat(float64(r), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// String represents a quoted string. The value holds the unescaped text.
type String string

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return Quote(string(s)) }

// Text returns the unescaped string content
func (s String) Text() string { return string(s) }

// Color represents a color reference, either a palette index or an RGB triple
type Color struct {
	Index int
	RGB   [3]int
	IsRGB bool
}

// IndexColor returns a palette index color
func IndexColor(index int) Color {
	return Color{Index: index}
}

// RGBColor returns an RGB color
func RGBColor(r, g, b int) Color {
	return Color{RGB: [3]int{r, g, b}, IsRGB: true}
}

func (c Color) Kind() Kind { return KindColor }
func (c Color) String() string {
	if c.IsRGB {
		return fmt.Sprintf("rgb %d %d %d", c.RGB[0], c.RGB[1], c.RGB[2])
	}
	return "index " + strconv.Itoa(c.Index)
}

// List represents a multi-line block with one value per line
type List []Value

func (l List) Kind() Kind { return KindList }
func (l List) String() string {
	return "{ " + strings.Join(l.Lines(), " ") + " }"
}

// Lines returns the canonical text of each item
func (l List) Lines() []string {
	lines := make([]string, len(l))
	for i, v := range l {
		lines[i] = v.String()
	}
	return lines
}

// Len returns the number of items in the list
func (l List) Len() int {
	return len(l)
}

// Get retrieves an item at the given index
func (l List) Get(index int) Value {
	if index < 0 || index >= len(l) {
		return nil
	}
	return l[index]
}

// GetInt retrieves an integer at the given index
func (l List) GetInt(index int) (Int, bool) {
	i, ok := l.Get(index).(Int)
	return i, ok
}

// Strings returns the text of every String item, skipping other kinds
func (l List) Strings() []string {
	var out []string
	for _, v := range l {
		if s, ok := v.(String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// Entry is a single "key value" line inside a Block
type Entry struct {
	Key   string
	Value Value
}

// Block represents a multi-line block of "key value" entries.
// Order is preserved and keys are not required to be unique.
type Block []Entry

func (b Block) Kind() Kind { return KindBlock }
func (b Block) String() string {
	return "{ " + strings.Join(b.Lines(), " ") + " }"
}

// Lines returns the canonical text of each entry
func (b Block) Lines() []string {
	lines := make([]string, len(b))
	for i, e := range b {
		lines[i] = e.Key + " " + e.Value.String()
	}
	return lines
}

// Get retrieves the value of the first entry with the given key
func (b Block) Get(key string) (Value, bool) {
	for _, e := range b {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetString retrieves a string entry
func (b Block) GetString(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// Keys returns the entry keys in order
func (b Block) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// With returns a copy of the block with key set to value. An existing entry is
// replaced in place; otherwise the entry is appended.
func (b Block) With(key string, value Value) Block {
	out := make(Block, len(b), len(b)+1)
	copy(out, b)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Entry{Key: key, Value: value})
}

// Raw represents a token sequence the parser does not interpret.
// It is written back exactly as read.
type Raw string

func (r Raw) Kind() Kind     { return KindRaw }
func (r Raw) String() string { return string(r) }

// Equal reports whether two values have the same kind and canonical encoding
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Real:
		bv := b.(Real)
		return av == bv || (math.IsNaN(float64(av)) && math.IsNaN(float64(bv)))
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Block:
		bv := b.(Block)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	default:
		return a.String() == b.String()
	}
}

// ParseValue interprets the text following an attribute name.
// It never fails: anything it does not recognise becomes Raw.
func ParseValue(text string) Value {
	text = strings.TrimSpace(text)
	if text == "" {
		return Flag{}
	}
	toks, err := Fields(text)
	if err != nil {
		return Raw(text)
	}

	switch len(toks) {
	case 1:
		return parseScalar(toks[0], text)
	case 2:
		if !toks[0].Quoted && toks[0].Text == "index" {
			if n, err := strconv.Atoi(toks[1].Text); err == nil {
				return IndexColor(n)
			}
		}
	case 4:
		if !toks[0].Quoted && toks[0].Text == "rgb" {
			var rgb [3]int
			for i := 0; i < 3; i++ {
				n, err := strconv.Atoi(toks[i+1].Text)
				if err != nil {
					return Raw(text)
				}
				rgb[i] = n
			}
			return RGBColor(rgb[0], rgb[1], rgb[2])
		}
	}
	return Raw(text)
}

func parseScalar(tok Token, text string) Value {
	if tok.Quoted {
		return String(Unquote(tok.Text))
	}
	if n, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
		return Int(n)
	}
	if looksNumeric(tok.Text) {
		if f, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return Real(f)
		}
	}
	return Raw(text)
}

// looksNumeric rejects words like "inf" or "nan" that ParseFloat accepts
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

// ParseBlock interprets the trimmed body lines of a multi-line block.
// When every line is "key value" with an unquoted key the result is a Block,
// otherwise it is a List with one value per line.
func ParseBlock(lines []string) Value {
	if len(lines) == 0 {
		return List{}
	}

	isBlock := true
	for _, line := range lines {
		toks, err := Fields(line)
		if err != nil || len(toks) < 2 || toks[0].Quoted {
			isBlock = false
			break
		}
	}

	if isBlock {
		block := make(Block, 0, len(lines))
		for _, line := range lines {
			key, rest := SplitKey(line)
			block = append(block, Entry{Key: key, Value: ParseValue(rest)})
		}
		return block
	}

	list := make(List, 0, len(lines))
	for _, line := range lines {
		list = append(list, ParseValue(line))
	}
	return list
}
