package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/edlkit/core"
)

// Colors maps color names from an EDM colors.list file to palette indices
type Colors struct {
	byName map[string]int
}

// ParseColors reads the static and rule entries of a colors.list file:
//
//	static 25 "Top Shadow" { 60160 60160 60160 }
//	rule 40 alarm { ... }
func ParseColors(r io.Reader) (*Colors, error) {
	c := &Colors{byName: map[string]int{"White": 0}}
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "static ") && !strings.HasPrefix(line, "rule ") {
			continue
		}
		toks, err := core.Fields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		if len(toks) < 3 {
			continue
		}
		index, err := strconv.Atoi(toks[1].Text)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad color index %q", num, toks[1].Text)
		}
		c.byName[core.Unquote(toks[2].Text)] = index
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read colors: %w", err)
	}
	return c, nil
}

// LoadColors reads a colors.list file
func LoadColors(path string) (*Colors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open colors: %w", err)
	}
	defer f.Close()
	return ParseColors(f)
}

// Lookup returns the palette color for a name
func (c *Colors) Lookup(name string) (core.Color, bool) {
	i, ok := c.byName[name]
	if !ok {
		return core.Color{}, false
	}
	return core.IndexColor(i), true
}

// Names returns every color name, sorted
func (c *Colors) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
