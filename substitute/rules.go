package substitute

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/edlkit/model"
)

// PathRule replaces references to one display with another
type PathRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// MacroRule rewrites the value of a macro in embedded window symbols.
// An empty Match rewrites the macro whatever its current value.
type MacroRule struct {
	Name  string `yaml:"name"`
	Match string `yaml:"match,omitempty"`
	Value string `yaml:"value"`
}

// Rules is an ordered substitution table. For paths the first matching rule
// wins; macro rules are applied in order.
type Rules struct {
	Paths  []PathRule  `yaml:"paths"`
	Macros []MacroRule `yaml:"macros"`
}

// Empty reports whether there are no rules
func (r Rules) Empty() bool {
	return len(r.Paths) == 0 && len(r.Macros) == 0
}

// Validate checks that every rule is usable
func (r Rules) Validate() error {
	if r.Empty() {
		return ErrNoRules
	}
	for i, p := range r.Paths {
		if strings.TrimSpace(p.From) == "" || strings.TrimSpace(p.To) == "" {
			return fmt.Errorf("path rule %d: from and to are required", i+1)
		}
	}
	for i, m := range r.Macros {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("macro rule %d: name is required", i+1)
		}
	}
	return nil
}

// Merge returns r followed by other
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		Paths:  append(append([]PathRule(nil), r.Paths...), other.Paths...),
		Macros: append(append([]MacroRule(nil), r.Macros...), other.Macros...),
	}
}

// PathRules builds path rules from a from→to map, ordered by source path
func PathRules(m map[string]string) []PathRule {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rules := make([]PathRule, len(keys))
	for i, k := range keys {
		rules[i] = PathRule{From: k, To: m[k]}
	}
	return rules
}

// ParseRules decodes a YAML rule table. Unknown keys are an error.
func ParseRules(data []byte) (Rules, error) {
	var r Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return r, nil
}

// LoadRules reads a YAML rule file
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// MatchPath returns the replacement for a referenced path
func (r Rules) MatchPath(ref string) (string, bool) {
	for _, p := range r.Paths {
		if SamePath(p.From, ref) {
			return p.To, true
		}
	}
	return "", false
}

// RewriteMacros applies the macro rules to a macro list. It reports whether
// anything changed.
func (r Rules) RewriteMacros(macros model.MacroList) (model.MacroList, bool) {
	out := macros
	for _, rule := range r.Macros {
		v, ok := out.Get(rule.Name)
		if !ok || (rule.Match != "" && v != rule.Match) || v == rule.Value {
			continue
		}
		out = out.Set(rule.Name, rule.Value)
	}
	return out, !out.Equal(macros)
}

// SamePath reports whether two display references name the same file.
// Paths are compared after cleaning, and a missing .edl suffix is ignored.
func SamePath(a, b string) bool {
	return normalize(a) == normalize(b)
}

func normalize(p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	return strings.TrimSuffix(p, ".edl")
}
