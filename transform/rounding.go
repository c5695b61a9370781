package transform

import (
	"fmt"
	"math"
	"strings"
)

// Rounding selects how scaled coordinates are converted back to pixels
type Rounding int

const (
	// RoundHalfAwayFromZero rounds 2.5 to 3 and -2.5 to -3.
	RoundHalfAwayFromZero Rounding = iota
	// RoundHalfEven rounds 2.5 to 2 and 3.5 to 4.
	RoundHalfEven
	// Truncate drops the fractional part.
	Truncate
)

func (r Rounding) String() string {
	switch r {
	case RoundHalfEven:
		return "half-even"
	case Truncate:
		return "truncate"
	default:
		return "half-away-from-zero"
	}
}

// ParseRounding parses a rounding policy name
func ParseRounding(name string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "half-away-from-zero", "half-up", "round":
		return RoundHalfAwayFromZero, nil
	case "half-even", "bankers":
		return RoundHalfEven, nil
	case "truncate", "trunc":
		return Truncate, nil
	default:
		return RoundHalfAwayFromZero, fmt.Errorf("unknown rounding policy %q", name)
	}
}

// Apply converts f to an integer
func (r Rounding) Apply(f float64) int {
	switch r {
	case RoundHalfEven:
		return int(math.RoundToEven(f))
	case Truncate:
		return int(math.Trunc(f))
	default:
		return int(math.Round(f))
	}
}

// Scale multiplies n by factor and rounds the result
func (r Rounding) Scale(n int, factor float64) int {
	return r.Apply(float64(n) * factor)
}
