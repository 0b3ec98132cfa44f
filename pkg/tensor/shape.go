package tensor

import (
	"strconv"
	"strings"
)

// MaxRank is the largest rank the parsers produce. Extra dimensions are dropped.
const MaxRank = 8

// Shape lists dimension sizes, outermost first.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// NumElements returns the product of all dimension sizes.
// An empty shape has no elements to lay out and returns 0.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two shapes have the same sizes in the same order.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String formats the shape as "[2, 3, 4]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseShape extracts dimension sizes from free-form text.
//
// Every maximal run of ASCII digits becomes one size. Zero and runs that
// overflow int are skipped, and only the first MaxRank sizes are kept.
// Text without digits yields an empty (non-nil) shape.
func ParseShape(text string) Shape {
	shape := Shape{}
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		n, err := strconv.Atoi(text[start:end])
		start = -1
		if err != nil || n <= 0 || len(shape) >= MaxRank {
			return
		}
		shape = append(shape, n)
	}
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return shape
}
