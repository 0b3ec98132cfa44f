package layout

import (
	"fmt"

	"github.com/matzehuels/tensorcubes/pkg/tensor"
)

// Spacing is the gap, in cube widths, between adjacent tiled blocks.
const Spacing = 2

// Unbound marks an empty slot in [SpatialDims].
const Unbound = -1

// Mode selects how outer dimensions are displayed.
type Mode int

const (
	// Tiling repeats the spatial block once per outer index.
	Tiling Mode = iota
	// Slicing collapses each outer dimension to one chosen index.
	Slicing
)

// String returns "tiling" or "slicing".
func (m Mode) String() string {
	switch m {
	case Tiling:
		return "tiling"
	case Slicing:
		return "slicing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "tiling" or "slicing" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "tiling":
		return Tiling, nil
	case "slicing":
		return Slicing, nil
	default:
		return Tiling, fmt.Errorf("unknown mode %q (must be 'tiling' or 'slicing')", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Tiling && m != Slicing {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Axis is one of the three world axes.
type Axis int

// World axes. AxisNone marks a dimension that is not placed on any axis.
const (
	AxisNone Axis = iota - 1
	AxisX
	AxisY
	AxisZ
)

// String returns "x", "y", "z", or "-" for AxisNone.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "-"
	}
}

// SpatialDims binds tensor dimensions to the X, Y and Z axes, in that order.
// A slot holding [Unbound] maps nothing to its axis.
type SpatialDims [3]int

// NoSpatialDims returns a SpatialDims with every slot empty.
func NoSpatialDims() SpatialDims { return SpatialDims{Unbound, Unbound, Unbound} }

// Has reports whether dim is bound to any slot.
func (s SpatialDims) Has(dim int) bool {
	return s[0] == dim || s[1] == dim || s[2] == dim
}

// DefaultSpatialDims binds the last dimension to X, the one before it to Y
// and the third from last to Z, so a matrix reads as rows down and columns
// across. Slots beyond the rank stay unbound.
func DefaultSpatialDims(rank int) SpatialDims {
	s := NoSpatialDims()
	for slot := 0; slot < 3 && slot < rank; slot++ {
		s[slot] = rank - 1 - slot
	}
	return s
}

// OuterDims returns every dimension in [0, rank) not bound in spatial,
// in ascending order.
func OuterDims(rank int, spatial SpatialDims) []int {
	outer := make([]int, 0, rank)
	for d := 0; d < rank; d++ {
		if !spatial.Has(d) {
			outer = append(outer, d)
		}
	}
	return outer
}

// Config is the full input of a layout.
type Config struct {
	// Shape holds the tensor's dimension sizes.
	Shape tensor.Shape

	// Spatial binds up to three dimensions to X, Y and Z.
	Spatial SpatialDims

	// Outer lists the dimensions not bound in Spatial. When nil it is
	// derived with OuterDims.
	Outer []int

	// Mode selects tiling or slicing for outer dimensions.
	Mode Mode

	// SliceIndices picks the index shown for each page dimension in
	// Slicing mode. Missing entries default to 0; values are clamped.
	SliceIndices map[int]int

	// MaxCellsPerDim caps how many indices of a dimension are laid out.
	MaxCellsPerDim int

	// Data optionally supplies per-cell values.
	Data tensor.Value
}
