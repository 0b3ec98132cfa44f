package layout

import "math"

// Role is how a dimension takes part in the layout.
type Role int

const (
	// RoleSpatial dimensions map directly onto X, Y or Z.
	RoleSpatial Role = iota
	// RoleTile dimensions repeat the spatial block along an axis.
	RoleTile
	// RolePage dimensions are fixed to one index.
	RolePage
	// RoleFree dimensions were neither bound nor listed as outer. They
	// are enumerated but add no offset.
	RoleFree
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleSpatial:
		return "spatial"
	case RoleTile:
		return "tile"
	case RolePage:
		return "page"
	default:
		return "free"
	}
}

// DimPlan describes how one dimension is laid out.
type DimPlan struct {
	Dim     int   // dimension index
	Size    int   // full size of the dimension
	Role    Role  // spatial, tile, page or free
	Axis    Axis  // axis the dimension advances along, AxisNone for pages
	Step    int   // distance per rank; 1 for spatial, 0 for pages
	Indices []int // sampled original indices, ascending
}

// Sampled returns how many indices of the dimension are laid out.
func (d DimPlan) Sampled() int { return len(d.Indices) }

// plan is the resolved per-dimension view of a Config.
type plan struct {
	dims []DimPlan
}

func newPlan(cfg Config) plan {
	rank := len(cfg.Shape)
	dims := make([]DimPlan, rank)
	for d := range dims {
		dims[d] = DimPlan{Dim: d, Size: cfg.Shape[d], Role: RoleFree, Axis: AxisNone}
	}

	// First claim wins when a dimension appears in more than one slot.
	for slot, d := range cfg.Spatial {
		if d < 0 || d >= rank || dims[d].Role == RoleSpatial {
			continue
		}
		dims[d].Role = RoleSpatial
		dims[d].Axis = Axis(slot)
		dims[d].Step = 1
	}

	outer := cfg.Outer
	if outer == nil {
		outer = OuterDims(rank, cfg.Spatial)
	}
	outerRole := RoleTile
	if cfg.Mode == Slicing {
		outerRole = RolePage
	}
	for _, d := range outer {
		if d < 0 || d >= rank || dims[d].Role != RoleFree {
			continue
		}
		dims[d].Role = outerRole
	}

	for d := range dims {
		if dims[d].Role == RolePage {
			dims[d].Indices = pageIndex(dims[d].Size, cfg.SliceIndices[d])
			continue
		}
		dims[d].Indices = Sample(dims[d].Size, cfg.MaxCellsPerDim)
	}

	assignTileSteps(dims)
	return plan{dims: dims}
}

// pageIndex clamps want into [0, size).
func pageIndex(size, want int) []int {
	if size <= 0 {
		return []int{}
	}
	return []int{max(0, min(want, size-1))}
}

// tileCycle is the axis order successive tile dimensions are assigned to.
var tileCycle = [3]Axis{AxisY, AxisX, AxisZ}

// assignTileSteps gives each tile dimension an axis and a step. Tiles are
// visited in ascending dimension order. A tile's step is the running step of
// its axis, which then grows to cover every repetition placed so far plus
// Spacing.
func assignTileSteps(dims []DimPlan) {
	var running [3]int
	for slot := range running {
		block := 1
		for _, d := range dims {
			if d.Role == RoleSpatial && d.Axis == Axis(slot) {
				block = d.Sampled()
			}
		}
		running[slot] = block + Spacing
	}

	i := 0
	for d := range dims {
		if dims[d].Role != RoleTile {
			continue
		}
		axis := tileCycle[i%len(tileCycle)]
		dims[d].Axis = axis
		dims[d].Step = running[axis]
		running[axis] = running[axis]*dims[d].Sampled() + Spacing
		i++
	}
}

// count returns the product of sampled set sizes, saturating at math.MaxInt.
func (p plan) count() int {
	if len(p.dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range p.dims {
		s := d.Sampled()
		if s == 0 {
			return 0
		}
		if n > math.MaxInt/s {
			n = math.MaxInt
			continue
		}
		n *= s
	}
	return n
}

// Plan resolves the role, axis, step and sampled indices of every dimension.
func Plan(cfg Config) []DimPlan {
	return newPlan(cfg).dims
}

// SampledSets returns the indices laid out for each dimension.
func SampledSets(cfg Config) [][]int {
	p := newPlan(cfg)
	sets := make([][]int, len(p.dims))
	for d, dim := range p.dims {
		sets[d] = dim.Indices
	}
	return sets
}

// Count returns how many boxes Compute would emit for cfg without
// enumerating them. The result saturates at math.MaxInt.
func Count(cfg Config) int {
	return newPlan(cfg).count()
}
