package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tensorcubes/pkg/tensor"
)

// maxPrealloc bounds how many boxes Append reserves up front.
const maxPrealloc = 1 << 20

// Vec3 is a point in world space.
type Vec3 [3]float64

// X returns the first component.
func (v Vec3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vec3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vec3) Z() float64 { return v[2] }

// Box is one rendered cell.
type Box struct {
	// ID is the comma-joined index path. It is unique within a layout and
	// stable across re-layouts of the same shape.
	ID string

	// Position is the cube's center after the layout is centered.
	Position Vec3

	// IndexPath holds one original index per dimension.
	IndexPath []int

	// Value is set when the config has data and a number exists at IndexPath.
	Value *float64
}

// HasValue reports whether the box carries a value.
func (b Box) HasValue() bool { return b.Value != nil }

// Compute lays out cfg and returns one box per cell of the Cartesian product
// of the sampled index sets. Boxes are ordered with dimension 0 varying
// slowest. An empty shape yields an empty slice.
func Compute(cfg Config) []Box {
	return Append(nil, cfg)
}

// Append is like Compute but appends the boxes to dst and returns the
// extended slice. Only the appended boxes are centered.
func Append(dst []Box, cfg Config) []Box {
	p := newPlan(cfg)
	rank := len(p.dims)
	total := p.count()
	if total == 0 {
		return dst
	}

	start := len(dst)
	if total <= maxPrealloc && cap(dst)-start < total {
		grown := make([]Box, start, start+total)
		copy(grown, dst)
		dst = grown
	}

	// Odometer over ranks within each sampled set; the last dimension
	// spins fastest.
	ranks := make([]int, rank)
	for {
		dst = append(dst, p.box(ranks, cfg.Data))

		d := rank - 1
		for ; d >= 0; d-- {
			ranks[d]++
			if ranks[d] < p.dims[d].Sampled() {
				break
			}
			ranks[d] = 0
		}
		if d < 0 {
			break
		}
	}

	center(dst[start:])
	return dst
}

// box builds the uncentered box at the given per-dimension ranks.
func (p plan) box(ranks []int, data tensor.Value) Box {
	path := make([]int, len(ranks))
	var pos Vec3
	for d, r := range ranks {
		dim := p.dims[d]
		path[d] = dim.Indices[r]
		if dim.Axis != AxisNone {
			pos[dim.Axis] += float64(r * dim.Step)
		}
	}
	// Rows run downward and depth runs away from the camera.
	pos[AxisY] = -pos[AxisY]
	pos[AxisZ] = -pos[AxisZ]

	b := Box{ID: pathID(path), Position: pos, IndexPath: path}
	if data != nil {
		if v, ok := tensor.Lookup(data, path); ok {
			b.Value = &v
		}
	}
	return b
}

// pathID joins an index path with commas.
func pathID(path []int) string {
	var sb strings.Builder
	for i, idx := range path {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// center shifts boxes so their bounding box is centered on the origin.
func center(boxes []Box) {
	if len(boxes) == 0 {
		return
	}
	c := BoundsOf(boxes).Center()
	for i := range boxes {
		for a := range c {
			boxes[i].Position[a] -= c[a]
		}
	}
}
