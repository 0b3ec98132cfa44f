package layout

import "math"

// Bounds is an axis-aligned box spanning a set of positions.
type Bounds struct {
	Min, Max Vec3
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Vec3 {
	return Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// BoundsOf returns the bounds of the box positions. It returns the zero
// Bounds for an empty slice.
func BoundsOf(boxes []Box) Bounds {
	if len(boxes) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: boxes[0].Position, Max: boxes[0].Position}
	for _, box := range boxes[1:] {
		for a, v := range box.Position {
			b.Min[a] = math.Min(b.Min[a], v)
			b.Max[a] = math.Max(b.Max[a], v)
		}
	}
	return b
}

// ValueRange returns the smallest and largest values carried by boxes.
// ok is false when no box has a value.
func ValueRange(boxes []Box) (lo, hi float64, ok bool) {
	for _, b := range boxes {
		if b.Value == nil {
			continue
		}
		v := *b.Value
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

// Normalize maps v from [lo, hi] onto [0, 1] for heat coloring. A flat
// range maps everything to 0.5.
func Normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	t := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, t))
}
