package layout

import "math"

// Sample picks at most limit representative indices from [0, size).
//
// When size fits within limit every index is returned. A limit below 2
// keeps only index 0. Otherwise the indices round(i*step) for
// step = (size-1)/(limit-1) are taken, which always include 0 and size-1;
// duplicates from rounding are dropped so the result is strictly ascending
// and may be shorter than limit.
func Sample(size, limit int) []int {
	if size <= 0 {
		return []int{}
	}
	if size <= limit {
		out := make([]int, size)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if limit < 2 {
		return []int{0}
	}

	step := float64(size-1) / float64(limit-1)
	out := make([]int, 0, limit)
	for i := 0; i < limit; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > size-1 {
			idx = size - 1
		}
		if n := len(out); n > 0 && out[n-1] >= idx {
			continue
		}
		out = append(out, idx)
	}
	return out
}
