package cli

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tensorcubes/pkg/errors"
)

// parseAxes parses "--axes" values such as "2,1,0" or "3,-,1". Each entry is
// the dimension bound to x, y and z in turn; "-" or an empty entry leaves the
// slot unbound.
func parseAxes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return nil, errors.New(errors.ErrCodeInvalidAxes, "--axes takes at most 3 entries, got %d", len(parts))
	}
	axes := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			axes[i] = -1
			continue
		}
		dim, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidAxes, "--axes entry %q is not a dimension index", p)
		}
		if dim < 0 {
			dim = -1
		}
		axes[i] = dim
	}
	return axes, nil
}

// parseSlices parses repeated "--slice dim=index" values.
func parseSlices(values []string) (map[int]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	slices := make(map[int]int, len(values))
	for _, v := range values {
		k, val, ok := strings.Cut(v, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--slice %q: want dim=index", v)
		}
		dim, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || dim < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--slice %q: bad dimension", v)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--slice %q: bad index", v)
		}
		slices[dim] = idx
	}
	return slices, nil
}

// formatAxes renders axes the way --axes accepts them.
func formatAxes(axes [3]int) string {
	parts := make([]string, 3)
	for i, d := range axes {
		if d < 0 {
			parts[i] = "-"
		} else {
			parts[i] = strconv.Itoa(d)
		}
	}
	return strings.Join(parts, ",")
}
