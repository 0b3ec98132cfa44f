package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds file paths accepted from config files and requests.
const maxPathLength = 4096

// ValidateAxes checks a spatial axis assignment against a rank.
//
// axes lists the dimensions bound to X, Y and Z in that order; a negative
// entry leaves its slot unbound. The rules are:
//   - At most three slots
//   - Every bound dimension lies in [0, rank)
//   - No dimension is bound twice
func ValidateAxes(axes []int, rank int) error {
	if len(axes) > 3 {
		return New(ErrCodeInvalidAxes, "at most 3 spatial axes allowed, got %d", len(axes))
	}

	seen := make(map[int]bool, len(axes))
	for slot, dim := range axes {
		if dim < 0 {
			continue
		}
		if dim >= rank {
			return New(ErrCodeInvalidAxes, "axis %s refers to dimension %d, shape has rank %d", slotName(slot), dim, rank)
		}
		if seen[dim] {
			return New(ErrCodeInvalidAxes, "dimension %d is bound to more than one axis", dim)
		}
		seen[dim] = true
	}
	return nil
}

// ValidateMode checks that mode names a display mode. Empty selects the default.
func ValidateMode(mode string) error {
	switch mode {
	case "", "tiling", "slicing":
		return nil
	default:
		return New(ErrCodeInvalidMode, "invalid mode: %q (must be 'tiling' or 'slicing')", mode)
	}
}

// ValidateMaxCells checks the per-dimension cell cap. Zero selects the default.
func ValidateMaxCells(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "max cells per dimension must be positive, got %d", n)
	}
	return nil
}

// ValidateFilePath checks a file path read from a config file or request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

func slotName(slot int) string {
	switch slot {
	case 0:
		return "x"
	case 1:
		return "y"
	default:
		return "z"
	}
}
