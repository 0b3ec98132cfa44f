package pipeline

import (
	"strings"

	"github.com/matzehuels/tensorcubes/pkg/cache"
	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/tensor"
)

// maxShapeText bounds shape text accepted from users.
const maxShapeText = 1024

// Source names for [Input.Source].
const (
	SourceShape  = "shape"
	SourceTensor = "tensor"
)

// Input is a resolved layout request.
type Input struct {
	Config layout.Config
	Source string

	// Hash identifies the tensor content for cache keys; empty for shape input
	// since the shape itself is part of the key.
	Hash string
}

// Prepare parses the input of opts and resolves it into an engine
// configuration. Defaults must already be applied.
//
// Shape text without digits is not an error; it yields an empty shape and
// therefore an empty scene. Slice indices are passed through unchecked since
// the engine clamps them.
func Prepare(opts Options) (*Input, error) {
	in := &Input{Source: SourceShape}
	var shape tensor.Shape

	if strings.TrimSpace(opts.Tensor) != "" {
		t, ok := tensor.ParseTensor(opts.Tensor)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTensor, "tensor must be a JSON array")
		}
		shape = t.Shape
		in.Config.Data = t.Data
		in.Source = SourceTensor
		in.Hash = cache.Hash([]byte(opts.Tensor))
	} else {
		shape = tensor.ParseShape(opts.Shape)
	}

	spatial, err := resolveAxes(opts.Axes, shape.Rank())
	if err != nil {
		return nil, err
	}
	mode, err := layout.ParseMode(opts.Mode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMode, err, "parse mode")
	}

	in.Config.Shape = shape
	in.Config.Spatial = spatial
	in.Config.Outer = layout.OuterDims(shape.Rank(), spatial)
	in.Config.Mode = mode
	in.Config.MaxCellsPerDim = opts.MaxCells
	if len(opts.Slices) > 0 {
		in.Config.SliceIndices = make(map[int]int, len(opts.Slices))
		for dim, idx := range opts.Slices {
			in.Config.SliceIndices[dim] = idx
		}
	}
	return in, nil
}

// resolveAxes maps an explicit axis list onto spatial slots, or falls back to
// [layout.DefaultSpatialDims] when the list is empty.
func resolveAxes(axes []int, rank int) (layout.SpatialDims, error) {
	if len(axes) == 0 {
		return layout.DefaultSpatialDims(rank), nil
	}
	if err := errors.ValidateAxes(axes, rank); err != nil {
		return layout.SpatialDims{}, err
	}
	spatial := layout.NoSpatialDims()
	for slot, dim := range axes {
		if dim >= 0 {
			spatial[slot] = dim
		}
	}
	return spatial, nil
}
