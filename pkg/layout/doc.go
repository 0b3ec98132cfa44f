// Package layout places the cells of an N-dimensional tensor in 3D space.
//
// A [Config] names the tensor shape, which dimensions map straight onto the
// X, Y and Z axes ([SpatialDims]), and how the remaining outer dimensions are
// shown ([Mode]). [Compute] turns that into one [Box] per rendered cell, each
// carrying a centered position, the index path it stands for, and an
// optional value looked up from the configured data.
//
// # Modes
//
// In [Tiling] mode every outer dimension repeats the spatial block along an
// axis. Outer dimensions cycle through Y, X, Z in ascending dimension order,
// and each further dimension on the same axis steps over everything already
// placed there plus [Spacing], so nested tiles never overlap.
//
// In [Slicing] mode every outer dimension is a page: it contributes a single
// index taken from Config.SliceIndices (default 0, clamped into range).
//
// # Downsampling
//
// Dimensions larger than Config.MaxCellsPerDim are reduced by [Sample] to an
// evenly spaced subset that keeps both endpoints. Positions advance by the
// rank of an index within its sampled set, not by the index itself, so a
// downsampled dimension still lays out contiguously.
//
// # Usage
//
//	cfg := layout.Config{
//	    Shape:          tensor.Shape{2, 3, 4},
//	    Spatial:        layout.DefaultSpatialDims(3),
//	    Mode:           layout.Tiling,
//	    MaxCellsPerDim: 8,
//	}
//	boxes := layout.Compute(cfg)
//
// [Append] does the same into a caller-owned slice, for callers that re-run
// layouts often and want to reuse the backing array.
//
// # Concurrency
//
// Every function is pure: no package state is read or written, and results
// are fresh slices. All functions are safe for concurrent use.
package layout
