// Package pkg provides the libraries behind tensorcubes, which lays out the
// shape of an N-dimensional array as unit cubes in 3D.
//
// # Overview
//
// A tensor shape such as [2, 3, 4, 5] is mapped onto positioned boxes. Up to
// three dimensions are bound to the X, Y and Z axes; the remaining outer
// dimensions are either tiled side by side or sliced down to a single page.
// Large dimensions are downsampled so a scene stays drawable.
//
// The typical data flow:
//
//	shape text or JSON tensor
//	         ↓
//	    [tensor] package (parse shape, infer shape from nested arrays)
//	         ↓
//	    [layout] package (roles, downsampling, positions, centering)
//	         ↓
//	    [scene] package (JSON wire format for renderers)
//
// # Quick Start
//
//	shape := tensor.ParseShape("2x3x4x5")
//	spatial := layout.DefaultSpatialDims(shape.Rank())
//	cfg := layout.Config{
//	    Shape:          shape,
//	    Spatial:        spatial,
//	    Outer:          layout.OuterDims(shape.Rank(), spatial),
//	    Mode:           layout.Tiling,
//	    MaxCellsPerDim: 8,
//	}
//	boxes := layout.Compute(cfg)
//	s := scene.New(cfg, boxes)
//
// # Main Packages
//
// [tensor] - Shape parsing, the recursive [tensor.Value] type, JSON tensor
// parsing and value lookup by index path.
//
// [layout] - The layout engine. Pure and synchronous; [layout.Compute]
// returns a fresh slice on every call.
//
// [scene] - Serialization of a computed layout together with its
// configuration, bounds and value range.
//
// [pipeline] - Options, validation and the cached [pipeline.Runner] used by
// both the CLI and the HTTP server.
//
// [cache] - Cache interface with null, file and Redis backends.
//
// [config] - TOML and YAML view files.
//
// [server] - HTTP API over the pipeline.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hooks for parse, layout, cache and HTTP events.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis tests
//
// [tensor]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/tensor
// [layout]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/layout
// [scene]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tensorcubes/pkg/observability
package pkg
