// Package scene defines the JSON wire format consumed by renderers.
//
// A [Scene] carries the configuration a layout was computed from together
// with every positioned box, the bounds of their centers, and the range of
// attached values for heat coloring:
//
//	{
//	  "shape": [2, 3],
//	  "spatial_dims": [1, 0, -1],
//	  "outer_dims": [],
//	  "mode": "tiling",
//	  "max_cells_per_dim": 8,
//	  "count": 6,
//	  "bounds": {"min": [-1, -0.5, 0], "max": [1, 0.5, 0]},
//	  "boxes": [{"id": "0,0", "position": [-1, 0.5, 0], "index_path": [0, 0]}]
//	}
//
// The package sits at the serialization boundary: [layout.Box] is the
// in-memory form, [Box] the wire form. Use [New] to build a scene from a
// computed layout and [Scene.LayoutBoxes] to go back.
//
// Common operations:
//
//	s := scene.New(cfg, layout.Compute(cfg))
//	scene.WriteFile(s, "scene.json")
//	s, err := scene.ReadFile("scene.json")
package scene
