package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tensorcubes/pkg/layout"
)

// =============================================================================
// Scene - Renderer Input
// =============================================================================

// Scene is a serialized layout.
type Scene struct {
	// Configuration the boxes were computed from
	Shape          []int       `json:"shape"`
	SpatialDims    [3]int      `json:"spatial_dims"`
	OuterDims      []int       `json:"outer_dims"`
	Mode           string      `json:"mode"`
	MaxCellsPerDim int         `json:"max_cells_per_dim"`
	SliceIndices   map[int]int `json:"slice_indices,omitempty"`

	// Layout output
	Count      int    `json:"count"`
	Bounds     Bounds `json:"bounds"`
	ValueRange *Range `json:"value_range,omitempty"`
	Boxes      []Box  `json:"boxes"`
}

// Box is one positioned cell.
type Box struct {
	ID        string     `json:"id"`
	Position  [3]float64 `json:"position"`
	IndexPath []int      `json:"index_path"`
	Value     *float64   `json:"value,omitempty"`
}

// Bounds spans the box centers.
type Bounds struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Range is the span of attached values.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// New builds a scene from a config and the boxes computed for it.
func New(cfg layout.Config, boxes []layout.Box) Scene {
	outer := cfg.Outer
	if outer == nil {
		outer = layout.OuterDims(len(cfg.Shape), cfg.Spatial)
	}

	s := Scene{
		Shape:          append([]int{}, cfg.Shape...),
		SpatialDims:    cfg.Spatial,
		OuterDims:      append([]int{}, outer...),
		Mode:           cfg.Mode.String(),
		MaxCellsPerDim: cfg.MaxCellsPerDim,
		Count:          len(boxes),
		Boxes:          make([]Box, len(boxes)),
	}
	if cfg.Mode == layout.Slicing && len(cfg.SliceIndices) > 0 {
		s.SliceIndices = make(map[int]int, len(cfg.SliceIndices))
		for k, v := range cfg.SliceIndices {
			s.SliceIndices[k] = v
		}
	}

	b := layout.BoundsOf(boxes)
	s.Bounds = Bounds{Min: b.Min, Max: b.Max}
	if lo, hi, ok := layout.ValueRange(boxes); ok {
		s.ValueRange = &Range{Min: lo, Max: hi}
	}
	for i, box := range boxes {
		s.Boxes[i] = Box{
			ID:        box.ID,
			Position:  box.Position,
			IndexPath: box.IndexPath,
			Value:     box.Value,
		}
	}
	return s
}

// Config returns the layout configuration recorded in the scene. Data is
// not part of the wire format and is left nil.
func (s Scene) Config() (layout.Config, error) {
	mode, err := layout.ParseMode(s.Mode)
	if err != nil {
		return layout.Config{}, err
	}
	return layout.Config{
		Shape:          append([]int{}, s.Shape...),
		Spatial:        s.SpatialDims,
		Outer:          append([]int{}, s.OuterDims...),
		Mode:           mode,
		SliceIndices:   s.SliceIndices,
		MaxCellsPerDim: s.MaxCellsPerDim,
	}, nil
}

// LayoutBoxes converts the wire boxes back to layout boxes.
func (s Scene) LayoutBoxes() []layout.Box {
	out := make([]layout.Box, len(s.Boxes))
	for i, b := range s.Boxes {
		out[i] = layout.Box{
			ID:        b.ID,
			Position:  b.Position,
			IndexPath: b.IndexPath,
			Value:     b.Value,
		}
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Scene to pretty-printed JSON bytes.
func Marshal(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Scene.
// It rejects scenes whose mode is unknown or whose count disagrees with the
// number of boxes.
func Unmarshal(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	if _, err := layout.ParseMode(s.Mode); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	if s.Count != len(s.Boxes) {
		return Scene{}, fmt.Errorf("scene count %d does not match %d boxes", s.Count, len(s.Boxes))
	}
	return s, nil
}

// Write serializes s as JSON to w.
func Write(s Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFile writes a Scene to a JSON file.
func WriteFile(s Scene, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Scene from a JSON file.
func ReadFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
