// Package pipeline turns user-facing layout options into scenes.
//
// It is the single path shared by the CLI and the HTTP API:
//
//  1. Prepare: parse the shape text or tensor literal and resolve axes, mode
//     and caps into a [layout.Config]
//  2. Layout: run the engine (or read a cached scene) and wrap the boxes in a
//     [scene.Scene]
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Shape: "batch 2, rows 3, cols 4",
//	    Mode:  "slicing",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Scene.Count)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tensorcubes/pkg/cache"
	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxCells is the per-dimension cell cap before downsampling.
	DefaultMaxCells = 8

	// DefaultMode is the display mode for outer dimensions.
	DefaultMode = "tiling"

	// DefaultMaxBoxes bounds the number of boxes a single layout may produce.
	DefaultMaxBoxes = 1 << 20
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one layout.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input. Tensor, when set, takes precedence and Shape is ignored.
	Shape  string `json:"shape,omitempty"`  // free-form shape text, e.g. "2x3x4"
	Tensor string `json:"tensor,omitempty"` // nested JSON array literal

	// Layout options
	Axes     []int       `json:"axes,omitempty"` // dims bound to x, y, z; negative = unbound; empty = default
	Mode     string      `json:"mode,omitempty"`
	MaxCells int         `json:"max_cells,omitempty"`
	Slices   map[int]int `json:"slices,omitempty"` // page dimension -> index, slicing mode
	MaxBoxes int         `json:"max_boxes,omitempty"`
	Refresh  bool        `json:"refresh,omitempty"` // ignore cached scenes

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the serializable layout.
	Scene scene.Scene

	// Plan describes the role each dimension played.
	Plan []layout.DimPlan

	// Source is "shape" or "tensor".
	Source string

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rank       int
	Boxes      int
	ParseTime  time.Duration
	LayoutTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.MaxCells == 0 {
		o.MaxCells = DefaultMaxCells
	}
	if o.MaxBoxes == 0 {
		o.MaxBoxes = DefaultMaxBoxes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the fields that do not depend on the input rank. Axes are
// checked by [Prepare] once the shape is known.
func (o *Options) Validate() error {
	if err := errors.ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := errors.ValidateMaxCells(o.MaxCells); err != nil {
		return err
	}
	if o.MaxBoxes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max boxes must be positive, got %d", o.MaxBoxes)
	}
	if o.Shape != "" && o.Tensor == "" && len(o.Shape) > maxShapeText {
		return errors.New(errors.ErrCodeInvalidShape, "shape text too long (max %d characters)", maxShapeText)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// LayoutKeyOpts returns cache key options for a prepared configuration.
func LayoutKeyOpts(cfg layout.Config) cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Shape:    cfg.Shape,
		Axes:     cfg.Spatial,
		Outer:    cfg.Outer,
		Mode:     cfg.Mode.String(),
		MaxCells: cfg.MaxCellsPerDim,
	}
	if cfg.Mode == layout.Slicing {
		opts.Slices = cfg.SliceIndices
	}
	return opts
}
