package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
)

// shapeCommand parses shape text or a tensor file and shows the default
// dimension roles.
func (c *CLI) shapeCommand() *cobra.Command {
	var (
		tensorFile string
		mode       string
		maxCells   int
	)

	cmd := &cobra.Command{
		Use:   "shape [text...]",
		Short: "Parse a tensor shape and show how it would be laid out",
		Long: `Parse a tensor shape and show how it would be laid out.

Shape text is free-form: every run of digits is a dimension size, so
"2x3x4", "[2, 3, 4]" and "batch=2 rows=3 cols=4" all mean the same shape.
With --tensor the shape is inferred from a JSON nested-array file instead.`,
		Example: `  tensorcubes shape 2x3x4x5
  tensorcubes shape --tensor weights.json --mode slicing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Shape:    strings.Join(args, " "),
				Mode:     mode,
				MaxCells: maxCells,
				Logger:   c.Logger,
			}
			if tensorFile != "" {
				data, err := os.ReadFile(tensorFile)
				if err != nil {
					return fmt.Errorf("read tensor: %w", err)
				}
				opts.Tensor = string(data)
			}
			return c.runShape(opts)
		},
	}

	cmd.Flags().StringVar(&tensorFile, "tensor", "", "infer the shape from a JSON nested-array file")
	cmd.Flags().StringVar(&mode, "mode", pipeline.DefaultMode, "display mode for outer dimensions: tiling, slicing")
	cmd.Flags().IntVar(&maxCells, "max-cells", pipeline.DefaultMaxCells, "cells kept per dimension before downsampling")

	return cmd
}

func (c *CLI) runShape(opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	in, err := pipeline.Prepare(opts)
	if err != nil {
		return err
	}
	cfg := in.Config

	printKeyValue("Shape", cfg.Shape.String())
	printKeyValue("Rank", strconv.Itoa(cfg.Shape.Rank()))
	printKeyValue("Elements", strconv.Itoa(cfg.Shape.NumElements()))
	printKeyValue("Axes", formatAxes(cfg.Spatial))
	printKeyValue("Boxes", strconv.Itoa(layout.Count(cfg)))
	printNewline()
	printRoleTable(layout.Plan(cfg))
	return nil
}
