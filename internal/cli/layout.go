package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tensorcubes/pkg/config"
	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
	"github.com/matzehuels/tensorcubes/pkg/scene"
)

// layoutFlags are the raw flag values of the layout command.
type layoutFlags struct {
	shape      string
	tensorFile string
	axes       string
	mode       string
	maxCells   int
	slices     []string
	maxBoxes   int
	configFile string
	saveView   string
	output     string
	noCache    bool
	refresh    bool
}

// layoutCommand computes a scene and writes it as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the cube layout of a tensor and write it as a scene",
		Long: `Compute the cube layout of a tensor and write it as a scene.

The scene is a JSON file listing one box per kept cell with its centered
position, index path and (with --tensor) value. Renderers draw each box as a
cube.

Settings can come from a TOML or YAML view file (--config); flags given on the
command line override the file. Results are cached locally.`,
		Example: `  tensorcubes layout --shape 2x3x4x5 --mode slicing --slice 0=1
  tensorcubes layout --tensor weights.json --axes 1,0 -o -
  tensorcubes layout --config view.toml --max-cells 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, tensorPath, err := c.layoutOptions(cmd, f)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, tensorPath, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.shape, "shape", "", `shape text, e.g. "2x3x4"`)
	flags.StringVar(&f.tensorFile, "tensor", "", "JSON nested-array file; shape and values are taken from it")
	flags.StringVar(&f.axes, "axes", "", `dimensions bound to x,y,z; "-" leaves a slot empty (default: last three)`)
	flags.StringVar(&f.mode, "mode", pipeline.DefaultMode, "display mode for outer dimensions: tiling, slicing")
	flags.IntVar(&f.maxCells, "max-cells", pipeline.DefaultMaxCells, "cells kept per dimension before downsampling")
	flags.StringArrayVar(&f.slices, "slice", nil, "page index for a dimension in slicing mode, as dim=index (repeatable)")
	flags.IntVar(&f.maxBoxes, "max-boxes", pipeline.DefaultMaxBoxes, "fail if the layout would exceed this many boxes")
	flags.StringVarP(&f.configFile, "config", "c", "", "view file (.toml, .yaml)")
	flags.StringVar(&f.saveView, "save-view", "", "write the effective settings to a view file")
	flags.StringVarP(&f.output, "output", "o", defaultOutput, `output file ("-" for stdout)`)
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached scene exists")

	return cmd
}

// layoutOptions merges the view file and explicitly set flags into options.
// It also returns the path of the tensor file in effect, if any.
func (c *CLI) layoutOptions(cmd *cobra.Command, f layoutFlags) (pipeline.Options, string, error) {
	opts := pipeline.Options{Logger: c.Logger, Refresh: f.refresh}
	var tensorPath string

	if f.configFile != "" {
		view, err := config.Load(f.configFile)
		if err != nil {
			return opts, "", err
		}
		if err := view.Apply(&opts); err != nil {
			return opts, "", err
		}
		tensorPath = view.TensorPath()
		c.Logger.Debug("loaded view", "file", f.configFile)
	}

	changed := cmd.Flags().Changed
	if changed("shape") {
		opts.Shape = f.shape
		opts.Tensor, tensorPath = "", ""
	}
	if changed("tensor") {
		data, err := os.ReadFile(f.tensorFile)
		if err != nil {
			return opts, "", fmt.Errorf("read tensor: %w", err)
		}
		opts.Tensor, tensorPath = string(data), f.tensorFile
	}
	if changed("axes") {
		axes, err := parseAxes(f.axes)
		if err != nil {
			return opts, "", err
		}
		opts.Axes = axes
	}
	if changed("mode") || opts.Mode == "" {
		opts.Mode = f.mode
	}
	if changed("max-cells") || opts.MaxCells == 0 {
		opts.MaxCells = f.maxCells
	}
	if changed("max-boxes") || opts.MaxBoxes == 0 {
		opts.MaxBoxes = f.maxBoxes
	}
	if changed("slice") {
		slices, err := parseSlices(f.slices)
		if err != nil {
			return opts, "", err
		}
		opts.Slices = slices
	}

	if opts.Shape == "" && opts.Tensor == "" {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "nothing to lay out: pass --shape, --tensor or --config")
	}
	return opts, tensorPath, nil
}

// runLayout computes the scene, writes it and prints a summary.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, tensorPath string, f layoutFlags) error {
	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := f.output == "-"

	spinner := newSpinner(ctx, "Computing layout...")
	if !toStdout {
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if toStdout {
		return scene.Write(result.Scene, stdout)
	}

	prog := newProgress(c.Logger)
	if err := scene.WriteFile(result.Scene, f.output); err != nil {
		return fmt.Errorf("write output %s: %w", f.output, err)
	}
	prog.done("Wrote " + f.output)

	if f.saveView != "" {
		if err := c.saveView(opts, tensorPath, f.saveView); err != nil {
			return err
		}
	}

	printSuccess("Layout complete")
	printFile(f.output)
	printStats(result.Scene.Count, sceneBounds(result.Scene), result.CacheHit)
	printNewline()
	printRoleTable(result.Plan)
	for _, d := range result.Plan {
		if d.Role != layout.RolePage && d.Sampled() < d.Size {
			printWarning("dimension %d downsampled: %d of %d indices kept", d.Dim, d.Sampled(), d.Size)
		}
	}
	return nil
}

// saveView writes the effective options as a view file. The tensor file is
// recorded as an absolute path so the view works from any directory.
func (c *CLI) saveView(opts pipeline.Options, tensorPath, path string) error {
	format, err := config.FormatFor(path)
	if err != nil {
		return err
	}
	view := config.FromOptions(opts)
	if tensorPath != "" {
		abs, err := filepath.Abs(tensorPath)
		if err != nil {
			return err
		}
		view.TensorFile = abs
		view.Shape = ""
	}
	data, err := config.Encode(view, format)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write view %s: %w", path, err)
	}
	printInfo("Saved view to %s", path)
	printNextStep("Reuse", appName+" layout --config "+path)
	return nil
}

func sceneBounds(s scene.Scene) layout.Bounds {
	return layout.Bounds{Min: s.Bounds.Min, Max: s.Bounds.Max}
}
