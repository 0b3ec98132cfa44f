package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
)

// sampleCommand prints the indices a dimension keeps after downsampling.
func (c *CLI) sampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample SIZE [CAP]",
		Short: "Show which indices of a dimension are kept when downsampling",
		Example: `  tensorcubes sample 100 5
  0, 25, 50, 74, 99`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[0])
			if err != nil || size < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "SIZE must be a non-negative integer, got %q", args[0])
			}
			limit := pipeline.DefaultMaxCells
			if len(args) == 2 {
				if limit, err = strconv.Atoi(args[1]); err != nil || limit < 0 {
					return errors.New(errors.ErrCodeInvalidInput, "CAP must be a non-negative integer, got %q", args[1])
				}
			}
			if size > pipeline.DefaultMaxBoxes {
				return errors.New(errors.ErrCodeTooLarge, "SIZE must be at most %d", pipeline.DefaultMaxBoxes)
			}

			indices := layout.Sample(size, limit)
			parts := make([]string, len(indices))
			for i, idx := range indices {
				parts[i] = strconv.Itoa(idx)
			}
			fmt.Fprintln(stdout, strings.Join(parts, ", "))
			c.Logger.Debug("sampled", "size", size, "cap", limit, "kept", len(indices))
			return nil
		},
	}
}
