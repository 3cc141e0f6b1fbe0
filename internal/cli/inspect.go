package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgrid/imgrid/pkg/grid"
)

// inspectCommand creates the inspect command. It resolves the same layout
// the combine command would use but reads only image headers, so it is
// cheap to run on large inputs.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := combineOpts{background: []int{0, 0, 0}}

	cmd := &cobra.Command{
		Use:   "inspect IMAGE...",
		Short: "Print the resolved grid layout without composing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", 0, "number of grid rows (default: inferred)")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "number of grid columns (default: inferred)")
	cmd.Flags().BoolVarP(&opts.resize, "resize", "r", false, "plan with fit sizing")
	cmd.Flags().BoolVarP(&opts.fill, "fill", "f", false, "plan with cover sizing")
	cmd.Flags().StringVar(&opts.cellSize, "cell-size", "", "cell size as WxH (e.g. 640x480)")
	cmd.Flags().IntVar(&opts.cellWidth, "cell-width", 0, "cell width (default: widest image)")
	cmd.Flags().IntVar(&opts.cellHeight, "cell-height", 0, "cell height (default: tallest image)")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, paths []string, opts *combineOpts) error {
	popts, err := buildOptions(cmd, opts)
	if err != nil {
		return err
	}

	// Layout only reads headers; the cache would never be consulted.
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	spec, cell, placements, err := runner.Layout(cmd.Context(), paths, popts)
	if err != nil {
		return err
	}

	printKeyValue("Grid", fmt.Sprintf("%d x %d (rows x cols)", spec.Rows, spec.Cols))
	printKeyValue("Cell", fmt.Sprintf("%d x %d px", cell.Width, cell.Height))
	printKeyValue("Canvas", fmt.Sprintf("%d x %d px", spec.Cols*cell.Width, spec.Rows*cell.Height))
	printKeyValue("Mode", popts.Mode().String())
	printNewline()

	for i, p := range placements {
		placed := describePlacement(p, cell)
		printDetail("[%d] %s  cell (%d, %d)  %s", i, paths[i], p.Row, p.Col, placed)
	}
	return nil
}

// describePlacement summarizes where and how large an image lands in its cell.
func describePlacement(p grid.Placement, cell grid.Cell) string {
	s := fmt.Sprintf("%dx%d at +%d,+%d", p.Width, p.Height, p.OffsetX, p.OffsetY)
	if p.Width > cell.Width || p.Height > cell.Height {
		s += " (clipped)"
	}
	return s
}
