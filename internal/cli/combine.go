package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgrid/imgrid/pkg/errors"
	"github.com/imgrid/imgrid/pkg/imgio"
	"github.com/imgrid/imgrid/pkg/pipeline"
)

// combineOpts holds the command-line flags for the combine command.
type combineOpts struct {
	rows       int    // explicit grid rows (0 = infer)
	cols       int    // explicit grid cols (0 = infer)
	resize     bool   // scale each image to fit its cell
	fill       bool   // crop each image to cover its cell (implies resizing)
	background []int  // canvas background as R,G,B
	cellSize   string // combined cell size as WxH
	cellWidth  int    // explicit cell width (0 = widest image)
	cellHeight int    // explicit cell height (0 = tallest image)
	output     string // output file path (format by extension)
	show       bool   // open the result in the OS image viewer
	workers    int    // decode/place parallelism (0 = NumCPU)
	quality    int    // JPEG quality (0 = default)
	noCache    bool   // disable the canvas cache
	refresh    bool   // recompute even on a cache hit
}

// combineCommand creates the combine command, the main entry point of imgrid.
func (c *CLI) combineCommand() *cobra.Command {
	opts := combineOpts{background: []int{0, 0, 0}}

	cmd := &cobra.Command{
		Use:   "combine IMAGE...",
		Short: "Combine images into a single grid canvas",
		Long: `Combine composes the given images into one grid image. The grid shape is
inferred from the image count unless --rows or --cols pins it, every cell
has the same size (the widest/tallest source by default), and each image
is pasted centered in its cell over a solid background.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCombine(cmd, args, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", 0, "number of grid rows (default: inferred)")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "number of grid columns (default: inferred)")
	cmd.Flags().BoolVarP(&opts.resize, "resize", "r", false, "scale images to fit their cell, preserving aspect ratio")
	cmd.Flags().BoolVarP(&opts.fill, "fill", "f", false, "crop images to cover their cell entirely (implies --resize)")
	cmd.Flags().IntSliceVarP(&opts.background, "background", "b", opts.background, "background color as R,G,B")
	cmd.Flags().StringVar(&opts.cellSize, "cell-size", "", "cell size as WxH (e.g. 640x480)")
	cmd.Flags().IntVar(&opts.cellWidth, "cell-width", 0, "cell width (default: widest image)")
	cmd.Flags().IntVar(&opts.cellHeight, "cell-height", 0, "cell height (default: tallest image)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (format by extension: png, jpg, gif, tif, bmp)")
	cmd.Flags().BoolVarP(&opts.show, "show", "s", false, "open the result in the default image viewer")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "decode/place parallelism (default: number of CPUs)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default: 95)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the composed-canvas cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached canvas exists")

	return cmd
}

func (c *CLI) runCombine(cmd *cobra.Command, paths []string, opts *combineOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := buildOptions(cmd, opts)
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Combining %d images...", len(paths)))
	spinner.Start()
	result, err := runner.Execute(ctx, paths, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Combined %d images", result.Stats.ImageCount))
	printStats(result.Stats.ImageCount, result.Grid, result.Cell, result.CacheInfo.Hit)

	if opts.output != "" {
		if err := imgio.Save(result.Canvas, opts.output, popts.JPEGQuality); err != nil {
			return err
		}
		printFile(opts.output)
	}
	if opts.show {
		if err := imgio.Show(ctx, result.Canvas); err != nil {
			return err
		}
		printInfo("Opened in image viewer")
	}
	if opts.output == "" && !opts.show {
		printDetail("No output requested; use -o FILE to save or -s to view")
	}
	return nil
}

// buildOptions merges config-file defaults and flags into pipeline options.
// Flags the user set explicitly always win over the config file.
func buildOptions(cmd *cobra.Command, opts *combineOpts) (pipeline.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	flags := cmd.Flags()

	if !flags.Changed("resize") {
		opts.resize = cfg.Resize
	}
	if !flags.Changed("fill") {
		opts.fill = cfg.Fill
	}
	if !flags.Changed("background") && len(cfg.Background) == 3 {
		opts.background = cfg.Background
	}
	if !flags.Changed("workers") && cfg.Workers > 0 {
		opts.workers = cfg.Workers
	}
	if !flags.Changed("quality") && cfg.JPEGQuality > 0 {
		opts.quality = cfg.JPEGQuality
	}

	cellWidth, cellHeight := opts.cellWidth, opts.cellHeight
	if opts.cellSize != "" {
		if flags.Changed("cell-width") || flags.Changed("cell-height") {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput,
				"--cell-size cannot be combined with --cell-width/--cell-height")
		}
		cellWidth, cellHeight, err = parseCellSize(opts.cellSize)
		if err != nil {
			return pipeline.Options{}, err
		}
	}

	background, err := parseBackground(opts.background)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		NRows:       opts.rows,
		NCols:       opts.cols,
		CellWidth:   cellWidth,
		CellHeight:  cellHeight,
		Resize:      opts.resize,
		Fill:        opts.fill,
		Background:  background,
		Workers:     opts.workers,
		JPEGQuality: opts.quality,
		Refresh:     opts.refresh,
	}, nil
}

// parseCellSize parses a "WxH" string into width and height.
func parseCellSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidCellSize, "cell size must be WxH, got %q", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidCellSize, "cell width %q is not an integer", w)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidCellSize, "cell height %q is not an integer", h)
	}
	return width, height, nil
}

// parseBackground converts an R,G,B flag value into a pipeline color.
func parseBackground(rgb []int) (pipeline.RGB, error) {
	if len(rgb) != 3 {
		return pipeline.RGB{}, errors.New(errors.ErrCodeInvalidBackground,
			"background must be R,G,B, got %d values", len(rgb))
	}
	return pipeline.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
