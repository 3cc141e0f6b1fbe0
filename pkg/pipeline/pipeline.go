// Package pipeline provides the core combine pipeline for imgrid.
//
// This package implements the complete decode → layout → place → composite
// sequence that turns a list of image paths into a single grid canvas. By
// centralizing this logic, the CLI commands and any library callers share
// one set of defaults, validation rules, and caching behavior.
//
// # Architecture
//
// The pipeline is strictly linear, one pass per run:
//
//  1. Decode: read source images into pixel buffers
//  2. Layout: resolve the grid shape, cell size, and placement plan
//  3. Place: scale/crop each image to its planned draw size
//  4. Composite: paste everything onto a background-filled canvas
//
// All validation happens before stage 1; a failed run produces no output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Resize: true, Fill: true}
//	result, err := runner.Execute(ctx, paths, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	canvas := result.Canvas
package pipeline

import (
	"image"
	"image/color"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/imgrid/imgrid/pkg/cache"
	"github.com/imgrid/imgrid/pkg/errors"
	"github.com/imgrid/imgrid/pkg/grid"
	"github.com/imgrid/imgrid/pkg/imgio"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Callers
// =============================================================================

// DefaultJPEGQuality is the JPEG encoder quality used when saving.
const DefaultJPEGQuality = imgio.DefaultJPEGQuality

// DefaultWorkers returns the default parallelism for decode and place.
// Both stages are embarrassingly parallel across images.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// RGB is an immutable background color value. Channels are validated to
// [0, 255]; the zero value is black, matching the combine default.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// NRGBA converts the value to a stdlib color for canvas filling.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// Options contains all configuration for the combine pipeline.
type Options struct {
	// Layout options. 0 means "infer".
	NRows      int `json:"n_rows,omitempty"`
	NCols      int `json:"n_cols,omitempty"`
	CellWidth  int `json:"cell_width,omitempty"`
	CellHeight int `json:"cell_height,omitempty"`

	// Sizing options. Resize scales each image to fit its cell; Fill crops
	// it to cover the cell entirely (Fill implies resizing).
	Resize bool `json:"resize,omitempty"`
	Fill   bool `json:"fill,omitempty"`

	// Background is the canvas fill color behind and around images.
	Background RGB `json:"background,omitempty"`

	// Workers bounds decode/place parallelism. 0 means NumCPU.
	Workers int `json:"workers,omitempty"`

	// JPEGQuality applies when the result is saved as JPEG. 0 means default.
	JPEGQuality int `json:"jpeg_quality,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canvas is the composed grid image.
	Canvas *image.NRGBA

	// Grid is the resolved grid shape.
	Grid grid.Spec

	// Cell is the resolved uniform cell size.
	Cell grid.Cell

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the run was served from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount    int
	CanvasWidth   int
	CanvasHeight  int
	DecodeTime    time.Duration
	LayoutTime    time.Duration
	PlaceTime     time.Duration
	CompositeTime time.Duration
}

// CacheInfo tracks cache behavior for a run.
type CacheInfo struct {
	Hit bool // Whether the composed canvas came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies defaults. All
// validation is eager: it runs before any pixel work, and a failure means
// no canvas, file, or viewer window is ever produced.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults(imageCount int) error {
	if o.validated {
		return nil
	}

	if imageCount < 1 {
		return errors.New(errors.ErrCodeEmptyInput, "no images to combine")
	}
	if o.NRows < 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "rows must be a positive integer, got %d", o.NRows)
	}
	if o.NCols < 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "cols must be a positive integer, got %d", o.NCols)
	}
	if err := errors.ValidateCellSize(o.CellWidth, o.CellHeight); err != nil {
		return err
	}
	if err := errors.ValidateBackground(o.Background.R, o.Background.G, o.Background.B); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}

	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Mode returns the sizing mode selected by the Resize/Fill flags.
func (o *Options) Mode() grid.SizingMode {
	return grid.Mode(o.Resize, o.Fill)
}

// ComposeKeyOpts returns cache key options for the composed canvas.
// Every field that affects output pixels is included; Workers and logging
// are deliberately absent.
func (o *Options) ComposeKeyOpts() cache.ComposeKeyOpts {
	return cache.ComposeKeyOpts{
		Rows:       o.NRows,
		Cols:       o.NCols,
		Resize:     o.Resize,
		Fill:       o.Fill,
		Background: [3]int{o.Background.R, o.Background.G, o.Background.B},
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
	}
}
