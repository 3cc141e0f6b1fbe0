// Package grid implements the layout engine for image grids.
//
// Given a number of source images and optional row/column constraints, the
// package resolves the final grid shape, derives a uniform cell size from
// the source dimensions, and produces a deterministic placement plan for
// every image. All of this is pure integer math over image dimensions: no
// pixel buffers are touched, so the layout logic can be tested with
// synthetic sizes and no codec dependency.
//
// The three stages mirror the compose pipeline:
//
//  1. Resolve: image count + optional rows/cols → Spec
//  2. ResolveCell: explicit size or per-axis maxima → Cell
//  3. PlanPlacements: dimensions + sizing flags → ordered []Placement
package grid

import (
	"math"

	"github.com/imgrid/imgrid/pkg/errors"
)

// Spec describes the resolved shape of the grid.
// Rows*Cols is always at least the number of images it was resolved for.
type Spec struct {
	Rows int
	Cols int
}

// Cells returns the total number of cells in the grid.
func (s Spec) Cells() int { return s.Rows * s.Cols }

// Position returns the row-major cell position for the image at index i:
// left-to-right, then top-to-bottom.
func (s Spec) Position(i int) (row, col int) {
	return i / s.Cols, i % s.Cols
}

// Resolve determines the grid shape for imageCount images.
//
// nRows and nCols are optional constraints; 0 means unset. The policy:
//   - Both unset: cols = ceil(sqrt(n)), rows = ceil(n/cols). This picks the
//     smallest near-square grid, favoring wider-than-tall on ties.
//   - One set: the other is the minimum that covers all images.
//   - Both set: used as given.
//
// Resolve fails with EMPTY_INPUT when imageCount < 1, and with INVALID_GRID
// when a constraint is negative or the explicit grid cannot hold all images.
func Resolve(imageCount, nRows, nCols int) (Spec, error) {
	if imageCount < 1 {
		return Spec{}, errors.New(errors.ErrCodeEmptyInput, "no images to combine")
	}
	if nRows < 0 {
		return Spec{}, errors.New(errors.ErrCodeInvalidGrid, "rows must be a positive integer, got %d", nRows)
	}
	if nCols < 0 {
		return Spec{}, errors.New(errors.ErrCodeInvalidGrid, "cols must be a positive integer, got %d", nCols)
	}

	switch {
	case nRows == 0 && nCols == 0:
		nCols = int(math.Ceil(math.Sqrt(float64(imageCount))))
		nRows = ceilDiv(imageCount, nCols)
	case nRows == 0:
		nRows = ceilDiv(imageCount, nCols)
	case nCols == 0:
		nCols = ceilDiv(imageCount, nRows)
	}

	if nRows*nCols < imageCount {
		return Spec{}, errors.New(errors.ErrCodeInvalidGrid,
			"grid %dx%d has %d cells, cannot hold %d images", nRows, nCols, nRows*nCols, imageCount)
	}

	return Spec{Rows: nRows, Cols: nCols}, nil
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
