package grid

import "github.com/imgrid/imgrid/pkg/errors"

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Cell is the uniform slot size used for every position in the grid.
// Using one size for all cells keeps the layout math trivial: the canvas is
// exactly Cols*Width by Rows*Height.
type Cell = Size

// ResolveCell determines the cell size for the grid.
//
// width and height are optional explicit values; 0 means unset and is
// resolved independently per axis. An unset axis takes the maximum of all
// source image dimensions on that axis, which guarantees every unresized
// image fits its cell without cropping.
//
// ResolveCell fails with INVALID_CELL_SIZE when an explicit value is
// negative. dims must be non-empty; Resolve has already rejected empty input
// by the time the cell size is computed.
func ResolveCell(width, height int, dims []Size) (Cell, error) {
	if err := errors.ValidateCellSize(width, height); err != nil {
		return Cell{}, err
	}

	if width == 0 {
		for _, d := range dims {
			if d.Width > width {
				width = d.Width
			}
		}
	}
	if height == 0 {
		for _, d := range dims {
			if d.Height > height {
				height = d.Height
			}
		}
	}

	if width < 1 || height < 1 {
		return Cell{}, errors.New(errors.ErrCodeInvalidCellSize,
			"resolved cell size %dx%d is not positive", width, height)
	}

	return Cell{Width: width, Height: height}, nil
}
