package compose

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/imgrid/imgrid/pkg/grid"
)

// Place transforms img to match its placement plan and returns the pair
// ready for compositing. The transform depends on the plan's sizing mode:
//
//   - SizeOriginal: the image is returned untouched.
//   - SizeFit: uniform Lanczos resample to the plan's exact draw size,
//     which the plan computed to fit inside the cell.
//   - SizeCover: scale to cover the cell on both axes, then center-crop to
//     exactly cell size (imaging.Fill).
//
// Place never mutates img and is safe to call concurrently for distinct
// images.
func Place(img image.Image, cell grid.Cell, p grid.Placement) Placed {
	var out image.Image
	switch p.Mode {
	case grid.SizeFit:
		out = imaging.Resize(img, p.Width, p.Height, imaging.Lanczos)
	case grid.SizeCover:
		out = imaging.Fill(img, cell.Width, cell.Height, imaging.Center, imaging.Lanczos)
	default:
		out = img
	}
	return Placed{Image: out, Placement: p}
}
