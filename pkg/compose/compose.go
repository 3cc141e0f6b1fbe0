// Package compose executes a grid placement plan against real pixels.
//
// The package has two halves: Place transforms a single source image to its
// planned draw size (scaling and cropping via disintegration/imaging), and
// Composite pastes the placed images onto a background-filled canvas. Both
// are deterministic; Place calls for distinct images are independent and may
// run concurrently, while Composite is a single serial writer to the canvas.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/imgrid/imgrid/pkg/grid"
)

// Placed pairs a pixel-ready image with its placement plan.
// The image dimensions always match the plan's draw size.
type Placed struct {
	Image     image.Image
	Placement grid.Placement
}

// Composite allocates the output canvas and pastes every placed image into
// its row-major cell. The canvas is cols*cell.Width by rows*cell.Height,
// filled with bg; cells beyond the image count stay background-colored.
//
// Each paste is clipped to the intersection of its cell rectangle and the
// canvas, so an oversized unresized image never bleeds into neighboring
// cells. Images must be pasted in any order by exactly one goroutine; the
// returned canvas is not written to again.
func Composite(spec grid.Spec, cell grid.Cell, bg color.Color, placed []Placed) *image.NRGBA {
	canvas := imaging.New(spec.Cols*cell.Width, spec.Rows*cell.Height, bg)

	for _, p := range placed {
		paste(canvas, cell, p)
	}
	return canvas
}

// paste draws one placed image into its cell, clipping overflow.
func paste(canvas *image.NRGBA, cell grid.Cell, p Placed) {
	pl := p.Placement

	cellRect := image.Rect(
		pl.Col*cell.Width,
		pl.Row*cell.Height,
		(pl.Col+1)*cell.Width,
		(pl.Row+1)*cell.Height,
	)

	drawX := cellRect.Min.X + pl.OffsetX
	drawY := cellRect.Min.Y + pl.OffsetY
	drawRect := image.Rect(drawX, drawY, drawX+pl.Width, drawY+pl.Height)

	target := drawRect.Intersect(cellRect).Intersect(canvas.Bounds())
	if target.Empty() {
		return
	}

	// Shift the source point by however much clipping trimmed off the
	// top-left of the draw rectangle.
	src := p.Image.Bounds().Min.Add(target.Min.Sub(drawRect.Min))
	draw.Draw(canvas, target, p.Image, src, draw.Src)
}
