package grid

// SizingMode describes how an image's pixels are transformed to match the
// placement's draw size.
type SizingMode int

const (
	// SizeOriginal draws the image at its native size, centered in the cell.
	// Images larger than the cell overflow and are clipped at paste time.
	SizeOriginal SizingMode = iota

	// SizeFit scales the image uniformly so it fits entirely inside the
	// cell, touching it on at least one axis (letterboxing on the other).
	SizeFit

	// SizeCover scales the image uniformly so it covers the cell on both
	// axes, then center-crops to exactly the cell size.
	SizeCover
)

// String returns the mode name for logging.
func (m SizingMode) String() string {
	switch m {
	case SizeFit:
		return "fit"
	case SizeCover:
		return "cover"
	default:
		return "original"
	}
}

// Placement is the deterministic draw plan for one image: its grid cell,
// its draw size after sizing, and its centering offset within the cell.
// Offsets may be negative when an unresized image overflows its cell.
type Placement struct {
	Index   int        // position in the input order
	Row     int        // grid row, top to bottom
	Col     int        // grid column, left to right
	Mode    SizingMode // pixel transform to apply
	Width   int        // draw width after sizing
	Height  int        // draw height after sizing
	OffsetX int        // x offset within the cell (floor((cell-w)/2))
	OffsetY int        // y offset within the cell
}

// Mode selects the sizing mode from the resize/fill flags.
// fill implies cover even without resize, matching the combine semantics:
// cropping to fill only makes sense on a scaled image.
func Mode(resize, fill bool) SizingMode {
	switch {
	case fill:
		return SizeCover
	case resize:
		return SizeFit
	default:
		return SizeOriginal
	}
}

// PlanPlacements produces one Placement per image dimension, in input order.
// The plan is row-major and fully determined by its inputs; running it twice
// yields identical placements.
func PlanPlacements(spec Spec, cell Cell, dims []Size, mode SizingMode) []Placement {
	placements := make([]Placement, len(dims))
	for i, d := range dims {
		placements[i] = planOne(i, d, spec, cell, mode)
	}
	return placements
}

// planOne computes the placement of a single image.
func planOne(i int, d Size, spec Spec, cell Cell, mode SizingMode) Placement {
	row, col := spec.Position(i)
	p := Placement{Index: i, Row: row, Col: col, Mode: mode}

	switch mode {
	case SizeFit:
		p.Width, p.Height = FitSize(d, cell)
	case SizeCover:
		p.Width, p.Height = cell.Width, cell.Height
	default:
		p.Width, p.Height = d.Width, d.Height
	}

	p.OffsetX = floorDiv(cell.Width-p.Width, 2)
	p.OffsetY = floorDiv(cell.Height-p.Height, 2)
	return p
}

// FitSize returns the dimensions of d scaled uniformly by
// min(cell.Width/d.Width, cell.Height/d.Height): the largest size that
// preserves aspect ratio and fits inside the cell, touching it on at least
// one axis. The off axis rounds to nearest and never exceeds the cell.
// Dimensions are clamped to a minimum of 1.
func FitSize(d Size, cell Cell) (width, height int) {
	// cell.Width/d.Width <= cell.Height/d.Height, cross-multiplied.
	if cell.Width*d.Height <= cell.Height*d.Width {
		width = cell.Width
		height = roundDiv(d.Height*cell.Width, d.Width)
	} else {
		height = cell.Height
		width = roundDiv(d.Width*cell.Height, d.Height)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// roundDiv returns a/b rounded to the nearest integer, for positive a and b.
func roundDiv(a, b int) int {
	return (a + b/2) / b
}

// floorDiv returns floor(a/b) for positive b. Go's integer division
// truncates toward zero, which differs from floor for negative a: centering
// offsets must floor so overflow splits evenly on both sides.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
