package voronoi

import "math"

// Padding is the fixed inset between the canvas edge and the diagram.
const Padding = 12.0

// spacingFactor scales the ideal grid spacing down so the chain walk leaves
// room near the rectangle edges.
const spacingFactor = 0.85

// Bounds returns the working rectangle for a width x height canvas.
//
// Callers must pass dimensions larger than 2*Padding. Smaller canvases
// yield a zero-size rectangle rather than an error.
func Bounds(width, height float64) Rect {
	return Rect{
		X:      Padding,
		Y:      Padding,
		Width:  max(width-2*Padding, 0),
		Height: max(height-2*Padding, 0),
	}
}

// AverageSpacing returns the nominal distance between neighbouring seeds
// when n seeds share the rectangle b.
func AverageSpacing(b Rect, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(b.Width, b.Height) / math.Sqrt(float64(n)) * spacingFactor
}
