package voronoi

// labelClearance is the minimum distance, in units of [AverageSpacing],
// that other seeds keep from the month label seed.
const labelClearance = 1.8

// SelectLabel returns the index of the seed closest to the centre of b.
// Ties go to the lower index. It returns -1 when seeds is empty.
func SelectLabel(seeds []Point, b Rect) int {
	center := b.Center()
	best := -1
	bestDist := 0.0
	for i, s := range seeds {
		if d := s.Dist(center); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Repel pushes every seed closer than minDist to seeds[label] radially
// outward so that it ends exactly minDist away. The label seed, seeds that
// coincide with it and seeds that are already far enough are unchanged.
//
// seeds is not modified.
func Repel(seeds []Point, label int, minDist float64) []Point {
	out := append([]Point(nil), seeds...)
	if label < 0 || label >= len(seeds) {
		return out
	}

	anchor := seeds[label]
	for i, s := range seeds {
		if i == label {
			continue
		}
		d := s.Dist(anchor)
		if d <= 0 || d >= minDist {
			continue
		}
		f := minDist / d
		out[i] = Point{
			X: anchor.X + (s.X-anchor.X)*f,
			Y: anchor.Y + (s.Y-anchor.Y)*f,
		}
	}
	return out
}
