package voronoi

const (
	// relaxIterations is the number of relaxation passes used by Generate.
	relaxIterations = 3

	// relaxPull is how far a seed moves toward its cell centroid per pass.
	// Stopping short of the centroid keeps seeds from crossing each other.
	relaxPull = 0.7
)

// Relax runs iterations passes of partial centroidal relaxation. Each pass
// rebuilds the diagram and moves every seed 70% of the way to its cell
// centroid. Seeds whose cell has (near) zero area stay put for that pass.
//
// The result has the same length and order as seeds; seeds is not modified.
func Relax(seeds []Point, b Rect, iterations int) []Point {
	cur := append([]Point(nil), seeds...)
	for range iterations {
		polys := BuildDiagram(cur, b)
		next := make([]Point, len(cur))
		for i, poly := range polys {
			next[i] = cur[i]
			if poly.Degenerate() {
				continue
			}
			c, _ := poly.Centroid()
			next[i] = Point{
				X: cur[i].X*(1-relaxPull) + c.X*relaxPull,
				Y: cur[i].Y*(1-relaxPull) + c.Y*relaxPull,
			}
		}
		cur = next
	}
	return cur
}
