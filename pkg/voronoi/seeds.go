package voronoi

import "math"

const (
	// seedMargin keeps walked seeds away from the rectangle edges.
	seedMargin = 20.0

	// firstSeedJitter is the extent of the random offset of day 0 from the
	// top-left margin corner.
	firstSeedJitter = 30.0

	// maxWalkAttempts bounds the candidate search for each chained seed.
	maxWalkAttempts = 50

	// minSeparation is the fraction of the minimum step length that a new
	// seed must keep from every earlier seed except its predecessor.
	minSeparation = 0.7

	// fallbackJitter is the fraction of a grid cell a fallback seed may
	// stray from the cell centre.
	fallbackJitter = 0.3
)

// GenerateSeeds places n seeds inside b by walking a chain: seed i is
// sampled at a random angle and a step length between minPct and maxPct
// percent of [AverageSpacing] from seed i-1.
//
// Day 0 starts near the top-left corner. A seed that cannot be placed in
// maxWalkAttempts tries falls back to a jittered grid position, so the
// walk always terminates. The returned slice is in day order.
func GenerateSeeds(n int, b Rect, rng *Rand, minPct, maxPct float64) []Point {
	if n <= 0 {
		return nil
	}

	avg := AverageSpacing(b, n)
	minStep := avg * (minPct / 100)
	maxStep := avg * (maxPct / 100)

	pts := make([]Point, 0, n)
	pts = append(pts, Point{
		X: b.X + seedMargin + rng.Float64()*firstSeedJitter,
		Y: b.Y + seedMargin + rng.Float64()*firstSeedJitter,
	})

	for i := 1; i < n; i++ {
		p, ok := walkStep(pts, b, rng, minStep, maxStep)
		if !ok {
			p = gridSeed(i, n, b, rng)
		}
		pts = append(pts, p)
	}
	return pts
}

// walkStep searches for the successor of the last point in pts.
func walkStep(pts []Point, b Rect, rng *Rand, minStep, maxStep float64) (Point, bool) {
	prev := pts[len(pts)-1]
	earlier := pts[:len(pts)-1]
	clearance := minStep * minSeparation

	for range maxWalkAttempts {
		angle := rng.Float64() * math.Pi * 2
		step := minStep + rng.Float64()*(maxStep-minStep)

		candidate := Point{
			X: prev.X + math.Cos(angle)*step,
			Y: prev.Y + math.Sin(angle)*step,
		}
		if !insideMargin(candidate, b) || crowded(candidate, earlier, clearance) {
			continue
		}
		return candidate, true
	}
	return Point{}, false
}

func insideMargin(p Point, b Rect) bool {
	return p.X > b.X+seedMargin && p.X < b.X+b.Width-seedMargin &&
		p.Y > b.Y+seedMargin && p.Y < b.Y+b.Height-seedMargin
}

func crowded(p Point, others []Point, clearance float64) bool {
	for _, o := range others {
		if p.Dist(o) < clearance {
			return true
		}
	}
	return false
}

// gridSeed returns a jittered position near the centre of grid cell i in a
// ceil(sqrt(n)) column layout.
func gridSeed(i, n int, b Rect, rng *Rand) Point {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	cellW := b.Width / float64(cols)
	cellH := b.Height / float64(cols)
	col := float64(i % cols)
	row := float64(i / cols)

	return Point{
		X: b.X + (col+0.5)*cellW + (rng.Float64()-0.5)*cellW*fallbackJitter,
		Y: b.Y + (row+0.5)*cellH + (rng.Float64()-0.5)*cellH*fallbackJitter,
	}
}
