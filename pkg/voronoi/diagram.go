package voronoi

// BuildDiagram returns one convex polygon per seed: the part of b that is
// at least as close to that seed as to any other. polys[i] belongs to
// seeds[i].
//
// The construction clips b against every pairwise bisector and is O(n²)
// per seed, which is fine for the at most 31 seeds of a month.
func BuildDiagram(seeds []Point, b Rect) []Polygon {
	polys := make([]Polygon, len(seeds))
	for i, s := range seeds {
		poly := b.Polygon()
		for j, other := range seeds {
			if i == j {
				continue
			}
			poly = ClipBisector(poly, s, other)
			if len(poly) == 0 {
				break
			}
		}
		polys[i] = poly
	}
	return polys
}

// ClipBisector keeps the part of poly that lies on a's side of the
// perpendicular bisector between a and b. Points on the bisector count as
// inside. Coincident seeds have no bisector, so poly is returned as is.
//
// The input polygon is not modified.
func ClipBisector(poly Polygon, a, b Point) Polygon {
	normal := a.Sub(b)
	if normal.X == 0 && normal.Y == 0 {
		return poly
	}
	mid := a.Mid(b)
	inside := func(p Point) bool { return p.Sub(mid).Dot(normal) >= 0 }

	out := make(Polygon, 0, len(poly)+1)
	for i, curr := range poly {
		next := poly[(i+1)%len(poly)]
		currIn, nextIn := inside(curr), inside(next)

		switch {
		case currIn && nextIn:
			out = append(out, next)
		case currIn != nextIn:
			d := next.Sub(curr)
			t := mid.Sub(curr).Dot(normal) / d.Dot(normal)
			out = append(out, Point{X: curr.X + d.X*t, Y: curr.Y + d.Y*t})
			if nextIn {
				out = append(out, next)
			}
		}
	}
	return out
}
