package voronoi

import (
	"math"
	"strconv"
	"strings"
)

// Inset shrinks poly toward its centroid so that every vertex ends gap
// units closer to it, stopping at the centroid itself.
func Inset(poly Polygon, gap float64) Polygon {
	c, ok := poly.Centroid()
	if !ok {
		return poly.Clone()
	}

	out := make(Polygon, len(poly))
	for i, p := range poly {
		dx, dy := p.X-c.X, p.Y-c.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dist = 1
		}
		scale := max(dist-gap, 0) / dist
		out[i] = Point{X: c.X + dx*scale, Y: c.Y + dy*scale}
	}
	return out
}

// Chaikin applies iterations passes of corner cutting. Each pass replaces
// every edge p0->p1 with the points at 25% and 75% along it, doubling the
// vertex count.
func Chaikin(poly Polygon, iterations int) Polygon {
	pts := poly.Clone()
	for range iterations {
		next := make(Polygon, 0, 2*len(pts))
		for i, p0 := range pts {
			p1 := pts[(i+1)%len(pts)]
			next = append(next,
				Point{X: 0.75*p0.X + 0.25*p1.X, Y: 0.75*p0.Y + 0.25*p1.Y},
				Point{X: 0.25*p0.X + 0.75*p1.X, Y: 0.25*p0.Y + 0.75*p1.Y},
			)
		}
		pts = next
	}
	return pts
}

// QuadSegment is a quadratic Bézier segment ending at To with control
// point Control. Its start is the end of the previous segment.
type QuadSegment struct {
	Control Point
	To      Point
}

// QuadSegments returns the closed curve through points that [PathData]
// serialises: starting at points[0], one segment per vertex whose control
// point is the vertex and whose end is the midpoint to the next vertex.
func QuadSegments(points []Point) []QuadSegment {
	n := len(points)
	segs := make([]QuadSegment, 0, n)
	for i := 1; i <= n; i++ {
		prev, curr := points[i-1], points[i%n]
		segs = append(segs, QuadSegment{Control: prev, To: prev.Mid(curr)})
	}
	return segs
}

// PathData serialises points as an SVG path: "M x y", then one
// "Q cx cy x y" per [QuadSegments] entry, then "Z". An empty ring yields
// the empty string.
func PathData(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, points[0])
	for _, s := range QuadSegments(points) {
		b.WriteString(" Q ")
		writePoint(&b, s.Control)
		b.WriteByte(' ')
		writePoint(&b, s.To)
	}
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

// formatCoord renders a coordinate with two decimals, which is well below
// a pixel and keeps paths compact.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
