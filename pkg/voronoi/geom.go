package voronoi

import "math"

// degenerateArea is the absolute signed area below which a polygon is
// treated as having no area.
const degenerateArea = 1e-5

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point { return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2} }

// Rect is an axis-aligned rectangle. Width and Height are never negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Contains reports whether p lies inside r, allowing tol of slack on every side.
func (r Rect) Contains(p Point, tol float64) bool {
	return p.X >= r.X-tol && p.X <= r.X+r.Width+tol &&
		p.Y >= r.Y-tol && p.Y <= r.Y+r.Height+tol
}

// Polygon returns the four corners of r, clockwise from the top-left
// corner in screen coordinates.
func (r Rect) Polygon() Polygon {
	return Polygon{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// Polygon is a closed ring of points. The last point connects back to the
// first. Polygons produced by this package are convex.
type Polygon []Point

// Area returns the signed shoelace area of the ring.
func (poly Polygon) Area() float64 {
	var area float64
	for i, p0 := range poly {
		p1 := poly[(i+1)%len(poly)]
		area += p0.X*p1.Y - p1.X*p0.Y
	}
	return area / 2
}

// Degenerate reports whether the polygon has fewer than three points or
// (near) zero area.
func (poly Polygon) Degenerate() bool {
	return len(poly) < 3 || math.Abs(poly.Area()) < degenerateArea
}

// Centroid returns the area-weighted centroid of the ring. Rings with
// near-zero area fall back to the arithmetic mean of their vertices.
// It returns false for an empty polygon.
func (poly Polygon) Centroid() (Point, bool) {
	if len(poly) == 0 {
		return Point{}, false
	}

	var area, cx, cy float64
	for i, p0 := range poly {
		p1 := poly[(i+1)%len(poly)]
		cross := p0.X*p1.Y - p1.X*p0.Y
		area += cross
		cx += (p0.X + p1.X) * cross
		cy += (p0.Y + p1.Y) * cross
	}
	area *= 0.5

	if math.Abs(area) < degenerateArea {
		return poly.mean(), true
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}, true
}

func (poly Polygon) mean() Point {
	var sx, sy float64
	for _, p := range poly {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(poly))
	return Point{X: sx / n, Y: sy / n}
}

// Clone returns a copy of the polygon that shares no memory with poly.
func (poly Polygon) Clone() Polygon {
	if poly == nil {
		return nil
	}
	out := make(Polygon, len(poly))
	copy(out, poly)
	return out
}
