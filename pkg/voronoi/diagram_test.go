package voronoi

import (
	"math"
	"testing"
)

func TestClipBisector(t *testing.T) {
	sq := square(10)

	left := ClipBisector(sq, Point{X: 2, Y: 5}, Point{X: 8, Y: 5})
	if got := math.Abs(left.Area()); math.Abs(got-50) > eps {
		t.Errorf("left half area = %v, want 50", got)
	}
	for _, p := range left {
		if p.X > 5+eps {
			t.Errorf("left half contains %+v", p)
		}
	}

	right := ClipBisector(sq, Point{X: 8, Y: 5}, Point{X: 2, Y: 5})
	if got := math.Abs(right.Area()); math.Abs(got-50) > eps {
		t.Errorf("right half area = %v, want 50", got)
	}

	if len(sq) != 4 || sq[1] != (Point{X: 10, Y: 0}) {
		t.Error("input polygon was modified")
	}
}

func TestClipBisectorCoincident(t *testing.T) {
	sq := square(10)
	got := ClipBisector(sq, Point{X: 3, Y: 3}, Point{X: 3, Y: 3})
	if len(got) != len(sq) {
		t.Fatalf("coincident seeds changed polygon: %+v", got)
	}
	for i := range sq {
		if got[i] != sq[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, got[i], sq[i])
		}
	}
}

func TestClipBisectorOutside(t *testing.T) {
	// The bisector of (20,5) and (40,5) is x=30, so the whole square is kept.
	got := ClipBisector(square(10), Point{X: 20, Y: 5}, Point{X: 40, Y: 5})
	if math.Abs(math.Abs(got.Area())-100) > eps {
		t.Errorf("area = %v, want 100", got.Area())
	}

	// Seen from the far seed, nothing of the square remains.
	if got := ClipBisector(square(10), Point{X: 40, Y: 5}, Point{X: 20, Y: 5}); len(got) != 0 {
		t.Errorf("expected empty polygon, got %+v", got)
	}
}

func TestBuildDiagramSingleSeed(t *testing.T) {
	b := Bounds(300, 300)
	polys := BuildDiagram([]Point{{X: 100, Y: 100}}, b)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons", len(polys))
	}
	want := b.Polygon()
	if len(polys[0]) != 4 {
		t.Fatalf("expected bounds rectangle, got %+v", polys[0])
	}
	for i := range want {
		if polys[0][i] != want[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, polys[0][i], want[i])
		}
	}
}

func TestBuildDiagramPartition(t *testing.T) {
	b := Bounds(300, 300)
	seeds := GenerateSeeds(30, b, NewRand(SeedFor(30, 2024, 3)), 90, 110)
	polys := BuildDiagram(seeds, b)

	var total float64
	for i, poly := range polys {
		if len(poly) < 3 {
			t.Fatalf("cell %d is empty", i)
		}
		total += math.Abs(poly.Area())
		for _, p := range poly {
			if !b.Contains(p, 1e-6) {
				t.Errorf("cell %d vertex %+v outside bounds", i, p)
			}
		}
		assertConvex(t, i, poly)
	}
	if math.Abs(total-b.Area()) > 1e-6*b.Area() {
		t.Errorf("cell areas sum to %v, want %v", total, b.Area())
	}

	// Every sample point belongs to the cell of its nearest seed.
	for x := b.X + 1; x < b.X+b.Width; x += 7 {
		for y := b.Y + 1; y < b.Y+b.Height; y += 7 {
			p := Point{X: x, Y: y}
			nearest := 0
			for i, s := range seeds {
				if p.Dist(s) < p.Dist(seeds[nearest]) {
					nearest = i
				}
			}
			if !containsPoint(polys[nearest], p) {
				t.Errorf("%+v not in cell of nearest seed %d", p, nearest)
			}
		}
	}
}

func assertConvex(t *testing.T, idx int, poly Polygon) {
	t.Helper()
	sign := 0.0
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		c := poly[(i+2)%len(poly)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < 1e-9 {
			continue
		}
		if sign == 0 {
			sign = math.Copysign(1, cross)
		} else if math.Copysign(1, cross) != sign {
			t.Errorf("cell %d is not convex", idx)
			return
		}
	}
}

// containsPoint reports whether p lies inside the convex ring poly, with a
// small tolerance for points on an edge.
func containsPoint(poly Polygon, p Point) bool {
	orient := math.Copysign(1, poly.Area())
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross*orient < -1e-6 {
			return false
		}
	}
	return true
}
