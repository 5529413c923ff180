package voronoi

import (
	"math"
	"testing"
)

const eps = 1e-9

func square(size float64) Polygon {
	return Rect{Width: size, Height: size}.Polygon()
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          Rect
	}{
		{"square", 300, 300, Rect{X: 12, Y: 12, Width: 276, Height: 276}},
		{"wide", 400, 250, Rect{X: 12, Y: 12, Width: 376, Height: 226}},
		{"degenerate", 20, 10, Rect{X: 12, Y: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.width, tt.height); got != tt.want {
				t.Errorf("Bounds(%v, %v) = %+v, want %+v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestAverageSpacing(t *testing.T) {
	b := Bounds(300, 300)
	if got, want := AverageSpacing(b, 4), 276.0/2*0.85; math.Abs(got-want) > eps {
		t.Errorf("AverageSpacing = %v, want %v", got, want)
	}
	if got := AverageSpacing(b, 0); got != 0 {
		t.Errorf("AverageSpacing(0) = %v, want 0", got)
	}
}

func TestPolygonArea(t *testing.T) {
	sq := square(10)
	if got := sq.Area(); math.Abs(got-100) > eps {
		t.Errorf("Area = %v, want 100", got)
	}

	rev := Polygon{sq[3], sq[2], sq[1], sq[0]}
	if got := rev.Area(); math.Abs(got+100) > eps {
		t.Errorf("reversed Area = %v, want -100", got)
	}
}

func TestPolygonCentroid(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want Point
	}{
		{"square", square(10), Point{X: 5, Y: 5}},
		{"triangle", Polygon{{0, 0}, {6, 0}, {0, 6}}, Point{X: 2, Y: 2}},
		{"collinear", Polygon{{0, 0}, {2, 0}, {4, 0}}, Point{X: 2, Y: 0}},
		{"single", Polygon{{3, 4}}, Point{X: 3, Y: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.poly.Centroid()
			if !ok {
				t.Fatal("Centroid returned !ok")
			}
			if got.Dist(tt.want) > 1e-9 {
				t.Errorf("Centroid = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, ok := Polygon(nil).Centroid(); ok {
		t.Error("empty polygon should have no centroid")
	}
}

func TestPolygonDegenerate(t *testing.T) {
	if square(1).Degenerate() {
		t.Error("unit square should not be degenerate")
	}
	if !(Polygon{{0, 0}, {1, 1}}).Degenerate() {
		t.Error("two points should be degenerate")
	}
	if !(Polygon{{0, 0}, {1, 1}, {2, 2}}).Degenerate() {
		t.Error("collinear ring should be degenerate")
	}
}

func TestPolygonClone(t *testing.T) {
	sq := square(10)
	c := sq.Clone()
	c[0].X = 99
	if sq[0].X != 0 {
		t.Error("Clone should not share memory")
	}
	if Polygon(nil).Clone() != nil {
		t.Error("Clone(nil) should be nil")
	}
}
