package voronoi

import (
	"reflect"
	"testing"
)

func TestGenerateSeeds(t *testing.T) {
	b := Bounds(300, 300)

	for _, n := range []int{1, 2, 7, 28, 29, 30, 31} {
		seeds := GenerateSeeds(n, b, NewRand(SeedFor(n, 2024, 1)), 90, 110)
		if len(seeds) != n {
			t.Fatalf("n=%d: got %d seeds", n, len(seeds))
		}
		for i, s := range seeds {
			if !b.Contains(s, 0) {
				t.Errorf("n=%d: seed %d outside bounds: %+v", n, i, s)
			}
		}
	}
}

func TestGenerateSeedsFirstSeed(t *testing.T) {
	b := Bounds(300, 300)
	s := GenerateSeeds(5, b, NewRand(42), 90, 110)[0]

	lo := Padding + seedMargin
	hi := lo + firstSeedJitter
	if s.X < lo || s.X >= hi || s.Y < lo || s.Y >= hi {
		t.Errorf("first seed %+v outside [%v, %v)", s, lo, hi)
	}
}

func TestGenerateSeedsDeterministic(t *testing.T) {
	b := Bounds(300, 300)
	a := GenerateSeeds(31, b, NewRand(SeedFor(31, 2025, 0)), 90, 110)
	c := GenerateSeeds(31, b, NewRand(SeedFor(31, 2025, 0)), 90, 110)
	if !reflect.DeepEqual(a, c) {
		t.Error("same seed should give identical points")
	}

	d := GenerateSeeds(31, b, NewRand(SeedFor(31, 2025, 2)), 90, 110)
	if reflect.DeepEqual(a, d) {
		t.Error("different seeds should give different points")
	}
}

func TestGenerateSeedsEmpty(t *testing.T) {
	if got := GenerateSeeds(0, Bounds(300, 300), NewRand(1), 90, 110); len(got) != 0 {
		t.Errorf("expected no seeds, got %d", len(got))
	}
}

func TestGridSeed(t *testing.T) {
	b := Rect{Width: 90, Height: 90}
	// 9 seeds form a 3x3 grid of 30 unit cells; jitter stays within 15%.
	for i := 0; i < 9; i++ {
		p := gridSeed(i, 9, b, NewRand(int32(i)))
		cx := float64(i%3)*30 + 15
		cy := float64(i/3)*30 + 15
		if p.X < cx-4.5 || p.X > cx+4.5 || p.Y < cy-4.5 || p.Y > cy+4.5 {
			t.Errorf("gridSeed(%d) = %+v, want near (%v, %v)", i, p, cx, cy)
		}
	}
}
