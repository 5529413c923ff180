package voronoi

import "testing"

func TestHashString(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"28-2024-1", 1395008523},
		{"31-2024-0", 272783602},
		{"1-2025-5", -2036318331},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HashString(tt.in); got != tt.want {
				t.Errorf("HashString(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeedFor(t *testing.T) {
	if got, want := SeedFor(28, 2024, 1), HashString("28-2024-1"); got != want {
		t.Errorf("SeedFor(28, 2024, 1) = %d, want %d", got, want)
	}
	if SeedFor(31, 2024, 0) == SeedFor(31, 2024, 2) {
		t.Error("months with equal day counts should get different seeds")
	}
}

func TestRandSequence(t *testing.T) {
	tests := []struct {
		name string
		seed int32
		want []int64
	}{
		{"zero", 0, []int64{49297, 165494, 127551}},
		{"small", 97, []int64{18374, 184911, 166348}},
		{"february", 1395008523, []int64{208120, 15977, 52014}},
		{"negative", -2036318331, []int64{233146, 202643, 162720}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRand(tt.seed)
			for i, w := range tt.want {
				got := r.Float64()
				if want := float64(w) / lcgModulus; got != want {
					t.Errorf("value %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestRandRange(t *testing.T) {
	for _, seed := range []int32{0, 1, -1, 1 << 30, -1 << 31, 1<<31 - 1} {
		r := NewRand(seed)
		for i := 0; i < 1000; i++ {
			if v := r.Float64(); v < 0 || v >= 1 {
				t.Fatalf("seed %d: value %d out of range: %v", seed, i, v)
			}
		}
	}
}

func TestRandZeroValue(t *testing.T) {
	var r Rand
	if got, want := r.Float64(), NewRand(0).Float64(); got != want {
		t.Errorf("zero Rand = %v, want %v", got, want)
	}
}
