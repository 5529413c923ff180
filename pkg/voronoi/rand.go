package voronoi

import "fmt"

// LCG parameters. The modulus keeps every intermediate product well
// inside int64.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// HashString returns a 32-bit rolling hash of s (h = h*31 + rune) with
// signed two's-complement wraparound.
func HashString(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// SeedFor returns the random seed for a month with dayCount days.
// month0 is zero-based (January = 0).
func SeedFor(dayCount, year, month0 int) int32 {
	return HashString(fmt.Sprintf("%d-%d-%d", dayCount, year, month0))
}

// Rand is a linear congruential generator. The zero value is a valid
// generator seeded with 0. A Rand is not safe for concurrent use.
type Rand struct {
	state int64
}

// NewRand returns a generator seeded with seed.
func NewRand(seed int32) *Rand {
	return &Rand{state: int64(seed)}
}

// Float64 advances the generator and returns a value in [0, 1).
// Negative states are folded into range so the stream never leaves [0, 1).
func (r *Rand) Float64() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	if r.state < 0 {
		r.state += lcgModulus
	}
	return float64(r.state) / lcgModulus
}
