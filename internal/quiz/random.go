package quiz

import (
	"math/rand"
	"time"
)

// Random is the source of randomness used by the generator.
// Substitute a seeded or scripted source to make generation reproducible.
type Random interface {
	// Intn returns a uniform int in [0, n). n is always positive.
	Intn(n int) int

	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a math/rand backed Random.
// A zero seed means "seed from the current time", matching the CLI --seed flag.
func NewRand(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //#nosec G404 -- game randomness, not security
}

// between returns a uniform int in [lo, hi] (inclusive).
func between(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}
