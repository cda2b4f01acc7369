package framework

import "math/rand/v2"

// Rand is the uniform random source consumed by every operator. *rand.Rand
// from math/rand/v2 satisfies it; tests substitute a seeded one.
//
// A Rand is not safe for concurrent use.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

// defaultSeed is used when callers pass seed == 0.
const defaultSeed uint64 = 1

// ResolveSeed maps seed == 0 to the default seed. Derive further seeds from
// the resolved value so that they stay distinct.
func ResolveSeed(seed uint64) uint64 {
	if seed == 0 {
		return defaultSeed
	}
	return seed
}

// NewRand returns a deterministic PCG-backed source. seed == 0 selects defaultSeed.
func NewRand(seed uint64) *rand.Rand {
	seed = ResolveSeed(seed)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample picks one element uniformly at random. ok is false for an empty slice.
func Sample[T any](rng Rand, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[rng.IntN(len(items))], true
}

// SampleN picks n distinct positions uniformly at random and returns their
// elements in sampled order. n is clamped to [0, len(items)].
func SampleN[T any](rng Rand, items []T, n int) []T {
	n = max(0, min(n, len(items)))
	out := make([]T, 0, n)
	if n == 0 {
		return out
	}
	for _, idx := range rng.Perm(len(items))[:n] {
		out = append(out, items[idx])
	}
	return out
}
