// Package rng wraps math/rand.Rand the way the teacher corpus does
// (see github.com/dshills/dungo/pkg/rng). There is no single stream
// shared across the attempt: each component that needs randomness (the
// driver's candidate-seed loop, the hint writer, the overworld and
// major item randomizers, each minor item level) builds its own RNG
// with New from the attempt's seed, and draws from it in a fixed
// order, so the same seed reproduces every component's draws.
// Per-level solver sub-seeds use the salted formula
// from the original implementation rather than dungo's SHA-256
// per-stage derivation, because levels must remain independently
// reproducible when only their own flags change.
package rng

import "math/rand"

// RNG is one seeded stream, owned by the component that created it
// and drawn from in a fixed order.
type RNG struct {
	seed   int64
	source *rand.Rand
}

// New creates an RNG seeded with seed.
func New(seed int64) *RNG {
	return &RNG{seed: seed, source: rand.New(rand.NewSource(seed))}
}

func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a pseudo-random integer in [0, n).
func (r *RNG) Intn(n int) int { return r.source.Intn(n) }

// IntRange returns a pseudo-random integer in [lo, hi] inclusive.
func (r *RNG) IntRange(lo, hi int) int {
	if lo > hi {
		panic("rng: IntRange: lo > hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.source.Intn(hi-lo+1)
}

// Int63n returns a pseudo-random int64 in [0, n).
func (r *RNG) Int63n(n int64) int64 { return r.source.Int63n(n) }

// Shuffle pseudo-randomizes the order of n elements in place.
func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.source.Shuffle(n, swap) }

// Choice returns a uniformly random element of a non-empty slice.
func Choice[T any](r *RNG, items []T) T {
	return items[r.source.Intn(len(items))]
}

// PerLevelSeed derives the salted per-level sub-seed used by the minor
// item randomizer: (seed + level*101) mod (2^31 - 1), floored to 1 if
// the result is zero, so that changing flags for one level does not
// scramble every other level's placement.
func PerLevelSeed(seed int64, level int) int64 {
	const modulus = int64(1)<<31 - 1
	v := (seed + int64(level)*101) % modulus
	if v < 0 {
		v += modulus
	}
	if v == 0 {
		v = 1
	}
	return v
}
