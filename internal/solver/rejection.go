package solver

import (
	"math/rand"
	"time"
)

// maxRejectionAttempts bounds the shuffle-and-check loop, matching the
// original rejection_sampling_solver.py's attempt cap so that an
// over-constrained problem fails fast instead of spinning forever.
const maxRejectionAttempts = 200_000

// RejectionSamplingSolver repeatedly shuffles the value list, zips it
// against a shuffled key list, and checks every constraint as a
// predicate on the whole candidate assignment, looping until a valid
// assignment is found or the attempt cap is hit. It is the fastest
// variant when constraints are loose — the major item randomizer's
// actual load — and is the expected default (see the package doc).
type RejectionSamplingSolver[K comparable, V comparable] struct {
	c    *constraints[K, V]
	last []int
	have bool
	stats Stats
}

func NewRejectionSamplingSolver[K comparable, V comparable]() *RejectionSamplingSolver[K, V] {
	return &RejectionSamplingSolver[K, V]{}
}

func (s *RejectionSamplingSolver[K, V]) AddPermutationProblem(keys []K, values []V) {
	s.c = newConstraints(keys, values)
}

func (s *RejectionSamplingSolver[K, V]) Forbid(key K, value V) { s.c.forbid(key, value) }
func (s *RejectionSamplingSolver[K, V]) Require(key K, value V) { s.c.require(key, value) }
func (s *RejectionSamplingSolver[K, V]) ForbidAll(keys []K, values []V) { s.c.forbidAll(keys, values) }
func (s *RejectionSamplingSolver[K, V]) AtLeastOneOf(keys []K, values []V) { s.c.atLeastOne(keys, values) }
func (s *RejectionSamplingSolver[K, V]) AddForbiddenSolutionMap(m map[K]V) { s.c.addForbiddenMap(m) }
func (s *RejectionSamplingSolver[K, V]) ClearForbiddenSolutionMaps() { s.c.clearForbiddenMaps() }

func (s *RejectionSamplingSolver[K, V]) Solve(seed int64, timeLimit time.Duration) (map[K]V, bool) {
	start := time.Now()
	src := rand.New(rand.NewSource(seed))
	n := len(s.c.keys)

	keyOrder := make([]int, n)
	valOrder := make([]int, n)
	for i := range keyOrder {
		keyOrder[i] = i
		valOrder[i] = i
	}

	attempts := 0
	for attempts < maxRejectionAttempts {
		attempts++
		if timeLimit > 0 && time.Since(start) > timeLimit {
			break
		}

		src.Shuffle(n, func(i, j int) { keyOrder[i], keyOrder[j] = keyOrder[j], keyOrder[i] })
		src.Shuffle(n, func(i, j int) { valOrder[i], valOrder[j] = valOrder[j], valOrder[i] })

		candidate := make([]int, n) // key-list-position -> value-list index
		ok := true
		assignment := make(map[K]int, n)
		for pos := 0; pos < n; pos++ {
			keyIdx := keyOrder[pos]
			valIdx := valOrder[pos]
			key := s.c.keys[keyIdx]
			if !s.c.allowed(key, valIdx) {
				ok = false
				break
			}
			candidate[keyIdx] = valIdx
			assignment[key] = valIdx
		}
		if !ok {
			continue
		}
		if !s.c.satisfiesAtLeastOneOf(assignment) {
			continue
		}
		solutionMap := s.c.toValueMap(candidate)
		if s.c.matchesAnyForbiddenMap(solutionMap) {
			continue
		}

		s.last = candidate
		s.have = true
		s.stats = Stats{Attempts: attempts, Elapsed: time.Since(start)}
		return solutionMap, true
	}

	s.stats = Stats{Attempts: attempts, Elapsed: time.Since(start)}
	return nil, false
}

func (s *RejectionSamplingSolver[K, V]) LastSolution() (map[K]V, bool) {
	if !s.have {
		return nil, false
	}
	return s.c.toValueMap(s.last), true
}

func (s *RejectionSamplingSolver[K, V]) LastSolutionIndices() ([]int, bool) {
	if !s.have {
		return nil, false
	}
	return append([]int(nil), s.last...), true
}

func (s *RejectionSamplingSolver[K, V]) GetStats() Stats { return s.stats }
