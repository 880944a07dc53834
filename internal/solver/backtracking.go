package solver

import (
	"math/rand"
	"sort"
	"time"
)

// maxBacktrackDepth bounds how many times one Solve call may undo an
// assignment before giving up, matching the bounded-backtrack
// design of the original randomized_backtracking_solver.py (a full
// unbounded backtrack is exponential on pathological inputs; the
// original accepts a bounded risk of false negatives in exchange for
// a predictable worst case).
const maxBacktrackDepth = 5000

// BacktrackingSolver picks a random key order, greedily assigns the
// most-constrained key first, and backtracks to a bounded depth on
// failure. It is the middle ground between the loose-constraint
// rejection sampler and the tight-constraint assignment solver, with
// no external dependency.
type BacktrackingSolver[K comparable, V comparable] struct {
	c     *constraints[K, V]
	last  []int
	have  bool
	stats Stats
}

func NewBacktrackingSolver[K comparable, V comparable]() *BacktrackingSolver[K, V] {
	return &BacktrackingSolver[K, V]{}
}

func (s *BacktrackingSolver[K, V]) AddPermutationProblem(keys []K, values []V) {
	s.c = newConstraints(keys, values)
}

func (s *BacktrackingSolver[K, V]) Forbid(key K, value V)                { s.c.forbid(key, value) }
func (s *BacktrackingSolver[K, V]) Require(key K, value V)               { s.c.require(key, value) }
func (s *BacktrackingSolver[K, V]) ForbidAll(keys []K, values []V)       { s.c.forbidAll(keys, values) }
func (s *BacktrackingSolver[K, V]) AtLeastOneOf(keys []K, values []V)    { s.c.atLeastOne(keys, values) }
func (s *BacktrackingSolver[K, V]) AddForbiddenSolutionMap(m map[K]V)    { s.c.addForbiddenMap(m) }
func (s *BacktrackingSolver[K, V]) ClearForbiddenSolutionMaps()          { s.c.clearForbiddenMaps() }

func (s *BacktrackingSolver[K, V]) Solve(seed int64, timeLimit time.Duration) (map[K]V, bool) {
	start := time.Now()
	src := rand.New(rand.NewSource(seed))
	n := len(s.c.keys)

	keyOrder := make([]int, n)
	for i := range keyOrder {
		keyOrder[i] = i
	}
	src.Shuffle(n, func(i, j int) { keyOrder[i], keyOrder[j] = keyOrder[j], keyOrder[i] })
	// Most-constrained keys (fewest allowed values) go first; the
	// shuffle above orders keys with equal counts.
	allowedCount := make([]int, n)
	for i, k := range s.c.keys {
		for vi := 0; vi < n; vi++ {
			if s.c.allowed(k, vi) {
				allowedCount[i]++
			}
		}
	}
	sort.SliceStable(keyOrder, func(a, b int) bool { return allowedCount[keyOrder[a]] < allowedCount[keyOrder[b]] })

	assigned := make([]int, n) // value-list index per key-list position, -1 if unassigned
	for i := range assigned {
		assigned[i] = -1
	}
	usedValue := make([]bool, n)

	backtracks := 0
	var tryPos func(pos int) bool
	tryPos = func(pos int) bool {
		if timeLimit > 0 && time.Since(start) > timeLimit {
			return false
		}
		if pos == n {
			return true
		}
		keyIdx := keyOrder[pos]
		key := s.c.keys[keyIdx]

		candidates := make([]int, 0, n)
		for vi := 0; vi < n; vi++ {
			if !usedValue[vi] && s.c.allowed(key, vi) {
				candidates = append(candidates, vi)
			}
		}
		src.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		for _, vi := range candidates {
			assigned[keyIdx] = vi
			usedValue[vi] = true

			if tryPos(pos + 1) {
				return true
			}

			usedValue[vi] = false
			assigned[keyIdx] = -1
			backtracks++
			if backtracks > maxBacktrackDepth {
				return false
			}
		}
		return false
	}

	ok := tryPos(0)
	s.stats = Stats{Attempts: 1, Backtracks: backtracks, Elapsed: time.Since(start)}
	if !ok {
		return nil, false
	}

	assignment := make(map[K]int, n)
	for i, k := range s.c.keys {
		assignment[k] = assigned[i]
	}
	if !s.c.satisfiesAtLeastOneOf(assignment) {
		return nil, false
	}
	solutionMap := s.c.toValueMap(assigned)
	if s.c.matchesAnyForbiddenMap(solutionMap) {
		return nil, false
	}

	s.last = append([]int(nil), assigned...)
	s.have = true
	return solutionMap, true
}

func (s *BacktrackingSolver[K, V]) LastSolution() (map[K]V, bool) {
	if !s.have {
		return nil, false
	}
	return s.c.toValueMap(s.last), true
}

func (s *BacktrackingSolver[K, V]) LastSolutionIndices() ([]int, bool) {
	if !s.have {
		return nil, false
	}
	return append([]int(nil), s.last...), true
}

func (s *BacktrackingSolver[K, V]) GetStats() Stats { return s.stats }
