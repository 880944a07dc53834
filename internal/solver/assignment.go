package solver

import (
	"math/rand"
	"time"
)

// AssignmentSolver is the fallback for very tight constraint sets. The
// corpus (and the wider Go ecosystem snapshot retrieved for this spec)
// contains no constraint-programming/CP-SAT/SAT-solving library — see
// DESIGN.md — so this is a hand-written all-different assignment
// search: forward-checking backtracking that always branches on the
// most-constrained remaining key (fewest legal values), breaking ties
// deterministically with the caller's seed. This gives the same
// determinism guarantees as the other two variants while handling
// constraint pressure the rejection sampler cannot: forward checking
// prunes a branch as soon as any unassigned key's domain goes empty,
// instead of discovering the conflict only at a full assignment.
type AssignmentSolver[K comparable, V comparable] struct {
	c     *constraints[K, V]
	last  []int
	have  bool
	stats Stats
}

func NewAssignmentSolver[K comparable, V comparable]() *AssignmentSolver[K, V] {
	return &AssignmentSolver[K, V]{}
}

func (s *AssignmentSolver[K, V]) AddPermutationProblem(keys []K, values []V) {
	s.c = newConstraints(keys, values)
}

func (s *AssignmentSolver[K, V]) Forbid(key K, value V)             { s.c.forbid(key, value) }
func (s *AssignmentSolver[K, V]) Require(key K, value V)            { s.c.require(key, value) }
func (s *AssignmentSolver[K, V]) ForbidAll(keys []K, values []V)    { s.c.forbidAll(keys, values) }
func (s *AssignmentSolver[K, V]) AtLeastOneOf(keys []K, values []V) { s.c.atLeastOne(keys, values) }
func (s *AssignmentSolver[K, V]) AddForbiddenSolutionMap(m map[K]V) { s.c.addForbiddenMap(m) }
func (s *AssignmentSolver[K, V]) ClearForbiddenSolutionMaps()       { s.c.clearForbiddenMaps() }

func (s *AssignmentSolver[K, V]) Solve(seed int64, timeLimit time.Duration) (map[K]V, bool) {
	start := time.Now()
	src := rand.New(rand.NewSource(seed))
	n := len(s.c.keys)

	// domains[i] is the fixed set of value-list indices keys[i] may
	// take; values already taken are tracked in usedValue, and each
	// step recounts every unassigned key's remaining legal values.
	domains := make([][]bool, n)
	for i, k := range s.c.keys {
		d := make([]bool, n)
		for vi := 0; vi < n; vi++ {
			d[vi] = s.c.allowed(k, vi)
		}
		domains[i] = d
	}

	assigned := make([]int, n)
	for i := range assigned {
		assigned[i] = -1
	}
	usedValue := make([]bool, n)

	attempts := 0
	var search func() bool
	search = func() bool {
		attempts++
		if timeLimit > 0 && time.Since(start) > timeLimit {
			return false
		}

		// Pick the unassigned key with the fewest legal values
		// remaining (most-constrained-first), breaking ties with the
		// seeded RNG for determinism without bias toward key order.
		best := -1
		bestCount := n + 1
		var tied []int
		for i := 0; i < n; i++ {
			if assigned[i] != -1 {
				continue
			}
			count := 0
			for vi := 0; vi < n; vi++ {
				if !usedValue[vi] && domains[i][vi] {
					count++
				}
			}
			switch {
			case count < bestCount:
				bestCount = count
				tied = []int{i}
			case count == bestCount:
				tied = append(tied, i)
			}
		}
		if len(tied) == 0 {
			return true // every key assigned
		}
		best = tied[src.Intn(len(tied))]
		if bestCount == 0 {
			return false // dead end: no legal value left for `best`
		}

		candidates := make([]int, 0, bestCount)
		for vi := 0; vi < n; vi++ {
			if !usedValue[vi] && domains[best][vi] {
				candidates = append(candidates, vi)
			}
		}
		src.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		for _, vi := range candidates {
			assigned[best] = vi
			usedValue[vi] = true

			if search() {
				return true
			}

			usedValue[vi] = false
			assigned[best] = -1
		}
		return false
	}

	ok := search()
	s.stats = Stats{Attempts: attempts, Elapsed: time.Since(start)}
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

func (s *AssignmentSolver[K, V]) LastSolution() (map[K]V, bool) {
	if !s.have {
		return nil, false
	}
	return s.c.toValueMap(s.last), true
}

func (s *AssignmentSolver[K, V]) LastSolutionIndices() ([]int, bool) {
	if !s.have {
		return nil, false
	}
	return append([]int(nil), s.last...), true
}

func (s *AssignmentSolver[K, V]) GetStats() Stats { return s.stats }
