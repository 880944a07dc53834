package solver

import (
	"testing"
	"time"
)

func allVariants() []Type {
	return []Type{RejectionSampling, RandomizedBacktracking, Assignment}
}

func TestSolveProducesBijection(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4"}
	values := []string{"a", "a", "b", "c"}

	for _, variant := range allVariants() {
		s := New[string, string](variant)
		s.AddPermutationProblem(keys, values)
		solution, ok := s.Solve(1, time.Second)
		if !ok {
			t.Fatalf("variant %d: expected a solution", variant)
		}
		if len(solution) != len(keys) {
			t.Fatalf("variant %d: expected %d assignments, got %d", variant, len(keys), len(solution))
		}
		indices, ok := s.LastSolutionIndices()
		if !ok || len(indices) != len(keys) {
			t.Fatalf("variant %d: LastSolutionIndices inconsistent", variant)
		}
		seen := map[int]bool{}
		for _, idx := range indices {
			if seen[idx] {
				t.Fatalf("variant %d: value index %d used twice, not a bijection", variant, idx)
			}
			seen[idx] = true
		}
	}
}

func TestSameSeedIsBitIdentical(t *testing.T) {
	keys := []int{0, 1, 2, 3, 4, 5}
	values := []string{"x", "x", "y", "z", "w", "w"}

	for _, variant := range allVariants() {
		s1 := New[int, string](variant)
		s1.AddPermutationProblem(keys, values)
		sol1, ok1 := s1.Solve(99, time.Second)

		s2 := New[int, string](variant)
		s2.AddPermutationProblem(keys, values)
		sol2, ok2 := s2.Solve(99, time.Second)

		if ok1 != ok2 {
			t.Fatalf("variant %d: success differed across identical runs", variant)
		}
		if !ok1 {
			continue
		}
		for k, v := range sol1 {
			if sol2[k] != v {
				t.Fatalf("variant %d: same seed produced different solutions at key %v", variant, k)
			}
		}
	}
}

func TestRequireAndForbidAreHonored(t *testing.T) {
	keys := []string{"a", "b", "c"}
	values := []string{"v1", "v2", "v3"}

	for _, variant := range allVariants() {
		s := New[string, string](variant)
		s.AddPermutationProblem(keys, values)
		s.Require("a", "v2")
		s.Forbid("b", "v3")

		solution, ok := s.Solve(7, time.Second)
		if !ok {
			t.Fatalf("variant %d: expected solution", variant)
		}
		if solution["a"] != "v2" {
			t.Fatalf("variant %d: require not honored: a=%v", variant, solution["a"])
		}
		if solution["b"] == "v3" {
			t.Fatalf("variant %d: forbid not honored: b=v3", variant)
		}
	}
}

func TestForbiddenSolutionMapExcludesExactMatch(t *testing.T) {
	keys := []string{"a", "b"}
	values := []string{"v1", "v2"}

	s := New[string, string](RejectionSampling)
	s.AddPermutationProblem(keys, values)
	s.AddForbiddenSolutionMap(map[string]string{"a": "v1", "b": "v2"})

	solution, ok := s.Solve(3, time.Second)
	if !ok {
		t.Fatalf("expected the other bijection to remain solvable")
	}
	if solution["a"] == "v1" && solution["b"] == "v2" {
		t.Fatalf("forbidden solution map was not honored")
	}
}
