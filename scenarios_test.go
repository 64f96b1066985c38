package sublinsolve

import (
	"math"
	"testing"

	"github.com/sublinsolve/sublinsolve/matrix"
)

func buildS1() *matrix.Matrix {
	m, _ := matrix.Build(3, []matrix.Triple{
		{I: 0, J: 0, V: 4}, {I: 0, J: 1, V: -1},
		{I: 1, J: 0, V: -1}, {I: 1, J: 1, V: 4}, {I: 1, J: 2, V: -1},
		{I: 2, J: 1, V: -1}, {I: 2, J: 2, V: 3},
	})
	return m
}

// S1: 3×3 strongly diagonally dominant system, method auto.
func TestScenarioS1(t *testing.T) {
	a := buildS1()
	b := []float64{15, 10, 10}
	result, err := Solve(a, b, Settings{Tolerance: 1e-10})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence, got %+v", result)
	}
	if result.Stats.Iterations > 30 {
		t.Errorf("Iterations = %d, want <= 30", result.Stats.Iterations)
	}
	if result.ResidualNorm > 1e-10 {
		t.Errorf("ResidualNorm = %v, want <= 1e-10", result.ResidualNorm)
	}
	want := []float64{5, 5, 5}
	for i := range want {
		if math.Abs(result.X[i]-want[i]) > 1e-6 {
			t.Errorf("X[%d] = %v, want %v", i, result.X[i], want[i])
		}
	}
}

// S2: 2×2 SPD system via explicit Conjugate-Gradient.
func TestScenarioS2(t *testing.T) {
	a, err := matrix.Build(2, []matrix.Triple{
		{I: 0, J: 0, V: 4}, {I: 0, J: 1, V: 1},
		{I: 1, J: 0, V: 1}, {I: 1, J: 1, V: 3},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := []float64{1, 2}
	result, err := Solve(a, b, Settings{Method: MethodConjugateGradient, Tolerance: 1e-10})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence, got %+v", result)
	}
	if result.Stats.Iterations > 2 {
		t.Errorf("Iterations = %d, want <= 2", result.Stats.Iterations)
	}
	want := []float64{1.0 / 11, 7.0 / 11}
	for i := range want {
		if math.Abs(result.X[i]-want[i]) > 1e-6 {
			t.Errorf("X[%d] = %v, want %v", i, result.X[i], want[i])
		}
	}
}

func buildCycle(n int) *matrix.Matrix {
	triples := make([]matrix.Triple, n)
	for i := 0; i < n; i++ {
		triples[i] = matrix.Triple{I: i, J: (i + 1) % n, V: 1}
	}
	m, _ := matrix.Build(n, triples)
	return m
}

// S4: PageRank on a 4-node cycle; all scores should equal 1/4.
func TestScenarioS4(t *testing.T) {
	w := buildCycle(4)
	result, err := PageRank(w, 0.85, nil, 1e-9, 0, Settings{Tolerance: 1e-9})
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	var sum float64
	for i, v := range result.Scores {
		sum += v
		if math.Abs(v-0.25) > 1e-6 {
			t.Errorf("Scores[%d] = %v, want ~0.25", i, v)
		}
	}
	if math.Abs(sum-1) > 1e-10 {
		t.Errorf("sum(Scores) = %v, want 1", sum)
	}
}

// S5: PageRank on the star graph 0->{1,2,3}; 1,2,3 share mass and outrank 0.
func TestScenarioS5(t *testing.T) {
	w, err := matrix.Build(4, []matrix.Triple{
		{I: 0, J: 1, V: 1}, {I: 0, J: 2, V: 1}, {I: 0, J: 3, V: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	result, err := PageRank(w, 0.85, nil, 1e-9, 1, Settings{Tolerance: 1e-9})
	if err != nil {
		t.Fatalf("PageRank: %v", err)
	}
	s := result.Scores
	if math.Abs(s[1]-s[2]) > 1e-6 || math.Abs(s[2]-s[3]) > 1e-6 {
		t.Errorf("expected nodes 1,2,3 to share mass, got %v", s)
	}
	if s[0] >= s[1] {
		t.Errorf("expected node 0 to have the lowest score, got %v", s)
	}
	if len(result.TopK) != 1 || result.TopK[0].Index == 0 {
		t.Errorf("TopK = %+v, want a single entry from {1,2,3}", result.TopK)
	}
}

// S6: NotDominant rejection for an explicit Neumann request.
func TestScenarioS6(t *testing.T) {
	a, err := matrix.Build(2, []matrix.Triple{
		{I: 0, J: 0, V: 1}, {I: 0, J: 1, V: 2},
		{I: 1, J: 0, V: 3}, {I: 1, J: 1, V: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = Solve(a, []float64{1, 1}, Settings{Method: MethodNeumann})
	if err != ErrNotDominant {
		t.Fatalf("Solve: got %v, want ErrNotDominant", err)
	}
}

// S7: cancellation mid-solve returns a partial, finite result.
func TestScenarioS7(t *testing.T) {
	const n = 2000
	triples := make([]matrix.Triple, 0, 3*n)
	for i := 0; i < n; i++ {
		triples = append(triples, matrix.Triple{I: i, J: i, V: 4})
		if i > 0 {
			triples = append(triples, matrix.Triple{I: i, J: i - 1, V: -1})
		}
		if i < n-1 {
			triples = append(triples, matrix.Triple{I: i, J: i + 1, V: -1})
		}
	}
	a, err := matrix.Build(n, triples)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}

	tok, cancel := NewCancelToken()
	settings := Settings{Tolerance: 1e-14, MaxIterations: 100000, Cancel: tok}

	progress, result := SolveStream(a, b, settings)
	if _, ok := progress.Next(); !ok {
		t.Fatal("expected at least one progress record before cancellation")
	}
	cancel()
	for {
		if _, ok := progress.Next(); !ok {
			break
		}
	}

	if !result.Cancelled {
		t.Errorf("Cancelled = false, want true")
	}
	if result.Converged {
		t.Errorf("Converged = true, want false")
	}
	if result.Stats.Iterations <= 0 {
		t.Errorf("Iterations = %d, want > 0", result.Stats.Iterations)
	}
	if math.IsNaN(result.ResidualNorm) || math.IsInf(result.ResidualNorm, 0) {
		t.Errorf("ResidualNorm = %v, want finite", result.ResidualNorm)
	}
}

// S3: single-entry estimation on a 10x10 row-stochastic chain via
// Bidirectional. The analytic half-width is constructed to satisfy the
// requested epsilon by sample-count derivation, so this is primarily a
// smoke test that the estimator runs to completion and returns sane
// figures.
func TestScenarioS3(t *testing.T) {
	const n = 10
	triples := make([]matrix.Triple, 0, n)
	for i := 0; i < n-1; i++ {
		triples = append(triples, matrix.Triple{I: i, J: i + 1, V: 1})
	}
	triples = append(triples, matrix.Triple{I: n - 1, J: n - 1, V: 1})
	a, err := matrix.Build(n, triples)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := make([]float64, n)
	b[0] = 1

	est, err := EstimateEntry(a, b, n-1, 0.01, 0.95, Settings{Method: MethodBidirectional, Seed: 42})
	if err != nil {
		t.Fatalf("EstimateEntry: %v", err)
	}
	if est.HalfWidth > 0.01 {
		t.Errorf("HalfWidth = %v, want <= 0.01", est.HalfWidth)
	}
	if math.IsNaN(est.Value) || math.IsInf(est.Value, 0) {
		t.Errorf("Value = %v, want finite", est.Value)
	}
}
