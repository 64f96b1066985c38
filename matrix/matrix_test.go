package matrix

import (
	"math"
	"testing"
)

func TestBuildSumsDuplicates(t *testing.T) {
	m, err := Build(2, []Triple{
		{0, 0, 1},
		{0, 0, 3},
		{0, 1, 2},
		{1, 1, 5},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d, _ := m.Diagonal(0)
	if d != 4 {
		t.Errorf("diagonal(0) = %v, want 4", d)
	}
	if m.NNZ() != 3 {
		t.Errorf("NNZ() = %v, want 3", m.NNZ())
	}
}

func TestBuildDropsZeroSum(t *testing.T) {
	m, err := Build(2, []Triple{
		{0, 1, 5},
		{0, 1, -5},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.NNZ() != 0 {
		t.Errorf("NNZ() = %v, want 0", m.NNZ())
	}
}

func TestBuildRejectsOutOfRange(t *testing.T) {
	if _, err := Build(2, []Triple{{2, 0, 1}}); err != ErrInvalidMatrix {
		t.Errorf("Build: got %v, want ErrInvalidMatrix", err)
	}
}

func TestBuildRejectsNonFinite(t *testing.T) {
	if _, err := Build(1, []Triple{{0, 0, math.NaN()}}); err != ErrInvalidMatrix {
		t.Errorf("Build: got %v, want ErrInvalidMatrix", err)
	}
}

func TestMatVec(t *testing.T) {
	// A = [[4,-1,0],[-1,4,-1],[0,-1,3]]
	m, err := Build(3, []Triple{
		{0, 0, 4}, {0, 1, -1},
		{1, 0, -1}, {1, 1, 4}, {1, 2, -1},
		{2, 1, -1}, {2, 2, 3},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	x := []float64{1, 1, 1}
	y := make([]float64, 3)
	if err := m.MatVec(x, y); err != nil {
		t.Fatalf("MatVec: %v", err)
	}
	want := []float64{3, 2, 2}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestMatVecTMatchesTranspose(t *testing.T) {
	m, err := Build(2, []Triple{
		{0, 0, 1}, {0, 1, 2},
		{1, 0, 3}, {1, 1, 4},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	x := []float64{1, 1}
	y := make([]float64, 2)
	if err := m.MatVecT(x, y); err != nil {
		t.Fatalf("MatVecT: %v", err)
	}
	// Aᵀ = [[1,3],[2,4]]; Aᵀ*[1,1] = [4,6]
	want := []float64{4, 6}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestColMatchesRowAfterTranspose(t *testing.T) {
	m, err := Build(3, []Triple{
		{0, 0, 4}, {0, 1, -1},
		{1, 0, -1}, {1, 1, 4}, {1, 2, -1},
		{2, 1, -1}, {2, 2, 3},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	col, err := m.Col(1)
	if err != nil {
		t.Fatalf("Col: %v", err)
	}
	var got []float64
	for {
		i, v, ok := col.Next()
		if !ok {
			break
		}
		_ = i
		got = append(got, v)
	}
	want := []float64{-1, 4, -1}
	if len(got) != len(want) {
		t.Fatalf("Col(1) has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Col(1)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRowOutOfRange(t *testing.T) {
	m, _ := Build(2, nil)
	if _, err := m.Row(5); err != ErrIndexOutOfRange {
		t.Errorf("Row(5): got %v, want ErrIndexOutOfRange", err)
	}
}
