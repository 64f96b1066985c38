package sublinsolve

import (
	"math"
	"testing"

	"github.com/sublinsolve/sublinsolve/matrix"
)

func TestAnalyzeDominantSymmetric(t *testing.T) {
	a := buildS1()
	an, err := Analyze(a)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.Dominance != DominanceBoth {
		t.Errorf("Dominance = %v, want DominanceBoth", an.Dominance)
	}
	if !an.Symmetric {
		t.Errorf("Symmetric = false, want true")
	}
	if an.DominanceDelta <= 0 {
		t.Errorf("DominanceDelta = %v, want > 0", an.DominanceDelta)
	}
	if an.ConditionNumber != -1 {
		t.Errorf("ConditionNumber = %v, want -1 (unknown)", an.ConditionNumber)
	}
}

func TestAnalyzeNotDominantNotSymmetric(t *testing.T) {
	a, err := matrix.Build(2, []matrix.Triple{
		{I: 0, J: 0, V: 1}, {I: 0, J: 1, V: 2},
		{I: 1, J: 0, V: 3}, {I: 1, J: 1, V: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	an, err := Analyze(a)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.Dominance != DominanceNone {
		t.Errorf("Dominance = %v, want DominanceNone", an.Dominance)
	}
	if an.Symmetric {
		t.Errorf("Symmetric = true, want false")
	}
}

func TestAnalyzeRowOnlyDominance(t *testing.T) {
	// row0: |2|-|1|=1>=0; row1: |5|-|4|=1>=0 -> row dominant.
	// col0: |2|-|4|=-2<0 -> not column dominant.
	a, err := matrix.Build(2, []matrix.Triple{
		{I: 0, J: 0, V: 2}, {I: 0, J: 1, V: 1},
		{I: 1, J: 0, V: 4}, {I: 1, J: 1, V: 5},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	an, err := Analyze(a)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.Dominance != DominanceRow {
		t.Errorf("Dominance = %v, want DominanceRow", an.Dominance)
	}
}

func TestAnalyzeSparsity(t *testing.T) {
	a := buildS1() // 3x3, 7 stored entries
	an, err := Analyze(a)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := 1 - 7.0/9.0
	if math.Abs(an.Sparsity-want) > 1e-12 {
		t.Errorf("Sparsity = %v, want %v", an.Sparsity, want)
	}
}

func TestAnalyzeRejectsEmptyDim(t *testing.T) {
	if _, err := Analyze(new(matrix.Matrix)); err == nil {
		t.Fatalf("Analyze(zero-dim matrix): expected error")
	}
}
