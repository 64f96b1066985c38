package sublinsolve

import (
	"math"

	"github.com/sublinsolve/sublinsolve/matrix"
)

// dominant reports whether d indicates row, column, or both-sided
// dominance. Rules 1 and 5 accept any of the three; rule 6, which needs row
// dominance, checks d directly.
func (d Dominance) dominant() bool { return d != DominanceNone }

// selectMethod implements the Method Oracle's selection rules (C12, §4.12),
// evaluated in order with first match winning. a is consulted only by rule
// 4, which needs the scaled spectral radius of the Neumann operator rather
// than anything already in an Analysis.
func selectMethod(a *matrix.Matrix, an Analysis, query QueryKind) MethodKind {
	switch {
	case query == QuerySingleEntry && an.Sparsity >= 0.9 && an.Dominance.dominant():
		return MethodBidirectional // rule 1
	case query == QuerySingleEntry:
		return MethodRandomWalk // rule 2
	case query == QueryPageRankTopK:
		return MethodForwardPush // rule 3
	case query == QueryPageRankFull:
		return MethodNeumann // rule 4 (pagerank-full)
	case query == QueryFullSolve && scaledSpectralRadius(a) < 0.5:
		return MethodNeumann // rule 4 (full-solve, contractive after scaling)
	case query == QueryFullSolve && an.Symmetric && an.Dominance.dominant():
		return MethodConjugateGradient // rule 5
	case query == QueryFullSolve && an.Sparsity >= 0.9 && (an.Dominance == DominanceRow || an.Dominance == DominanceBoth):
		return MethodForwardPush // rule 6
	default:
		return MethodConjugateGradient // rule 7
	}
}

// scaledSpectralRadius returns the Gershgorin-style bound on ‖M‖_∞ for
// M = I - s·A, s = 1/‖A‖_∞, used only to test rule 4's "spectral radius of
// M < 0.5 after scaling". It returns +Inf if A has no usable scaling (so
// rule 4 never misfires into claiming contraction).
func scaledSpectralRadius(a *matrix.Matrix) float64 {
	s := 1 / a.MaxRowAbsSum()
	if s == 0 {
		return math.Inf(1)
	}
	delta, err := neumannDelta(a, s)
	if err != nil {
		return math.Inf(1)
	}
	return 1 - delta
}
