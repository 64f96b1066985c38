package sublinsolve

import (
	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// solveForwardPush implements the Forward-Push Solver (C5): local push of
// residual mass from the source distribution b' along row(i), estimating
// x = M x + b'. alpha is the retention fraction (1-damping when driven by
// PageRank, §4.10; see solveForwardPushFullSolve for the plain-solve case,
// which cannot use alpha=1 — see its doc comment).
func solveForwardPush(a *matrix.Matrix, bPrime []float64, alpha, epsilon float64, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, []float64, error) {
	res, err := runPush(rowSource{a}, bPrime, alpha, epsilon, settings.MaxIterations, settings.Cancel, stats, emit)
	return res.e, res.r, err
}

// forwardPushFullSolveAlpha is the retention fraction used when the Method
// Oracle routes a full system solve through Forward-Push (rule 6, §4.12).
// Reuses the Random-Walk Estimator's restart fraction (C8) rather than
// inventing a second tuning constant: correctness does not depend on its
// exact value, only the work distribution does, as long as 0 < alpha <= 1
// and the operator being pushed is contractive (§4.5).
const forwardPushFullSolveAlpha = defaultRandomWalkAlpha

// solveForwardPushFullSolve implements the Method Oracle's rule 6 routing:
// a full solve of Ax=b through local pushes rather than a dense
// matrix-vector product per iteration. It reduces to the same fixed-point
// shape the Neumann Solver (C4) drives explicitly, x = M x + s*b for
// M = I - s*A, s = 1/‖A‖_∞, and proves the same contraction margin before
// running a single push.
//
// A literal alpha=1 push degenerates: runPush's credit and propagate shares
// are complementary (e_i += alpha*r_i, then r_j += (1-alpha)*r_i*...), so
// alpha=1 credits every popped coordinate's full mass to the estimate and
// propagates none of it onward, regardless of what matrix is fed — the
// solve would return a copy of b on the first pass over the active set.
// forwardPushFullSolveAlpha keeps alpha strictly below 1 so mass actually
// reaches M's neighbors.
func solveForwardPushFullSolve(a *matrix.Matrix, b []float64, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, float64, error) {
	n := a.Dim()
	s := 1 / a.MaxRowAbsSum()
	if s == 0 {
		return nil, 0, ErrNotDominant
	}
	delta, err := neumannDelta(a, s)
	if err != nil {
		return nil, 0, err
	}
	if delta <= 0 {
		return nil, 0, ErrNotDominant
	}

	m, err := buildNeumannOperator(a, s)
	if err != nil {
		return nil, 0, err
	}

	bPrime := make([]float64, n)
	vector.Copy(bPrime, b)
	vector.Scale(s, bPrime)

	res, err := runPush(rowSource{m}, bPrime, forwardPushFullSolveAlpha, settings.Tolerance, settings.MaxIterations, settings.Cancel, stats, emit)
	if err != nil {
		return res.e, vector.NormInf(res.r), err
	}

	ax := make([]float64, n)
	if mvErr := a.MatVec(res.e, ax); mvErr != nil {
		return res.e, 0, mvErr
	}
	residual := make([]float64, n)
	for i := range residual {
		residual[i] = b[i] - ax[i]
	}
	return res.e, vector.Norm2(residual), nil
}

// buildNeumannOperator materializes M = I - s*A as an explicit matrix so
// Forward-Push can walk its rows the same way the Neumann Solver (C4)
// iterates M implicitly inside neumannSeries.
func buildNeumannOperator(a *matrix.Matrix, s float64) (*matrix.Matrix, error) {
	n := a.Dim()
	triples := make([]matrix.Triple, 0, a.NNZ()+n)
	for i := 0; i < n; i++ {
		row, err := a.Row(i)
		if err != nil {
			return nil, err
		}
		sawDiag := false
		for {
			j, v, ok := row.Next()
			if !ok {
				break
			}
			if j == i {
				sawDiag = true
				triples = append(triples, matrix.Triple{I: i, J: i, V: 1 - s*v})
			} else {
				triples = append(triples, matrix.Triple{I: i, J: j, V: -s * v})
			}
		}
		if !sawDiag {
			triples = append(triples, matrix.Triple{I: i, J: i, V: 1})
		}
	}
	return matrix.Build(n, triples)
}
