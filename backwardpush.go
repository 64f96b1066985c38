package sublinsolve

import "github.com/sublinsolve/sublinsolve/matrix"

// solveBackwardPush implements the Backward-Push Solver (C6): the dual of
// Forward-Push over the transposed operator, estimating the row eᵀ for a
// target index t. The initial residual is the unit vector at t and pushes
// propagate through col(i) instead of row(i); every other contract
// (thresholds, termination) mirrors Forward-Push (§4.6).
func solveBackwardPush(a *matrix.Matrix, target int, alpha, epsilon float64, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, []float64, error) {
	n := a.Dim()
	r0 := make([]float64, n)
	r0[target] = 1
	res, err := runPush(colSource{a}, r0, alpha, epsilon, settings.MaxIterations, settings.Cancel, stats, emit)
	return res.e, res.r, err
}
