package sublinsolve

import (
	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// neumannDelta returns the contraction margin of M = I - s*A under the
// infinity norm: 1 - max_i(|1-s*A_ii| + s*Σ_{j≠i}|A_ij|). A positive margin
// proves ‖M‖_∞ < 1 and licenses the Neumann series (§4.4).
func neumannDelta(a *matrix.Matrix, s float64) (float64, error) {
	n := a.Dim()
	var worst float64
	for i := 0; i < n; i++ {
		diag, err := a.Diagonal(i)
		if err != nil {
			return 0, err
		}
		sum, err := a.RowAbsSum(i)
		if err != nil {
			return 0, err
		}
		offDiag := sum - absF(diag)
		rowNorm := absF(1-s*diag) + s*offDiag
		if rowNorm > worst {
			worst = rowNorm
		}
	}
	return 1 - worst, nil
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// solveNeumann implements the Neumann Solver (C4): the truncated series
// x_k = Σ_{j=0}^{k} M^j · s·b for M = I - s·A, s = 1/‖A‖_∞ by default. It
// refuses with ErrNotDominant if no scaled contraction can be proven.
func solveNeumann(a *matrix.Matrix, b []float64, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, float64, error) {
	n := a.Dim()
	if vector.Norm2(b) == 0 {
		return make([]float64, n), 0, nil
	}

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

	return neumannSeries(a, b, s, settings, stats, emit)
}

// neumannSeries iterates the truncated Neumann series for x = M x + s·b
// where M = I - s·A, given a caller-proven contraction factor s. It is the
// shared core of solveNeumann (which derives s from A's row sums) and the
// PageRank Driver (which passes A = I - d·Pᵀ with s = 1, so that M = d·Pᵀ,
// contractive by construction for a column-stochastic Pᵀ and d < 1, §4.10).
func neumannSeries(a *matrix.Matrix, b []float64, s float64, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, float64, error) {
	n := a.Dim()
	bNorm := vector.Norm2(b)
	if bNorm == 0 {
		return make([]float64, n), 0, nil
	}

	ws := vector.NewWorkspace(n)
	term := ws.Get("term")
	vector.Copy(term, b)
	vector.Scale(s, term)
	x := ws.Get("x")
	vector.Copy(x, term)

	mTerm := ws.Get("mterm")
	aTerm := ws.Get("aterm")
	ax := ws.Get("ax")

	monitor := NewMonitor(settings.Tolerance, settings.WindowRate, settings.WindowStagnation)

	var residualNorm float64
	for k := 1; k <= settings.MaxIterations; k++ {
		if settings.Cancel.Cancelled() {
			return x, residualNorm, ErrCancelled
		}

		// mTerm <- M*term = term - s*A*term
		a.MatVec(term, aTerm)
		stats.MulVec++
		for i := range mTerm {
			mTerm[i] = term[i] - s*aTerm[i]
		}
		copy(term, mTerm)

		vector.AXPY(1, term, x)

		termNorm := vector.Norm2(term)
		residualNorm = termNorm
		exact := k%settings.CheckPeriod == 0
		if exact {
			a.MatVec(x, ax)
			stats.MulVec++
			for i := range ax {
				ax[i] = b[i] - ax[i]
			}
			residualNorm = vector.Norm2(ax)
		}

		stats.Iterations = k
		rec := monitor.Observe(k, residualNorm, bNorm)
		if emit != nil {
			emit(rec)
		}

		if rec.RelativeResidual <= settings.Tolerance || termNorm < settings.Tolerance*1e-3 {
			return x, residualNorm, nil
		}
		if rec.Status == StatusDiverged {
			return x, residualNorm, ErrDiverged
		}
		if rec.Status == StatusStagnated {
			return x, residualNorm, &NotConvergentError{Iterations: k, ResidualNorm: residualNorm}
		}
	}

	return x, residualNorm, &NotConvergentError{Iterations: settings.MaxIterations, ResidualNorm: residualNorm}
}
