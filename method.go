// Copyright ©2017 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sublinsolve

import (
	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// Operation specifies the operation a Method commands its driving loop to
// perform, following the reverse-communication style of
// gonum.org/v1/gonum/linsolve: a Method never touches the matrix, the
// right-hand side, cancellation, or progress reporting directly, which
// keeps the numerical core free of everything but arithmetic.
type Operation int

const (
	// NoOperation is never returned by a well-behaved Method.
	NoOperation Operation = iota

	// MulVec commands the driver to compute A*x for x in Context.Src and
	// store the result in Context.Dst.
	MulVec

	// ComputeResidual commands the driver to compute b-A*x for x in
	// Context.X and store the result in Context.Dst.
	ComputeResidual

	// CheckResidualNorm commands the driver to test Context.ResidualNorm
	// against the convergence tolerance and set Context.Converged.
	CheckResidualNorm

	// MajorIteration indicates the Method has finished one iteration;
	// Context.X holds the updated iterate.
	MajorIteration
)

// Context mediates between a Method and its driving loop. The driver must
// not modify Context except as commanded by the returned Operation.
type Context struct {
	// X is the current approximate solution.
	X []float64

	// ResidualNorm is set by the Method before commanding
	// CheckResidualNorm.
	ResidualNorm float64

	// Converged is set by the driver in response to CheckResidualNorm.
	Converged bool

	// Src and Dst carry the operands and results of MulVec and
	// ComputeResidual.
	Src, Dst []float64
}

// Method is a reverse-communication iterative method for A*x = b (§4.9's
// Conjugate-Gradient fallback implements it; Neumann (§4.4) is simple
// enough to iterate directly without this scaffold).
type Method interface {
	// Init seeds the Method with the initial iterate and its residual.
	// Init does not retain x or residual.
	Init(x, residual []float64)

	// Iterate advances the Method by one step, consuming and producing
	// data through ctx, and returns the next Operation the driver must
	// perform.
	Iterate(ctx *Context) (Operation, error)
}

// runMethod drives method to convergence against a*x=b, reporting
// progress through emit (which may be nil) and honoring settings.Cancel.
// It returns the best available iterate, its residual norm, and an error
// that is nil on success or one of ErrCancelled, ErrDiverged,
// *NotConvergentError, or a method-specific error (e.g. *BreakdownError).
func runMethod(a *matrix.Matrix, b []float64, method Method, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, float64, error) {
	n := len(b)
	bNorm := vector.Norm2(b)
	if bNorm == 0 {
		bNorm = 1
	}

	x := make([]float64, n)
	if settings.InitX != nil {
		vector.Copy(x, settings.InitX)
	}
	r := make([]float64, n)
	ax := make([]float64, n)
	a.MatVec(x, ax)
	stats.MulVec++
	for i := range r {
		r[i] = b[i] - ax[i]
	}

	initNorm := vector.Norm2(r)
	if initNorm < settings.Tolerance*bNorm {
		return x, initNorm, nil
	}

	method.Init(x, r)
	monitor := NewMonitor(settings.Tolerance, settings.WindowRate, settings.WindowStagnation)

	ctx := &Context{
		X:   append([]float64(nil), x...),
		Src: make([]float64, n),
		Dst: make([]float64, n),
	}

	iterations := 0
	for {
		if settings.Cancel.Cancelled() {
			return ctx.X, ctx.ResidualNorm, ErrCancelled
		}

		op, err := method.Iterate(ctx)
		if err != nil {
			return ctx.X, ctx.ResidualNorm, err
		}

		switch op {
		case NoOperation:
		case MulVec:
			stats.MulVec++
			a.MatVec(ctx.Src, ctx.Dst)
		case ComputeResidual:
			stats.MulVec++
			a.MatVec(ctx.X, ax)
			for i := range ctx.Dst {
				ctx.Dst[i] = b[i] - ax[i]
			}
		case CheckResidualNorm:
			ctx.Converged = ctx.ResidualNorm < settings.Tolerance*bNorm
		case MajorIteration:
			iterations++
			stats.Iterations = iterations
			rec := monitor.Observe(iterations, ctx.ResidualNorm, bNorm)
			if emit != nil {
				emit(rec)
			}
			if ctx.Converged {
				return ctx.X, ctx.ResidualNorm, nil
			}
			if rec.Status == StatusDiverged {
				return ctx.X, ctx.ResidualNorm, ErrDiverged
			}
			if rec.Status == StatusStagnated {
				return ctx.X, ctx.ResidualNorm, &NotConvergentError{Iterations: iterations, ResidualNorm: ctx.ResidualNorm}
			}
			if iterations >= settings.MaxIterations {
				return ctx.X, ctx.ResidualNorm, &NotConvergentError{Iterations: iterations, ResidualNorm: ctx.ResidualNorm}
			}
		default:
			panic("sublinsolve: invalid operation")
		}
	}
}
