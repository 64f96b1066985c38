// Copyright ©2017 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sublinsolve

import "github.com/sublinsolve/sublinsolve/vector"

// breakdownTolerance is the |pᵀAp| floor below which CG reports Breakdown
// (§4.9).
const breakdownTolerance = 1e-16

// cgMethod implements Method for the Conjugate-Gradient fallback (C9),
// adapted from gonum.org/v1/gonum/linsolve's CG to the []float64-based
// Context of this package and without a preconditioner: this library has no
// analogue of linsolve's PreconSolve operation, so the state machine skips
// straight from the search direction to the matrix-vector product.
type cgMethod struct {
	n int

	x, r, p []float64

	rho, rhoPrev float64
	resume       int
}

func newCG(n int) *cgMethod {
	return &cgMethod{
		n: n,
		x: make([]float64, n),
		r: make([]float64, n),
		p: make([]float64, n),
	}
}

// Init implements Method.
func (cg *cgMethod) Init(x, residual []float64) {
	vector.Copy(cg.x, x)
	vector.Copy(cg.r, residual)
	vector.Copy(cg.p, residual)
	cg.rho = vector.Dot(cg.r, cg.r)
	cg.resume = 1
}

// Iterate implements Method. CG commands MulVec, CheckResidualNorm, and
// MajorIteration in a three-step cycle.
func (cg *cgMethod) Iterate(ctx *Context) (Operation, error) {
	switch cg.resume {
	case 1:
		vector.Copy(ctx.Src, cg.p)
		cg.resume = 2
		return MulVec, nil

	case 2:
		ap := ctx.Dst
		denom := vector.Dot(cg.p, ap)
		if absF(denom) < breakdownTolerance {
			return NoOperation, &BreakdownError{Value: denom, Tolerance: breakdownTolerance}
		}
		alpha := cg.rho / denom
		vector.AXPY(alpha, cg.p, cg.x)
		vector.AXPY(-alpha, ap, cg.r)
		ctx.ResidualNorm = vector.Norm2(cg.r)
		cg.resume = 3
		return CheckResidualNorm, nil

	case 3:
		vector.Copy(ctx.X, cg.x)
		if ctx.Converged {
			cg.resume = 0
			return MajorIteration, nil
		}
		cg.rhoPrev = cg.rho
		cg.rho = vector.Dot(cg.r, cg.r)
		beta := cg.rho / cg.rhoPrev
		for i := range cg.p {
			cg.p[i] = cg.r[i] + beta*cg.p[i]
		}
		cg.resume = 1
		return MajorIteration, nil

	default:
		panic("sublinsolve: cg Init not called")
	}
}
