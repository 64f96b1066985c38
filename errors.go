package sublinsolve

import (
	"errors"
	"fmt"

	"github.com/sublinsolve/sublinsolve/matrix"
)

// ErrInvalidMatrix is returned when the matrix fails a structural check
// before iteration begins (a non-positive dimension, a non-finite entry, an
// out-of-range index). It is matrix.ErrInvalidMatrix, re-exported so callers of this
// package never need to import matrix directly just to compare errors.
var ErrInvalidMatrix = matrix.ErrInvalidMatrix

// ErrNotDominant is returned when the chosen method requires diagonal
// dominance that the Analyzer (§4.3) cannot confirm. It is recoverable:
// the Method Oracle (C12) re-dispatches to another method rather than
// surfacing it directly to a caller that went through Solve with
// method=auto.
var ErrNotDominant = errors.New("sublinsolve: matrix is not diagonally dominant for the requested method")

// ErrNotConvergent is returned when the iteration budget is exhausted with
// ρ > tol. Solve still returns a populated, partial Result alongside this
// error.
var ErrNotConvergent = errors.New("sublinsolve: iteration limit reached without convergence")

// ErrDiverged is returned when the residual blew up or became non-finite.
// Solve returns the last finite iterate, if any, alongside this error.
var ErrDiverged = errors.New("sublinsolve: residual diverged")

// ErrCancelled is returned when the caller's cancellation token fired.
// Solve returns the best estimate available at the point of cancellation.
var ErrCancelled = errors.New("sublinsolve: cancelled")

// ErrUnsupportedSystem is returned by the Method Oracle when every
// fallback method has been exhausted.
var ErrUnsupportedSystem = errors.New("sublinsolve: no applicable solution method")

// BreakdownError signals a non-recoverable numerical breakdown during
// iteration, such as CG's pᵀAp collapsing to (near) zero.
type BreakdownError struct {
	Value     float64
	Tolerance float64
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("sublinsolve: breakdown, value=%v tolerance=%v", e.Value, e.Tolerance)
}

// NotConvergentError carries the detail behind ErrNotConvergent so a
// caller using errors.As can recover the iteration count and final
// residual without re-parsing the Result.
type NotConvergentError struct {
	Iterations   int
	ResidualNorm float64
}

func (e *NotConvergentError) Error() string {
	return fmt.Sprintf("sublinsolve: no convergence after %d iterations, residual=%v", e.Iterations, e.ResidualNorm)
}

func (e *NotConvergentError) Unwrap() error { return ErrNotConvergent }
