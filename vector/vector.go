// Package vector provides the dense-vector primitives the solvers build on:
// dot products, axpy updates, scaling, and norms, operating on contiguous
// []float64 buffers of equal length. It is a thin wrapper over
// gonum.org/v1/gonum/floats, the same package the linsolve lineage
// (retrieved as github.com/gonum/floats) uses for every vector update in
// CG and BiCGStab.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Dot returns the inner product of x and y. Dot panics if x and y have
// different lengths.
func Dot(x, y []float64) float64 {
	return floats.Dot(x, y)
}

// AXPY computes y ← alpha*x + y. AXPY panics if x and y have different
// lengths.
func AXPY(alpha float64, x, y []float64) {
	floats.AddScaled(y, alpha, x)
}

// Scale computes x ← alpha*x in place.
func Scale(alpha float64, x []float64) {
	floats.Scale(alpha, x)
}

// Norm2 returns the Euclidean (2-)norm of x.
func Norm2(x []float64) float64 {
	return floats.Norm(x, 2)
}

// NormInf returns the infinity norm (largest absolute entry) of x.
func NormInf(x []float64) float64 {
	return floats.Norm(x, math.Inf(1))
}

// Copy copies src into dst. Copy panics if dst is shorter than src.
func Copy(dst, src []float64) {
	if len(dst) < len(src) {
		panic("vector: destination shorter than source")
	}
	copy(dst, src)
}

// HasNaN reports whether x contains a NaN.
func HasNaN(x []float64) bool {
	return floats.HasNaN(x)
}

// Zero sets every entry of x to zero.
func Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// Workspace hands out reusable scratch buffers of a fixed dimension so a
// caller solving many systems of the same size (e.g. repeated PageRank
// queries against the same graph) can avoid repeated allocation. Get zeroes
// a buffer each time it hands it out; Reset, like linsolve.Context.Reset,
// changes the dimension and discards all buffers.
type Workspace struct {
	n   int
	buf map[string][]float64
}

// NewWorkspace returns a Workspace for vectors of dimension n.
func NewWorkspace(n int) *Workspace {
	return &Workspace{n: n, buf: make(map[string][]float64)}
}

// Get returns the named scratch buffer, allocating and zeroing it on first
// use and zeroing it again on every subsequent call.
func (w *Workspace) Get(name string) []float64 {
	b, ok := w.buf[name]
	if !ok {
		b = make([]float64, w.n)
		w.buf[name] = b
	}
	Zero(b)
	return b
}

// Reset re-sizes the Workspace for dimension n, discarding prior buffers.
func (w *Workspace) Reset(n int) {
	w.n = n
	w.buf = make(map[string][]float64)
}
