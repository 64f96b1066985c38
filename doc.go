// Package sublinsolve solves sparse linear systems A*x = b and related
// spectral queries (PageRank, single-entry estimation, matrix analysis)
// using sublinear-style iterative methods that exploit diagonal dominance:
// Neumann-series truncation, forward and backward local push, a
// bidirectional push hybrid, random-walk Monte Carlo sampling, and a
// conjugate-gradient fallback for the systems none of those can safely
// handle.
//
// A typical solve builds a matrix.Matrix from coordinate triples, then
// calls Solve:
//
//	m, err := matrix.Build(n, triples)
//	result, err := sublinsolve.Solve(m, b, sublinsolve.Settings{})
//
// Solve routes the problem through the Method Oracle unless
// Settings.Method pins a specific kernel. EstimateEntry, PageRank, and
// Analyze expose the other library operations; SolveStream exposes the
// pull-based progress sequence described by the Convergence Monitor.
package sublinsolve
