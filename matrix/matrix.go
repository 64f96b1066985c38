// Package matrix holds a sparse matrix in dual CSR/CSC views and exposes the
// row/column iteration and matrix-vector kernels the solvers in the parent
// package build on.
//
// The storage scheme follows the classic compressed-sparse layout: an
// indptr slice of cumulative non-zero counts, a parallel ind slice of
// column (or row) indices, and a data slice of values, as in
// github.com/james-bowman/sparse's CSR/CSC types. Unlike that library this
// store is immutable once built (§3 of the design: "treated as immutable
// for the duration of a solve"), has no Set method, and maintains a
// lazily-built transposed view guarded by a sync.Once so concurrent readers
// never race on its construction.
package matrix

import (
	"math"
	"sort"
	"sync"
)

// Triple is a single (row, column, value) entry of a matrix's coordinate
// representation. Duplicate (I, J) pairs are summed at Build.
type Triple struct {
	I, J int
	V    float64
}

// Matrix is an immutable n×n sparse matrix held simultaneously as a row
// view (CSR) and, once requested, a column view (CSC). See Build.
type Matrix struct {
	n int

	rowPtr []int
	rowCol []int
	rowVal []float64

	diag []float64

	colOnce sync.Once
	colPtr  []int
	colRow  []int
	colVal  []float64
}

// Build constructs an n×n Matrix from triples, summing duplicate (i, j)
// entries. It fails with ErrInvalidMatrix if n is not positive, if any
// index falls outside [0, n), or if any value is not finite.
//
// Entries that sum to exactly zero are not stored: Build enforces invariant
// I1 (every stored value is finite and non-zero) rather than the weaker
// "no explicit zero" convention some sparse formats tolerate. Build does
// not itself reject a zero diagonal; that is a precondition of individual
// solvers (§4.4-§4.6) enforced when a solve is attempted, since not every
// method requires a non-zero diagonal.
func Build(n int, triples []Triple) (*Matrix, error) {
	if n <= 0 {
		return nil, ErrInvalidMatrix
	}
	for _, t := range triples {
		if t.I < 0 || t.I >= n || t.J < 0 || t.J >= n {
			return nil, ErrInvalidMatrix
		}
		if math.IsNaN(t.V) || math.IsInf(t.V, 0) {
			return nil, ErrInvalidMatrix
		}
	}

	sorted := make([]Triple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].I != sorted[b].I {
			return sorted[a].I < sorted[b].I
		}
		return sorted[a].J < sorted[b].J
	})

	m := &Matrix{
		n:      n,
		rowPtr: make([]int, n+1),
		diag:   make([]float64, n),
	}

	i := 0
	for i < len(sorted) {
		j := sorted[i].I
		k := i
		// Merge the run of entries sharing (row, col); sorted order
		// guarantees duplicates of the same (i, j) are adjacent.
		for k < len(sorted) && sorted[k].I == j {
			col := sorted[k].J
			sum := sorted[k].V
			k++
			for k < len(sorted) && sorted[k].I == j && sorted[k].J == col {
				sum += sorted[k].V
				k++
			}
			if sum != 0 {
				if math.IsNaN(sum) || math.IsInf(sum, 0) {
					return nil, ErrInvalidMatrix
				}
				m.rowCol = append(m.rowCol, col)
				m.rowVal = append(m.rowVal, sum)
				if col == j {
					m.diag[j] = sum
				}
			}
		}
		m.rowPtr[j+1] = len(m.rowVal)
		i = k
	}
	// Rows with no stored entries inherit the previous row's cumulative
	// count; fill forward so rowPtr is non-decreasing for every i.
	for r := 1; r <= n; r++ {
		if m.rowPtr[r] < m.rowPtr[r-1] {
			m.rowPtr[r] = m.rowPtr[r-1]
		}
	}
	return m, nil
}

// Dim returns the matrix order n.
func (m *Matrix) Dim() int { return m.n }

// NNZ returns the number of stored non-zero entries.
func (m *Matrix) NNZ() int { return len(m.rowVal) }

// Diagonal returns A_ii, or 0 if no entry is stored at (i, i).
func (m *Matrix) Diagonal(i int) (float64, error) {
	if i < 0 || i >= m.n {
		return 0, ErrIndexOutOfRange
	}
	return m.diag[i], nil
}

// RowIter is a forward iterator over the stored (column, value) pairs of a
// row or column, yielded in ascending index order.
type RowIter struct {
	idx []int
	val []float64
	pos int
}

// Next advances the iterator and reports whether an entry was produced.
func (it *RowIter) Next() (index int, value float64, ok bool) {
	if it.pos >= len(it.idx) {
		return 0, 0, false
	}
	index, value = it.idx[it.pos], it.val[it.pos]
	it.pos++
	return index, value, true
}

// Len reports the number of remaining entries.
func (it *RowIter) Len() int { return len(it.idx) - it.pos }

// Row returns an iterator over the stored (j, v) pairs of row i in
// ascending j order.
func (m *Matrix) Row(i int) (RowIter, error) {
	if i < 0 || i >= m.n {
		return RowIter{}, ErrIndexOutOfRange
	}
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return RowIter{idx: m.rowCol[lo:hi], val: m.rowVal[lo:hi]}, nil
}

// RowNNZ returns the number of stored entries in row i.
func (m *Matrix) RowNNZ(i int) (int, error) {
	if i < 0 || i >= m.n {
		return 0, ErrIndexOutOfRange
	}
	return m.rowPtr[i+1] - m.rowPtr[i], nil
}

// RowAbsSum returns Σ_j |A_ij| for row i.
func (m *Matrix) RowAbsSum(i int) (float64, error) {
	if i < 0 || i >= m.n {
		return 0, ErrIndexOutOfRange
	}
	var sum float64
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		sum += math.Abs(m.rowVal[k])
	}
	return sum, nil
}

// MaxRowAbsSum returns max_i Σ_j |A_ij|, the infinity norm of A. It is the
// default scaling denominator used by the Neumann solver (§4.4).
func (m *Matrix) MaxRowAbsSum() float64 {
	var max float64
	for i := 0; i < m.n; i++ {
		sum, _ := m.RowAbsSum(i)
		if sum > max {
			max = sum
		}
	}
	return max
}

// buildColumnView constructs the CSC transpose of the row view. It is
// invoked at most once per Matrix, behind colOnce, the first time Col or
// MatVecT is called.
func (m *Matrix) buildColumnView() {
	colPtr := make([]int, m.n+1)
	for _, c := range m.rowCol {
		colPtr[c+1]++
	}
	for c := 0; c < m.n; c++ {
		colPtr[c+1] += colPtr[c]
	}

	colRow := make([]int, len(m.rowVal))
	colVal := make([]float64, len(m.rowVal))
	cursor := make([]int, m.n)
	copy(cursor, colPtr[:m.n])

	for i := 0; i < m.n; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			c := m.rowCol[k]
			pos := cursor[c]
			colRow[pos] = i
			colVal[pos] = m.rowVal[k]
			cursor[c]++
		}
	}

	m.colPtr, m.colRow, m.colVal = colPtr, colRow, colVal
}

// Col forces the column view if it has not yet been built, then returns an
// iterator over the stored (i, v) pairs of column j in ascending i order.
func (m *Matrix) Col(j int) (RowIter, error) {
	if j < 0 || j >= m.n {
		return RowIter{}, ErrIndexOutOfRange
	}
	m.colOnce.Do(m.buildColumnView)
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	return RowIter{idx: m.colRow[lo:hi], val: m.colVal[lo:hi]}, nil
}

// ColNNZ returns the number of stored entries in column j, forcing the
// column view if absent.
func (m *Matrix) ColNNZ(j int) (int, error) {
	if j < 0 || j >= m.n {
		return 0, ErrIndexOutOfRange
	}
	m.colOnce.Do(m.buildColumnView)
	return m.colPtr[j+1] - m.colPtr[j], nil
}

// ColAbsSum returns Σ_i |A_ij| for column j, forcing the column view if
// absent.
func (m *Matrix) ColAbsSum(j int) (float64, error) {
	if j < 0 || j >= m.n {
		return 0, ErrIndexOutOfRange
	}
	m.colOnce.Do(m.buildColumnView)
	var sum float64
	for k := m.colPtr[j]; k < m.colPtr[j+1]; k++ {
		sum += math.Abs(m.colVal[k])
	}
	return sum, nil
}

// MatVec computes y ← A*x. It iterates row-major, accumulating into a
// local scalar and writing back to y[i] once per row, per the documented
// performance contract of §4.1.
func (m *Matrix) MatVec(x, y []float64) error {
	if len(x) != m.n || len(y) != m.n {
		return ErrDimensionMismatch
	}
	for i := 0; i < m.n; i++ {
		var sum float64
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.rowVal[k] * x[m.rowCol[k]]
		}
		y[i] = sum
	}
	return nil
}

// MatVecT computes y ← Aᵀ*x using the (lazily built) column view.
func (m *Matrix) MatVecT(x, y []float64) error {
	if len(x) != m.n || len(y) != m.n {
		return ErrDimensionMismatch
	}
	m.colOnce.Do(m.buildColumnView)
	for j := 0; j < m.n; j++ {
		var sum float64
		for k := m.colPtr[j]; k < m.colPtr[j+1]; k++ {
			sum += m.colVal[k] * x[m.colRow[k]]
		}
		y[j] = sum
	}
	return nil
}
