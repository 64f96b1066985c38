package matrix

import "errors"

// ErrInvalidMatrix is returned by Build when the supplied triples do not
// describe a well-formed matrix: a non-finite or duplicate-summed-to-NaN
// value, or a row/column index outside [0, n).
var ErrInvalidMatrix = errors.New("matrix: invalid matrix")

// ErrIndexOutOfRange is returned by Diagonal, Row, and Col when the supplied
// index falls outside [0, n).
var ErrIndexOutOfRange = errors.New("matrix: index out of range")

// ErrDimensionMismatch is returned by MatVec and MatVecT when the supplied
// vectors do not match the dimension of the matrix.
var ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
