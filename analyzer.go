package sublinsolve

import (
	"math"

	"github.com/sublinsolve/sublinsolve/matrix"
)

// Dominance classifies the diagonal dominance of a matrix (§3's Analysis
// Report).
type Dominance int

const (
	DominanceNone Dominance = iota
	DominanceRow
	DominanceColumn
	DominanceBoth
)

func (d Dominance) String() string {
	switch d {
	case DominanceRow:
		return "row"
	case DominanceColumn:
		return "column"
	case DominanceBoth:
		return "both"
	default:
		return "none"
	}
}

// epsSymmetric is the default tolerance ε_sym of §4.3.
const epsSymmetric = 1e-10

// Analysis is the Analysis Report of §3, produced by Analyze.
type Analysis struct {
	Dominance      Dominance
	DominanceDelta float64
	Symmetric      bool
	Sparsity       float64

	// SpectralRadius is an estimate of ρ(|A|), or -1 if not computed.
	SpectralRadius float64

	// ConditionNumber is a best-effort estimate, or -1 if unknown.
	ConditionNumber float64
}

// Analyze computes the Analysis Report of a (C3). Row and column dominance
// are evaluated in O(nnz). SpectralRadius is the Gershgorin bound of |A|;
// ConditionNumber is always -1 ("unknown"), since no condition-number
// estimate is computed.
func Analyze(a *matrix.Matrix) (Analysis, error) {
	n := a.Dim()
	if n == 0 {
		return Analysis{}, matrix.ErrInvalidMatrix
	}

	rowDelta, rowDominant, err := rowDominance(a)
	if err != nil {
		return Analysis{}, err
	}
	colDelta, colDominant, err := colDominance(a)
	if err != nil {
		return Analysis{}, err
	}

	var dom Dominance
	switch {
	case rowDominant && colDominant:
		dom = DominanceBoth
	case rowDominant:
		dom = DominanceRow
	case colDominant:
		dom = DominanceColumn
	default:
		dom = DominanceNone
	}

	delta := rowDelta
	if colDominant && (!rowDominant || colDelta < rowDelta) {
		delta = colDelta
	}

	sym, err := isSymmetric(a)
	if err != nil {
		return Analysis{}, err
	}

	sparsity := 1 - float64(a.NNZ())/float64(n*n)

	return Analysis{
		Dominance:       dom,
		DominanceDelta:  delta,
		Symmetric:       sym,
		Sparsity:        sparsity,
		SpectralRadius:  gershgorinSpectralRadius(a),
		ConditionNumber: -1,
	}, nil
}

// rowDominance returns min_i (|A_ii| - Σ_{j≠i}|A_ij|)/|A_ii| and whether A is
// row-dominant (δ ≥ 0 at every row with a nonzero diagonal, and every row
// has one).
func rowDominance(a *matrix.Matrix) (float64, bool, error) {
	n := a.Dim()
	delta := math.Inf(1)
	dominant := true
	for i := 0; i < n; i++ {
		diag, err := a.Diagonal(i)
		if err != nil {
			return 0, false, err
		}
		sum, err := a.RowAbsSum(i)
		if err != nil {
			return 0, false, err
		}
		offDiag := sum - math.Abs(diag)
		if diag == 0 {
			dominant = false
			delta = math.Min(delta, -1)
			continue
		}
		d := (math.Abs(diag) - offDiag) / math.Abs(diag)
		if d < delta {
			delta = d
		}
		if d < 0 {
			dominant = false
		}
	}
	return delta, dominant, nil
}

// colDominance is rowDominance on the transpose, forcing the column view.
func colDominance(a *matrix.Matrix) (float64, bool, error) {
	n := a.Dim()
	colAbsSum := make([]float64, n)
	for j := 0; j < n; j++ {
		it, err := a.Col(j)
		if err != nil {
			return 0, false, err
		}
		var sum float64
		for {
			_, v, ok := it.Next()
			if !ok {
				break
			}
			sum += math.Abs(v)
		}
		colAbsSum[j] = sum
	}

	delta := math.Inf(1)
	dominant := true
	for j := 0; j < n; j++ {
		diag, err := a.Diagonal(j)
		if err != nil {
			return 0, false, err
		}
		offDiag := colAbsSum[j] - math.Abs(diag)
		if diag == 0 {
			dominant = false
			delta = math.Min(delta, -1)
			continue
		}
		d := (math.Abs(diag) - offDiag) / math.Abs(diag)
		if d < delta {
			delta = d
		}
		if d < 0 {
			dominant = false
		}
	}
	return delta, dominant, nil
}

// isSymmetric reports whether, for every stored (i,j,v), (j,i) is also
// stored with a value within epsSymmetric relative tolerance (§4.3).
func isSymmetric(a *matrix.Matrix) (bool, error) {
	n := a.Dim()
	for i := 0; i < n; i++ {
		row, err := a.Row(i)
		if err != nil {
			return false, err
		}
		for {
			j, v, ok := row.Next()
			if !ok {
				break
			}
			if j == i {
				continue
			}
			col, err := a.Col(i)
			if err != nil {
				return false, err
			}
			found := false
			for {
				r, vt, ok := col.Next()
				if !ok {
					break
				}
				if r == j {
					found = true
					if math.Abs(v-vt) > epsSymmetric*math.Max(math.Abs(v), math.Abs(vt)) {
						return false, nil
					}
					break
				}
			}
			if !found {
				return false, nil
			}
		}
	}
	return true, nil
}

// gershgorinSpectralRadius returns the Gershgorin bound max_i (|A_ii| +
// Σ_{j≠i}|A_ij|), a cheap, always-available spectral-radius estimate of
// |A| (§4.3 offers it as an alternative to power iteration).
func gershgorinSpectralRadius(a *matrix.Matrix) float64 {
	n := a.Dim()
	var max float64
	for i := 0; i < n; i++ {
		sum, _ := a.RowAbsSum(i)
		if sum > max {
			max = sum
		}
	}
	return max
}
