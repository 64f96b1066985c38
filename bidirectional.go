package sublinsolve

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// maxWalkSteps bounds a single Monte-Carlo walk so a pathological near-1
// retention fraction cannot loop forever.
const maxWalkSteps = 100000

// solveBidirectional implements the Bidirectional Solver (C7): it estimates
// x_target to additive accuracy epsilon with probability confidence by
// combining a Forward-Push from the scaled right-hand side with a
// Backward-Push from target, then closing the gap between the two
// truncated pushes with Monte-Carlo walks (§4.7).
//
// The forward push solves the same scaled system as the Neumann solver
// (b' = s·b); the "source" half of the protocol is therefore the whole
// right-hand side rather than a single indicator node, since this library
// estimates an entry of the solution vector x, not a pairwise graph
// proximity score. This is a deliberate reading of an underspecified
// protocol step, recorded as such in the design notes.
func solveBidirectional(a *matrix.Matrix, b []float64, target int, tol, confidence float64, settings Settings, stats *Stats) (EntryEstimate, error) {
	n := a.Dim()
	if target < 0 || target >= n {
		return EntryEstimate{}, matrix.ErrIndexOutOfRange
	}

	s := 1 / a.MaxRowAbsSum()
	if s == 0 {
		return EntryEstimate{}, ErrNotDominant
	}
	bPrime := make([]float64, n)
	vector.Copy(bPrime, b)
	vector.Scale(s, bPrime)

	fwd, err := runPush(rowSource{a}, bPrime, 1, tol, settings.MaxIterations, settings.Cancel, stats, nil)
	if err != nil {
		return EntryEstimate{}, err
	}

	unit := make([]float64, n)
	unit[target] = 1
	bwd, err := runPush(colSource{a}, unit, 1, tol, settings.MaxIterations, settings.Cancel, stats, nil)
	if err != nil {
		return EntryEstimate{}, err
	}

	deterministic := vector.Dot(bwd.e, b) + vector.Dot(bwd.r, fwd.e)

	rsNorm1 := absSum(fwd.r)
	rtInfNorm := vector.NormInf(bwd.r)

	if rsNorm1 == 0 || rtInfNorm == 0 {
		return EntryEstimate{Value: deterministic, HalfWidth: 0, Variance: 0}, nil
	}

	deltaFail := 1 - confidence
	if deltaFail <= 0 {
		deltaFail = 0.05
	}
	if deltaFail >= 1 {
		deltaFail = 0.99
	}

	nSamples := int(2 * math.Log(2/deltaFail) / (tol * tol))
	if nSamples < 32 {
		nSamples = 32
	}
	if nSamples > 200000 {
		nSamples = 200000
	}

	rng := rand.New(rand.NewSource(settings.Seed))
	samples := make([]float64, nSamples)
	for k := 0; k < nSamples; k++ {
		start, sign := sampleProportional(fwd.r, rsNorm1, rng)
		samples[k] = sign * walkTo(a, start, bwd.r, rng)
	}

	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(nSamples)

	var variance float64
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	variance /= float64(nSamples)

	// Samples were drawn proportionally to |r_s|/‖r_s‖₁, so scale the mean
	// back up by ‖r_s‖₁ to recover the unnormalized cross term ⟨r_s, ·⟩.
	crossMean := rsNorm1 * mean
	halfWidth := rsNorm1 * rtInfNorm * math.Sqrt(2*math.Log(2/deltaFail)/float64(nSamples))

	return EntryEstimate{
		Value:     deterministic + crossMean,
		HalfWidth: halfWidth,
		Variance:  variance * rsNorm1 * rsNorm1,
	}, nil
}

// walkTo simulates one random walk starting at node, absorbing with
// probability 1/2 at each step after the first transition, and returns the
// backward residual rt reading at the absorbing node: rt approximates the
// mass still to reach target from that node, so this is an unbiased sample
// of the residual cross-term of §4.7 step 4.
func walkTo(a *matrix.Matrix, node int, rt []float64, rng *rand.Rand) float64 {
	cur := node
	for step := 0; step < maxWalkSteps; step++ {
		rowSum, _ := a.RowAbsSum(cur)
		if rowSum == 0 {
			break
		}
		next, ok := sampleRow(a, cur, rowSum, rng)
		if !ok {
			break
		}
		cur = next
		if rng.Float64() < 0.5 {
			break
		}
	}
	return rt[cur]
}

// sampleProportional draws an index from r with probability |r_i|/norm1
// and reports the sign of the drawn entry.
func sampleProportional(r []float64, norm1 float64, rng *rand.Rand) (index int, sign float64) {
	u := rng.Float64() * norm1
	var cum float64
	for i, v := range r {
		cum += absF(v)
		if cum >= u {
			return i, signOf(v)
		}
	}
	last := len(r) - 1
	return last, signOf(r[last])
}

// sampleRow draws a column of row i proportionally to |A_ij|.
func sampleRow(a *matrix.Matrix, i int, rowSum float64, rng *rand.Rand) (int, bool) {
	it, err := a.Row(i)
	if err != nil {
		return 0, false
	}
	u := rng.Float64() * rowSum
	var cum float64
	last := -1
	for {
		j, v, ok := it.Next()
		if !ok {
			break
		}
		cum += absF(v)
		last = j
		if cum >= u {
			return j, true
		}
	}
	if last < 0 {
		return 0, false
	}
	return last, true
}

func signOf(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func absSum(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += absF(v)
	}
	return sum
}
