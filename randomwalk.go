package sublinsolve

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/sublinsolve/sublinsolve/matrix"
)

// randomWalkSampleCap bounds adaptive sampling so a slowly-converging CI
// cannot run forever.
const randomWalkSampleCap = 1 << 20

// randomWalkBatch is the number of walks drawn between half-width checks.
const randomWalkBatch = 256

// solveRandomWalk implements the Random-Walk Estimator (C8): repeatedly
// samples a random walk on the row-normalized transition matrix induced by
// a, with restart probability alpha, accumulating each visited node's
// contribution to target's estimate. Sampling stops adaptively once the
// half-width of the running confidence interval drops below epsilon, or
// when randomWalkSampleCap is reached.
func solveRandomWalk(a *matrix.Matrix, b []float64, target int, alpha, epsilon, confidence float64, settings Settings, stats *Stats) (RandomWalkEstimate, error) {
	n := a.Dim()
	if target < 0 || target >= n {
		return RandomWalkEstimate{}, matrix.ErrIndexOutOfRange
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 0.15
	}

	bNorm1 := absSum(b)
	if bNorm1 == 0 {
		return RandomWalkEstimate{Value: 0, Variance: 0, Samples: 0, HalfWidth: 0}, nil
	}

	deltaFail := 1 - confidence
	if deltaFail <= 0 {
		deltaFail = 0.05
	}
	z := math.Sqrt(2 * math.Log(2/deltaFail))

	rng := rand.New(rand.NewSource(settings.Seed))

	var sum, sumSq float64
	var count int
	var halfWidth float64
	for count < randomWalkSampleCap {
		if settings.Cancel.Cancelled() {
			return RandomWalkEstimate{}, ErrCancelled
		}
		for i := 0; i < randomWalkBatch; i++ {
			start, sign := sampleProportional(b, bNorm1, rng)
			v := sign * randomWalkSample(a, start, target, alpha, rng)
			sum += v
			sumSq += v * v
			count++
		}
		stats.Iterations = count

		mean := sum / float64(count)
		variance := sumSq/float64(count) - mean*mean
		if variance < 0 {
			variance = 0
		}
		halfWidth = bNorm1 * z * math.Sqrt(variance/float64(count))
		if halfWidth <= epsilon {
			return RandomWalkEstimate{
				Value:     bNorm1 * mean,
				Variance:  variance * bNorm1 * bNorm1,
				Samples:   count,
				HalfWidth: halfWidth,
			}, nil
		}
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return RandomWalkEstimate{
		Value:     bNorm1 * mean,
		Variance:  variance * bNorm1 * bNorm1,
		Samples:   count,
		HalfWidth: halfWidth,
	}, nil
}

// randomWalkSample runs one restart-α random walk from start and returns 1
// if the walk restarts (or is absorbed) at target, 0 otherwise; this is the
// indicator-function estimator whose mean, scaled by ‖b‖₁, converges to
// the target's PageRank-style mass contribution.
func randomWalkSample(a *matrix.Matrix, start, target int, alpha float64, rng *rand.Rand) float64 {
	cur := start
	for step := 0; step < maxWalkSteps; step++ {
		if rng.Float64() < alpha {
			break
		}
		rowSum, _ := a.RowAbsSum(cur)
		if rowSum == 0 {
			break
		}
		next, ok := sampleRow(a, cur, rowSum, rng)
		if !ok {
			break
		}
		cur = next
	}
	if cur == target {
		return 1
	}
	return 0
}
