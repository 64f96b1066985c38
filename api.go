package sublinsolve

import (
	"errors"
	"time"

	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// defaultRandomWalkAlpha is the restart probability used by the
// Random-Walk Estimator (C8) and by EstimateEntry's random-walk path when
// the caller has not derived one from a PageRank damping factor.
const defaultRandomWalkAlpha = 0.15

// Solve implements the library's solve operation (§6): it dispatches
// through the Method Oracle (C12) unless settings.Method pins a specific
// kernel, drives the chosen kernel, and recovers from a recoverable
// failure of an Oracle-chosen method by trying the Oracle's next-best
// alternative. A caller-pinned method is taken as a deliberate override and
// is never silently replaced.
func Solve(a *matrix.Matrix, b []float64, settings Settings) (Result, error) {
	return solveCore(a, b, settings, nil)
}

// SolveStream is Solve's pull-based progress variant (§9: "a lazy sequence
// of Progress Records ... consumed by the caller"). It starts the solve on
// its own goroutine and returns a Progress the caller drives with Next; the
// Result pointer is safe to dereference once Progress.Next reports the
// sequence has ended, since that happens only after the solving goroutine
// has returned and closed the progress channel.
func SolveStream(a *matrix.Matrix, b []float64, settings Settings) (*Progress, *Result) {
	result := new(Result)
	progress := newProgress(func(emit func(ProgressRecord)) {
		r, _ := solveCore(a, b, settings, emit)
		*result = r
	})
	return progress, result
}

func solveCore(a *matrix.Matrix, b []float64, settings Settings, emit func(ProgressRecord)) (Result, error) {
	start := time.Now()
	settings = settings.defaulted()

	if a.Dim() != len(b) {
		return Result{}, matrix.ErrDimensionMismatch
	}

	analysis, err := Analyze(a)
	if err != nil {
		return Result{}, err
	}

	auto := settings.Method == MethodAuto
	method := settings.Method
	if auto {
		method = selectMethod(a, analysis, QueryFullSolve)
	}

	stats := &Stats{}
	x, residualNorm, serr := runKernel(a, b, method, settings, stats, emit)

	if auto {
		if errors.Is(serr, ErrNotDominant) && method != MethodConjugateGradient {
			method = MethodConjugateGradient
			x, residualNorm, serr = runKernel(a, b, method, settings, stats, emit)
		}
		var brk *BreakdownError
		if errors.As(serr, &brk) && method == MethodConjugateGradient {
			altX, altResidual, altErr := runKernel(a, b, MethodNeumann, settings, stats, emit)
			if altErr == nil {
				x, residualNorm, serr = altX, altResidual, nil
			} else {
				serr = ErrUnsupportedSystem
			}
		}
	}

	bNorm := vector.Norm2(b)
	relResidual := residualNorm
	if bNorm != 0 {
		relResidual = residualNorm / bNorm
	}

	result := Result{
		X:                x,
		ResidualNorm:     residualNorm,
		RelativeResidual: relResidual,
		Converged:        serr == nil,
		Cancelled:        errors.Is(serr, ErrCancelled),
		WallTime:         time.Since(start),
		Grade:            Grade(statusForError(serr), stats.Iterations, settings.MaxIterations, a.Dim(), relResidual, settings.Tolerance),
		Stats:            *stats,
	}
	return result, serr
}

// statusForError classifies a terminal solve error the way a Monitor would
// have classified its final observation, so Grade can be computed uniformly
// whether or not the kernel ran its own Monitor internally.
func statusForError(err error) Status {
	switch {
	case err == nil:
		return StatusConverged
	case errors.Is(err, ErrDiverged):
		return StatusDiverged
	case errors.Is(err, ErrNotConvergent):
		return StatusStagnated
	default:
		return StatusRunning
	}
}

// runKernel dispatches to the kernel named by method. BackwardPush,
// Bidirectional, and RandomWalk are single-entry estimators, not full
// solvers, and are unreachable through Solve.
func runKernel(a *matrix.Matrix, b []float64, method MethodKind, settings Settings, stats *Stats, emit func(ProgressRecord)) ([]float64, float64, error) {
	switch method {
	case MethodNeumann:
		return solveNeumann(a, b, settings, stats, emit)
	case MethodConjugateGradient:
		return runMethod(a, b, newCG(a.Dim()), settings, stats, emit)
	case MethodForwardPush:
		return solveForwardPushFullSolve(a, b, settings, stats, emit)
	default:
		return nil, 0, ErrUnsupportedSystem
	}
}

// EstimateEntry implements the library's estimate_entry operation (§6):
// it estimates x_target to additive accuracy epsilon with probability
// confidence, routed through the Method Oracle's single-entry rules unless
// settings.Method pins Bidirectional or RandomWalk directly.
func EstimateEntry(a *matrix.Matrix, b []float64, target int, epsilon, confidence float64, settings Settings) (EntryEstimate, error) {
	settings = settings.defaulted()
	if a.Dim() != len(b) {
		return EntryEstimate{}, matrix.ErrDimensionMismatch
	}
	if target < 0 || target >= a.Dim() {
		return EntryEstimate{}, matrix.ErrIndexOutOfRange
	}
	if epsilon <= 0 {
		epsilon = settings.Tolerance
	}
	if confidence <= 0 {
		confidence = settings.Confidence
	}

	method := settings.Method
	if method == MethodAuto {
		analysis, err := Analyze(a)
		if err != nil {
			return EntryEstimate{}, err
		}
		method = selectMethod(a, analysis, QuerySingleEntry)
	}

	stats := &Stats{}
	switch method {
	case MethodBidirectional:
		est, err := solveBidirectional(a, b, target, epsilon, confidence, settings, stats)
		if errors.Is(err, ErrNotDominant) {
			rw, rwErr := solveRandomWalk(a, b, target, defaultRandomWalkAlpha, epsilon, confidence, settings, stats)
			return EntryEstimate{Value: rw.Value, HalfWidth: rw.HalfWidth, Variance: rw.Variance}, rwErr
		}
		return est, err
	case MethodRandomWalk:
		rw, err := solveRandomWalk(a, b, target, defaultRandomWalkAlpha, epsilon, confidence, settings, stats)
		return EntryEstimate{Value: rw.Value, HalfWidth: rw.HalfWidth, Variance: rw.Variance}, err
	default:
		return EntryEstimate{}, ErrUnsupportedSystem
	}
}
