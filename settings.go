package sublinsolve

import "time"

// Default configuration values (§6).
const (
	defaultTolerance        = 1e-8
	defaultMaxIterations    = 1000
	defaultConfidence       = 0.95
	defaultCheckPeriod      = 10
	defaultWindowRate       = 5
	defaultWindowStagnation = 20
)

// CancelToken is an explicit, caller-owned cancellation signal (§5, §9).
// The zero value never reports cancellation. Use NewCancelToken to obtain
// a token paired with the function that fires it.
type CancelToken struct {
	ch <-chan struct{}
}

// NewCancelToken returns a token and the function that cancels it. Calling
// cancel more than once is safe.
func NewCancelToken() (tok *CancelToken, cancel func()) {
	ch := make(chan struct{})
	var once bool
	return &CancelToken{ch: ch}, func() {
		if once {
			return
		}
		once = true
		close(ch)
	}
}

// Cancelled reports whether the token has fired. A nil token is never
// cancelled.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

// Settings holds the configuration options of §6, shared by every
// operation in the library API.
type Settings struct {
	// InitX is a warm-start initial guess. If nil, the zero vector is
	// used.
	InitX []float64

	// Tolerance is the relative-residual convergence threshold. Zero
	// means defaultTolerance.
	Tolerance float64

	// MaxIterations bounds the number of iterations (or pushes, for the
	// push solvers). Zero means defaultMaxIterations.
	MaxIterations int

	// Method overrides the Method Oracle's selection. MethodAuto routes
	// through the Oracle.
	Method MethodKind

	// Confidence is 1-δ for Random-Walk and Bidirectional. Zero means
	// defaultConfidence.
	Confidence float64

	// CheckPeriod is the number of iterations between exact residual
	// recomputations for solvers that estimate it cheaply between
	// checks. Zero means defaultCheckPeriod.
	CheckPeriod int

	// WindowRate and WindowStagnation configure the Convergence
	// Monitor's hysteresis (§4.11). Zero means the package defaults.
	WindowRate       int
	WindowStagnation int

	// Seed drives every Monte-Carlo random source. Identical seed and
	// inputs produce identical output (P5).
	Seed uint64

	// Cancel, if non-nil, is checked at least once per iteration (and at
	// least once per 1024 pushes for push solvers).
	Cancel *CancelToken
}

// defaulted returns a copy of s with zero fields replaced by defaults.
func (s Settings) defaulted() Settings {
	if s.Tolerance == 0 {
		s.Tolerance = defaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = defaultMaxIterations
	}
	if s.Confidence == 0 {
		s.Confidence = defaultConfidence
	}
	if s.CheckPeriod == 0 {
		s.CheckPeriod = defaultCheckPeriod
	}
	if s.WindowRate == 0 {
		s.WindowRate = defaultWindowRate
	}
	if s.WindowStagnation == 0 {
		s.WindowStagnation = defaultWindowStagnation
	}
	return s
}

// Stats holds bookkeeping about an iterative solve, mirroring
// linsolve.Stats.
type Stats struct {
	// Iterations is the number of MajorIteration-equivalent steps taken
	// (pushes, for the push solvers).
	Iterations int

	// MulVec is the number of matrix-vector products computed.
	MulVec int

	// Pushes is the number of local push operations performed (C5-C7).
	Pushes int
}

// Result is the Solve Result of §3: the final solution, its quality, and
// the bookkeeping behind it.
type Result struct {
	// X is the approximate solution (or its best available estimate on
	// partial success).
	X []float64

	// ResidualNorm is ‖b - A*X‖₂ at the final iterate.
	ResidualNorm float64

	// RelativeResidual is ResidualNorm / ‖b‖₂.
	RelativeResidual float64

	// Converged reports whether the solve terminated successfully.
	Converged bool

	// Cancelled reports whether a CancelToken interrupted the solve.
	Cancelled bool

	// WallTime is the time spent inside the solver.
	WallTime time.Duration

	// Grade is the A+..F performance grade of §4.11.
	Grade string

	// Stats is the iteration/operation bookkeeping of this solve.
	Stats Stats
}
