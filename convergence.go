package sublinsolve

import "math"

// ProgressRecord is emitted once per iteration by a Monitor. It is the
// entity described in §3 as the "Progress Record".
type ProgressRecord struct {
	// Iteration is the 1-based iteration (or push) index.
	Iteration int

	// ResidualNorm is ‖b - A*x‖₂ (or a solver-specific estimate of it).
	ResidualNorm float64

	// RelativeResidual is ResidualNorm / ‖b‖₂.
	RelativeResidual float64

	// ConvergenceRate is the geometric mean of ρ_k/ρ_{k-1} over the
	// trailing WindowRate iterations.
	ConvergenceRate float64

	// MemoryEstimate is a rough byte count of the solver's working set,
	// reported for observability only.
	MemoryEstimate int

	// Converged reports whether this is the terminal record and the
	// solve succeeded.
	Converged bool

	// Status classifies the terminal record when Converged is false.
	Status Status

	// X is an optional snapshot of the current iterate. It is nil unless
	// the caller requested snapshots.
	X []float64
}

// Status classifies the outcome of a Monitor's latest observation.
type Status int

const (
	// StatusRunning indicates iteration should continue.
	StatusRunning Status = iota
	// StatusConverged indicates ρ_k ≤ tol.
	StatusConverged
	// StatusStagnated indicates ρ has stopped improving without reaching tol.
	StatusStagnated
	// StatusDiverged indicates ρ_k blew up or went non-finite.
	StatusDiverged
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusStagnated:
		return "stagnated"
	case StatusDiverged:
		return "diverged"
	default:
		return "running"
	}
}

// Monitor tracks the relative-residual history of one solve and classifies
// its progress (§4.11). A Monitor is owned by a single kernel invocation;
// it is not safe for concurrent use.
type Monitor struct {
	tol        float64
	windowRate int
	windowStag int

	history []float64
	rho0    float64
	started bool
}

// NewMonitor returns a Monitor that declares convergence at tol and uses
// windowRate/windowStag-sized windows for the rate estimate and stagnation
// detection respectively.
func NewMonitor(tol float64, windowRate, windowStag int) *Monitor {
	if windowRate <= 0 {
		windowRate = 5
	}
	if windowStag <= 0 {
		windowStag = 20
	}
	return &Monitor{tol: tol, windowRate: windowRate, windowStag: windowStag}
}

// Observe records the relative residual for iteration k (residualNorm /
// bNorm) and returns the classification for it.
func (m *Monitor) Observe(iteration int, residualNorm, bNorm float64) ProgressRecord {
	rho := residualNorm
	if bNorm != 0 {
		rho = residualNorm / bNorm
	}
	if !m.started {
		m.rho0 = rho
		m.started = true
	}
	m.history = append(m.history, rho)
	rate := m.rate()

	status := StatusRunning
	converged := rho <= m.tol
	switch {
	case math.IsNaN(rho) || math.IsInf(rho, 0) || rho > m.rho0*10:
		status = StatusDiverged
	case converged:
		status = StatusConverged
	case m.stagnating():
		status = StatusStagnated
	}

	return ProgressRecord{
		Iteration:        iteration,
		ResidualNorm:     residualNorm,
		RelativeResidual: rho,
		ConvergenceRate:  rate,
		Converged:        converged,
		Status:           status,
	}
}

// rate returns the geometric mean of ρ_k/ρ_{k-1} over the trailing
// windowRate entries of the history.
func (m *Monitor) rate() float64 {
	n := len(m.history)
	if n < 2 {
		return 0
	}
	start := n - m.windowRate
	if start < 1 {
		start = 1
	}
	product := 1.0
	count := 0
	for i := start; i < n; i++ {
		if m.history[i-1] > 0 {
			product *= m.history[i] / m.history[i-1]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Pow(product, 1/float64(count))
}

// stagnating reports whether the trailing windowStag relative residuals
// all lie within ±5% of their mean.
func (m *Monitor) stagnating() bool {
	n := len(m.history)
	if n < m.windowStag {
		return false
	}
	win := m.history[n-m.windowStag:]
	var mean float64
	for _, v := range win {
		mean += v
	}
	mean /= float64(len(win))
	if mean == 0 {
		return false
	}
	for _, v := range win {
		if math.Abs(v-mean) > 0.05*mean {
			return false
		}
	}
	return true
}

// Grade maps a terminal Monitor observation to the A+..F performance grade
// of §4.11. n is the system dimension, used for the A+ iteration bound
// n^(1/3).
func Grade(status Status, iterations, maxIterations, n int, rhoFinal, tol float64) string {
	switch status {
	case StatusDiverged:
		return "F"
	case StatusConverged:
		if float64(iterations) <= math.Cbrt(float64(n)) && rhoFinal <= tol/10 {
			return "A+"
		}
		if float64(iterations) >= 0.9*float64(maxIterations) {
			return "B"
		}
		return "A"
	case StatusStagnated:
		if rhoFinal <= 10*tol {
			return "C"
		}
		return "D"
	default:
		return "D"
	}
}

// Progress is a finite, non-restartable, pull-based sequence of
// ProgressRecords (§9: "an iterator that yields Progress Records and is
// consumed by the caller"). The caller drives iteration by calling Next;
// no record is computed until it is pulled.
type Progress struct {
	out     chan ProgressRecord
	resume  chan struct{}
	done    bool
	pending bool // producer is waiting for resume after the last record
}

// newProgress starts run in its own goroutine and returns a Progress that
// pulls one record at a time from it. run must call emit for every
// iteration, including the terminal one, and must stop calling emit after
// a record with Converged set (or a Status other than Running) has been
// emitted.
func newProgress(run func(emit func(ProgressRecord))) *Progress {
	p := &Progress{
		out:    make(chan ProgressRecord),
		resume: make(chan struct{}),
	}
	go func() {
		defer close(p.out)
		run(func(rec ProgressRecord) {
			p.out <- rec
			if rec.Converged || rec.Status != StatusRunning {
				return
			}
			<-p.resume
		})
	}()
	return p
}

// Next blocks until the next ProgressRecord is available and reports
// whether one was produced. It returns false once the sequence has
// terminated.
func (p *Progress) Next() (ProgressRecord, bool) {
	if p.done {
		return ProgressRecord{}, false
	}
	// Release the producer from the previous non-terminal record only now,
	// so the next record is computed when it is pulled.
	if p.pending {
		p.pending = false
		p.resume <- struct{}{}
	}
	rec, ok := <-p.out
	if !ok {
		p.done = true
		return ProgressRecord{}, false
	}
	// After a terminal record the producer does not wait for resume; it
	// returns and closes the channel, which the following call observes.
	p.pending = !rec.Converged && rec.Status == StatusRunning
	return rec, true
}
