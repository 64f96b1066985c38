package sublinsolve

import (
	"container/heap"
	"math"

	"github.com/sublinsolve/sublinsolve/matrix"
	"github.com/sublinsolve/sublinsolve/vector"
)

// pushEntry is one member of an activeSet: a coordinate and the priority it
// was queued with (|r_i| / outdeg_i at insertion time, §4.5).
type pushEntry struct {
	index    int
	priority float64
}

// activeSet is a no-decrease-key priority queue over pushEntry, modeled on
// gonum.org/v1/gonum/graph/path's priorityQueue: the push solvers (C5, C6)
// need exactly the same shape of queue Dijkstra does (pop the most urgent
// pending coordinate, break ties deterministically), just with a different
// priority function and an inQueue membership mask instead of a decrease-key
// operation: a coordinate whose residual changes while it is pending keeps
// the priority it was queued with until it is popped.
type activeSet []pushEntry

func (q activeSet) Len() int { return len(q) }
func (q activeSet) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].index < q[j].index
}
func (q activeSet) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *activeSet) Push(x any)   { *q = append(*q, x.(pushEntry)) }
func (q *activeSet) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// pushQueue is the active set of §3/§4.5: a priority queue with membership
// tracking so a coordinate is never enqueued twice while already pending.
type pushQueue struct {
	set      activeSet
	inQueue  []bool
	shrinkAt int // pushes since the set last shrank below this size
	lastLen  int
}

func newPushQueue(n int) *pushQueue {
	return &pushQueue{inQueue: make([]bool, n)}
}

// Insert enqueues i at the given priority unless i is already pending.
func (q *pushQueue) Insert(i int, priority float64) {
	if q.inQueue[i] {
		return
	}
	q.inQueue[i] = true
	heap.Push(&q.set, pushEntry{index: i, priority: priority})
}

// Pop removes and returns the highest-priority coordinate, or reports
// empty=true if the set has no pending coordinates.
func (q *pushQueue) Pop() (index int, empty bool) {
	if len(q.set) == 0 {
		return 0, true
	}
	e := heap.Pop(&q.set).(pushEntry)
	q.inQueue[e.index] = false
	return e.index, false
}

func (q *pushQueue) Len() int { return len(q.set) }

// pushSource abstracts the neighbor relation a push solver walks: row(i)
// with row-sum normalization for Forward-Push (C5), col(i) with column-sum
// normalization for Backward-Push (C6) — the two differ only in which of
// the Matrix Store's dual views they read (§4.6: "pushes propagate through
// col(i) instead of row(i) ... all other contracts mirror C5").
type pushSource interface {
	Dim() int
	Degree(i int) (int, error)
	AbsSum(i int) (float64, error)
	Edges(i int) (matrix.RowIter, error)
}

type rowSource struct{ a *matrix.Matrix }

func (s rowSource) Dim() int                          { return s.a.Dim() }
func (s rowSource) Degree(i int) (int, error)         { return s.a.RowNNZ(i) }
func (s rowSource) AbsSum(i int) (float64, error)     { return s.a.RowAbsSum(i) }
func (s rowSource) Edges(i int) (matrix.RowIter, error) { return s.a.Row(i) }

type colSource struct{ a *matrix.Matrix }

func (s colSource) Dim() int                          { return s.a.Dim() }
func (s colSource) Degree(i int) (int, error)          { return s.a.ColNNZ(i) }
func (s colSource) AbsSum(i int) (float64, error)       { return s.a.ColAbsSum(i) }
func (s colSource) Edges(i int) (matrix.RowIter, error) { return s.a.Col(i) }

// pushResult holds the outcome of a local push computation (§3's Residual
// Vector entity: an estimate e and a residual r with the mass-conservation
// invariant I4 preserved between them).
type pushResult struct {
	e      []float64
	r      []float64
	pushes int
}

// runPush drives the local-push iteration shared by Forward-Push and
// Backward-Push (§4.5, §4.6). alpha is the restart/retention fraction
// (the Bidirectional Solver uses 1, the full-solve path uses
// forwardPushFullSolveAlpha, PageRank uses 1-damping). maxPushes<=0 means no
// explicit push budget (only the residual and stagnation checks bound the
// work).
func runPush(src pushSource, residualInit []float64, alpha, eps float64, maxPushes int, cancel *CancelToken, stats *Stats, emit func(ProgressRecord)) (pushResult, error) {
	n := src.Dim()
	e := make([]float64, n)
	r := make([]float64, len(residualInit))
	vector.Copy(r, residualInit)

	degreeOf := func(i int) int {
		d, _ := src.Degree(i)
		if d < 1 {
			d = 1
		}
		return d
	}
	threshold := func(i int) float64 { return eps * float64(degreeOf(i)) }

	q := newPushQueue(n)
	for i := 0; i < n; i++ {
		if absF(r[i]) >= threshold(i) {
			q.Insert(i, absF(r[i])/float64(degreeOf(i)))
		}
	}

	bNorm := vector.NormInf(r)
	if bNorm == 0 {
		bNorm = 1
	}
	monitor := NewMonitor(eps, 0, 0)

	maxNoShrink := int(float64(n)*math.Log(1/eps)) + 1
	noShrink := 0
	lastLen := q.Len()
	// windowResidual is the residual at the start of the current
	// non-shrinking window.
	windowResidual := vector.NormInf(r)

	pushes := 0
	for {
		if pushes%1024 == 0 && cancel.Cancelled() {
			return pushResult{e, r, pushes}, ErrCancelled
		}
		if q.Len() == 0 {
			break
		}
		if maxPushes > 0 && pushes >= maxPushes {
			break
		}
		cur := vector.NormInf(r)
		if cur <= eps {
			break
		}

		i, empty := q.Pop()
		if empty {
			break
		}
		pi := r[i]
		e[i] += alpha * pi
		r[i] = 0

		rowSum, _ := src.AbsSum(i)
		if rowSum > 0 {
			it, _ := src.Edges(i)
			for {
				j, v, ok := it.Next()
				if !ok {
					break
				}
				r[j] += (1 - alpha) * pi * (v / rowSum)
				dj := degreeOf(j)
				if absF(r[j]) >= eps*float64(dj) {
					q.Insert(j, absF(r[j])/float64(dj))
				}
			}
		}

		pushes++
		stats.Pushes++
		stats.Iterations = pushes

		if q.Len() < lastLen {
			noShrink = 0
			windowResidual = cur
		} else {
			noShrink++
		}
		lastLen = q.Len()

		rec := monitor.Observe(pushes, cur, bNorm)
		if emit != nil {
			emit(rec)
		}

		if noShrink > maxNoShrink && cur > windowResidual/2 {
			return pushResult{e, r, pushes}, &NotConvergentError{Iterations: pushes, ResidualNorm: cur}
		}
	}

	return pushResult{e, r, pushes}, nil
}
