package sublinsolve

import (
	"sort"

	"github.com/sublinsolve/sublinsolve/matrix"
)

// RankedNode is one entry of a PageRankResult's top-k list.
type RankedNode struct {
	Index int
	Score float64
}

// PageRankResult is the output of PageRank (§3, §4.10): the full score
// vector and, if requested, its top-k entries.
type PageRankResult struct {
	Scores     []float64
	TopK       []RankedNode
	Iterations int
}

// PageRank implements the PageRank Driver (C10). w is a nonnegative
// adjacency matrix (rows may be all-zero, i.e. dangling). personalization
// defaults to the uniform distribution when nil. If topK > 0, the solve is
// routed through Forward-Push and only the top-k scores are guaranteed
// cheap to obtain; otherwise it is routed through the Neumann series for a
// full vector (§4.10 step 3).
func PageRank(w *matrix.Matrix, damping float64, personalization []float64, epsilon float64, topK int, settings Settings) (PageRankResult, error) {
	n := w.Dim()
	if n == 0 || damping <= 0 || damping >= 1 {
		return PageRankResult{}, matrix.ErrInvalidMatrix
	}

	p := personalization
	if p == nil {
		p = make([]float64, n)
		u := 1 / float64(n)
		for i := range p {
			p[i] = u
		}
	} else if len(p) != n {
		return PageRankResult{}, matrix.ErrDimensionMismatch
	}

	pt, err := transposeTransition(w, p)
	if err != nil {
		return PageRankResult{}, err
	}

	settings = settings.defaulted()
	if epsilon <= 0 {
		epsilon = settings.Tolerance
	}

	bPR := make([]float64, n)
	for i := range bPR {
		bPR[i] = (1 - damping) * p[i]
	}

	stats := &Stats{}
	var x []float64
	if topK > 0 {
		// Column i of Pᵀ is row i of P, so mass moves along i's out-links.
		res, err := runPush(colSource{pt}, bPR, 1-damping, epsilon, settings.MaxIterations, settings.Cancel, stats, nil)
		if err != nil {
			return PageRankResult{}, err
		}
		x = res.e
	} else {
		// With A = I - d·Pᵀ and s = 1, neumannSeries iterates M = d·Pᵀ.
		system, err := buildNeumannOperator(pt, damping)
		if err != nil {
			return PageRankResult{}, err
		}
		x, _, err = neumannSeries(system, bPR, 1, settings, stats, nil)
		if err != nil {
			return PageRankResult{}, err
		}
	}

	normalizeToSum1(x)

	result := PageRankResult{Scores: x, Iterations: stats.Iterations}
	if topK > 0 {
		result.TopK = topKNodes(x, topK)
	}
	return result, nil
}

// transposeTransition row-normalizes w (dangling rows replaced by p) and
// returns its transpose directly, since every caller of it (Neumann,
// Forward-Push) needs Pᵀ, never P itself.
func transposeTransition(w *matrix.Matrix, p []float64) (*matrix.Matrix, error) {
	n := w.Dim()
	var triples []matrix.Triple
	for i := 0; i < n; i++ {
		rowSum, err := w.RowAbsSum(i)
		if err != nil {
			return nil, err
		}
		if rowSum == 0 {
			for j, pv := range p {
				if pv != 0 {
					triples = append(triples, matrix.Triple{I: j, J: i, V: pv})
				}
			}
			continue
		}
		row, err := w.Row(i)
		if err != nil {
			return nil, err
		}
		for {
			j, v, ok := row.Next()
			if !ok {
				break
			}
			triples = append(triples, matrix.Triple{I: j, J: i, V: v / rowSum})
		}
	}
	return matrix.Build(n, triples)
}

// normalizeToSum1 rescales x in place so its entries sum to 1, absorbing
// the rounding drift of iterative solving (§4.10 step 4).
func normalizeToSum1(x []float64) {
	var sum float64
	for _, v := range x {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range x {
		x[i] /= sum
	}
}

// topKNodes returns the k highest-scoring indices of x in descending order.
func topKNodes(x []float64, k int) []RankedNode {
	nodes := make([]RankedNode, len(x))
	for i, v := range x {
		nodes[i] = RankedNode{Index: i, Score: v}
	}
	sort.Slice(nodes, func(a, b int) bool { return nodes[a].Score > nodes[b].Score })
	if k > len(nodes) {
		k = len(nodes)
	}
	return nodes[:k]
}
