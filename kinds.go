package sublinsolve

// MethodKind names a solution method selectable via Settings.Method (§6).
// MethodAuto defers the choice to the Method Oracle (C12).
type MethodKind int

const (
	MethodAuto MethodKind = iota
	MethodNeumann
	MethodForwardPush
	MethodBackwardPush
	MethodBidirectional
	MethodRandomWalk
	MethodConjugateGradient
)

func (k MethodKind) String() string {
	switch k {
	case MethodNeumann:
		return "neumann"
	case MethodForwardPush:
		return "forward-push"
	case MethodBackwardPush:
		return "backward-push"
	case MethodBidirectional:
		return "bidirectional"
	case MethodRandomWalk:
		return "random-walk"
	case MethodConjugateGradient:
		return "conjugate-gradient"
	default:
		return "auto"
	}
}

// QueryKind names the shape of a request to the Method Oracle, distinct
// from MethodKind: a query describes WHAT is being asked for (a full
// solution vector, one entry of it, the whole PageRank vector, or only its
// top-k entries), while a MethodKind is HOW the Oracle may answer it. This
// distinction is not named explicitly in the original request shape but is
// needed to let the Oracle give single-entry queries and top-k PageRank
// queries a cheaper default than a full solve requires.
type QueryKind int

const (
	QueryFullSolve QueryKind = iota
	QuerySingleEntry
	QueryPageRankFull
	QueryPageRankTopK
)

func (k QueryKind) String() string {
	switch k {
	case QuerySingleEntry:
		return "single-entry"
	case QueryPageRankFull:
		return "pagerank-full"
	case QueryPageRankTopK:
		return "pagerank-topk"
	default:
		return "full-solve"
	}
}
