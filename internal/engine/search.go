package engine

import (
	"sync/atomic"
	"time"

	"github.com/ivasilev/tamerlane/internal/board"
)

// Search constants
const (
	MaxDepth = 99

	Inf  = 31000
	Mate = 30000
)

// deltaMargin is the safety margin of the quiescence delta pruning.
const deltaMargin = 200

// IsMateValue reports whether a value encodes a forced mate.
func IsMateValue(v int) bool {
	return v > Mate-MaxDepth*2 || v < MaxDepth*2-Mate
}

// GivingMateIn converts a positive mate value into moves-until-mate.
func GivingMateIn(v int) int {
	return (Mate + 2 - v) / 2
}

// GettingMatedIn converts a negative mate value into moves-until-mated.
func GettingMatedIn(v int) int {
	return (v + Mate + 1) / 2
}

// SearchResult is the outcome of a root search.
type SearchResult struct {
	Best  board.Move
	Value int
}

// IterationInfo describes one completed root iteration, for "post" output.
type IterationInfo struct {
	Depth   int
	Value   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Move
}

// pvLine is one row of the triangular principal variation table.
type pvLine struct {
	moves  [MaxDepth + 2]board.Move
	length int
}

// Searcher runs the iterative-deepening alpha-beta search. It is strictly
// single-threaded; the only cross-thread interaction is the stop flag,
// which Stop may set from any goroutine and the search polls cooperatively.
type Searcher struct {
	Limits *Limits

	// OnIteration, when set, is called after every completed root
	// iteration (the "post" output hook).
	OnIteration func(IterationInfo)

	// CheckInput, when set, is polled every 8192 nodes so a front-end
	// without an input goroutine can service commands mid-search.
	CheckInput func()

	eval     *Evaluator
	nodes    uint64
	mustStop atomic.Bool

	moveLists [MaxDepth + 2]board.MoveList
	pvs       [MaxDepth + 2]pvLine
}

// NewSearcher creates a searcher with unbounded limits and a fresh pawn
// cache.
func NewSearcher() *Searcher {
	return &Searcher{
		Limits: NewLimits(),
		eval:   NewEvaluator(1 << 15),
	}
}

// Stop asks the running search to terminate at its next polling point.
// Safe to call from another goroutine; calling it twice is harmless.
func (s *Searcher) Stop() {
	s.mustStop.Store(true)
}

// Nodes returns the node count of the last (or running) search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Evaluate exposes the static evaluation of the search's evaluator.
func (s *Searcher) Evaluate(b *board.Board) int {
	return s.eval.Evaluate(b)
}

// RootSearch finds the best move under the current limits. The caller must
// Reset the limits beforehand; the stop flag is rearmed here.
func (s *Searcher) RootSearch(b *board.Board) SearchResult {
	s.mustStop.Store(false)
	s.nodes = 0

	var moves board.MoveList
	b.GenerateMoves(&moves, board.AllMoves)
	values := make([]int, moves.Len())

	lastBest, lastResult := board.NoMove, -Inf

	for depth := 1; !s.Limits.DepthLimitBroken(depth); depth++ {
		best, result := board.NoMove, -Inf
		var pv []board.Move
		legalMoves := 0

		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			if !b.IsLegal(m) {
				continue
			}
			legalMoves++

			b.MakeMove(m)
			v := -s.search(b, -Inf, -result, depth-1, 0, true)
			b.UnmakeMove(m)

			if s.mustStop.Load() {
				// Keep the last completed iteration; fall back to the
				// partial best if the first one never finished.
				if lastBest != board.NoMove {
					return SearchResult{Best: lastBest, Value: lastResult}
				}
				if best == board.NoMove {
					best, result = m, v
				}
				return SearchResult{Best: best, Value: result}
			}

			values[i] = v
			if v > result {
				result = v
				best = m
				pv = append(pv[:0], m)
				pv = append(pv, s.pvs[0].moves[:s.pvs[0].length]...)
			}
		}

		// No legal moves: mate or stalemate right at the root.
		if legalMoves == 0 {
			value := 0
			if b.InCheck() {
				value = -Mate
			}
			return SearchResult{Best: board.NoMove, Value: value}
		}

		// The soft limit between iterations is the perfect place to stop.
		if s.Limits.SoftLimitBroken() {
			return SearchResult{Best: best, Value: result}
		}

		if s.OnIteration != nil {
			s.OnIteration(IterationInfo{
				Depth:   depth,
				Value:   result,
				Nodes:   s.nodes,
				Elapsed: s.Limits.Elapsed(),
				PV:      pv,
			})
		}

		lastBest, lastResult = best, result

		// Reorder the root moves by this iteration's values so the most
		// promising line is searched first at the next depth.
		sortRootMoves(&moves, values)
	}

	return SearchResult{Best: lastBest, Value: lastResult}
}

// sortRootMoves sorts moves (and their value shadow array) best-first.
func sortRootMoves(moves *board.MoveList, values []int) {
	for i := 1; i < moves.Len(); i++ {
		for j := i; j > 0 && values[j] > values[j-1]; j-- {
			moves.Swap(j, j-1)
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}

// search is the recursive alpha-beta. Values are from the side to move's
// point of view and negated across recursion; pv selects principal
// variation maintenance.
func (s *Searcher) search(b *board.Board, alpha, beta, depth, ply int, pv bool) int {
	if s.mustStop.Load() {
		return alpha
	}

	// Cooperative limit checking: cheap tests every 512 nodes, external
	// input every 8192.
	if s.nodes&0x1ff == 0 {
		if s.Limits.HardLimitBroken() || s.Limits.NodesLimitBroken(s.nodes) {
			s.mustStop.Store(true)
			return alpha
		}
		if s.nodes&0x1fff == 0 && s.CheckInput != nil {
			s.CheckInput()
		}
	}

	if ply > MaxDepth {
		return alpha
	}

	if b.IsDraw(ply) {
		return 0
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply, 0)
	}

	if pv {
		s.pvs[ply].length = 0
	}

	result := alpha
	legalMoves := 0
	moves := &s.moveLists[ply]
	b.GenerateMoves(moves, board.AllMoves)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if !b.IsLegal(m) {
			continue
		}

		legalMoves++
		s.nodes++

		b.MakeMove(m)
		v := -s.search(b, -beta, -result, depth-1, ply+1, pv)
		b.UnmakeMove(m)

		if s.mustStop.Load() {
			return alpha
		}

		if v > result {
			result = v

			if pv {
				line := &s.pvs[ply]
				child := &s.pvs[ply+1]
				line.moves[0] = m
				copy(line.moves[1:], child.moves[:child.length])
				line.length = child.length + 1
			}
		}

		if result >= beta {
			break
		}
	}

	if legalMoves == 0 {
		if b.InCheck() {
			return ply - Mate
		}
		return 0 // Stalemate
	}

	return result
}

// quiescence resolves tactical noise at the frontier: captures (plus
// shallow quiet checks) until the position is quiet, with standing pat,
// delta pruning and SEE pruning. In check it searches all evasions.
func (s *Searcher) quiescence(b *board.Board, alpha, beta, ply, qply int) int {
	if s.mustStop.Load() {
		return alpha
	}

	if s.nodes&0x1ff == 0 {
		if s.Limits.HardLimitBroken() || s.Limits.NodesLimitBroken(s.nodes) {
			s.mustStop.Store(true)
			return alpha
		}
		if s.nodes&0x1fff == 0 && s.CheckInput != nil {
			s.CheckInput()
		}
	}

	if ply > MaxDepth {
		return alpha
	}

	s.pvs[ply].length = 0

	inCheck := b.InCheck()
	static := 0
	if !inCheck {
		// Standing pat: the side to move may always refuse to capture.
		static = s.eval.Evaluate(b)
		if static >= beta {
			return static
		}
		if static > alpha {
			alpha = static
		}
	}

	moves := &s.moveLists[ply]
	if inCheck {
		b.GenerateMoves(moves, board.AllMoves)
	} else {
		b.GenerateMoves(moves, board.Captures)
		if qply < 2 {
			var checks board.MoveList
			b.GenerateMoves(&checks, board.QuietChecks)
			for i := 0; i < checks.Len(); i++ {
				moves.Add(checks.Get(i))
			}
		}
	}

	legalMoves := 0
	prune := !inCheck && b.ByPieceType(board.Pawn) != 0

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if !b.IsLegal(m) {
			continue
		}
		legalMoves++

		if prune {
			// Delta pruning: even winning the victim outright cannot lift
			// the score back to alpha.
			if !m.IsPromotion() && !b.GivesCheck(m) {
				victim := b.PieceAt(m.To()).Type()
				if m.IsEnPassant() {
					victim = board.Pawn
				}
				if static+board.ExchangeValue[victim]+deltaMargin <= alpha {
					continue
				}
			}

			// SEE pruning: skip losing exchanges.
			if SEE(b, m) < 0 {
				continue
			}
		}

		s.nodes++
		b.MakeMove(m)
		v := -s.quiescence(b, -beta, -alpha, ply+1, qply+1)
		b.UnmakeMove(m)

		if s.mustStop.Load() {
			return alpha
		}

		if v >= beta {
			return v
		}
		if v > alpha {
			alpha = v
		}
	}

	if inCheck && legalMoves == 0 {
		return ply - Mate
	}

	return alpha
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *board.Board, depth int) uint64 {
	var moves board.MoveList
	b.GenerateMoves(&moves, board.AllMoves)

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if !b.IsLegal(m) {
			continue
		}

		if depth <= 1 {
			nodes++
			continue
		}

		b.MakeMove(m)
		nodes += Perft(b, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}
