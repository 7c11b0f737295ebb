package board

// GameResult is the outcome of a finished game, or ResultNone while the
// game is still in progress.
type GameResult uint8

const (
	ResultNone GameResult = iota
	ResultWhiteWon
	ResultBlackWon
	ResultDraw
)

// String returns the PGN-style result string.
func (r GameResult) String() string {
	switch r {
	case ResultWhiteWon:
		return "1-0"
	case ResultBlackWon:
		return "0-1"
	case ResultDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// LowMaterialDraw returns true when neither side can win: no pawns and at
// most a minor piece of material each.
func (b *Board) LowMaterialDraw() bool {
	if b.ByPieceType(Pawn) != 0 {
		return false
	}
	return b.material[White] < 5 && b.material[Black] < 5
}

// FiftyRuleDraw returns true once 50 moves passed without a capture, pawn
// move, castling or promotion.
func (b *Board) FiftyRuleDraw() bool {
	return b.st().FiftyRule >= 100
}

// RepetitionDraw reports a draw by repetition. During search a single
// recurrence already scores as a draw: either the repetition happened
// inside the search tree (within ply plies) or we are at the root. Deeper
// in the game history a position must have occurred twice before.
func (b *Board) RepetitionDraw(ply int) bool {
	lastRep := b.st().LastRepetition
	if lastRep == 0 {
		return false
	}
	if lastRep <= ply || ply == 0 {
		return true
	}
	prev := len(b.states) - 1 - lastRep
	return b.states[prev].LastRepetition != 0
}

// IsDraw returns true if the position is drawn by material, the fifty-move
// rule or repetition. ply is the current search ply.
func (b *Board) IsDraw(ply int) bool {
	return b.LowMaterialDraw() || b.FiftyRuleDraw() || b.RepetitionDraw(ply)
}

// ComputeGameResult reports the game outcome. It generates and checks all
// moves, so it is meant for the game loop, not for search-internal use.
func (b *Board) ComputeGameResult() GameResult {
	if b.IsDraw(0) {
		return ResultDraw
	}

	if b.HasLegalMoves() {
		return ResultNone
	}

	if b.InCheck() {
		if b.side == White {
			return ResultBlackWon
		}
		return ResultWhiteWon
	}
	return ResultDraw // Stalemate
}
