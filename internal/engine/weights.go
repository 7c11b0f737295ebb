// Package engine implements the evaluator and the best-move search.
package engine

import "github.com/ivasilev/tamerlane/internal/board"

func s(mg, eg int) board.Score { return board.S(mg, eg) }

// tempoScore is the bonus for having the move.
var tempoScore = s(15, 3)

///  PAWNS  ///

// pawnIslands penalizes split pawn formations, indexed by island count.
// A pawn island is a run of pawns on consecutive files.
var pawnIslands = [5]board.Score{{}, {}, s(-3, -3), s(-21, -16), s(-34, -32)}

// defendedPawn rewards a pawn defended by another pawn, by relative rank.
var defendedPawn = [8]board.Score{
	{}, {}, s(3, 5), s(7, 8), s(13, 15), s(19, 23), s(28, 36), {},
}

// isolatedPawn is a pawn with no own pawns on the adjacent files.
var isolatedPawn = s(-7, -5)

// backwardPawn is a pawn that cannot be protected by own pawns and cannot
// safely advance.
var backwardPawn = s(-9, -9)

// doubledPawn applies per pawn standing behind another own pawn on its file.
var doubledPawn = s(-10, -23)

// pawnDistortion scales with how far apart the pawns on adjacent files are.
var pawnDistortion = s(-1, -2)

// passedPawn rewards a passed pawn by its relative rank.
var passedPawn = [8]board.Score{
	{}, s(15, 25), s(22, 30), s(30, 35), s(42, 48), s(55, 65), s(75, 95), {},
}

// rookBehindPassedPawn rewards a rook supporting a passed pawn from behind.
var rookBehindPassedPawn = s(12, 28)

// minorPassedBlocked penalizes a passed pawn blocked by an enemy minor.
var minorPassedBlocked = s(-14, -27)

///  MINOR PIECES  ///

// outpost is the bonus for a minor on an outpost square, doubled for knights.
var outpost = s(18, 10)

// outpostsBB are the candidate outpost squares per color: ranks 4-6 from
// the own point of view, excluding the rim files.
var outpostsBB = [2]board.Bitboard{
	(board.Rank4 | board.Rank5 | board.Rank6) &^ (board.FileA | board.FileH),
	(board.Rank5 | board.Rank4 | board.Rank3) &^ (board.FileA | board.FileH),
}

///  MOBILITY  ///

var knightMobility = [9]board.Score{
	s(-90, -120), s(-35, -60), s(-16, -25), s(-5, -10), s(5, 3), s(14, 11),
	s(21, 17), s(25, 21), s(28, 24),
}

var bishopMobility = [14]board.Score{
	s(-60, -90), s(-35, -50), s(-20, -25), s(-10, -14), s(-5, -8), s(0, -3),
	s(6, 4), s(12, 11), s(18, 18), s(25, 25), s(30, 30), s(35, 35),
	s(40, 40), s(45, 45),
}

var rookMobility = [15]board.Score{
	s(-45, -70), s(-30, -45), s(-18, -24), s(-10, -14), s(-5, -8), s(0, -2),
	s(6, 5), s(12, 12), s(18, 20), s(25, 27), s(30, 34), s(35, 41),
	s(40, 48), s(45, 55), s(50, 62),
}

var queenMobility = [28]board.Score{
	s(-35, -55), s(-28, -37), s(-22, -26), s(-17, -19), s(-12, -13), s(-8, -8),
	s(-4, -4), s(0, 1), s(4, 5), s(8, 10), s(12, 14), s(16, 19),
	s(20, 23), s(24, 28), s(28, 32), s(32, 37), s(36, 41), s(40, 46),
	s(44, 50), s(47, 54), s(50, 57), s(53, 61), s(56, 64), s(59, 67),
	s(62, 71), s(65, 74), s(67, 76), s(70, 80),
}

///  BISHOP / ROOK  ///

// bishopPair rewards owning bishops on both square colors.
var bishopPair = s(35, 20)

// rookOnOpenFile: no pawns of either side on the rook's file.
var rookOnOpenFile = s(26, 10)

// rookOnSemiOpenFile: no own pawn, enemy pawn present.
var rookOnSemiOpenFile = s(14, 6)

///  PAWN ENDGAMES  ///

// squareRulePassed is added for a passed pawn the enemy king cannot catch.
const squareRulePassed = 200

// kingPassedTropism scales the king-to-passed-pawn closeness.
const kingPassedTropism = 5

// kingPawnTropism scales the king-to-pawn closeness for ordinary pawns.
const kingPawnTropism = 2

///  BARE KING ENDGAMES  ///

// sureWin is added on top of the mating-drive terms once one side has a
// bare king; it dwarfs any positional score without reaching the mate band.
const sureWin = 10000

// kingPushToCorner drives the lone king toward the edges and corners.
var kingPushToCorner = [64]int{
	100, 90, 80, 70, 70, 80, 90, 100,
	90, 60, 50, 40, 40, 50, 60, 90,
	80, 50, 30, 20, 20, 30, 50, 80,
	70, 40, 20, 10, 10, 20, 40, 70,
	70, 40, 20, 10, 10, 20, 40, 70,
	80, 50, 30, 20, 20, 30, 50, 80,
	90, 60, 50, 40, 40, 50, 60, 90,
	100, 90, 80, 70, 70, 80, 90, 100,
}
