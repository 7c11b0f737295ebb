package engine

import "github.com/ivasilev/tamerlane/internal/board"

// Evaluator computes the static evaluation of a position. It owns the pawn
// cache, so one evaluator must not be shared between concurrent searches.
type Evaluator struct {
	pawns *PawnTable
}

// NewEvaluator creates an evaluator with a pawn cache of the given entry
// count.
func NewEvaluator(pawnEntries int) *Evaluator {
	return &Evaluator{pawns: NewPawnTable(pawnEntries)}
}

// Evaluate returns the evaluation in centipawns from the side to move's
// point of view.
func (e *Evaluator) Evaluate(b *board.Board) int {
	whiteMat := b.Material(board.White)
	blackMat := b.Material(board.Black)

	// Kings and pawns only: the dedicated pawn endgame evaluator.
	if whiteMat == 0 && blackMat == 0 {
		result := e.evalPawnEndgame(b, board.White) - e.evalPawnEndgame(b, board.Black)
		result = signBySide(result, b.Side())
		return result + int(tempoScore.Eg)
	}

	if isDrawishEndgame(b) {
		return 0
	}

	// A bare king against pieces: drive it to a corner.
	if bareKing(b, board.White) || bareKing(b, board.Black) {
		return evalBareKing(b)
	}

	entry := e.pawns.Probe(b)
	score := e.evalSide(b, entry, board.White).Sub(e.evalSide(b, entry, board.Black))

	material := whiteMat + blackMat
	result := signBySide(score.Collapse(material), b.Side())
	return result + tempoScore.Collapse(material)
}

// signBySide converts a White-point-of-view value to the side to move's.
func signBySide(v int, side board.Color) int {
	if side == board.White {
		return v
	}
	return -v
}

// bareKing reports whether the color has neither pieces nor pawns.
func bareKing(b *board.Board, c board.Color) bool {
	return b.Material(c) == 0 && b.Pieces(c, board.Pawn) == 0
}

// hasOnlySameColoredBishops reports whether the side's minor material is
// bishops confined to one square color.
func hasOnlySameColoredBishops(b *board.Board, c board.Color) bool {
	if b.Pieces(c, board.Knight) != 0 {
		return false
	}
	bishops := b.Pieces(c, board.Bishop)
	return bishops&board.LightSquares == bishops || bishops&board.DarkSquares == bishops
}

// isDrawishEndgame detects pawnless low-material endings that cannot be
// won: lone minors, minor versus minor, two knights, same-colored bishops,
// and the like. Enumerated by the stronger side's material count.
func isDrawishEndgame(b *board.Board) bool {
	wMat := b.Material(board.White)
	bMat := b.Material(board.Black)
	if wMat+bMat > 9 {
		return false
	}
	if b.ByPieceType(board.Pawn) != 0 {
		return false
	}

	strong := board.White
	if bMat > wMat {
		strong = board.Black
	}
	strongMat, weakMat := b.Material(strong), b.Material(strong.Other())

	switch strongMat + weakMat {
	case 3:
		// A minor piece cannot mate a bare king.
		return true
	case 6:
		if strongMat == 3 {
			// Minor versus minor.
			return true
		}
		// Two minors versus a bare king: drawn for two knights or two
		// bishops on one color; a bishop and knight mate.
		return b.Pieces(strong, board.Bishop) == 0 ||
			hasOnlySameColoredBishops(b, strong)
	case 9:
		if strongMat != 6 {
			return false
		}
		// Two minors versus one: won only with the genuine bishop pair
		// against a bishop.
		return b.Pieces(strong, board.Knight) != 0 ||
			b.Pieces(strong.Other(), board.Bishop) == 0 ||
			hasOnlySameColoredBishops(b, strong)
	}
	return false
}

// evalBareKing scores endings where one side has only its king left. The
// winner gets sureWin plus a drive that pushes the lone king toward a
// mating corner; only the bishop-and-knight drive also pulls the kings
// together.
func evalBareKing(b *board.Board) int {
	strong := board.White
	if bareKing(b, board.White) {
		strong = board.Black
	}

	loneKing := b.KingSquare(strong.Other())

	var drive int
	if b.Material(strong) == 6 &&
		b.Pieces(strong, board.Bishop) != 0 && b.Pieces(strong, board.Knight) != 0 {
		drive = evalKBNK(b, strong)
	} else {
		drive = kingPushToCorner[loneKing]
	}

	result := sureWin + drive
	if strong == board.Black {
		result = -result
	}
	return signBySide(result, b.Side())
}

// evalKBNK drives the defending king toward one of the two corners of the
// bishop's square color, the only corners where bishop and knight can mate.
func evalKBNK(b *board.Board, strong board.Color) int {
	loneKing := b.KingSquare(strong.Other())
	kingTropism := 7 - board.Distance(loneKing, b.KingSquare(strong))

	cornerA, cornerB := board.A1, board.H8
	if b.Pieces(strong, board.Bishop)&board.LightSquares != 0 {
		cornerA, cornerB = board.A8, board.H1
	}

	cornerDist := board.Distance(cornerA, loneKing)
	if d := board.Distance(cornerB, loneKing); d < cornerDist {
		cornerDist = d
	}

	return kingTropism - 5*cornerDist
}

// evalPawnEndgame scores one side of a kings-and-pawns ending: endgame
// piece-square values, the cached pawn terms, the rule of the square for
// passers, and king proximity.
func (e *Evaluator) evalPawnEndgame(b *board.Board, us board.Color) int {
	them := us.Other()
	entry := e.pawns.Probe(b)

	result := int(b.Score(us).Eg) + int(entry.Eval[us].Eg)

	ourKing := b.KingSquare(us)
	enemyKing := b.KingSquare(them)

	for pawns := entry.Pawns[us]; pawns != 0; {
		sq := pawns.PopLSB()

		if entry.Passed.IsSet(sq) {
			// Rule of the square: the pawn promotes before the enemy king
			// arrives.
			promotion := board.NewSquare(sq.File(), 7)
			if us == board.Black {
				promotion = board.NewSquare(sq.File(), 0)
			}
			pawnDist := board.Distance(sq, promotion)
			if pawnDist > 5 {
				pawnDist = 5
			}
			enemyToMove := 0
			if b.Side() != us {
				enemyToMove = 1
			}
			if pawnDist < board.Distance(enemyKing, promotion)-enemyToMove {
				result += squareRulePassed
			}

			result += kingPassedTropism * board.ManhattanCloseness(ourKing, sq)
			result -= kingPassedTropism * board.ManhattanCloseness(enemyKing, sq)
		} else {
			result += kingPawnTropism * board.ManhattanCloseness(ourKing, sq)
			result -= kingPawnTropism * board.ManhattanCloseness(enemyKing, sq)
		}
	}

	return result
}

// evalSide accumulates the general evaluation terms for one color.
func (e *Evaluator) evalSide(b *board.Board, entry *PawnEntry, us board.Color) board.Score {
	them := us.Other()
	up := board.RelativeUp(us)
	occ := b.AllPieces()
	ourPieces := b.ByColor(us)

	ourPawnAttacks := entry.Pawns[us].PawnAttacksBB(us)
	enemyPawnAttacks := entry.Pawns[them].PawnAttacksBB(them)
	attackable := ^(ourPieces | enemyPawnAttacks)
	outpostSquares := outpostsBB[us] & ourPawnAttacks

	result := b.Score(us).Add(entry.Eval[us])

	///  PASSED PAWNS  ///

	for passers := entry.Passed & entry.Pawns[us]; passers != 0; {
		sq := passers.PopLSB()

		// A rook behind the passer with nothing in between.
		behind := b.Pieces(us, board.Rook) & board.DirectionBits(sq, up.Opposite())
		if behind != 0 {
			rookSq := behind.MSB()
			if us == board.Black {
				rookSq = behind.LSB()
			}
			blockers := board.Between(sq, rookSq) &^ board.SquareBB(rookSq) & occ
			if blockers == 0 {
				result = result.Add(rookBehindPassedPawn)
			}
		}

		// Blocked by an enemy minor on the stop square.
		stop := board.Square(int(sq) + up.Offset())
		blocker := b.PieceAt(stop)
		if blocker.Color() == them &&
			(blocker.Type() == board.Knight || blocker.Type() == board.Bishop) {
			result = result.Add(minorPassedBlocked)
		}
	}

	///  KNIGHTS  ///

	for knights := b.Pieces(us, board.Knight); knights != 0; {
		sq := knights.PopLSB()
		attacks := board.KnightAttacks(sq) & attackable
		result = result.Add(knightMobility[attacks.PopCount()])

		if outpostSquares.IsSet(sq) &&
			board.DirectionBits(sq, up)&enemyPawnAttacks == 0 {
			result = result.Add(outpost.Scale(2))
		}
	}

	///  BISHOPS  ///

	bishops := b.Pieces(us, board.Bishop)
	if bishops&board.LightSquares != 0 && bishops&board.DarkSquares != 0 {
		result = result.Add(bishopPair)
	}

	for bishops != 0 {
		sq := bishops.PopLSB()
		attacks := board.BishopAttacks(sq, occ) & attackable
		result = result.Add(bishopMobility[attacks.PopCount()])

		if outpostSquares.IsSet(sq) &&
			board.DirectionBits(sq, up)&enemyPawnAttacks == 0 {
			result = result.Add(outpost)
		}
	}

	///  ROOKS  ///

	for rooks := b.Pieces(us, board.Rook); rooks != 0; {
		sq := rooks.PopLSB()
		attacks := board.RookAttacks(sq, occ) & attackable
		result = result.Add(rookMobility[attacks.PopCount()])

		f := sq.File()
		if entry.MostAdvanced[us][f+1] == noPawnRank[us] {
			if entry.MostAdvanced[them][f+1] == noPawnRank[them] {
				result = result.Add(rookOnOpenFile)
			} else {
				result = result.Add(rookOnSemiOpenFile)
			}
		}
	}

	///  QUEENS  ///

	for queens := b.Pieces(us, board.Queen); queens != 0; {
		sq := queens.PopLSB()
		attacks := board.QueenAttacks(sq, occ) & attackable
		result = result.Add(queenMobility[attacks.PopCount()])
	}

	return result
}
