package board

// GenMode selects which subset of pseudo-legal moves to generate.
type GenMode uint8

const (
	// AllMoves generates every pseudo-legal move.
	AllMoves GenMode = iota
	// Captures generates captures and promotions.
	Captures
	// QuietChecks generates non-capturing moves that give check.
	QuietChecks
)

// GenerateMoves writes the pseudo-legal moves of the requested mode into
// the caller-supplied list. Moves may still leave the own king in check;
// filter with IsLegal.
func (b *Board) GenerateMoves(ml *MoveList, mode GenMode) {
	ml.Clear()

	switch mode {
	case AllMoves:
		b.generatePieceMoves(ml, ^b.byColor[b.side])
		b.generatePawnMoves(ml, false)
		b.generateKingMoves(ml, ^b.byColor[b.side])
		b.generateCastlingMoves(ml)
	case Captures:
		b.generatePieceMoves(ml, b.byColor[b.side.Other()])
		b.generatePawnMoves(ml, true)
		b.generateKingMoves(ml, b.byColor[b.side.Other()])
	case QuietChecks:
		b.generateQuietChecks(ml)
	}
}

// generatePieceMoves emits knight, bishop, rook and queen moves whose
// destinations fall inside target.
func (b *Board) generatePieceMoves(ml *MoveList, target Bitboard) {
	us := b.side
	occupied := b.AllPieces()

	for pt := Knight; pt <= Queen; pt++ {
		pieces := b.pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			attacks := AttacksOf(pt, from, occupied) & target
			for attacks != 0 {
				ml.Add(NewMove(from, attacks.PopLSB()))
			}
		}
	}
}

// generateKingMoves emits plain king moves into target.
func (b *Board) generateKingMoves(ml *MoveList, target Bitboard) {
	from := b.KingSquare(b.side)
	attacks := kingAttacks[from] & target &^ b.byColor[b.side]
	for attacks != 0 {
		ml.Add(NewMove(from, attacks.PopLSB()))
	}
}

// generatePawnMoves emits pawn pushes, captures, promotions and en passant.
// With capturesOnly set, quiet non-promotion pushes are skipped (push
// promotions are still emitted: quiescence wants them).
func (b *Board) generatePawnMoves(ml *MoveList, capturesOnly bool) {
	us := b.side
	them := us.Other()
	pawns := b.pieces[us][Pawn]
	enemies := b.byColor[them]
	empty := ^b.AllPieces()

	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	if !capturesOnly {
		nonPromo := push1 &^ promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			ml.Add(NewMove(Square(int(to)-pushDir), to))
		}
		for push2 != 0 {
			to := push2.PopLSB()
			ml.Add(NewMove(Square(int(to)-2*pushDir), to))
		}
	}

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to)
	}

	if ep := b.st().EnPassant; ep != NoSquare {
		epAttackers := pawnAttacks[them][ep] & pawns
		for epAttackers != 0 {
			ml.Add(NewEnPassant(epAttackers.PopLSB(), ep))
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateCastlingMoves emits castling when the rights are present, the
// internal squares are empty, the king is not in check and no square the
// king crosses is attacked.
func (b *Board) generateCastlingMoves(ml *MoveList) {
	us := b.side
	them := us.Other()

	if b.InCheck() {
		return
	}

	kingFrom := E1
	if us == Black {
		kingFrom = E8
	}

	if b.st().Castling.CanCastle(us, true) &&
		b.AllPieces()&CastlingInternalSquares(us, true) == 0 {
		f, g := kingFrom+1, kingFrom+2
		if !b.IsSquareAttacked(f, them) && !b.IsSquareAttacked(g, them) {
			ml.Add(NewCastling(kingFrom, g))
		}
	}

	if b.st().Castling.CanCastle(us, false) &&
		b.AllPieces()&CastlingInternalSquares(us, false) == 0 {
		d, c := kingFrom-1, kingFrom-2
		if !b.IsSquareAttacked(d, them) && !b.IsSquareAttacked(c, them) {
			ml.Add(NewCastling(kingFrom, c))
		}
	}
}

// generateQuietChecks emits non-capturing knight, bishop, rook and queen
// moves landing on a square from which they check the enemy king. Pawn,
// king and discovered checks are not covered; the quiescence search only
// needs the cheap majority.
func (b *Board) generateQuietChecks(ml *MoveList) {
	us := b.side
	enemyKing := b.KingSquare(us.Other())
	occupied := b.AllPieces()
	empty := ^occupied

	knightTargets := knightAttacks[enemyKing] & empty
	bishopTargets := BishopAttacks(enemyKing, occupied) & empty
	rookTargets := RookAttacks(enemyKing, occupied) & empty

	targets := [4]Bitboard{
		knightTargets,
		bishopTargets,
		rookTargets,
		bishopTargets | rookTargets,
	}

	for pt := Knight; pt <= Queen; pt++ {
		pieces := b.pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			attacks := AttacksOf(pt, from, occupied) & targets[pt-Knight]
			for attacks != 0 {
				ml.Add(NewMove(from, attacks.PopLSB()))
			}
		}
	}
}

// IsLegal reports whether playing the pseudo-legal move would leave the own
// king safe. It never mutates the board: king moves and en passant are
// verified by recomputing attackers under adjusted occupancy, everything
// else reduces to pin and evasion geometry.
func (b *Board) IsLegal(m Move) bool {
	us := b.side
	them := us.Other()
	from, to := m.From(), m.To()
	ksq := b.KingSquare(us)
	checkers := b.st().CheckGivers

	// En passant removes two pawns and adds one, which can open a rank or
	// diagonal onto the king; re-test attackers with that occupancy.
	if m.IsEnPassant() {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ := (b.AllPieces() &^ (SquareBB(from) | SquareBB(capSq))) | SquareBB(to)
		return b.AttackersBy(them, ksq, occ)&^SquareBB(capSq) == 0
	}

	// King moves: the destination must be safe once the king has vacated
	// its square.
	if from == ksq {
		if m.IsCastling() {
			return checkers == 0 // crossing squares verified at generation
		}
		occ := b.AllPieces() &^ SquareBB(from)
		return b.AttackersBy(them, to, occ) == 0
	}

	if checkers != 0 {
		// Double check: only the king can move.
		if checkers.MoreThanOne() {
			return false
		}

		// The move must capture the sole checker or interpose; the between
		// set includes the checker square itself.
		if Between(ksq, checkers.LSB())&SquareBB(to) == 0 {
			return false
		}
	}

	// A pinned piece may only move along the line through its king.
	if b.st().CheckBlockers[us]&SquareBB(from) != 0 && !Aligned(from, to, ksq) {
		return false
	}

	return true
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	var ml MoveList
	b.GenerateMoves(&ml, AllMoves)
	for i := 0; i < ml.Len(); i++ {
		if b.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// MoveFromString resolves a long algebraic move string against the legal
// moves of the position. Returns NoMove if the string does not name a legal
// move; the board is left untouched either way.
func (b *Board) MoveFromString(s string) Move {
	m, err := ParseMove(s, b)
	if err != nil || m == NoMove {
		return NoMove
	}

	var ml MoveList
	b.GenerateMoves(&ml, AllMoves)
	if ml.Contains(m) && b.IsLegal(m) {
		return m
	}
	return NoMove
}
