package engine

import "github.com/ivasilev/tamerlane/internal/board"

// SEE statically evaluates the exchange started by the move: attackers of
// both colors are swapped off on the destination square in order of
// increasing value, with x-ray attackers revealed as sliders vacate.
// Positive means the capture sequence wins material for the mover.
func SEE(b *board.Board, m board.Move) int {
	from, to := m.From(), m.To()
	attacker := b.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var gain [40]int
	d := 0

	occupied := b.AllPieces() &^ board.SquareBB(from)

	if m.IsEnPassant() {
		capSq := to - 8
		if attacker.Color() == board.Black {
			capSq = to + 8
		}
		occupied &^= board.SquareBB(capSq)
		gain[0] = board.ExchangeValue[board.Pawn]
	} else {
		gain[0] = board.ExchangeValue[b.PieceAt(to).Type()]
	}

	attackers := b.AttackersTo(to, occupied) & occupied
	attackers |= xrays(b, to, occupied)

	side := attacker.Color().Other()
	takenValue := board.ExchangeValue[attacker.Type()]

	for {
		next := leastValuableAttacker(b, attackers&b.ByColor(side))
		if next == board.NoSquare {
			break
		}

		d++
		gain[d] = takenValue - gain[d-1]

		// Neither continuing nor stopping can help the side to capture.
		if gain[d] < 0 && -gain[d-1] < 0 {
			break
		}

		takenValue = board.ExchangeValue[b.PieceAt(next).Type()]
		occupied &^= board.SquareBB(next)
		attackers &^= board.SquareBB(next)
		attackers |= xrays(b, to, occupied)
		side = side.Other()
	}

	// Unwind: at every depth the side to move may decline the recapture,
	// so gain[d-1] = -max(-gain[d-1], gain[d]).
	for ; d > 0; d-- {
		if gain[d] > -gain[d-1] {
			gain[d-1] = -gain[d]
		}
	}

	return gain[0]
}

// xrays returns the slider attackers of sq that are revealed under the
// current occupancy but would be masked by pieces already swapped off.
func xrays(b *board.Board, sq board.Square, occupied board.Bitboard) board.Bitboard {
	bishopsQueens := b.ByPieceType(board.Bishop) | b.ByPieceType(board.Queen)
	rooksQueens := b.ByPieceType(board.Rook) | b.ByPieceType(board.Queen)

	return ((board.BishopAttacks(sq, occupied) & bishopsQueens) |
		(board.RookAttacks(sq, occupied) & rooksQueens)) & occupied
}

// leastValuableAttacker picks the cheapest piece from the attacker set.
func leastValuableAttacker(b *board.Board, attackers board.Bitboard) board.Square {
	if attackers == 0 {
		return board.NoSquare
	}
	best := board.NoSquare
	bestValue := 0
	for bb := attackers; bb != 0; {
		sq := bb.PopLSB()
		v := board.ExchangeValue[b.PieceAt(sq).Type()]
		if best == board.NoSquare || v < bestValue {
			best = sq
			bestValue = v
		}
	}
	return best
}
