package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: kind (0=normal, 1=promotion, 2=en passant, 3=castling)
//
// Ordering scores used by the search are transient metadata and live in
// arrays parallel to the move list, never inside the move itself.
type Move uint16

// Move kinds
const (
	KindNormal    uint16 = 0 << 14
	KindPromotion uint16 = 1 << 14
	KindEnPassant uint16 = 2 << 14
	KindCastling  uint16 = 3 << 14
)

// NoMove is the null move sentinel (from == to == 0).
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | Move(KindPromotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(KindEnPassant)
}

// NewCastling creates a castling move (the king's movement).
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(KindCastling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Kind returns the move kind bits.
func (m Move) Kind() uint16 {
	return uint16(m) & 0xC000
}

// Promotion returns the promotion piece type (valid only for promotions).
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind() == KindPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Kind() == KindCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == KindEnPassant
}

// String returns the long algebraic form of the move (e.g., "e2e4", "e7e8q").
// The null move prints as "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a long algebraic move string against the given board,
// resolving the kind from the position. Returns an error for malformed
// strings; legality is not checked here.
func ParseMove(s string, b *Board) (Move, error) {
	if s == "0000" {
		return NoMove, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := b.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	switch piece.Type() {
	case King:
		if abs(int(to.File())-int(from.File())) == 2 {
			return NewCastling(from, to), nil
		}
	case Pawn:
		if to == b.EnPassant() {
			return NewEnPassant(from, to), nil
		}
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations. Chess
// positions never exceed 218 moves, so 256 slots always suffice.
type MoveList struct {
	moves [256]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
