package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewBoard creates a board with the starting position.
func NewBoard() *Board {
	b, _ := FromFEN(StartFEN)
	return b
}

// FromFEN parses a Forsyth-Edwards Notation string into a fresh board.
// On error the returned board is nil; callers keep their previous position.
func FromFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := &Board{states: make([]StateInfo, 1, 64)}
	st := b.st()
	st.EnPassant = NoSquare
	st.Captured = NoPiece

	if err := b.parsePiecePlacement(parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.side = White
	case "b":
		b.side = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := b.parseCastlingRights(parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		st.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		st.FiftyRule = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		b.moveCount = 2 * (fmn - 1)
		if b.side == Black {
			b.moveCount++
		}
	}

	if b.pieces[White][King].PopCount() != 1 || b.pieces[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("invalid FEN: each side needs exactly one king")
	}
	if b.ByPieceType(Pawn)&(Rank1|Rank8) != 0 {
		return nil, fmt.Errorf("invalid FEN: pawns cannot stand on the first or last rank")
	}

	// The stored hash covers pieces only; side, ep and castling are folded
	// in by ComputeHash.
	var hash uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			hash ^= ZobristPiece(p, sq)
		}
	}
	st.Hash = hash

	b.updateInternalState()

	return b, nil
}

// parsePiecePlacement fills the board from the placement field.
func (b *Board) parsePiecePlacement(placement string) error {
	for sq := range b.squares {
		b.squares[sq] = NoPiece
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				b.putPiece(piece, NewSquare(file, rank))
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights fills the castling rights from the FEN field.
func (b *Board) parseCastlingRights(castling string) error {
	st := b.st()
	st.Castling = NoCastling
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			st.Castling |= WhiteKingSideCastle
		case 'Q':
			st.Castling |= WhiteQueenSideCastle
		case 'k':
			st.Castling |= BlackKingSideCastle
		case 'q':
			st.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.st().Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(b.st().EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.st().FiftyRule))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.moveCount/2 + 1))

	return sb.String()
}
