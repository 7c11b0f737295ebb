package board

import (
	"reflect"
	"testing"
)

// playMoves applies a sequence of long algebraic moves, failing the test if
// any of them is illegal.
func playMoves(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m := b.MoveFromString(s)
		if m == NoMove {
			t.Fatalf("illegal move %s in position %s", s, b.ToFEN())
		}
		b.MakeMove(m)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1")

	var ml MoveList
	b.GenerateMoves(&ml, AllMoves)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !b.IsLegal(m) {
			continue
		}

		saved := b.Copy()
		b.MakeMove(m)
		b.UnmakeMove(m)

		if !reflect.DeepEqual(saved, b) {
			t.Fatalf("make/unmake of %s did not restore the board", m)
		}
	}
}

func TestMakeUnmakeSpecialMoves(t *testing.T) {
	// Position with castling, en passant and promotion all available.
	fen := "r3k2r/pP3ppp/8/3pP3/8/8/PPP2PPP/R3K2R w KQkq d6 0 1"
	b, err := FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"e1g1", "e1c1", "e5d6", "b7a8q", "b7b8n"} {
		m := b.MoveFromString(s)
		if m == NoMove {
			t.Fatalf("expected %s to be legal", s)
		}

		saved := b.Copy()
		b.MakeMove(m)
		b.UnmakeMove(m)

		if !reflect.DeepEqual(saved, b) {
			t.Fatalf("make/unmake of %s did not restore the board", s)
		}
	}
}

func TestIncrementalStateMatchesRecomputation(t *testing.T) {
	b := NewBoard()
	playMoves(t, b,
		"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6",
		"b1c3", "a7a6", "c1e3", "e7e6", "f2f3", "b7b5", "d1d2", "f8e7",
		"e1c1", "e8g8")

	// The stored hash, score and material must equal a from-scratch
	// reconstruction of the same position.
	fresh, err := FromFEN(b.ToFEN())
	if err != nil {
		t.Fatal(err)
	}

	if b.ComputeHash() != fresh.ComputeHash() {
		t.Error("incremental hash diverged from recomputation")
	}
	if b.PawnHash() != fresh.PawnHash() {
		t.Error("pawn hash diverged from recomputation")
	}
	for c := White; c <= Black; c++ {
		if b.Score(c) != fresh.Score(c) {
			t.Errorf("incremental score for %v diverged from recomputation", c)
		}
		if b.Material(c) != fresh.Material(c) {
			t.Errorf("incremental material for %v diverged from recomputation", c)
		}
	}
}

func TestBitboardInvariants(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, "d2d4", "d7d5", "c2c4", "d5c4", "e2e4", "b7b5")

	if b.ByColor(White)&b.ByColor(Black) != 0 {
		t.Error("color occupancies overlap")
	}

	var union Bitboard
	for pt := Pawn; pt <= King; pt++ {
		union |= b.ByPieceType(pt)
	}
	if union != b.AllPieces() {
		t.Error("piece bitboards do not union to the occupancy")
	}

	for sq := A1; sq <= H8; sq++ {
		p := b.PieceAt(sq)
		if p == NoPiece {
			if b.AllPieces().IsSet(sq) {
				t.Errorf("square %v empty in mailbox but occupied in bitboards", sq)
			}
			continue
		}
		if !b.Pieces(p.Color(), p.Type()).IsSet(sq) {
			t.Errorf("square %v holds %v in mailbox but not in bitboards", sq, p)
		}
	}

	if b.Pieces(White, King).PopCount() != 1 || b.Pieces(Black, King).PopCount() != 1 {
		t.Error("each side must have exactly one king")
	}
}

func TestRepetitionDraw(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, "g1f3", "g8f6", "f3g1", "f6g8")

	if b.st().LastRepetition != 4 {
		t.Errorf("LastRepetition = %d, want 4", b.st().LastRepetition)
	}
	if !b.IsDraw(0) {
		t.Error("shuffling the knights back must read as a repetition draw")
	}

	// A pawn move makes the position fresh again.
	playMoves(t, b, "e2e4")
	if b.IsDraw(0) {
		t.Error("new position after a pawn move is not a draw")
	}
}

func TestCastlingRightsUpdates(t *testing.T) {
	b, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	playMoves(t, b, "a1a2")
	if b.Castling().CanCastle(White, false) {
		t.Error("moving the a1 rook must drop white queenside castling")
	}
	if !b.Castling().CanCastle(White, true) {
		t.Error("white kingside castling must survive an a1 rook move")
	}

	playMoves(t, b, "a8a2")
	if b.Castling().CanCastle(Black, false) {
		t.Error("moving the a8 rook must drop black queenside castling")
	}

	playMoves(t, b, "e1g1")
	if b.Castling().CanCastle(White, true) {
		t.Error("castling consumes the right")
	}
	if b.PieceAt(F1) != WhiteRook || b.PieceAt(G1) != WhiteKing {
		t.Error("castling must relocate both king and rook")
	}
}

func TestEnPassantSquareLifetime(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, "e2e4")
	if b.EnPassant() != E3 {
		t.Errorf("double push should set ep square e3, got %v", b.EnPassant())
	}
	playMoves(t, b, "g8f6")
	if b.EnPassant() != NoSquare {
		t.Error("ep square must expire after one ply")
	}
}

func TestGameResults(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want GameResult
	}{
		{"stalemate", "7k/5K2/6Q1/8/8/8/8/8 b - - 0 1", ResultDraw},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/4R1K1 b - - 0 1", ResultNone},
		{"mated", "4R1k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", ResultWhiteWon},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", ResultBlackWon},
		{"fifty moves", "8/8/8/4k3/8/4K3/4R3/8 w - - 100 80", ResultDraw},
		{"bare kings", "8/8/8/4k3/8/4K3/8/8 w - - 0 1", ResultDraw},
		{"king and bishop", "8/8/8/4k3/8/4KB2/8/8 w - - 0 1", ResultDraw},
		{"king and rook", "8/8/8/4k3/8/4K3/4R3/8 w - - 0 1", ResultNone},
		{"in progress", StartFEN, ResultNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := FromFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := b.ComputeGameResult(); got != tc.want {
				t.Errorf("ComputeGameResult() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNullMove(t *testing.T) {
	b, err := FromFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	if err != nil {
		t.Fatal(err)
	}

	saved := b.Copy()
	hash := b.ComputeHash()

	b.MakeNullMove()
	if b.Side() != Black {
		t.Error("null move must flip the side to move")
	}
	if b.Hash() == saved.Hash() {
		t.Error("null move must alter the stored hash")
	}
	if b.st().MovesFromNull != 0 {
		t.Error("null move must reset the null distance")
	}

	b.UnmakeNullMove()
	if !reflect.DeepEqual(saved, b) {
		t.Error("unmake null did not restore the board")
	}
	if b.ComputeHash() != hash {
		t.Error("unmake null did not restore the hash")
	}
}

func TestIllegalMoveStringLeavesBoardUntouched(t *testing.T) {
	b := NewBoard()
	fen := b.ToFEN()

	for _, s := range []string{"e2e5", "e7e5", "a1a8", "xyzt", "e2"} {
		if m := b.MoveFromString(s); m != NoMove {
			t.Errorf("%q should not resolve to a legal move", s)
		}
	}

	if b.ToFEN() != fen {
		t.Error("rejected moves must not mutate the board")
	}
}
