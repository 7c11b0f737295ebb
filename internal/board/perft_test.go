package board

import "testing"

// perft counts the leaf nodes of the legal move tree. This is the standard
// way to verify move generation and make/unmake correctness.
func perft(b *Board, depth int) uint64 {
	var moves MoveList
	b.GenerateMoves(&moves, AllMoves)

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
		nodes += perft(b, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}

func runPerft(t *testing.T, fen string, tests []struct {
	depth int
	nodes uint64
}, slowFrom int) {
	t.Helper()

	b, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("failed to parse FEN: %v", err)
	}

	for _, tc := range tests {
		if testing.Short() && tc.depth >= slowFrom {
			t.Skipf("skipping depth %d in short mode", tc.depth)
		}
		if got := perft(b, tc.depth); got != tc.nodes {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
		}
	}
}

func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}, 5)
}

// TestPerftKiwipete covers castling, pins and en passant edge cases.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]struct {
			depth int
			nodes uint64
		}{
			{1, 48},
			{2, 2039},
			{3, 97862},
			{4, 4085603},
		}, 4)
}

func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]struct {
			depth int
			nodes uint64
		}{
			{1, 14},
			{2, 191},
			{3, 2812},
			{4, 43238},
			{5, 674624},
			{6, 11030083},
		}, 6)
}

func TestPerftPosition4(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]struct {
			depth int
			nodes uint64
		}{
			{1, 6},
			{2, 264},
			{3, 9467},
			{4, 422333},
			{5, 15833292},
		}, 5)
}

// TestPerftEnPassantPin covers the horizontal pin where capturing en
// passant would expose the king along the rank.
func TestPerftEnPassantPin(t *testing.T) {
	b, err := FromFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatal(err)
	}

	var moves MoveList
	b.GenerateMoves(&moves, AllMoves)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsEnPassant() && b.IsLegal(m) {
			t.Errorf("en passant %v should be illegal (horizontal pin)", m)
		}
	}

	if got := perft(b, 1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
	if got := perft(b, 2); got != 94 {
		t.Errorf("perft(2) = %d, want 94", got)
	}
}
