package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivasilev/tamerlane/internal/board"
)

func probeFEN(t *testing.T, pt *PawnTable, fen string) *PawnEntry {
	t.Helper()
	b, err := board.FromFEN(fen)
	require.NoError(t, err)
	return pt.Probe(b)
}

func TestPawnTableProbe(t *testing.T) {
	pt := NewPawnTable(1 << 8)
	b := board.NewBoard()

	e1 := pt.Probe(b)
	require.Equal(t, b.PawnHash(), e1.Key)
	require.Equal(t, b.Pieces(board.White, board.Pawn), e1.Pawns[board.White])
	require.Equal(t, b.Pieces(board.Black, board.Pawn), e1.Pawns[board.Black])

	// Probing the same structure again returns the same slot untouched.
	e2 := pt.Probe(b)
	require.Same(t, e1, e2)
}

func TestPawnHashFollowsPawnsOnly(t *testing.T) {
	b := board.NewBoard()
	before := b.PawnHash()

	m := b.MoveFromString("g1f3")
	require.NotEqual(t, board.NoMove, m)
	b.MakeMove(m)
	require.Equal(t, before, b.PawnHash(), "knight moves must not change the pawn hash")

	m = b.MoveFromString("e7e5")
	require.NotEqual(t, board.NoMove, m)
	b.MakeMove(m)
	require.NotEqual(t, before, b.PawnHash(), "pawn moves must change the pawn hash")
}

func TestPassedPawnDetection(t *testing.T) {
	pt := NewPawnTable(1 << 8)

	// White a5 is passed; white e4 is blocked by the enemy e-pawn; black
	// e5 is stopped by the same file.
	e := probeFEN(t, pt, "4k3/8/8/P3p3/4P3/8/8/4K3 w - - 0 1")
	require.True(t, e.Passed.IsSet(board.A5))
	require.False(t, e.Passed.IsSet(board.E4))
	require.False(t, e.Passed.IsSet(board.E5))

	// An adjacent-file enemy pawn ahead kills the passer.
	e = probeFEN(t, pt, "4k3/1p6/8/P7/8/8/8/4K3 w - - 0 1")
	require.False(t, e.Passed.IsSet(board.A5))
}

func TestMostAdvancedRanks(t *testing.T) {
	pt := NewPawnTable(1 << 8)

	// White pawns a2 and a4: the a-file entry holds rank 4 (index 3);
	// files without pawns hold the per-color sentinel.
	e := probeFEN(t, pt, "4k3/6p1/8/8/P7/8/P7/4K3 w - - 0 1")
	require.Equal(t, int8(3), e.MostAdvanced[board.White][0+1])
	require.Equal(t, noPawnRank[board.White], e.MostAdvanced[board.White][4+1])
	require.Equal(t, int8(6), e.MostAdvanced[board.Black][6+1])
	require.Equal(t, noPawnRank[board.Black], e.MostAdvanced[board.Black][0+1])
}

func TestPawnStructurePenalties(t *testing.T) {
	pt := NewPawnTable(1 << 8)

	clean := probeFEN(t, pt, "4k3/8/8/8/8/8/PPP5/4K3 w - - 0 1")
	doubled := probeFEN(t, pt, "4k3/8/8/8/8/P7/P1P5/4K3 w - - 0 1")
	isolated := probeFEN(t, pt, "4k3/8/8/8/8/8/P1P4P/4K3 w - - 0 1")

	require.Less(t, doubled.Eval[board.White].Mg, clean.Eval[board.White].Mg,
		"doubled pawns must score below a healthy chain")
	require.Less(t, isolated.Eval[board.White].Mg, clean.Eval[board.White].Mg,
		"isolated islands must score below a healthy chain")
}

func TestPawnEvalSymmetry(t *testing.T) {
	pt := NewPawnTable(1 << 8)

	// A vertically mirrored structure must give the mirrored evaluation.
	e := probeFEN(t, pt, "4k3/ppp5/8/8/8/8/PPP5/4K3 w - - 0 1")
	require.Equal(t, e.Eval[board.White], e.Eval[board.Black])
}
