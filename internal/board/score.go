package board

// Score is a tapered evaluation term: one value for the middlegame, one for
// the endgame. Terms are accumulated component-wise and collapsed into a
// single centipawn value by interpolating on the material phase.
type Score struct {
	Mg, Eg int16
}

// S builds a Score from middlegame and endgame components.
func S(mg, eg int) Score {
	return Score{int16(mg), int16(eg)}
}

// Add returns the component-wise sum.
func (s Score) Add(o Score) Score {
	return Score{s.Mg + o.Mg, s.Eg + o.Eg}
}

// Sub returns the component-wise difference.
func (s Score) Sub(o Score) Score {
	return Score{s.Mg - o.Mg, s.Eg - o.Eg}
}

// Scale multiplies both components by n.
func (s Score) Scale(n int) Score {
	return Score{s.Mg * int16(n), s.Eg * int16(n)}
}

// MaxPhase is the simplified non-pawn material of the initial position,
// both sides combined.
const MaxPhase = 62

// Collapse interpolates the score into a single value using the total
// simplified non-pawn material as the game phase.
func (s Score) Collapse(material int) int {
	phase := material
	if phase > MaxPhase {
		phase = MaxPhase
	}
	return (int(s.Mg)*phase + int(s.Eg)*(MaxPhase-phase)) / MaxPhase
}

// PieceValue is the tapered material value of each piece type.
var PieceValue = [7]Score{
	{100, 130},  // Pawn
	{320, 360},  // Knight
	{350, 390},  // Bishop
	{550, 650},  // Rook
	{1050, 1150}, // Queen
	{},          // King
	{},          // None
}

// Half-board piece-square tables, files a-d, written rank 8 down to rank 1
// from Black's point of view (the init loop unfolds them into full
// per-piece tables with the material value baked in).
var pstHalf = [6][32]Score{
	{ // Pawn
		{}, {}, {}, {},
		{15, 32}, {20, 45}, {16, 45}, {25, 45},
		{7, 20}, {10, 25}, {10, 25}, {18, 25},
		{0, 10}, {2, 15}, {6, 15}, {15, 15},
		{-4, 5}, {0, 10}, {4, 10}, {12, 10},
		{-1, 0}, {4, 5}, {-4, 5}, {0, 5},
		{-6, -5}, {-3, 0}, {4, 0}, {-12, 0},
		{}, {}, {}, {},
	},
	{ // Knight
		{-65, -40}, {-40, -20}, {-22, -20}, {-15, -15},
		{-45, -30}, {-15, -9}, {7, 2}, {10, 5},
		{-20, -14}, {3, 2}, {15, 10}, {26, 17},
		{-12, -8}, {10, 5}, {24, 15}, {40, 23},
		{-15, -10}, {5, 5}, {20, 15}, {36, 23},
		{-30, -20}, {0, 2}, {12, 10}, {23, 17},
		{-45, -30}, {-16, -9}, {2, 2}, {8, 5},
		{-60, -40}, {-25, -20}, {-22, -20}, {-25, -15},
	},
	{ // Bishop
		{-15, -20}, {-14, -15}, {-9, -10}, {-15, -10},
		{-10, -15}, {5, 10}, {2, 5}, {-2, 0},
		{-5, -10}, {7, 5}, {5, 10}, {8, 5},
		{0, -10}, {-5, 0}, {10, 5}, {15, 10},
		{0, -10}, {-5, 0}, {10, 5}, {15, 10},
		{10, -10}, {5, 5}, {5, 10}, {9, 5},
		{5, -15}, {20, 10}, {3, 5}, {0, 0},
		{-5, -20}, {-12, -15}, {1, -10}, {-10, -10},
	},
	{ // Rook
		{-12, -1}, {-10, 0}, {-4, 0}, {-1, 0},
		{-8, 0}, {4, 0}, {5, 0}, {5, 0},
		{-15, 0}, {-2, 0}, {-5, 0}, {-5, 0},
		{-20, 0}, {-5, 0}, {-10, 0}, {-20, 0},
		{-20, 0}, {-5, 0}, {-10, 0}, {-20, 0},
		{-15, 0}, {-2, 0}, {-5, 0}, {-5, 0},
		{-8, 0}, {0, 0}, {1, 0}, {12, 0},
		{-10, -1}, {-8, 0}, {2, 0}, {20, 0},
	},
	{ // Queen
		{-8, -20}, {-10, -15}, {-10, -10}, {0, -5},
		{0, -15}, {0, -9}, {0, 0}, {10, 0},
		{0, -10}, {0, 0}, {0, 5}, {6, 6},
		{0, -5}, {0, 3}, {4, 10}, {3, 12},
		{0, -5}, {0, 3}, {4, 10}, {4, 12},
		{0, -10}, {0, 0}, {0, 5}, {0, 6},
		{0, -15}, {0, -9}, {0, 0}, {0, 0},
		{-8, -20}, {-8, -15}, {-5, -10}, {0, -5},
	},
	{ // King
		{-70, -60}, {-70, -45}, {-75, -40}, {-80, -35},
		{-80, -45}, {-80, -25}, {-85, -20}, {-85, -15},
		{-80, -40}, {-80, -20}, {-85, -5}, {-85, 0},
		{-70, -35}, {-70, -15}, {-70, 0}, {-70, 10},
		{-55, -35}, {-55, -15}, {-60, 0}, {-65, 10},
		{-40, -40}, {-45, -20}, {-45, -5}, {-50, 0},
		{-5, -45}, {-5, -25}, {-25, -20}, {-30, -15},
		{25, -60}, {35, -45}, {7, -40}, {-5, -35},
	},
}

// pst holds the full piece-square tables per piece, material value included.
// Maintained incrementally by the board on every make/unmake.
var pst [12][64]Score

func initTables() {
	for pt := Pawn; pt <= King; pt++ {
		for i := 0; i < 32; i++ {
			rank := i / 4
			file := i % 4
			sc := pstHalf[pt][i].Add(PieceValue[pt])

			for _, f := range [2]int{file, 7 - file} {
				pst[NewPiece(pt, Black)][NewSquare(f, rank)] = sc
				pst[NewPiece(pt, White)][NewSquare(f, 7-rank)] = sc
			}
		}
	}
}

// PST returns the piece-square value (material included) for a piece on a
// square, from that piece's own side's point of view.
func PST(p Piece, sq Square) Score {
	return pst[p][sq]
}
