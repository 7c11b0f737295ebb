package board

import "testing"

func TestShifts(t *testing.T) {
	e4 := SquareBB(E4)

	tests := []struct {
		name string
		got  Bitboard
		want Square
	}{
		{"north", e4.North(), E5},
		{"south", e4.South(), E3},
		{"east", e4.East(), F4},
		{"west", e4.West(), D4},
		{"northeast", e4.NorthEast(), F5},
		{"northwest", e4.NorthWest(), D5},
		{"southeast", e4.SouthEast(), F3},
		{"southwest", e4.SouthWest(), D3},
	}

	for _, tc := range tests {
		if tc.got != SquareBB(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got.LSB(), tc.want)
		}
	}

	// File wrap-around must be masked off.
	if SquareBB(H4).East() != 0 {
		t.Error("east shift from h-file should be empty")
	}
	if SquareBB(A4).SouthWest() != 0 {
		t.Error("southwest shift from a-file should be empty")
	}
}

func TestPopLSB(t *testing.T) {
	bb := SquareBB(C2) | SquareBB(G7) | SquareBB(A1)

	want := []Square{A1, C2, G7}
	for _, w := range want {
		if got := bb.PopLSB(); got != w {
			t.Errorf("PopLSB = %v, want %v", got, w)
		}
	}
	if bb != 0 {
		t.Error("bitboard should be empty after popping all bits")
	}
}

func TestBetweenIncludesEndpoint(t *testing.T) {
	// The between table deliberately includes the target square, so the
	// evasion mask "capture the checker or interpose" is a single lookup.
	between := Between(E1, E8)
	for sq := E2; sq <= E8; sq += 8 {
		if !between.IsSet(sq) {
			t.Errorf("Between(e1, e8) should contain %v", sq)
		}
	}
	if between.IsSet(E1) {
		t.Error("Between(e1, e8) must not contain the origin")
	}

	// Unaligned pairs degenerate to just the target.
	if got := Between(A1, B3); got != SquareBB(B3) {
		t.Errorf("Between(a1, b3) = %v, want just b3", got)
	}
}

func TestAligned(t *testing.T) {
	tests := []struct {
		a, b, c Square
		want    bool
	}{
		{A1, H8, D4, true},
		{A1, A8, A5, true},
		{A1, H1, C1, true},
		{A1, H8, D5, false},
		{B1, G6, C2, true},
		{A1, B3, C5, false},
	}

	for _, tc := range tests {
		if got := Aligned(tc.a, tc.b, tc.c); got != tc.want {
			t.Errorf("Aligned(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.c, got, tc.want)
		}
	}
}

func TestMagicAttacks(t *testing.T) {
	// The magic lookup must agree with plain ray casting for arbitrary
	// occupancies.
	rng := newPRNG(0xDECAF)
	for i := 0; i < 2000; i++ {
		sq := Square(rng.next() % 64)
		occ := Bitboard(rng.next() & rng.next())

		if got, want := RookAttacks(sq, occ), slidingAttack(Rook, sq, occ); got != want {
			t.Fatalf("rook attacks on %v mismatch for occupancy %x", sq, uint64(occ))
		}
		if got, want := BishopAttacks(sq, occ), slidingAttack(Bishop, sq, occ); got != want {
			t.Fatalf("bishop attacks on %v mismatch for occupancy %x", sq, uint64(occ))
		}
	}
}

func TestAdjacentFiles(t *testing.T) {
	if AdjacentFiles(0) != FileB {
		t.Error("adjacent of file a should be file b")
	}
	if AdjacentFiles(7) != FileG {
		t.Error("adjacent of file h should be file g")
	}
	if AdjacentFiles(3) != FileC|FileE {
		t.Error("adjacent of file d should be files c and e")
	}
}

func TestDistance(t *testing.T) {
	if Distance(A1, H8) != 7 {
		t.Error("distance a1-h8 should be 7")
	}
	if Distance(E4, E4) != 0 {
		t.Error("distance to self should be 0")
	}
	if ManhattanCloseness(E4, E4) != 7 {
		t.Error("manhattan closeness to self should be 7")
	}
	if ManhattanCloseness(A1, H8) != -7 {
		t.Error("manhattan closeness a1-h8 should be -7")
	}
}
