package engine

import "github.com/ivasilev/tamerlane/internal/board"

// PawnEntry caches everything the evaluator wants to know about a pawn
// structure: the pawn sets, the passed pawns, a per-side tapered score over
// the pawn-only terms, and the most advanced own pawn per file.
type PawnEntry struct {
	Key    uint64
	Pawns  [2]board.Bitboard
	Passed board.Bitboard // Passed pawns of both colors
	Eval   [2]board.Score

	// MostAdvanced holds, per color and file, the absolute rank of the most
	// advanced own pawn. Indexing is file+1 with guard columns on both
	// sides. The sentinel for "no pawn" is rank 0 for White and rank 7 for
	// Black (a rank no pawn can occupy, seen from the owner's home side).
	MostAdvanced [2][10]int8

	filled bool
}

// noPawnRank is the per-color MostAdvanced sentinel.
var noPawnRank = [2]int8{0, 7}

// PawnTable is a direct-mapped cache of pawn structure evaluations keyed on
// the pawn-only hash. Entries are overwritten on collision and never
// invalidated. The table is not safe for concurrent use; each search
// context owns its own.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64
}

// NewPawnTable creates a pawn table with the given number of entries,
// rounded down to a power of two.
func NewPawnTable(entries int) *PawnTable {
	size := 1
	for size*2 <= entries {
		size *= 2
	}
	return &PawnTable{
		entries: make([]PawnEntry, size),
		mask:    uint64(size - 1),
	}
}

// Probe returns the cache entry for the board's pawn structure, scanning
// and overwriting the slot on a miss.
func (pt *PawnTable) Probe(b *board.Board) *PawnEntry {
	key := b.PawnHash()
	e := &pt.entries[key&pt.mask]
	if !e.filled || e.Key != key {
		e.scan(b, key)
	}
	return e
}

// forwardRanks returns the ranks strictly ahead of rank r from c's view.
func forwardRanks(c board.Color, r int) board.Bitboard {
	if c == board.White {
		return ^board.Bitboard(0) << (8 * (r + 1))
	}
	return (board.Bitboard(1) << (8 * r)) - 1
}

// scan recomputes the entry from the board's pawns.
func (e *PawnEntry) scan(b *board.Board, key uint64) {
	*e = PawnEntry{
		Key:    key,
		filled: true,
	}
	e.Pawns[board.White] = b.Pieces(board.White, board.Pawn)
	e.Pawns[board.Black] = b.Pieces(board.Black, board.Pawn)

	for c := board.White; c <= board.Black; c++ {
		e.scanSide(c)
	}
}

func (e *PawnEntry) scanSide(us board.Color) {
	them := us.Other()
	ours := e.Pawns[us]
	theirs := e.Pawns[them]

	var eval board.Score
	var fileSet uint8

	for f := range e.MostAdvanced[us] {
		e.MostAdvanced[us][f] = noPawnRank[us]
	}

	for bb := ours; bb != 0; {
		sq := bb.PopLSB()
		f := sq.File()
		rank := sq.Rank()
		relRank := sq.RelativeRank(us)
		fileSet |= 1 << f

		ma := &e.MostAdvanced[us][f+1]
		if us == board.White {
			if int8(rank) > *ma {
				*ma = int8(rank)
			}
		} else {
			if int8(rank) < *ma {
				*ma = int8(rank)
			}
		}

		// Passed: no enemy pawn ahead on the same or adjacent files.
		front := (board.FileMask[f] | board.AdjacentFiles(f)) & forwardRanks(us, rank)
		if theirs&front == 0 {
			e.Passed |= board.SquareBB(sq)
			eval = eval.Add(passedPawn[relRank])
		}

		// Defended by an own pawn.
		if board.PawnAttacks(them, sq)&ours != 0 {
			eval = eval.Add(defendedPawn[relRank])
		}

		// Doubled: an own pawn ahead on the same file.
		if ours&board.FileMask[f]&forwardRanks(us, rank) != 0 {
			eval = eval.Add(doubledPawn)
		}

		if board.AdjacentFiles(f)&ours == 0 {
			eval = eval.Add(isolatedPawn)
		} else {
			// Backward: the neighbours are all ahead, so the pawn can never
			// be protected, and its stop square is covered by an enemy pawn.
			neighboursBehind := board.AdjacentFiles(f) & ours &^ forwardRanks(us, rank)
			stop := board.Square(int(sq) + board.RelativeUp(us).Offset())
			if neighboursBehind == 0 && board.PawnAttacks(us, stop)&theirs != 0 {
				eval = eval.Add(backwardPawn)
			}
		}
	}

	// Pawn islands.
	islands := 0
	prev := false
	for f := 0; f < 8; f++ {
		occupied := fileSet&(1<<f) != 0
		if occupied && !prev {
			islands++
		}
		prev = occupied
	}
	if islands > 4 {
		islands = 4
	}
	eval = eval.Add(pawnIslands[islands])

	// Pawn distortion: rank gaps between most advanced pawns on adjacent
	// files.
	for f := 0; f < 7; f++ {
		left := e.MostAdvanced[us][f+1]
		right := e.MostAdvanced[us][f+2]
		if left != noPawnRank[us] && right != noPawnRank[us] {
			d := int(left) - int(right)
			if d < 0 {
				d = -d
			}
			eval = eval.Add(pawnDistortion.Scale(d))
		}
	}

	e.Eval[us] = eval
}
