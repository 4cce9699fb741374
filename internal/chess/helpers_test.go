package chess

import (
	"math/rand"
	"sort"
	"testing"
)

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func sq(s string) Square {
	return MustSquare(s)
}

func playMoves(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if _, err := pos.ApplyMove(sq(m[:2]), sq(m[2:4])); err != nil {
			t.Fatalf("ApplyMove %s: %v", m, err)
		}
	}
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// randomPositions plays seeded random games from the start and collects
// every position reached along the way.
func randomPositions(t *testing.T, seed int64, games, plies int) []*Position {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var out []*Position
	for g := 0; g < games; g++ {
		pos := NewPosition()
		for i := 0; i < plies; i++ {
			moves := pos.GenerateAllLegalMoves(pos.Turn())
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]
			if _, err := pos.ApplyMove(m.From, m.To); err != nil {
				t.Fatalf("generated move %s rejected: %v", m, err)
			}
			out = append(out, pos.Clone())
		}
	}
	return out
}

// pawnBesideBackRank reports whether an enemy pawn stands one rank in front
// of the side to move's back rank. Such a pawn covers the empty square ahead
// of it rather than its empty diagonals, so castling there can differ from
// engines that use capture-only pawn attacks.
func pawnBesideBackRank(pos *Position) bool {
	row := 6
	if pos.Turn() == Black {
		row = 1
	}
	enemy := pos.Turn().Opposite()
	for c := 0; c < 8; c++ {
		if pc := pos.PieceAt(Square{Row: row, Col: c}); pc != nil && pc.Type == Pawn && pc.Color == enemy {
			return true
		}
	}
	return false
}
