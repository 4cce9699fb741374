package chess

import (
	"errors"
	"reflect"
	"testing"
)

func TestApplyMoveUpdatesTurnAndLastMove(t *testing.T) {
	pos := NewPosition()
	if _, _, ok := pos.LastMove(); ok {
		t.Fatalf("fresh position has a last move")
	}
	applied, err := pos.ApplyMove(sq("e2"), sq("e4"))
	if err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if applied.Turn != Black || pos.Turn() != Black {
		t.Fatalf("turn not passed to black")
	}
	from, to, ok := pos.LastMove()
	if !ok || from != sq("e2") || to != sq("e4") {
		t.Fatalf("last move: got %s-%s (%v)", from, to, ok)
	}
	if applied.LastFrom != from || applied.LastTo != to {
		t.Fatalf("applied move squares disagree with position")
	}
	if pos.PieceAt(sq("e2")) != nil || pos.PieceAt(sq("e4")) == nil {
		t.Fatalf("pawn not moved")
	}
}

func TestApplyMoveRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name string
		from Square
		to   Square
		want error
	}{
		{"empty origin", sq("e4"), sq("e5"), ErrEmptyOrigin},
		{"wrong side", sq("e7"), sq("e5"), ErrWrongTurn},
		{"bad geometry", sq("e2"), sq("e5"), ErrIllegalMove},
		{"own piece", sq("d1"), sq("d2"), ErrIllegalMove},
		{"off board", sq("e2"), Square{Row: -1, Col: 4}, ErrOffBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := NewPosition()
			playMoves(t, pos, "g1f3", "g8f6")
			before := pos.Clone()
			_, err := pos.ApplyMove(tt.from, tt.to)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got error %v want %v", err, tt.want)
			}
			if !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("%v is not an illegal move error", err)
			}
			if !reflect.DeepEqual(before, pos) {
				t.Fatalf("rejected move mutated the position")
			}
		})
	}
}

func TestApplyMoveRejectsMoveIntoCheck(t *testing.T) {
	pos := mustFEN(t, "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	before := pos.Clone()
	if _, err := pos.ApplyMove(sq("e2"), sq("c3")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("pinned knight move: got %v", err)
	}
	if !reflect.DeepEqual(before, pos) {
		t.Fatalf("position changed")
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		from  string
		to    string
		color Color
	}{
		{"white push", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7", "a8", White},
		{"white capture", "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7", "b8", White},
		{"black push", "4k3/8/8/8/8/8/p7/4K3 b - - 0 1", "a2", "a1", Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			before := pos.Clone()

			u := pos.SimulateMove(sq(tt.from), sq(tt.to))
			if pc := pos.PieceAt(sq(tt.to)); pc == nil || pc.Type != Queen || pc.Color != tt.color {
				t.Fatalf("simulated promotion left %v", pc)
			}
			pos.UndoMove(u)
			if pc := pos.PieceAt(sq(tt.from)); pc == nil || pc.Type != Pawn {
				t.Fatalf("undo did not restore the pawn, got %v", pc)
			}
			if !reflect.DeepEqual(before, pos) {
				t.Fatalf("undo did not restore the position")
			}

			applied, err := pos.ApplyMove(sq(tt.from), sq(tt.to))
			if err != nil {
				t.Fatalf("ApplyMove: %v", err)
			}
			if !applied.Promoted {
				t.Fatalf("promotion not reported")
			}
			if pc := pos.PieceAt(sq(tt.to)); pc == nil || pc.Type != Queen {
				t.Fatalf("pawn not promoted on apply, got %v", pc)
			}
		})
	}
}

func TestRookMoveSetsFlag(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	playMoves(t, pos, "a1a2", "h8h7")
	r := pos.Rights()
	if !r.White.QueenRookMoved || r.White.KingRookMoved || r.White.KingMoved {
		t.Fatalf("white rights %+v", r.White)
	}
	if !r.Black.KingRookMoved || r.Black.QueenRookMoved || r.Black.KingMoved {
		t.Fatalf("black rights %+v", r.Black)
	}
	// Flags never reset, even when the rook returns home.
	playMoves(t, pos, "a2a1", "h7h8")
	if r := pos.Rights(); !r.White.QueenRookMoved || !r.Black.KingRookMoved {
		t.Fatalf("flags were cleared: %+v", r)
	}
	if pos.IsLegalMove(*pos.PieceAt(sq("e1")), sq("e1"), sq("c1"), false) {
		t.Fatalf("castling allowed with a rook that has moved")
	}
}

func TestSimulateDoesNotPassTurn(t *testing.T) {
	pos := NewPosition()
	u := pos.SimulateMove(sq("e2"), sq("e4"))
	if pos.Turn() != White {
		t.Fatalf("simulate changed the turn")
	}
	if from, to, ok := pos.LastMove(); !ok || from != sq("e2") || to != sq("e4") {
		t.Fatalf("simulate should mark the last move")
	}
	pos.UndoMove(u)
	if _, _, ok := pos.LastMove(); ok {
		t.Fatalf("undo did not clear the last move")
	}
}

func TestSimulateUndoRestoresEveryMove(t *testing.T) {
	positions := randomPositions(t, 42, 6, 60)
	positions = append(positions,
		mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"),
		mustFEN(t, "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1"),
	)
	for _, pos := range positions {
		for _, color := range []Color{White, Black} {
			before := pos.Clone()
			for _, m := range pos.GenerateAllLegalMoves(color) {
				u := pos.SimulateMove(m.From, m.To)
				pos.UndoMove(u)
				if !reflect.DeepEqual(before, pos) {
					t.Fatalf("%s %s: undo mismatch in %s", color, m, before.FEN())
				}
			}
		}
	}
}

func TestSimulateUndoNests(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := pos.Clone()
	var stack []Undo
	color := White
	for i := 0; i < 6; i++ {
		moves := pos.GenerateAllLegalMoves(color)
		if len(moves) == 0 {
			break
		}
		m := moves[len(moves)/2]
		stack = append(stack, pos.SimulateMove(m.From, m.To))
		color = color.Opposite()
	}
	for i := len(stack) - 1; i >= 0; i-- {
		pos.UndoMove(stack[i])
	}
	if !reflect.DeepEqual(before, pos) {
		t.Fatalf("nested undo mismatch: got %s want %s", pos.FEN(), before.FEN())
	}
}

func TestSimulateFromEmptySquarePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewPosition().SimulateMove(sq("e4"), sq("e5"))
}
