package search

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/benbeisheim/minimax-chess/internal/chess"
)

func mustFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// fullMinimax is the same search without pruning or ordering.
func fullMinimax(pos *chess.Position, depth int, color chess.Color) int {
	if depth == 0 {
		return Evaluate(pos)
	}
	moves := pos.GenerateAllLegalMoves(color)
	if len(moves) == 0 {
		if pos.InCheck(color) {
			if color == chess.White {
				return -MateScore
			}
			return MateScore
		}
		return DrawScore
	}
	best := Infinity
	if color == chess.White {
		best = -Infinity
	}
	for _, m := range moves {
		u := pos.SimulateMove(m.From, m.To)
		score := fullMinimax(pos, depth-1, color.Opposite())
		pos.UndoMove(u)
		if color == chess.White {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func randomPosition(t *testing.T, rng *rand.Rand, plies int) *chess.Position {
	t.Helper()
	pos := chess.NewPosition()
	for i := 0; i < plies; i++ {
		moves := pos.GenerateAllLegalMoves(pos.Turn())
		if len(moves) == 0 {
			break
		}
		m := moves[rng.Intn(len(moves))]
		if _, err := pos.ApplyMove(m.From, m.To); err != nil {
			t.Fatalf("apply %s: %v", m, err)
		}
	}
	return pos
}

func TestEvaluate(t *testing.T) {
	pos := chess.NewPosition()
	if got := Evaluate(pos); got != 0 {
		t.Fatalf("start position: got %d want 0", got)
	}
	pos.SetPiece(chess.MustSquare("d8"), nil)
	if got := Evaluate(pos); got != 900 {
		t.Fatalf("without black queen: got %d want 900", got)
	}
	pos.SetPiece(chess.MustSquare("a1"), nil)
	pos.SetPiece(chess.MustSquare("b1"), nil)
	if got := Evaluate(pos); got != 900-500-320 {
		t.Fatalf("after removing white rook and knight: got %d", got)
	}
}

func TestOrderMovesIsStableCaptureFirst(t *testing.T) {
	a := chess.Move{From: chess.MustSquare("a2"), To: chess.MustSquare("a3")}
	b := chess.Move{From: chess.MustSquare("b2"), To: chess.MustSquare("c3"), Captured: chess.Knight}
	c := chess.Move{From: chess.MustSquare("c2"), To: chess.MustSquare("c3")}
	d := chess.Move{From: chess.MustSquare("d2"), To: chess.MustSquare("d8"), Captured: chess.Queen}
	e := chess.Move{From: chess.MustSquare("e2"), To: chess.MustSquare("c3"), Captured: chess.Knight}

	moves := []chess.Move{a, b, c, d, e}
	OrderMoves(moves)
	want := []chess.Move{d, b, e, a, c}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("order: got %v want %v", moves, want)
	}
}

func TestMinimaxMateScores(t *testing.T) {
	fools := chess.NewPosition()
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if _, err := fools.ApplyMove(chess.MustSquare(mv[:2]), chess.MustSquare(mv[2:])); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
	}
	if got := Minimax(fools, 2, -Infinity, Infinity, chess.White); got != -MateScore {
		t.Fatalf("white mated: got %d want %d", got, -MateScore)
	}

	blackMated := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if got := Minimax(blackMated, 2, -Infinity, Infinity, chess.Black); got != MateScore {
		t.Fatalf("black mated: got %d want %d", got, MateScore)
	}

	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := Minimax(stalemate, 2, -Infinity, Infinity, chess.Black); got != DrawScore {
		t.Fatalf("stalemate: got %d want %d", got, DrawScore)
	}
}

func TestMinimaxDepthZeroIsEvaluation(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3QK3 w - - 0 1")
	if got := Minimax(pos, 0, -Infinity, Infinity, chess.White); got != Evaluate(pos) {
		t.Fatalf("depth 0: got %d want %d", got, Evaluate(pos))
	}
}

func TestAlphaBetaMatchesFullMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 8; i++ {
		pos := randomPosition(t, rng, 6+rng.Intn(30))
		for depth := 1; depth <= 3; depth++ {
			color := pos.Turn()
			want := fullMinimax(pos, depth, color)
			got := Minimax(pos, depth, -Infinity, Infinity, color)
			if got != want {
				t.Fatalf("%s depth %d: pruned %d, full %d", pos.FEN(), depth, got, want)
			}
		}
	}
}

func TestBestMoveFindsMateInOne(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		color chess.Color
		want  string
	}{
		{"white back rank", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", chess.White, "a1a8"},
		{"black back rank", "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", chess.Black, "a8a1"},
	}
	for _, tt := range tests {
		for _, depth := range []int{2, 3} {
			pos := mustFEN(t, tt.fen)
			m, ok := BestMove(pos, tt.color, depth)
			if !ok {
				t.Fatalf("%s: no move found", tt.name)
			}
			if m.String() != tt.want {
				t.Fatalf("%s depth %d: got %s want %s", tt.name, depth, m, tt.want)
			}
		}
	}
}

func TestBestMoveTakesHangingQueen(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3QK3 w - - 0 1")
		m, ok := BestMove(pos, chess.White, depth)
		if !ok || m.String() != "d1d5" || m.Captured != chess.Queen {
			t.Fatalf("depth %d: got %s (%v)", depth, m, ok)
		}
	}
}

func TestBestMoveWithoutMoves(t *testing.T) {
	pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if _, ok := BestMove(pos, chess.Black, 3); ok {
		t.Fatalf("stalemated side returned a move")
	}
}

func TestBestMoveRestoresPositionAndIsDeterministic(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := pos.Clone()

	s := New(pos)
	first, ok := s.BestMove(chess.White, 2)
	if !ok {
		t.Fatalf("no move")
	}
	if !reflect.DeepEqual(before, pos) {
		t.Fatalf("search left the position modified")
	}
	second, _ := BestMove(pos, chess.White, 2)
	if first != second {
		t.Fatalf("non-deterministic: %s then %s", first, second)
	}
	if st := s.Stats(); st.Nodes == 0 || st.Leaves == 0 {
		t.Fatalf("stats not collected: %+v", st)
	}
}

func TestBestMoveClampsDepth(t *testing.T) {
	pos := chess.NewPosition()
	zero, ok := BestMove(pos, chess.White, 0)
	if !ok {
		t.Fatalf("no move at depth 0")
	}
	one, _ := BestMove(pos, chess.White, 1)
	if zero != one {
		t.Fatalf("depth 0 %s differs from depth 1 %s", zero, one)
	}
}
