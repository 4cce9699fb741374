package search

import (
	"math"
	"time"

	"golang.org/x/exp/slices"

	"github.com/benbeisheim/minimax-chess/internal/chess"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateScore is returned, signed from White's point of view, when the side
	// to move has been mated.
	MateScore = 1_000_000
	Infinity  = math.MaxInt32
	DrawScore = 0
)

// Stats counts the work done by one Searcher. It never affects results.
type Stats struct {
	Nodes   uint64        `json:"nodes"`
	Leaves  uint64        `json:"leaves"`
	Cutoffs uint64        `json:"cutoffs"`
	Elapsed time.Duration `json:"elapsed"`
}

// Searcher runs minimax over a borrowed position. Every move it explores is
// simulated and undone, so the position is unchanged when a call returns.
// A Searcher is not safe for concurrent use; search a Clone instead.
type Searcher struct {
	pos   *chess.Position
	stats Stats
}

func New(pos *chess.Position) *Searcher {
	return &Searcher{pos: pos}
}

func (s *Searcher) Stats() Stats {
	return s.stats
}

// Evaluate is the material balance, positive when White is ahead.
func Evaluate(pos *chess.Position) int {
	score := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := pos.PieceAt(chess.Square{Row: r, Col: c})
			if pc == nil {
				continue
			}
			if pc.Color == chess.White {
				score += pc.Type.Value()
			} else {
				score -= pc.Type.Value()
			}
		}
	}
	return score
}

// OrderMoves puts captures of more valuable pieces first. The sort is stable,
// so equal captures keep their generation order.
func OrderMoves(moves []chess.Move) {
	slices.SortStableFunc(moves, func(a, b chess.Move) int {
		return b.Captured.Value() - a.Captured.Value()
	})
}

// Minimax searches depth plies with White maximizing and Black minimizing.
func Minimax(pos *chess.Position, depth, alpha, beta int, color chess.Color) int {
	return New(pos).Minimax(depth, alpha, beta, color)
}

// BestMove picks a move for color searching depth plies. ok is false when
// color has no legal move; Status tells mate from stalemate.
func BestMove(pos *chess.Position, color chess.Color, depth int) (chess.Move, bool) {
	return New(pos).BestMove(color, depth)
}

func (s *Searcher) Minimax(depth, alpha, beta int, color chess.Color) int {
	start := time.Now()
	defer func() { s.stats.Elapsed += time.Since(start) }()
	return s.minimax(depth, alpha, beta, color)
}

func (s *Searcher) BestMove(color chess.Color, depth int) (chess.Move, bool) {
	start := time.Now()
	defer func() { s.stats.Elapsed += time.Since(start) }()

	if depth < 1 {
		depth = 1
	}
	moves := s.pos.GenerateAllLegalMoves(color)
	if len(moves) == 0 {
		return chess.Move{}, false
	}
	OrderMoves(moves)

	s.stats.Nodes++
	best := moves[0]
	if color == chess.White {
		bestScore := -Infinity
		for _, m := range moves {
			score := s.explore(m, depth-1, -Infinity, Infinity, chess.Black)
			if score > bestScore {
				bestScore, best = score, m
			}
		}
	} else {
		bestScore := Infinity
		for _, m := range moves {
			score := s.explore(m, depth-1, -Infinity, Infinity, chess.White)
			if score < bestScore {
				bestScore, best = score, m
			}
		}
	}
	return best, true
}

func (s *Searcher) minimax(depth, alpha, beta int, color chess.Color) int {
	s.stats.Nodes++
	if depth == 0 {
		s.stats.Leaves++
		return Evaluate(s.pos)
	}

	moves := s.pos.GenerateAllLegalMoves(color)
	if len(moves) == 0 {
		if s.pos.InCheck(color) {
			if color == chess.White {
				return -MateScore
			}
			return MateScore
		}
		return DrawScore
	}
	OrderMoves(moves)

	if color == chess.White {
		maxEval := -Infinity
		for _, m := range moves {
			score := s.explore(m, depth-1, alpha, beta, chess.Black)
			maxEval = max(maxEval, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
		return maxEval
	}

	minEval := Infinity
	for _, m := range moves {
		score := s.explore(m, depth-1, alpha, beta, chess.White)
		minEval = min(minEval, score)
		beta = min(beta, score)
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return minEval
}

// explore plays m, searches the reply and takes m back on every exit path.
func (s *Searcher) explore(m chess.Move, depth, alpha, beta int, next chess.Color) int {
	u := s.pos.SimulateMove(m.From, m.To)
	defer s.pos.UndoMove(u)
	return s.minimax(depth, alpha, beta, next)
}
