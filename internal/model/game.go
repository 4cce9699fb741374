package model

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/slices"

	"github.com/benbeisheim/minimax-chess/internal/chess"
	"github.com/benbeisheim/minimax-chess/internal/search"
)

const DefaultMaxDepth = 5

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections // Connections just for this game
	position    *chess.Position
	initial     *chess.Position
	history     []Snapshot
	maxDepth    int
	// bumped whenever the position changes outside the computer's control, so
	// a search started before the change is discarded
	generation uint64
	aiBusy     bool
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          BoardState     `json:"boardState"`
	ToMove         chess.Color    `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Status         chess.Status   `json:"status"`
	Winner         chess.Color    `json:"winner,omitempty"`
	Players        Players        `json:"players"`
	AI             AISettings     `json:"ai"`
	AIThinking     bool           `json:"aiThinking"`
	LastMove       *LastMove      `json:"lastMove"`
	Ply            int            `json:"ply"`
}

// CapturedPieces lists, per color, the enemy pieces that color has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

// AIMoveResult reports what PlayAIMove did. Applied is false when there was
// nothing to play or the game moved on while the computer was thinking.
type AIMoveResult struct {
	Applied bool         `json:"applied"`
	Move    chess.Move   `json:"move"`
	Stats   search.Stats `json:"stats"`
}

type Hint struct {
	Move  chess.Move   `json:"move"`
	Depth int          `json:"depth"`
	Stats search.Stats `json:"stats"`
}

// NewGame starts a session from start, or from the standard position when
// start is nil. maxDepth bounds every search the session runs.
func NewGame(id string, start *chess.Position, maxDepth int) *Game {
	if start == nil {
		start = chess.NewPosition()
	}
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	g := &Game{
		ID:          id,
		connections: NewGameConnections(),
		initial:     start.Clone(),
		maxDepth:    maxDepth,
	}
	g.state.AI = AISettings{Color: chess.Black, Depth: min(3, maxDepth)}
	g.resetLocked()
	return g
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (g *Game) resetLocked() {
	g.position = g.initial.Clone()
	g.history = []Snapshot{newSnapshot(0, g.position)}
	g.generation++

	g.state.Sound = ""
	g.state.MoveHistory = make([]Move, 0)
	g.state.CapturedPieces = newCapturedPieces()
	g.refreshLocked()
}

// refreshLocked recomputes everything derived from the position.
func (g *Game) refreshLocked() {
	turn := g.position.Turn()
	outcome := g.position.Outcome()

	g.state.Board = newBoardState(g.position)
	g.state.ToMove = turn
	g.state.IsCheck = g.position.InCheck(turn)
	g.state.Status = outcome.Status
	g.state.Winner = outcome.Winner
	g.state.LastMove = lastMoveOf(g.position)
	g.state.Ply = len(g.history) - 1
}

func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.state.Players.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []chess.Color{chess.White, chess.Black} {
		seat := g.state.Players.seat(color)
		if seat.ID == "" && !seat.IsAI {
			*seat = ClientPlayer{ID: playerID, Color: color}
			log.Infow("player joined", "game", g.ID, "player", playerID, "color", color)
			return color, nil
		}
	}
	return "", ErrGameFull
}

// TakeSeat seats playerID at a specific color.
func (g *Game) TakeSeat(playerID string, color chess.Color) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, ok := g.state.Players.colorOf(playerID); ok {
		if current == color {
			return nil
		}
		return fmt.Errorf("%w: already playing %s", ErrSeatTaken, current)
	}
	seat := g.state.Players.seat(color)
	if seat.ID != "" {
		return fmt.Errorf("%w: %s", ErrSeatTaken, color)
	}
	*seat = ClientPlayer{ID: playerID, Color: color}
	log.Infow("player joined", "game", g.ID, "player", playerID, "color", color)
	return nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateLocked()
}

// stateLocked copies the state so callers can hold it after the lock is
// released.
func (g *Game) stateLocked() GameState {
	state := g.state
	state.MoveHistory = slices.Clone(g.state.MoveHistory)
	state.CapturedPieces = CapturedPieces{
		White: slices.Clone(g.state.CapturedPieces.White),
		Black: slices.Clone(g.state.CapturedPieces.Black),
	}
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.state.Players.colorOf(playerID)
	return ok
}

// MakeMove plays a human move. The player must be seated, and must own the
// side to move unless nobody holds that seat.
func (g *Game) MakeMove(playerID string, from, to chess.Square) (chess.AppliedMove, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return chess.AppliedMove{}, ErrNotInGame
	}
	if g.state.Status != chess.Ongoing {
		return chess.AppliedMove{}, ErrGameOver
	}
	turn := g.position.Turn()
	if g.aiPlaysLocked(turn) {
		return chess.AppliedMove{}, ErrAITurn
	}
	if owner := g.state.Players.seat(turn); color != turn && owner.ID != "" {
		return chess.AppliedMove{}, ErrNotYourTurn
	}

	applied, err := g.position.ApplyMove(from, to)
	if err != nil {
		return chess.AppliedMove{}, err
	}
	g.generation++
	g.recordLocked(applied)
	log.Infow("move applied", "game", g.ID, "player", playerID, "move", applied.Move.String())
	return applied, nil
}

func (g *Game) recordLocked(applied chess.AppliedMove) {
	ply := newPly(applied)
	mover := applied.Piece.Color

	if mover == chess.White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: ply})
	} else {
		last := len(g.state.MoveHistory) - 1
		if last < 0 || g.state.MoveHistory[last].BlackPly != nil {
			g.state.MoveHistory = append(g.state.MoveHistory, Move{BlackPly: ply})
		} else {
			g.state.MoveHistory[last].BlackPly = ply
		}
	}

	if applied.Move.IsCapture() {
		taken := chess.Piece{Type: applied.Move.Captured, Color: mover.Opposite()}
		if mover == chess.White {
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, taken)
		} else {
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, taken)
		}
	}

	g.history = append(g.history, newSnapshot(len(g.history), g.position))
	g.refreshLocked()

	switch {
	case g.state.IsCheck:
		g.state.Sound = "check"
	case applied.Move.IsCapture():
		g.state.Sound = "capture"
	case applied.Castled:
		g.state.Sound = "castle"
	default:
		g.state.Sound = "move"
	}
}

// Reset returns the game to the position it was created with. Seats and
// computer settings are kept.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.Players.colorOf(playerID); !ok {
		return ErrNotInGame
	}
	g.resetLocked()
	log.Infow("game reset", "game", g.ID, "player", playerID)
	return nil
}

// ConfigureAI turns the computer opponent on or off. The computer cannot
// take a seat held by a human.
func (g *Game) ConfigureAI(playerID string, settings AISettings) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.Players.colorOf(playerID); !ok {
		return ErrNotInGame
	}
	if settings.Enabled {
		if !settings.Color.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidColor, settings.Color)
		}
		if settings.Depth < 1 || settings.Depth > g.maxDepth {
			return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidDepth, settings.Depth, g.maxDepth)
		}
		if seat := g.state.Players.seat(settings.Color); seat.ID != "" && !seat.IsAI {
			return fmt.Errorf("%w: %s", ErrSeatTaken, settings.Color)
		}
	}

	if prev := g.state.AI; prev.Enabled {
		*g.state.Players.seat(prev.Color) = ClientPlayer{}
	}
	if settings.Enabled {
		*g.state.Players.seat(settings.Color) = ClientPlayer{ID: "computer", Color: settings.Color, IsAI: true}
	} else if settings.Depth == 0 {
		settings.Color, settings.Depth = g.state.AI.Color, g.state.AI.Depth
	}
	g.state.AI = settings
	g.generation++
	log.Infow("computer configured", "game", g.ID, "enabled", settings.Enabled, "color", settings.Color, "depth", settings.Depth)
	return nil
}

func (g *Game) aiPlaysLocked(c chess.Color) bool {
	return g.state.AI.Enabled && g.state.AI.Color == c
}

// AIToMove reports whether the computer should play now.
func (g *Game) AIToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Status == chess.Ongoing && g.aiPlaysLocked(g.position.Turn()) && !g.aiBusy
}

// PlayAIMove searches a copy of the position without holding the game lock,
// then applies the chosen move if nothing changed in the meantime. Only one
// search runs per game at a time.
func (g *Game) PlayAIMove() (*AIMoveResult, error) {
	g.mu.Lock()
	turn := g.position.Turn()
	if g.aiBusy || g.state.Status != chess.Ongoing || !g.aiPlaysLocked(turn) {
		g.mu.Unlock()
		return &AIMoveResult{}, nil
	}
	g.aiBusy = true
	g.state.AIThinking = true
	pos := g.position.Clone()
	depth := g.state.AI.Depth
	generation := g.generation
	g.mu.Unlock()

	searcher := search.New(pos)
	mv, ok := searcher.BestMove(turn, depth)
	stats := searcher.Stats()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.aiBusy = false
	g.state.AIThinking = false

	if !ok || generation != g.generation || g.position.Turn() != turn {
		log.Debugw("discarding computer move", "game", g.ID, "found", ok)
		return &AIMoveResult{Stats: stats}, nil
	}
	applied, err := g.position.ApplyMove(mv.From, mv.To)
	if err != nil {
		return nil, fmt.Errorf("computer move %s: %w", mv, err)
	}
	g.generation++
	g.recordLocked(applied)
	log.Infow("computer moved", "game", g.ID, "move", mv.String(), "depth", depth,
		"nodes", stats.Nodes, "cutoffs", stats.Cutoffs, "elapsed", stats.Elapsed)
	return &AIMoveResult{Applied: true, Move: mv, Stats: stats}, nil
}

// Hint suggests a move for the side to move. A depth of zero uses the
// computer's configured depth.
func (g *Game) Hint(depth int) (*Hint, error) {
	g.mu.Lock()
	if depth == 0 {
		depth = g.state.AI.Depth
	}
	if depth < 1 || depth > g.maxDepth {
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidDepth, depth, g.maxDepth)
	}
	if g.state.Status != chess.Ongoing {
		g.mu.Unlock()
		return nil, ErrGameOver
	}
	pos := g.position.Clone()
	g.mu.Unlock()

	searcher := search.New(pos)
	mv, ok := searcher.BestMove(pos.Turn(), depth)
	if !ok {
		return nil, ErrGameOver
	}
	return &Hint{Move: mv, Depth: depth, Stats: searcher.Stats()}, nil
}

// LegalDestinations lists where the piece on sq may move. It is empty for
// an empty square or a piece whose side is not on move.
func (g *Game) LegalDestinations(sq chess.Square) ([]chess.Square, error) {
	if !sq.OnBoard() {
		return nil, fmt.Errorf("%w: %s", chess.ErrOffBoard, sq)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	pc := g.position.PieceAt(sq)
	if pc == nil || pc.Color != g.position.Turn() {
		return []chess.Square{}, nil
	}
	return g.position.LegalDestinations(sq), nil
}

// Snapshot returns the position after index plies.
func (g *Game) Snapshot(index int) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 0 || index >= len(g.history) {
		return Snapshot{}, fmt.Errorf("%w: %d not in 0..%d", ErrHistoryIndex, index, len(g.history)-1)
	}
	return g.history[index], nil
}
