package service

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/minimax-chess/internal/chess"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

type GameService struct {
	gameManager  *GameManager
	defaultDepth int
	// tracks computer searches still running
	searches sync.WaitGroup
}

// CreateOptions configures a new game. An empty FEN means the standard
// starting position.
type CreateOptions struct {
	FEN string            `json:"fen"`
	AI  *model.AISettings `json:"ai"`
}

func NewGameService(gameManager *GameManager, defaultDepth int) *GameService {
	return &GameService{
		gameManager:  gameManager,
		defaultDepth: defaultDepth,
	}
}

// CreateGame starts a new game. When the options enable the computer, the
// creator takes the other seat so the settings can be applied.
func (gs *GameService) CreateGame(playerID string, opts CreateOptions) (string, error) {
	var start *chess.Position
	if opts.FEN != "" {
		pos, err := chess.ParseFEN(opts.FEN)
		if err != nil {
			return "", err
		}
		start = pos
	}
	var settings model.AISettings
	if opts.AI != nil && opts.AI.Enabled {
		settings = *opts.AI
		if settings.Depth == 0 {
			settings.Depth = gs.defaultDepth
		}
		if !settings.Color.Valid() {
			return "", fmt.Errorf("%w: %q", model.ErrInvalidColor, settings.Color)
		}
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, start)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	if settings.Enabled {
		err := game.TakeSeat(playerID, settings.Color.Opposite())
		if err == nil {
			err = game.ConfigureAI(playerID, settings)
		}
		if err != nil {
			gs.gameManager.RemoveGame(gameID)
			return "", err
		}
		gs.scheduleAI(game)
	}
	log.Infow("game created", "game", gameID, "player", playerID, "ai", settings.Enabled)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) LegalDestinations(gameID string, sq chess.Square) ([]chess.Square, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(sq)
}

// HandleMove plays a human move, pushes the new state to every observer and
// lets the computer reply when it is on move.
func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if _, err := game.MakeMove(playerID, move.From, move.To); err != nil {
		return model.GameState{}, err
	}
	return gs.afterChange(game), nil
}

func (gs *GameService) NewGame(gameID string, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Reset(playerID); err != nil {
		return model.GameState{}, err
	}
	return gs.afterChange(game), nil
}

func (gs *GameService) ConfigureAI(gameID string, playerID string, settings model.AISettings) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if settings.Enabled && settings.Depth == 0 {
		settings.Depth = gs.defaultDepth
	}
	if err := game.ConfigureAI(playerID, settings); err != nil {
		return model.GameState{}, err
	}
	return gs.afterChange(game), nil
}

func (gs *GameService) Hint(gameID string, depth int) (*model.Hint, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Hint(depth)
}

func (gs *GameService) Snapshot(gameID string, index int) (model.Snapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return game.Snapshot(index)
}

func (gs *GameService) afterChange(game *model.Game) model.GameState {
	state := game.GetState()
	game.Broadcast()
	gs.scheduleAI(game)
	return state
}

// scheduleAI starts a background search when the computer is on move. A
// search whose result was discarded because the game changed underneath it
// is started again from the new position while the computer is still on
// move, since the change may have been scheduled while it was busy.
func (gs *GameService) scheduleAI(game *model.Game) {
	if !game.AIToMove() {
		return
	}
	gs.searches.Add(1)
	go func() {
		defer gs.searches.Done()
		for {
			res, err := game.PlayAIMove()
			if err != nil {
				log.Errorw("computer move failed", "game", game.ID, "error", err)
				return
			}
			if res.Applied {
				game.Broadcast()
				return
			}
			if !game.AIToMove() {
				return
			}
			log.Debugw("restarting computer search", "game", game.ID)
		}
	}()
}

// Wait blocks until every computer search has finished.
func (gs *GameService) Wait() {
	gs.searches.Wait()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// Send writes msg to one player's connection on a game.
func (gs *GameService) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
