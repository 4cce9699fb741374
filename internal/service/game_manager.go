// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/minimax-chess/internal/chess"
	"github.com/benbeisheim/minimax-chess/internal/model"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	maxDepth         int
	mu               sync.RWMutex
}

func NewGameManager(maxDepth int) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		maxDepth:         maxDepth,
	}
}

// RegisterMatchmakingChannel routes playerID's match notification to ch. A
// channel registered earlier for the same player is closed and replaced.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		log.Debugw("replacing matchmaking channel", "player", playerID)
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel removes ch if it is still the one registered
// for playerID. The caller owns ch and is responsible for closing it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers drains the queue two players at a time and returns how many
// games it started.
func (gm *GameManager) matchPlayers() int {
	started := 0
	for {
		queued1, queued2, ok := gm.queue.NextPair()
		if !ok {
			return started
		}
		player1, player2 := queued1.Player, queued2.Player

		gameID := uuid.New().String()
		game := model.NewGame(gameID, nil, gm.maxDepth)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorw("failed to seat matched player", "game", gameID, "player", player1.ID, "error", err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorw("failed to seat matched player", "game", gameID, "player", player2.ID, "error", err)
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.notifyLocked(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyLocked(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
		gm.mu.Unlock()

		log.Infow("match found", "game", gameID, "white", player1.ID, "black", player2.ID,
			"waited", time.Since(queued1.JoinedAt))
		started++
	}
}

// notifyLocked sends event without blocking, then retires the channel.
func (gm *GameManager) notifyLocked(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnw("matched player has no matchmaking channel", "player", playerID, "game", event.GameID)
		return
	}
	delete(gm.matchingChannels, playerID)
	select {
	case ch <- event:
	default:
		log.Warnw("failed to notify matched player", "player", playerID, "game", event.GameID)
	}
	close(ch)
}

// CreateGame registers a new session under gameID, starting from start or
// the standard position when start is nil.
func (gm *GameManager) CreateGame(gameID string, start *chess.Position) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}

	game := model.NewGame(gameID, start, gm.maxDepth)
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	log.Infow("player queued", "player", playerID, "waiting", gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
