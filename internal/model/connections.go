package model

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"

	"github.com/benbeisheim/minimax-chess/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type connection struct {
	conn Conn
	// websocket writers must not be used concurrently
	writeMu sync.Mutex
}

func (c *connection) send(msg ws.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*connection // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*connection),
	}
}

func (gc *GameConnections) add(playerID string, conn Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if _, exists := gc.connections[playerID]; exists {
		return false
	}
	gc.connections[playerID] = &connection{conn: conn}
	return true
}

// remove deletes playerID's entry only while it still holds conn, so a stale
// handler cannot drop a newer connection.
func (gc *GameConnections) remove(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if c, exists := gc.connections[playerID]; exists && c.conn == conn {
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) snapshot() map[string]*connection {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return maps.Clone(gc.connections)
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// RegisterConnection attaches a websocket to the game. Anyone may watch;
// a second connection for the same player is rejected.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.state.Players.colorOf(playerID)
	g.mu.Unlock()

	if !g.connections.add(playerID, conn) {
		return fmt.Errorf("connection already exists for player %s", playerID)
	}
	log.Infow("connection registered", "game", g.ID, "player", playerID, "seated", seated)

	g.Broadcast()
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.remove(playerID, conn)
	log.Infow("connection unregistered", "game", g.ID, "player", playerID)
}

// Send writes msg to one player's connection, if they have one.
func (g *Game) Send(playerID string, msg ws.Message) error {
	c, ok := g.connections.snapshot()[playerID]
	if !ok {
		return fmt.Errorf("%w: no connection for %s", ErrNotInGame, playerID)
	}
	return c.send(msg)
}

// Broadcast pushes the current state to every connection. Connections that
// fail to accept the write are dropped.
func (g *Game) Broadcast() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		log.Errorw("failed to encode game state", "game", g.ID, "error", err)
		return
	}

	for playerID, c := range g.connections.snapshot() {
		if err := c.send(msg); err != nil {
			log.Warnw("failed to send state", "game", g.ID, "player", playerID, "error", err)
			g.connections.remove(playerID, c.conn)
			continue
		}
	}
}
