package model

import "github.com/benbeisheim/minimax-chess/internal/chess"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color chess.Color `json:"color"`
	IsAI  bool        `json:"isAI"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c chess.Color) *ClientPlayer {
	if c == chess.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the color a human playerID plays, if any.
func (p *Players) colorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return "", false
	}
	if p.White.ID == playerID && !p.White.IsAI {
		return chess.White, true
	}
	if p.Black.ID == playerID && !p.Black.IsAI {
		return chess.Black, true
	}
	return "", false
}

// AISettings controls the computer opponent of a game.
type AISettings struct {
	Enabled bool        `json:"enabled"`
	Color   chess.Color `json:"color"`
	Depth   int         `json:"depth"`
}

// MatchFoundEvent tells a queued player which game they were placed in.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
