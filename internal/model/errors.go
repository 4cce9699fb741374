package model

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrAITurn        = errors.New("waiting for the computer to move")
	ErrSeatTaken     = errors.New("color already has a human player")
	ErrHistoryIndex  = errors.New("history index out of range")
	ErrInvalidDepth  = errors.New("invalid search depth")
	ErrInvalidColor  = errors.New("invalid color")
	ErrAlreadyQueued = errors.New("player already in queue")
)
