package model

import "github.com/benbeisheim/minimax-chess/internal/chess"

// BoardState is the serializable view of a position sent to clients.
type BoardState struct {
	Board             [][]*chess.Piece     `json:"board"`
	BlackKingPosition *chess.Square        `json:"blackKingPosition"`
	WhiteKingPosition *chess.Square        `json:"whiteKingPosition"`
	Rights            chess.CastlingRights `json:"castlingRights"`
	FEN               string               `json:"fen"`
}

func newBoardState(pos *chess.Position) BoardState {
	board := BoardState{
		Board:  pos.Board(),
		Rights: pos.Rights(),
		FEN:    pos.FEN(),
	}
	if sq, ok := pos.KingSquare(chess.White); ok {
		board.WhiteKingPosition = &sq
	}
	if sq, ok := pos.KingSquare(chess.Black); ok {
		board.BlackKingPosition = &sq
	}
	return board
}

// LastMove marks the squares of the most recent move for highlighting.
type LastMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

func lastMoveOf(pos *chess.Position) *LastMove {
	from, to, ok := pos.LastMove()
	if !ok {
		return nil
	}
	return &LastMove{From: from, To: to}
}

// Snapshot is the position after a given number of plies, kept so clients
// can step back through the game.
type Snapshot struct {
	Index    int         `json:"index"`
	Board    BoardState  `json:"boardState"`
	ToMove   chess.Color `json:"toMove"`
	LastMove *LastMove   `json:"lastMove"`
}

func newSnapshot(index int, pos *chess.Position) Snapshot {
	return Snapshot{
		Index:    index,
		Board:    newBoardState(pos),
		ToMove:   pos.Turn(),
		LastMove: lastMoveOf(pos),
	}
}
