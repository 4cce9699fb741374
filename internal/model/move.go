package model

import "github.com/benbeisheim/minimax-chess/internal/chess"

// MoveRequest is a move as submitted by a client.
type MoveRequest struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	From           chess.Square    `json:"from"`
	To             chess.Square    `json:"to"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      chess.PieceType `json:"promotion,omitempty"`
	Check          bool            `json:"check"`
}

// Move pairs White's ply with Black's reply. BlackPly is nil until Black
// has moved, and WhitePly is nil when a game set up from FEN starts with
// Black to move.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

func newPly(applied chess.AppliedMove) *Ply {
	ply := &Ply{
		Piece: applied.Piece,
		From:  applied.Move.From,
		To:    applied.Move.To,
		Check: applied.Check,
	}
	if applied.Move.IsCapture() {
		ply.CapturedPiece = &chess.Piece{Type: applied.Move.Captured, Color: applied.Piece.Color.Opposite()}
	}
	if applied.Promoted {
		ply.Promotion = chess.Queen
	}
	if applied.Castled {
		rookFrom, rookTo := 7, 5
		if applied.Move.To.Col < applied.Move.From.Col {
			rookFrom, rookTo = 0, 3
		}
		row := applied.Move.From.Row
		ply.CastleRookMove = &CastleRookMove{
			From: chess.Square{Row: row, Col: rookFrom},
			To:   chess.Square{Row: row, Col: rookTo},
		}
	}
	return ply
}
