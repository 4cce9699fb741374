package chess

// Move is a candidate move as produced by generation. Captured is empty for
// quiet moves.
type Move struct {
	From     Square    `json:"from"`
	To       Square    `json:"to"`
	Captured PieceType `json:"captured,omitempty"`
}

func (m Move) IsCapture() bool {
	return m.Captured != ""
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// GenerateAllLegalMoves lists every legal move for color. Origins and
// targets are both scanned row by row, and callers that break ties by
// position in the list rely on that order.
func (p *Position) GenerateAllLegalMoves(color Color) []Move {
	moves := make([]Move, 0, 40)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := p.board[r][c]
			if pc == nil || pc.Color != color {
				continue
			}
			moves = p.appendMovesFrom(moves, *pc, Square{Row: r, Col: c})
		}
	}
	return moves
}

// HasLegalMove stops at the first legal move of color.
func (p *Position) HasLegalMove(color Color) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := p.board[r][c]
			if pc == nil || pc.Color != color {
				continue
			}
			if len(p.appendMovesFrom(nil, *pc, Square{Row: r, Col: c})) > 0 {
				return true
			}
		}
	}
	return false
}

// LegalDestinations returns the squares the piece on sq may move to. An empty
// square yields nothing.
func (p *Position) LegalDestinations(sq Square) []Square {
	pc := p.PieceAt(sq)
	if pc == nil {
		return nil
	}
	moves := p.appendMovesFrom(nil, *pc, sq)
	out := make([]Square, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To)
	}
	return out
}

func (p *Position) appendMovesFrom(moves []Move, pc Piece, from Square) []Move {
	for tr := 0; tr < 8; tr++ {
		for tc := 0; tc < 8; tc++ {
			to := Square{Row: tr, Col: tc}
			if !p.IsLegalMove(pc, from, to, false) {
				continue
			}
			m := Move{From: from, To: to}
			if target := p.board[tr][tc]; target != nil {
				m.Captured = target.Type
			}
			moves = append(moves, m)
		}
	}
	return moves
}
