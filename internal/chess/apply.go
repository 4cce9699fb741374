package chess

import (
	"fmt"
)

// AppliedMove describes an accepted move for whoever renders or records it.
type AppliedMove struct {
	Move     Move   `json:"move"`
	Piece    Piece  `json:"piece"`
	Promoted bool   `json:"promoted"`
	Castled  bool   `json:"castled"`
	Check    bool   `json:"check"`
	Turn     Color  `json:"turn"`
	LastFrom Square `json:"lastFrom"`
	LastTo   Square `json:"lastTo"`
}

type rookRelocation struct {
	performed bool
	from      Square
	to        Square
	piece     *Piece
}

// Undo holds everything SimulateMove changed. It is only meaningful for the
// position that produced it, and undos must be replayed in reverse order.
type Undo struct {
	from     Square
	to       Square
	moved    *Piece
	captured *Piece
	promoted bool
	rights   CastlingRights
	last     lastMove
	rook     rookRelocation
}

// ApplyMove is the authoritative transition: it validates the move for the
// side to move, mutates the position, records the last move and passes the
// turn. On error nothing is changed.
func (p *Position) ApplyMove(from, to Square) (AppliedMove, error) {
	if !from.OnBoard() || !to.OnBoard() {
		return AppliedMove{}, fmt.Errorf("%w: %s-%s", ErrOffBoard, from, to)
	}
	pc := p.at(from.Row, from.Col)
	if pc == nil {
		return AppliedMove{}, fmt.Errorf("%w: %s", ErrEmptyOrigin, from)
	}
	if pc.Color != p.turn {
		return AppliedMove{}, fmt.Errorf("%w: %s on %s", ErrWrongTurn, pc, from)
	}
	if !p.IsLegalMove(*pc, from, to, false) {
		return AppliedMove{}, fmt.Errorf("%w: %s %s-%s", ErrIllegalMove, pc, from, to)
	}

	mv := Move{From: from, To: to}
	if target := p.at(to.Row, to.Col); target != nil {
		mv.Captured = target.Type
	}
	u := p.move(from, to)
	p.turn = p.turn.Opposite()

	return AppliedMove{
		Move:     mv,
		Piece:    *pc,
		Promoted: u.promoted,
		Castled:  u.rook.performed,
		Check:    p.InCheck(p.turn),
		Turn:     p.turn,
		LastFrom: from,
		LastTo:   to,
	}, nil
}

// SimulateMove performs the same board mutation as ApplyMove without any
// validation and without passing the turn. The returned Undo restores the
// position exactly.
func (p *Position) SimulateMove(from, to Square) Undo {
	if p.PieceAt(from) == nil {
		panic(fmt.Sprintf("chess: simulate from empty square %s", from))
	}
	return p.move(from, to)
}

// UndoMove reverses the SimulateMove that returned u.
func (p *Position) UndoMove(u Undo) {
	p.board[u.from.Row][u.from.Col] = u.moved
	p.board[u.to.Row][u.to.Col] = u.captured
	if u.rook.performed {
		p.board[u.rook.from.Row][u.rook.from.Col] = u.rook.piece
		p.board[u.rook.to.Row][u.rook.to.Col] = nil
	}
	p.rights = u.rights
	p.last = u.last
}

// move is the shared mutation: castling rook relocation, clearing the
// origin, promotion to queen, placing the piece, flag updates and the
// last-move marker, in that order.
func (p *Position) move(from, to Square) Undo {
	pc := p.board[from.Row][from.Col]
	u := Undo{
		from:     from,
		to:       to,
		moved:    pc,
		captured: p.board[to.Row][to.Col],
		rights:   p.rights,
		last:     p.last,
	}

	if pc.Type == King && abs(to.Col-from.Col) == 2 {
		rookFrom, rookTo := 7, 5
		if to.Col < from.Col {
			rookFrom, rookTo = 0, 3
		}
		u.rook = rookRelocation{
			performed: true,
			from:      Square{Row: from.Row, Col: rookFrom},
			to:        Square{Row: from.Row, Col: rookTo},
			piece:     p.board[from.Row][rookFrom],
		}
		p.board[from.Row][rookTo] = p.board[from.Row][rookFrom]
		p.board[from.Row][rookFrom] = nil
		p.rights.markRook(pc.Color, rookFrom)
	}

	p.board[from.Row][from.Col] = nil
	placed := pc
	if pc.Type == Pawn && to.Row == pc.Color.promotionRank() {
		placed = &Piece{Type: Queen, Color: pc.Color}
		u.promoted = true
	}
	p.board[to.Row][to.Col] = placed

	switch pc.Type {
	case King:
		p.rights.side(pc.Color).KingMoved = true
	case Rook:
		if from.Row == pc.Color.backRank() && (from.Col == 0 || from.Col == 7) {
			p.rights.markRook(pc.Color, from.Col)
		}
	}

	p.last = lastMove{from: from, to: to, set: true}
	return u
}
