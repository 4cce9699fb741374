package chess

// SideRights records which of a side's castling pieces have left their home
// squares. Flags only ever go from false to true, except on Reset.
type SideRights struct {
	KingMoved      bool `json:"kingMoved"`
	QueenRookMoved bool `json:"queenRookMoved"`
	KingRookMoved  bool `json:"kingRookMoved"`
}

type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

func (r *CastlingRights) side(c Color) *SideRights {
	if c == White {
		return &r.White
	}
	return &r.Black
}

// rookMoved reports the flag of the rook standing in the given corner
// column (0 or 7) for color c.
func (r *CastlingRights) rookMoved(c Color, col int) bool {
	s := r.side(c)
	if col == 0 {
		return s.QueenRookMoved
	}
	return s.KingRookMoved
}

func (r *CastlingRights) markRook(c Color, col int) {
	s := r.side(c)
	if col == 0 {
		s.QueenRookMoved = true
	} else {
		s.KingRookMoved = true
	}
}

type lastMove struct {
	from Square
	to   Square
	set  bool
}

// Position is the full game state the rules operate on: the 8x8 grid, the
// castling flags, the last-move marker and the side to move.
type Position struct {
	board  [8][8]*Piece
	rights CastlingRights
	last   lastMove
	turn   Color
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard starting position with White to move.
func NewPosition() *Position {
	p := &Position{}
	p.Reset()
	return p
}

// NewEmptyPosition returns a board without pieces and with untouched
// castling flags. It is meant for setting up positions with SetPiece.
func NewEmptyPosition(turn Color) *Position {
	return &Position{turn: turn}
}

// Reset puts every piece back on its starting square and clears all flags,
// the last-move marker and the turn.
func (p *Position) Reset() {
	p.board = [8][8]*Piece{}
	for col, t := range backRankOrder {
		p.board[0][col] = &Piece{Type: t, Color: Black}
		p.board[1][col] = &Piece{Type: Pawn, Color: Black}
		p.board[6][col] = &Piece{Type: Pawn, Color: White}
		p.board[7][col] = &Piece{Type: t, Color: White}
	}
	p.rights = CastlingRights{}
	p.last = lastMove{}
	p.turn = White
}

// Clone returns an independent copy. Pieces are immutable so the copy only
// duplicates the grid of references.
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

func (p *Position) PieceAt(sq Square) *Piece {
	if !sq.OnBoard() {
		return nil
	}
	return p.board[sq.Row][sq.Col]
}

// SetPiece places piece on sq, or empties sq when piece is nil. It bypasses
// every rule and is only for building positions.
func (p *Position) SetPiece(sq Square, piece *Piece) {
	if !sq.OnBoard() {
		return
	}
	p.board[sq.Row][sq.Col] = piece
}

func (p *Position) SetRights(r CastlingRights) {
	p.rights = r
}

func (p *Position) Turn() Color {
	return p.turn
}

func (p *Position) Rights() CastlingRights {
	return p.rights
}

// LastMove returns the most recent move's squares; ok is false before the
// first move.
func (p *Position) LastMove() (from, to Square, ok bool) {
	return p.last.from, p.last.to, p.last.set
}

// Board returns a row-major copy of the grid for serialization.
func (p *Position) Board() [][]*Piece {
	rows := make([][]*Piece, 8)
	for r := range rows {
		rows[r] = make([]*Piece, 8)
		copy(rows[r], p.board[r][:])
	}
	return rows
}

func (p *Position) at(r, c int) *Piece {
	return p.board[r][c]
}
