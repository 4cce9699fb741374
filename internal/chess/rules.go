package chess

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// IsLegalMove reports whether piece, standing on from, may move to to.
// With ignoreCheck set only geometry and occupancy are tested; otherwise the
// move is also rejected when it would leave the mover's king attacked.
func (p *Position) IsLegalMove(piece Piece, from, to Square, ignoreCheck bool) bool {
	if !from.OnBoard() || !to.OnBoard() || from == to {
		return false
	}
	if dest := p.at(to.Row, to.Col); dest != nil && dest.Color == piece.Color {
		return false
	}
	if !p.reaches(piece, from, to) && !p.canCastle(piece, from, to) {
		return false
	}
	if ignoreCheck {
		return true
	}
	return !p.leavesKingAttacked(piece, from, to)
}

// IsSquareAttacked reports whether any piece of color by has a move to sq
// under IsLegalMove's ignoreCheck geometry. A pawn therefore covers a
// diagonal only when there is something on it to take, and covers the empty
// square in front of it. Castling is left out: it only lands on an empty
// square of the mover's own back rank, which is never the other king's square
// or on the other king's castling path.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if !sq.OnBoard() {
		return false
	}
	if dest := p.at(sq.Row, sq.Col); dest != nil && dest.Color == by {
		return false
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := p.board[r][c]
			if pc == nil || pc.Color != by {
				continue
			}
			if p.reaches(*pc, Square{Row: r, Col: c}, sq) {
				return true
			}
		}
	}
	return false
}

// KingSquare finds the king of color c.
func (p *Position) KingSquare(c Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			pc := p.board[r][col]
			if pc != nil && pc.Type == King && pc.Color == c {
				return Square{Row: r, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// InCheck reports whether c's king is attacked. A side without a king is
// never in check.
func (p *Position) InCheck(c Color) bool {
	k, ok := p.KingSquare(c)
	if !ok {
		return false
	}
	return p.IsSquareAttacked(k, c.Opposite())
}

// reaches is the per-type movement geometry, castling excluded. The caller
// has already rejected destinations holding a friendly piece.
func (p *Position) reaches(piece Piece, from, to Square) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	dest := p.at(to.Row, to.Col)
	switch piece.Type {
	case Pawn:
		dir, startRow := -1, 6
		if piece.Color == Black {
			dir, startRow = 1, 1
		}
		if dc == 0 {
			if dr == dir && dest == nil {
				return true
			}
			if from.Row == startRow && dr == 2*dir && dest == nil && p.at(from.Row+dir, from.Col) == nil {
				return true
			}
			return false
		}
		return dr == dir && abs(dc) == 1 && dest != nil
	case Knight:
		return (abs(dr) == 2 && abs(dc) == 1) || (abs(dr) == 1 && abs(dc) == 2)
	case Bishop:
		return abs(dr) == abs(dc) && p.pathClear(from, to)
	case Rook:
		return (dr == 0 || dc == 0) && p.pathClear(from, to)
	case Queen:
		return (dr == 0 || dc == 0 || abs(dr) == abs(dc)) && p.pathClear(from, to)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1
	}
	return false
}

// pathClear reports whether every square strictly between from and to is
// empty. from and to must share a row, column or diagonal.
func (p *Position) pathClear(from, to Square) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	r, c := from.Row+dr, from.Col+dc
	for r != to.Row || c != to.Col {
		if p.board[r][c] != nil {
			return false
		}
		r += dr
		c += dc
	}
	return true
}

// canCastle is the king's two-column move. The king must be on its home
// square with its flag clear, the matching rook must be in its corner with
// its flag clear, everything between them must be empty and the king may not
// start on, cross or land on an attacked square.
func (p *Position) canCastle(piece Piece, from, to Square) bool {
	if piece.Type != King || to.Row != from.Row || abs(to.Col-from.Col) != 2 {
		return false
	}
	home := Square{Row: piece.Color.backRank(), Col: 4}
	if from != home || p.rights.side(piece.Color).KingMoved {
		return false
	}
	dir := sign(to.Col - from.Col)
	rookCol := 7
	if dir < 0 {
		rookCol = 0
	}
	if p.rights.rookMoved(piece.Color, rookCol) {
		return false
	}
	rook := p.at(from.Row, rookCol)
	if rook == nil || rook.Type != Rook || rook.Color != piece.Color {
		return false
	}
	for c := from.Col + dir; c != rookCol; c += dir {
		if p.board[from.Row][c] != nil {
			return false
		}
	}
	enemy := piece.Color.Opposite()
	for step := 0; step <= 2; step++ {
		if p.IsSquareAttacked(Square{Row: from.Row, Col: from.Col + step*dir}, enemy) {
			return false
		}
	}
	return true
}

// leavesKingAttacked plays the bare piece transfer, checks the mover's king
// and puts both squares back exactly as they were.
func (p *Position) leavesKingAttacked(piece Piece, from, to Square) bool {
	savedFrom, savedTo := p.board[from.Row][from.Col], p.board[to.Row][to.Col]
	moving := savedFrom
	if moving == nil || *moving != piece {
		moving = &piece
	}
	p.board[to.Row][to.Col] = moving
	p.board[from.Row][from.Col] = nil
	attacked := p.InCheck(piece.Color)
	p.board[from.Row][from.Col] = savedFrom
	p.board[to.Row][to.Col] = savedTo
	return attacked
}
