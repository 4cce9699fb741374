package chess

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a position from FEN. Piece placement and side to move are
// read by dragontoothmg; the castling field decides which rook flags start
// out set. En passant and the move counters are ignored.
func ParseFEN(fen string) (pos *Position, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 2 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	if err := validatePlacement(fields[0]); err != nil {
		return nil, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	defaults := []string{"", "", "-", "-", "0", "1"}
	for len(fields) < 6 {
		fields = append(fields, defaults[len(fields)])
	}

	defer func() {
		if r := recover(); r != nil {
			pos, err = nil, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()
	b := dragontoothmg.ParseFen(strings.Join(fields, " "))

	turn := White
	if !b.Wtomove {
		turn = Black
	}
	pos = NewEmptyPosition(turn)
	pos.placeBitboards(&b.White, White)
	pos.placeBitboards(&b.Black, Black)

	castling := fields[2]
	pos.rights = CastlingRights{
		White: SideRights{
			KingRookMoved:  !strings.ContainsRune(castling, 'K'),
			QueenRookMoved: !strings.ContainsRune(castling, 'Q'),
		},
		Black: SideRights{
			KingRookMoved:  !strings.ContainsRune(castling, 'k'),
			QueenRookMoved: !strings.ContainsRune(castling, 'q'),
		},
	}

	for _, c := range []Color{White, Black} {
		if n := pos.countKings(c); n != 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidFEN, n, c)
		}
	}
	return pos, nil
}

func validatePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rank := range ranks {
		width := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				width += int(ch - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", ch):
				width++
			default:
				return fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidFEN, ch, 8-i)
			}
		}
		if width != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-i, width)
		}
	}
	return nil
}

func (p *Position) placeBitboards(bb *dragontoothmg.Bitboards, c Color) {
	for _, set := range []struct {
		t    PieceType
		mask uint64
	}{
		{Pawn, bb.Pawns},
		{Knight, bb.Knights},
		{Bishop, bb.Bishops},
		{Rook, bb.Rooks},
		{Queen, bb.Queens},
		{King, bb.Kings},
	} {
		for mask := set.mask; mask != 0; mask &= mask - 1 {
			idx := bits.TrailingZeros64(mask)
			p.board[7-idx/8][idx%8] = &Piece{Type: set.t, Color: c}
		}
	}
}

func (p *Position) countKings(c Color) int {
	n := 0
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			if pc := p.board[r][col]; pc != nil && pc.Type == King && pc.Color == c {
				n++
			}
		}
	}
	return n
}

// FEN writes the position with castling availability derived from the flags
// and the pieces on their home squares. The en passant field is always "-".
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for c := 0; c < 8; c++ {
			pc := p.board[r][c]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := pc.Type.letter()
			if pc.Color == White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.turn == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	castling := ""
	for _, c := range []Color{White, Black} {
		for _, side := range []struct {
			col    int
			letter byte
		}{{7, 'k'}, {0, 'q'}} {
			if p.castlingAvailable(c, side.col) {
				ch := side.letter
				if c == White {
					ch -= 'a' - 'A'
				}
				castling += string(ch)
			}
		}
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)
	sb.WriteString(" - 0 1")
	return sb.String()
}

func (p *Position) castlingAvailable(c Color, rookCol int) bool {
	row := c.backRank()
	king, rook := p.board[row][4], p.board[row][rookCol]
	if king == nil || king.Type != King || king.Color != c || p.rights.side(c).KingMoved {
		return false
	}
	if rook == nil || rook.Type != Rook || rook.Color != c {
		return false
	}
	return !p.rights.rookMoved(c, rookCol)
}
