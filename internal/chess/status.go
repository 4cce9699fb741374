package chess

import "fmt"

type Status string

const (
	Ongoing   Status = "ongoing"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
)

// Status reports whether color, assumed to be on move, can still play. It
// panics when color has no king, which legal play can never produce.
func (p *Position) Status(color Color) Status {
	if _, ok := p.KingSquare(color); !ok {
		panic(fmt.Sprintf("chess: no %s king on the board", color))
	}
	if p.HasLegalMove(color) {
		return Ongoing
	}
	if p.InCheck(color) {
		return Checkmate
	}
	return Stalemate
}

// Outcome is the result of the game from the point of view of the side to
// move. Winner is empty unless the status is Checkmate.
type Outcome struct {
	Status Status `json:"status"`
	Winner Color  `json:"winner,omitempty"`
}

func (p *Position) Outcome() Outcome {
	s := p.Status(p.turn)
	o := Outcome{Status: s}
	if s == Checkmate {
		o.Winner = p.turn.Opposite()
	}
	return o
}
