package chess

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrEmptyOrigin = fmt.Errorf("%w: no piece at origin square", ErrIllegalMove)
	ErrWrongTurn   = fmt.Errorf("%w: piece does not belong to the side to move", ErrIllegalMove)
	ErrOffBoard    = fmt.Errorf("%w: square out of bounds", ErrIllegalMove)
	ErrInvalidFEN  = errors.New("invalid FEN")
)
