package model

import "errors"

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrNoPiece       = errors.New("no piece at from square")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("invalid move, not legal")
	ErrGameOver      = errors.New("game is over")
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
)
