package apperror

import "errors"

var (
	ErrOutOfRange        = errors.New("coordinate out of range")
	ErrGameOver          = errors.New("game is already over")
	ErrIllegalMove       = errors.New("illegal move")
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidSnapshot   = errors.New("invalid game snapshot")
	ErrConcurrentUpdate  = errors.New("game was modified concurrently")
	ErrGameAlreadyExists = errors.New("game already exists")
)
