package game

import "errors"

var (
	// ErrNotFound is returned when a player, card or clone counterpart cannot be resolved.
	ErrNotFound = errors.New("not found")
	// ErrIllegalAction is returned when the rules do not allow the requested action.
	ErrIllegalAction = errors.New("illegal action")
)
