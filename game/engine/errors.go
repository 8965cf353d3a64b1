package engine

import "errors"

// Command errors. Every rejected command leaves the state untouched; callers
// distinguish "illegal" from "already in target state" via these kinds.
var (
	ErrWrongPhase         = errors.New("command not valid in current phase")
	ErrNotOwner           = errors.New("not the acting player's turn")
	ErrNoSuchToken        = errors.New("no such token")
	ErrNoSuchPlayer       = errors.New("no such player")
	ErrPowerUpAlreadyUsed = errors.New("a power-up was already activated this turn")
	ErrInvalidTarget      = errors.New("invalid or missing target")
	ErrInventoryFull      = errors.New("power-up inventory is full")
	ErrTokenFrozen        = errors.New("token is frozen")
	ErrNoDiceValue        = errors.New("no pending dice value")
	ErrIllegalMove        = errors.New("move not legal for this roll")
	ErrSelectionPending   = errors.New("a target selection is pending")
	ErrInvalidConfig      = errors.New("invalid board configuration")
)
