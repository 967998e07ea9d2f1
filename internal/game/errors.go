package game

import "errors"

// Game errors. These signal a violated precondition from the caller; player
// choices that are simply not allowed are reported as a false result instead.
var (
	ErrOutOfBounds           = errors.New("coordinate outside the arena")
	ErrInvalidArenaSize      = errors.New("invalid arena size")
	ErrIndexOutOfRange       = errors.New("player index out of range")
	ErrAlreadyDistributed    = errors.New("territories already distributed")
	ErrNoPlayers             = errors.New("no players registered")
	ErrInvalidTerritoryCount = errors.New("invalid territories per player")
	ErrUnknownMode           = errors.New("unknown distribution mode")
	ErrRegistrationClosed    = errors.New("players cannot join after distribution")
	ErrNilPlayer             = errors.New("player is nil")
	ErrPlayerRegistered      = errors.New("player already registered")
	ErrNoTerritories         = errors.New("player owns no territories")
)
