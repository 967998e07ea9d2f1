package session

import "errors"

// Session errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotStarted      = errors.New("session not started")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrEmptyName       = errors.New("name is required")
)
