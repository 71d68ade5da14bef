package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session is at its player cap")
	ErrInvalidConfig   = errors.New("invalid session configuration")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoPlayers      = errors.New("no players given")

	// Court errors
	ErrInvalidCourt    = errors.New("invalid court index")
	ErrCourtIncomplete = errors.New("court does not have four players")
	ErrInvalidTeam     = errors.New("winning team must be team1 or team2")
)
