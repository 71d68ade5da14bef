package model

import "strings"

// PlayerID uniquely identifies a player within a session
type PlayerID string

// NormalizePlayerID trims surrounding whitespace from a raw player name
func NormalizePlayerID(raw string) PlayerID {
	return PlayerID(strings.TrimSpace(raw))
}
