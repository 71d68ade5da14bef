package model

import "time"

// MatchRecord is an immutable log entry of one resolved court result
type MatchRecord struct {
	Ordinal     int // 1-based position in the session history
	Court       int // 0-indexed court
	WinningTeam Team
	Winners     []PlayerID
	Losers      []PlayerID
	Lineup      []PlayerID // Court order before the rebuild
	PlayedAt    time.Time
}

// Players returns all four players of the match
func (m *MatchRecord) Players() []PlayerID {
	if len(m.Lineup) == CourtSize {
		result := make([]PlayerID, CourtSize)
		copy(result, m.Lineup)
		return result
	}
	result := make([]PlayerID, 0, len(m.Winners)+len(m.Losers))
	result = append(result, m.Winners...)
	result = append(result, m.Losers...)
	return result
}
