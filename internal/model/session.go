package model

import "time"

// SessionCode is a human-readable identifier for an open play session
type SessionCode string

// SessionConfig holds configurable settings for a session
type SessionConfig struct {
	CourtCount int  // Number of courts, at least 1
	MaxPlayers int  // Player cap, at least CourtSize
	AutoFill   bool // Refill every court after each result
}

// DefaultSessionConfig returns the default session configuration
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CourtCount: 3,
		MaxPlayers: 20,
		AutoFill:   false,
	}
}

// Validate checks the configuration bounds
func (c SessionConfig) Validate() error {
	if c.CourtCount < 1 || c.MaxPlayers < CourtSize {
		return ErrInvalidConfig
	}
	return nil
}

// Session is the full snapshot of one open play session
type Session struct {
	Code    SessionCode
	Config  SessionConfig
	Players []PlayerID // Registration order
	Queue   []PlayerID // Front is drawn first
	Courts  []Court
	Streaks map[PlayerID]int
	History []MatchRecord

	// OrganizerHash is the bcrypt hash of the organizer password, empty if none
	OrganizerHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an empty session with one empty court per configured court
func NewSession(code SessionCode, config SessionConfig, now time.Time) *Session {
	return &Session{
		Code:      code,
		Config:    config,
		Players:   []PlayerID{},
		Queue:     []PlayerID{},
		Courts:    make([]Court, config.CourtCount),
		Streaks:   make(map[PlayerID]int),
		History:   []MatchRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasPlayer returns true if the player is registered in the session
func (s *Session) HasPlayer(playerID PlayerID) bool {
	for _, p := range s.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	clone := *s
	clone.Players = append([]PlayerID{}, s.Players...)
	clone.Queue = append([]PlayerID{}, s.Queue...)
	clone.Courts = make([]Court, len(s.Courts))
	for i, c := range s.Courts {
		clone.Courts[i] = c.Clone()
	}
	clone.Streaks = make(map[PlayerID]int, len(s.Streaks))
	for p, n := range s.Streaks {
		clone.Streaks[p] = n
	}
	clone.History = make([]MatchRecord, len(s.History))
	for i, m := range s.History {
		m.Winners = append([]PlayerID{}, m.Winners...)
		m.Losers = append([]PlayerID{}, m.Losers...)
		m.Lineup = append([]PlayerID{}, m.Lineup...)
		clone.History[i] = m
	}
	return &clone
}
