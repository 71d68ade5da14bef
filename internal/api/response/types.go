package response

import (
	"time"

	"github.com/mcoot/openplay-go/internal/api/apierr"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/rotation"
	"github.com/mcoot/openplay-go/internal/services/auth"
)

// SessionConfig represents session configuration
type SessionConfig struct {
	CourtCount int  `json:"court_count"`
	MaxPlayers int  `json:"max_players"`
	AutoFill   bool `json:"auto_fill"`
}

// SessionConfigFromModel converts model.SessionConfig
func SessionConfigFromModel(c model.SessionConfig) SessionConfig {
	return SessionConfig{
		CourtCount: c.CourtCount,
		MaxPlayers: c.MaxPlayers,
		AutoFill:   c.AutoFill,
	}
}

// Court represents one court. Teams are only set when the court is complete.
type Court struct {
	Index   int      `json:"index"`
	State   string   `json:"state"`
	Players []string `json:"players"`
	Team1   []string `json:"team1,omitempty"`
	Team2   []string `json:"team2,omitempty"`
}

// CourtFromModel converts a model.Court
func CourtFromModel(index int, c model.Court) Court {
	return Court{
		Index:   index,
		State:   string(c.State()),
		Players: ids(c),
		Team1:   nilIfEmpty(ids(c.Players(model.Team1))),
		Team2:   nilIfEmpty(ids(c.Players(model.Team2))),
	}
}

// QueueEntry represents one waiting player
type QueueEntry struct {
	Position int    `json:"position"`
	PlayerID string `json:"player_id"`
	Streak   int    `json:"streak"`
}

// Player represents a registered player and where they are
type Player struct {
	ID     string `json:"id"`
	Streak int    `json:"streak"`
	Court  *int   `json:"court,omitempty"` // nil when waiting in the queue
}

// Match represents a match record
type Match struct {
	Ordinal     int       `json:"ordinal"`
	Court       int       `json:"court"`
	WinningTeam string    `json:"winning_team"`
	Winners     []string  `json:"winners"`
	Losers      []string  `json:"losers"`
	Lineup      []string  `json:"lineup"`
	PlayedAt    time.Time `json:"played_at"`
}

// MatchFromModel converts a model.MatchRecord
func MatchFromModel(m model.MatchRecord) Match {
	return Match{
		Ordinal:     m.Ordinal,
		Court:       m.Court,
		WinningTeam: string(m.WinningTeam),
		Winners:     ids(m.Winners),
		Losers:      ids(m.Losers),
		Lineup:      ids(m.Lineup),
		PlayedAt:    m.PlayedAt,
	}
}

// MatchesFromModel converts a list of match records
func MatchesFromModel(records []model.MatchRecord) []Match {
	result := make([]Match, len(records))
	for i, m := range records {
		result[i] = MatchFromModel(m)
	}
	return result
}

// Session represents the full view of a session
type Session struct {
	Code          string        `json:"code"`
	Config        SessionConfig `json:"config"`
	Players       []Player      `json:"players"`
	Queue         []QueueEntry  `json:"queue"`
	Courts        []Court       `json:"courts"`
	MatchesPlayed int           `json:"matches_played"`
	Protected     bool          `json:"protected"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	onCourt := make(map[model.PlayerID]int)
	courts := make([]Court, len(s.Courts))
	for i, c := range s.Courts {
		courts[i] = CourtFromModel(i, c)
		for _, p := range c {
			onCourt[p] = i
		}
	}

	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = Player{ID: string(p), Streak: s.Streaks[p]}
		if idx, ok := onCourt[p]; ok {
			players[i].Court = &idx
		}
	}

	return Session{
		Code:          string(s.Code),
		Config:        SessionConfigFromModel(s.Config),
		Players:       players,
		Queue:         QueueFromModel(s),
		Courts:        courts,
		MatchesPlayed: len(s.History),
		Protected:     s.OrganizerHash != "",
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// QueueFromModel converts the session queue, front first
func QueueFromModel(s *model.Session) []QueueEntry {
	queue := make([]QueueEntry, len(s.Queue))
	for i, p := range s.Queue {
		queue[i] = QueueEntry{Position: i + 1, PlayerID: string(p), Streak: s.Streaks[p]}
	}
	return queue
}

// Token is the response for endpoints that issue an organizer token
type Token struct {
	Token       string    `json:"token"`
	SessionCode string    `json:"session_code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenFromGrant converts an auth.Grant
func TokenFromGrant(g *auth.Grant) Token {
	return Token{
		Token:       g.Token,
		SessionCode: string(g.SessionCode),
		ExpiresAt:   g.ExpiresAt,
	}
}

// CreateSessionResponse is the response for creating a session
type CreateSessionResponse struct {
	Session Session          `json:"session"`
	Token   Token            `json:"token"`
	Warning *apierr.APIError `json:"warning,omitempty"`
}

// SessionList is the response for listing sessions
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// AddPlayersResponse is the response for adding players
type AddPlayersResponse struct {
	Added   []string         `json:"added"`
	Warning *apierr.APIError `json:"warning,omitempty"`
	Session Session          `json:"session"`
}

// QueueResponse is the response for the queue endpoint
type QueueResponse struct {
	Queue []QueueEntry `json:"queue"`
}

// HistoryResponse is the response for the history endpoint
type HistoryResponse struct {
	Matches []Match `json:"matches"`
}

// ResultResponse is the response for reporting a single result
type ResultResponse struct {
	Match   Match   `json:"match"`
	Session Session `json:"session"`
}

// Outcome is one court's result in a bulk update
type Outcome struct {
	Court int              `json:"court"`
	Team  string           `json:"team"`
	Match *Match           `json:"match,omitempty"`
	Error *apierr.APIError `json:"error,omitempty"`
}

// OutcomesFromRotation converts pending outcomes
func OutcomesFromRotation(outcomes []rotation.PendingOutcome) []Outcome {
	result := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		result[i] = Outcome{Court: o.Court, Team: string(o.Team)}
		if o.Err != nil {
			_, apiErr := apierr.Describe(o.Err)
			result[i].Error = &apiErr
			continue
		}
		m := MatchFromModel(*o.Record)
		result[i].Match = &m
	}
	return result
}

// UpdateAllResponse is the response for resolving every selected court
type UpdateAllResponse struct {
	Outcomes []Outcome `json:"outcomes"`
	Session  Session   `json:"session"`
}

func ids(players []model.PlayerID) []string {
	result := make([]string, len(players))
	for i, p := range players {
		result[i] = string(p)
	}
	return result
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
