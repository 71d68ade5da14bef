package file

import (
	"time"

	"github.com/mcoot/openplay-go/internal/model"
)

// document is the on-disk shape of a session
type document struct {
	Code          string         `json:"code"`
	Players       []string       `json:"players"`
	Queue         []string       `json:"queue"`
	Courts        [][]string     `json:"courts"`
	Streaks       map[string]int `json:"streaks"`
	History       []historyEntry `json:"history"`
	CourtCount    int            `json:"court_count"`
	MaxPlayers    int            `json:"max_players"`
	AutoFill      bool           `json:"auto_fill"`
	OrganizerHash string         `json:"organizer_hash,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type historyEntry struct {
	Ordinal  int       `json:"ordinal"`
	Court    int       `json:"court"`
	TeamWon  string    `json:"team_won"`
	Winners  []string  `json:"winners"`
	Losers   []string  `json:"losers"`
	Lineup   []string  `json:"lineup"`
	PlayedAt time.Time `json:"played_at"`
}

func toDocument(session *model.Session) document {
	doc := document{
		Code:          string(session.Code),
		Players:       fromIDs(session.Players),
		Queue:         fromIDs(session.Queue),
		Courts:        make([][]string, len(session.Courts)),
		Streaks:       make(map[string]int, len(session.Streaks)),
		History:       make([]historyEntry, len(session.History)),
		CourtCount:    session.Config.CourtCount,
		MaxPlayers:    session.Config.MaxPlayers,
		AutoFill:      session.Config.AutoFill,
		OrganizerHash: session.OrganizerHash,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
	for i, court := range session.Courts {
		doc.Courts[i] = fromIDs(court)
	}
	for p, n := range session.Streaks {
		doc.Streaks[string(p)] = n
	}
	for i, m := range session.History {
		doc.History[i] = historyEntry{
			Ordinal:  m.Ordinal,
			Court:    m.Court,
			TeamWon:  string(m.WinningTeam),
			Winners:  fromIDs(m.Winners),
			Losers:   fromIDs(m.Losers),
			Lineup:   fromIDs(m.Lineup),
			PlayedAt: m.PlayedAt,
		}
	}
	return doc
}

func (d document) toSession() *model.Session {
	session := &model.Session{
		Code: model.SessionCode(d.Code),
		Config: model.SessionConfig{
			CourtCount: d.CourtCount,
			MaxPlayers: d.MaxPlayers,
			AutoFill:   d.AutoFill,
		},
		Players:       toIDs(d.Players),
		Queue:         toIDs(d.Queue),
		Courts:        make([]model.Court, len(d.Courts)),
		Streaks:       make(map[model.PlayerID]int, len(d.Streaks)),
		History:       make([]model.MatchRecord, len(d.History)),
		OrganizerHash: d.OrganizerHash,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for i, court := range d.Courts {
		session.Courts[i] = model.Court(toIDs(court))
	}
	// Older documents may predate court_count
	for len(session.Courts) < session.Config.CourtCount {
		session.Courts = append(session.Courts, model.Court{})
	}
	for p, n := range d.Streaks {
		session.Streaks[model.PlayerID(p)] = n
	}
	for i, h := range d.History {
		session.History[i] = model.MatchRecord{
			Ordinal:     h.Ordinal,
			Court:       h.Court,
			WinningTeam: model.Team(h.TeamWon),
			Winners:     toIDs(h.Winners),
			Losers:      toIDs(h.Losers),
			Lineup:      toIDs(h.Lineup),
			PlayedAt:    h.PlayedAt,
		}
	}
	return session
}

func fromIDs(ids []model.PlayerID) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = string(id)
	}
	return result
}

func toIDs(values []string) []model.PlayerID {
	result := make([]model.PlayerID, len(values))
	for i, v := range values {
		result[i] = model.PlayerID(v)
	}
	return result
}
