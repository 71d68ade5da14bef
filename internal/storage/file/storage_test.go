package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/openplay-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	dir     string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()
	store, err := New(s.dir)
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func newSession(code model.SessionCode) *model.Session {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	config := model.DefaultSessionConfig()
	config.CourtCount = 2
	session := model.NewSession(code, config, now)
	session.Players = []model.PlayerID{"A", "B", "C", "D", "E"}
	session.Courts[0] = model.Court{"A", "B", "C", "D"}
	session.Courts[1] = model.Court{}
	session.Queue = []model.PlayerID{"E"}
	session.Streaks = map[model.PlayerID]int{"A": 1, "B": 1, "C": 0, "D": 0, "E": 0}
	session.History = []model.MatchRecord{{
		Ordinal:     1,
		Court:       0,
		WinningTeam: model.Team1,
		Winners:     []model.PlayerID{"A", "B"},
		Losers:      []model.PlayerID{"C", "E"},
		Lineup:      []model.PlayerID{"A", "B", "C", "E"},
		PlayedAt:    now,
	}}
	return session
}

func (s *StorageSuite) TestSaveAndGetSession() {
	session := newSession("ABCD")

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal(session.Code, retrieved.Code)
	s.Equal(session.Config, retrieved.Config)
	s.Equal(session.Players, retrieved.Players)
	s.Equal(session.Queue, retrieved.Queue)
	s.Equal(session.Courts, retrieved.Courts)
	s.Equal(session.Streaks, retrieved.Streaks)
	s.Require().Len(retrieved.History, 1)
	s.Equal(session.History[0].Winners, retrieved.History[0].Winners)
	s.Equal(model.Team1, retrieved.History[0].WinningTeam)
}

func (s *StorageSuite) TestDocumentShape() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	data, err := os.ReadFile(filepath.Join(s.dir, "ABCD.json"))
	s.Require().NoError(err)
	s.Contains(string(data), `"court_count": 2`)
	s.Contains(string(data), `"max_players": 20`)
	s.Contains(string(data), `"auto_fill": false`)
	s.Contains(string(data), `"team_won": "team1"`)
}

func (s *StorageSuite) TestSaveLeavesNoTempFiles() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)

	_, err = s.storage.GetSession(s.ctx, "../etc")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestGetSessionCorrupt() {
	err := os.WriteFile(filepath.Join(s.dir, "BAD.json"), []byte("{bad json"), 0o644)
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "BAD")
	s.Error(err)
	s.NotErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestMissingCourtsArePadded() {
	doc := `{"code":"OLD","players":["A"],"queue":["A"],"court_count":3,"max_players":20}`
	err := os.WriteFile(filepath.Join(s.dir, "OLD.json"), []byte(doc), 0o644)
	s.Require().NoError(err)

	session, err := s.storage.GetSession(s.ctx, "OLD")
	s.Require().NoError(err)
	s.Len(session.Courts, 3)
	s.NotNil(session.Streaks)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "ABCD"))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "ABCD"))

	exists, err := s.storage.SessionExists(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListSessions() {
	_ = s.storage.SaveSession(s.ctx, newSession("WXYZ"))
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))
	_ = os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("x"), 0o644)

	codes, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionCode{"ABCD", "WXYZ"}, codes)
}

func (s *StorageSuite) TestNewRequiresDirectory() {
	_, err := New("")
	s.Error(err)
}
