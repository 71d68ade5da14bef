package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/openplay-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func newSession(code model.SessionCode) *model.Session {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := model.NewSession(code, model.DefaultSessionConfig(), now)
	session.Players = []model.PlayerID{"A", "B", "C", "D", "E"}
	session.Courts[0] = model.Court{"A", "B", "C", "D"}
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
	s.Equal(session.Courts[0], retrieved.Courts[0])
	s.Len(retrieved.Courts, 3)
	s.Equal(session.Streaks, retrieved.Streaks)
	s.Require().Len(retrieved.History, 1)
	s.Equal(model.Team1, retrieved.History[0].WinningTeam)
	s.Equal(session.History[0].Lineup, retrieved.History[0].Lineup)
	s.True(session.History[0].PlayedAt.Equal(retrieved.History[0].PlayedAt))
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionTTL() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	ttl := s.mini.TTL(sessionKey("ABCD"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	err := s.storage.DeleteSession(s.ctx, "ABCD")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "ABCD")
	s.ErrorIs(err, model.ErrSessionNotFound)

	s.False(s.mini.Exists(sessionIndexKey()))
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	exists, err = s.storage.SessionExists(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListSessions() {
	_ = s.storage.SaveSession(s.ctx, newSession("WXYZ"))
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	codes, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionCode{"ABCD", "WXYZ"}, codes)
}

func (s *StorageSuite) TestListSessionsPrunesExpired() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))
	_ = s.storage.SaveSession(s.ctx, newSession("WXYZ"))

	s.mini.FastForward(2 * time.Hour)
	_ = s.storage.SaveSession(s.ctx, newSession("LIVE"))

	codes, err := s.storage.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionCode{"LIVE"}, codes)

	members, err := s.mini.Members(sessionIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"LIVE"}, members)
}

func (s *StorageSuite) TestKeyFormat() {
	s.Equal("openplay:session:ABCD", sessionKey("ABCD"))
	s.Equal("openplay:idx:sessions", sessionIndexKey())
}
