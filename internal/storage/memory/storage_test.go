package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/openplay-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newSession(code model.SessionCode) *model.Session {
	session := model.NewSession(code, model.DefaultSessionConfig(), time.Now())
	session.Players = []model.PlayerID{"Alice", "Bob"}
	session.Queue = []model.PlayerID{"Alice", "Bob"}
	session.Streaks["Alice"] = 0
	session.Streaks["Bob"] = 0
	return session
}

func (s *StorageSuite) TestSaveAndGetSession() {
	session := newSession("ABCD")

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal(session.Code, retrieved.Code)
	s.Equal(session.Players, retrieved.Players)
	s.Equal(session.Config, retrieved.Config)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSavedSessionIsIsolated() {
	session := newSession("ABCD")
	_ = s.storage.SaveSession(s.ctx, session)

	session.Queue = append(session.Queue, "Carol")
	session.Streaks["Alice"] = 2

	retrieved, err := s.storage.GetSession(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"Alice", "Bob"}, retrieved.Queue)
	s.Equal(0, retrieved.Streaks["Alice"])

	retrieved.Players[0] = "Mallory"
	again, err := s.storage.GetSession(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("Alice"), again.Players[0])
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, newSession("ABCD"))

	err := s.storage.DeleteSession(s.ctx, "ABCD")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "ABCD")
	s.ErrorIs(err, model.ErrSessionNotFound)
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
