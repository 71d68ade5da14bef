package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/openplay-go/internal/dependencies/mocks"
	"github.com/mcoot/openplay-go/internal/model"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	random *mocks.MockRandom
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
}

// newEngine registers the players and queues them in registration order.
// The mock random returns 0 for every draw, which keeps the shuffle stable.
func (s *EngineSuite) newEngine(courts int, players ...string) *Engine {
	config := model.DefaultSessionConfig()
	config.CourtCount = courts
	session := model.NewSession("TEST", config, s.clock.Now())
	e := New(session, s.clock, s.random)
	if len(players) > 0 {
		_, err := e.AddPlayers(players)
		s.Require().NoError(err)
	}
	e.InitializeQueue()
	return e
}

func ids(names ...string) []model.PlayerID {
	result := make([]model.PlayerID, len(names))
	for i, n := range names {
		result[i] = model.PlayerID(n)
	}
	return result
}

func (s *EngineSuite) assertInvariants(e *Engine) {
	s.Require().NoError(e.CheckInvariants())
	for _, p := range e.Session().Players {
		s.LessOrEqual(e.Streak(p), MaxStreak)
	}
}

// Scenario tests

func (s *EngineSuite) TestInitialFill() {
	e := s.newEngine(1, "A", "B", "C", "D", "E", "F", "G", "H")

	s.Require().NoError(e.RefillCourt(0))

	s.Equal(model.Court(ids("A", "B", "C", "D")), e.Session().Courts[0])
	s.Equal(ids("E", "F", "G", "H"), e.Queue())
	s.assertInvariants(e)
}

func (s *EngineSuite) TestFirstResultKeepsWinners() {
	e := s.newEngine(1, "A", "B", "C", "D", "E", "F", "G", "H")
	s.Require().NoError(e.RefillCourt(0))

	record, err := e.ResolveResult(0, model.Team1)

	s.Require().NoError(err)
	s.Equal(1, e.Streak("A"))
	s.Equal(1, e.Streak("B"))
	s.Equal(0, e.Streak("C"))
	s.Equal(0, e.Streak("D"))
	s.Equal(model.Court(ids("A", "B", "E", "F")), e.Session().Courts[0])
	s.Equal(ids("G", "H", "C", "D"), e.Queue())

	s.Equal(1, record.Ordinal)
	s.Equal(0, record.Court)
	s.Equal(model.Team1, record.WinningTeam)
	s.Equal(ids("A", "B"), record.Winners)
	s.Equal(ids("C", "D"), record.Losers)
	s.Equal(ids("A", "B", "C", "D"), record.Lineup)
	s.Equal(s.clock.Now(), record.PlayedAt)
	s.Equal(1, e.History().Len())
	s.assertInvariants(e)
}

func (s *EngineSuite) TestWinnersRotateOffAfterMaxStreak() {
	e := s.newEngine(1, "A", "B", "C", "D", "E", "F", "G", "H")
	s.Require().NoError(e.RefillCourt(0))

	_, err := e.ResolveResult(0, model.Team1)
	s.Require().NoError(err)

	_, err = e.ResolveResult(0, model.Team1)
	s.Require().NoError(err)
	s.Equal(2, e.Streak("A"))
	s.Equal(2, e.Streak("B"))
	// G and H have never shared a court with A or B
	s.Equal(model.Court(ids("A", "B", "G", "H")), e.Session().Courts[0])
	s.Equal(ids("C", "D", "E", "F"), e.Queue())

	record, err := e.ResolveResult(0, model.Team1)
	s.Require().NoError(err)
	s.Equal(ids("A", "B"), record.Winners)
	s.Equal(0, e.Streak("A"))
	s.Equal(0, e.Streak("B"))
	s.NotContains(e.Session().Courts[0], model.PlayerID("A"))
	s.NotContains(e.Session().Courts[0], model.PlayerID("B"))
	s.Equal(model.Court(ids("C", "E", "G", "H")), e.Session().Courts[0])
	s.Equal(ids("D", "F", "A", "B"), e.Queue())
	s.Equal(3, e.History().Len())
	s.assertInvariants(e)
}

func (s *EngineSuite) TestResultOnIncompleteCourtIsRejected() {
	e := s.newEngine(1, "A", "B")
	s.Require().NoError(e.RefillCourt(0))
	s.Require().Equal(model.Court(ids("A", "B")), e.Session().Courts[0])
	before := e.Session().Clone()

	_, err := e.ResolveResult(0, model.Team1)

	s.ErrorIs(err, model.ErrCourtIncomplete)
	s.Equal(before, e.Session())
}

// Precondition tests

func (s *EngineSuite) TestResultOnInvalidCourt() {
	e := s.newEngine(1, "A", "B", "C", "D")
	s.Require().NoError(e.RefillCourt(0))

	_, err := e.ResolveResult(1, model.Team1)
	s.ErrorIs(err, model.ErrInvalidCourt)

	_, err = e.ResolveResult(-1, model.Team1)
	s.ErrorIs(err, model.ErrInvalidCourt)
}

func (s *EngineSuite) TestResultWithInvalidTeam() {
	e := s.newEngine(1, "A", "B", "C", "D")
	s.Require().NoError(e.RefillCourt(0))
	before := e.Session().Clone()

	_, err := e.ResolveResult(0, model.TeamNone)

	s.ErrorIs(err, model.ErrInvalidTeam)
	s.Equal(before, e.Session())
}

func (s *EngineSuite) TestRefillInvalidCourt() {
	e := s.newEngine(2, "A")

	s.ErrorIs(e.RefillCourt(2), model.ErrInvalidCourt)
}

// Refill tests

func (s *EngineSuite) TestRefillWithEmptyQueueLeavesCourtShort() {
	e := s.newEngine(2, "A", "B", "C", "D", "E", "F")

	e.RefillAll()

	s.Equal(model.Court(ids("A", "B", "C", "D")), e.Session().Courts[0])
	s.Equal(model.Court(ids("E", "F")), e.Session().Courts[1])
	s.Empty(e.Queue())
	s.Equal(model.CourtStateFilling, e.Session().Courts[1].State())
	s.assertInvariants(e)
}

func (s *EngineSuite) TestRefillAllIsIdempotent() {
	e := s.newEngine(2, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
	e.RefillAll()
	after := e.Session().Clone()

	e.RefillAll()

	s.Equal(after, e.Session())
}

func (s *EngineSuite) TestRefillLeavesCompleteCourtUntouched() {
	e := s.newEngine(1, "A", "B", "C", "D", "E")
	s.Require().NoError(e.RefillCourt(0))
	e.Session().Streaks["A"] = 2

	s.Require().NoError(e.RefillCourt(0))

	s.Equal(model.Court(ids("A", "B", "C", "D")), e.Session().Courts[0])
	s.Equal(2, e.Streak("A"))
}

func (s *EngineSuite) TestRefillRotatesCappedPlayersOffIncompleteCourt() {
	session := model.NewSession("TEST", model.DefaultSessionConfig(), s.clock.Now())
	session.Players = ids("A", "B", "C", "D", "E")
	session.Courts = []model.Court{ids("A", "B"), {}, {}}
	session.Queue = ids("C", "D", "E")
	session.Streaks = map[model.PlayerID]int{"A": 2, "B": 1}
	e := New(session, s.clock, s.random)

	s.Require().NoError(e.RefillCourt(0))

	s.Equal(model.Court(ids("B", "C", "D", "E")), session.Courts[0])
	s.Equal(ids("A"), e.Queue())
	s.Equal(0, e.Streak("A"))
	s.Equal(1, e.Streak("B"))
	s.assertInvariants(e)
}

func (s *EngineSuite) TestRefillAvoidsRepeatPairings() {
	e := s.newEngine(1, "A", "B", "C", "D", "E", "F")
	e.Session().History = append(e.Session().History, record("A", "B", "C", "D"))
	e = New(e.Session(), s.clock, s.random)
	e.Session().Queue = ids("A", "B", "C", "E", "F", "D")

	s.Require().NoError(e.RefillCourt(0))

	// A first, then the fewest shared matches: E, F, then B over C and D
	s.Equal(model.Court(ids("A", "E", "F", "B")), e.Session().Courts[0])
	s.Equal(ids("C", "D"), e.Queue())
}

// Pending resolution tests

func (s *EngineSuite) TestResolveAllPending() {
	e := s.newEngine(2, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
	e.RefillAll()
	s.Require().Equal(ids("I", "J"), e.Queue())

	outcomes := e.ResolveAllPending(map[int]model.Team{
		1: model.Team2,
		0: model.Team1,
		2: model.Team1,
		3: model.TeamNone,
	})

	s.Require().Len(outcomes, 3)
	s.Equal(0, outcomes[0].Court)
	s.Require().NoError(outcomes[0].Err)
	s.Equal(1, outcomes[0].Record.Ordinal)
	s.Equal(1, outcomes[1].Court)
	s.Require().NoError(outcomes[1].Err)
	s.Equal(2, outcomes[1].Record.Ordinal)
	s.Equal(ids("G", "H"), outcomes[1].Record.Winners)
	s.Equal(2, outcomes[2].Court)
	s.ErrorIs(outcomes[2].Err, model.ErrInvalidCourt)
	s.Nil(outcomes[2].Record)

	s.Equal(model.Court(ids("A", "B", "I", "J")), e.Session().Courts[0])
	s.Equal(model.Court(ids("G", "H", "C", "E")), e.Session().Courts[1])
	s.Equal(ids("D", "F"), e.Queue())
	s.assertInvariants(e)
}

func (s *EngineSuite) TestResolveAllPendingWithNothingSelected() {
	e := s.newEngine(1, "A", "B", "C", "D")
	e.RefillAll()

	outcomes := e.ResolveAllPending(map[int]model.Team{0: model.TeamNone})

	s.Empty(outcomes)
	s.Equal(0, e.History().Len())
}

// Property tests

func (s *EngineSuite) TestInvariantsHoldAcrossManyResults() {
	e := s.newEngine(2, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K")
	e.RefillAll()

	for i := 0; i < 40; i++ {
		team := model.Team1
		if i%3 == 0 {
			team = model.Team2
		}
		_, err := e.ResolveResult(i%2, team)
		s.Require().NoError(err)
		s.assertInvariants(e)
		s.True(e.Session().Courts[i%2].IsComplete())
	}
	s.Equal(40, e.History().Len())
	s.Len(e.RecentHistory(5), 5)
	s.Equal(40, e.RecentHistory(5)[4].Ordinal)
}

func (s *EngineSuite) TestCheckInvariantsDetectsDuplicates() {
	e := s.newEngine(1, "A", "B", "C", "D")
	e.Session().Queue = append(e.Session().Queue, "A")

	s.ErrorIs(e.CheckInvariants(), ErrInvariantViolation)
}

func (s *EngineSuite) TestCheckInvariantsDetectsUnregisteredPlayer() {
	e := s.newEngine(1, "A", "B")
	e.Session().Courts[0] = model.Court(ids("Z"))

	s.ErrorIs(e.CheckInvariants(), ErrInvariantViolation)
}

// Queue initialisation tests

func (s *EngineSuite) TestInitializeQueueShuffles() {
	e := s.newEngine(1, "A", "B", "C")
	s.random.QueueIntn(2, 0)

	e.InitializeQueue()

	s.Equal(ids("C", "B", "A"), e.Queue())
}

func (s *EngineSuite) TestInitializeQueueClearsCourtsAndStreaks() {
	e := s.newEngine(1, "A", "B", "C", "D", "E")
	e.RefillAll()
	_, err := e.ResolveResult(0, model.Team1)
	s.Require().NoError(err)

	e.InitializeQueue()

	s.Empty(e.Session().Courts[0])
	s.Len(e.Queue(), 5)
	s.Equal(0, e.Streak("A"))
	s.Equal(1, e.History().Len())
	s.assertInvariants(e)
}

// Player management tests

func (s *EngineSuite) TestAddPlayersSkipsBlanksAndDuplicates() {
	e := s.newEngine(1, "A")

	added, err := e.AddPlayers([]string{" B ", "", "A", "B", "C"})

	s.Require().NoError(err)
	s.Equal(ids("B", "C"), added)
	s.Equal(ids("A", "B", "C"), e.Session().Players)
	s.Equal(ids("A", "B", "C"), e.Queue())
}

func (s *EngineSuite) TestAddPlayersEnforcesCap() {
	e := s.newEngine(1)
	e.Session().Config.MaxPlayers = 5

	added, err := e.AddPlayers([]string{"A", "B", "C", "D", "E", "F", "G"})

	s.ErrorIs(err, model.ErrSessionFull)
	s.Equal(ids("A", "B", "C", "D", "E"), added)
	s.Len(e.Session().Players, 5)
	s.assertInvariants(e)
}

func (s *EngineSuite) TestAddPlayersRequiresNames() {
	e := s.newEngine(1)

	_, err := e.AddPlayers(nil)

	s.ErrorIs(err, model.ErrNoPlayers)
}

func (s *EngineSuite) TestRemovePlayerFromCourt() {
	e := s.newEngine(1, "A", "B", "C", "D", "E")
	e.RefillAll()
	e.Session().Streaks["B"] = 1

	s.Require().NoError(e.RemovePlayer("B"))

	s.Equal(model.Court(ids("A", "C", "D")), e.Session().Courts[0])
	s.False(e.Session().HasPlayer("B"))
	s.NotContains(e.Session().Streaks, model.PlayerID("B"))
	s.assertInvariants(e)
}

func (s *EngineSuite) TestRemoveUnknownPlayer() {
	e := s.newEngine(1, "A")

	s.ErrorIs(e.RemovePlayer("Z"), model.ErrPlayerNotFound)
}

func (s *EngineSuite) TestResetCourt() {
	e := s.newEngine(1, "A", "B", "C", "D", "E")
	e.RefillAll()
	e.Session().Streaks["A"] = 2

	s.Require().NoError(e.ResetCourt(0))

	s.Empty(e.Session().Courts[0])
	s.Equal(ids("E", "A", "B", "C", "D"), e.Queue())
	s.Equal(0, e.Streak("A"))
	s.assertInvariants(e)
}

func (s *EngineSuite) TestResize() {
	e := s.newEngine(2, "A", "B", "C", "D", "E", "F", "G", "H", "I")
	e.RefillAll()

	s.Require().NoError(e.Resize(1))
	s.Len(e.Session().Courts, 1)
	s.Equal(1, e.Session().Config.CourtCount)
	s.Equal(ids("I", "E", "F", "G", "H"), e.Queue())
	s.assertInvariants(e)

	s.Require().NoError(e.Resize(3))
	s.Len(e.Session().Courts, 3)
	s.Empty(e.Session().Courts[2])
	s.assertInvariants(e)

	s.ErrorIs(e.Resize(0), model.ErrInvalidConfig)
}

func (s *EngineSuite) TestReset() {
	e := s.newEngine(1, "A", "B", "C", "D")
	e.RefillAll()
	_, err := e.ResolveResult(0, model.Team2)
	s.Require().NoError(err)

	e.Reset()

	s.Empty(e.Session().Players)
	s.Empty(e.Queue())
	s.Len(e.Session().Courts, 1)
	s.Equal(0, e.History().Len())
	s.Equal(0, e.History().PairCount("A", "B"))
}
