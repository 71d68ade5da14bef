package rotation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mcoot/openplay-go/internal/dependencies/clock"
	"github.com/mcoot/openplay-go/internal/dependencies/random"
	"github.com/mcoot/openplay-go/internal/model"
)

// MaxStreak is the number of consecutive wins after which a winner must
// rotate off the court on their next win
const MaxStreak = 2

// ErrInvariantViolation is returned by CheckInvariants when a player is
// missing, duplicated, or placed without being registered
var ErrInvariantViolation = errors.New("rotation invariant violated")

// Engine applies rotation decisions to a session snapshot. It mutates the
// session in place and performs no I/O; callers serialise access.
type Engine struct {
	session  *model.Session
	registry *Registry
	history  *History
	clock    clock.Clock
	random   random.Random
}

// PendingOutcome is the result of resolving one court's pending selection
type PendingOutcome struct {
	Court  int
	Team   model.Team
	Record *model.MatchRecord // nil if the result was rejected
	Err    error
}

// New creates an engine over the given session
func New(session *model.Session, clock clock.Clock, random random.Random) *Engine {
	if session.Streaks == nil {
		session.Streaks = make(map[model.PlayerID]int)
	}
	return &Engine{
		session:  session,
		registry: NewRegistry(session.Streaks),
		history:  NewHistory(&session.History),
		clock:    clock,
		random:   random,
	}
}

// Session returns the session the engine is operating on
func (e *Engine) Session() *model.Session {
	return e.session
}

// Registry returns the streak registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// History returns the match history
func (e *Engine) History() *History {
	return e.history
}

// InitializeQueue gathers every player off the courts, resets all streaks,
// and sets the queue to a random permutation of the registered players
func (e *Engine) InitializeQueue() {
	for i := range e.session.Courts {
		e.session.Courts[i] = model.Court{}
	}

	queue := make([]model.PlayerID, len(e.session.Players))
	copy(queue, e.session.Players)
	random.Shuffle(e.random, queue)
	e.session.Queue = queue

	for _, p := range e.session.Players {
		e.registry.RecordReset(p)
	}
}

// RefillCourt fills an incomplete court from the queue. Players on the court
// at or above MaxStreak are rotated to the queue first. A complete court is
// left as is, and an exhausted queue leaves the court short.
func (e *Engine) RefillCourt(courtIdx int) error {
	if !e.validCourt(courtIdx) {
		return model.ErrInvalidCourt
	}

	court := e.session.Courts[courtIdx]
	if court.IsComplete() {
		return nil
	}

	staying := make([]model.PlayerID, 0, model.CourtSize)
	for _, p := range court {
		if e.registry.StreakOf(p) < MaxStreak {
			staying = append(staying, p)
			continue
		}
		e.registry.RecordReset(p)
		e.enqueue(p)
	}

	e.session.Courts[courtIdx], e.session.Queue = fill(staying, e.session.Queue, e.history)
	return nil
}

// RefillAll refills every court in index order, so lower courts draw first
func (e *Engine) RefillAll() {
	for i := range e.session.Courts {
		_ = e.RefillCourt(i)
	}
}

// ResolveResult applies a court result: winners under MaxStreak stay and
// gain a win, everyone else goes to the back of the queue with their streak
// reset, the court is refilled around the staying winners, and the match is
// appended to history. Rejected calls leave the session unchanged.
func (e *Engine) ResolveResult(courtIdx int, team model.Team) (model.MatchRecord, error) {
	if !e.validCourt(courtIdx) {
		return model.MatchRecord{}, model.ErrInvalidCourt
	}
	court := e.session.Courts[courtIdx]
	if !court.IsComplete() {
		return model.MatchRecord{}, model.ErrCourtIncomplete
	}
	if !team.IsValid() {
		return model.MatchRecord{}, model.ErrInvalidTeam
	}

	lineup := court.Clone()
	winners := court.Players(team)
	losers := court.Players(team.Other())

	staying := make([]model.PlayerID, 0, model.CourtSize)
	for _, w := range winners {
		if e.registry.StreakOf(w) < MaxStreak {
			e.registry.RecordWin(w)
			staying = append(staying, w)
			continue
		}
		e.registry.RecordReset(w)
		e.enqueue(w)
	}
	for _, l := range losers {
		e.registry.RecordReset(l)
		e.enqueue(l)
	}

	e.session.Courts[courtIdx], e.session.Queue = fill(staying, e.session.Queue, e.history)

	record := model.MatchRecord{
		Ordinal:     e.history.Len() + 1,
		Court:       courtIdx,
		WinningTeam: team,
		Winners:     winners,
		Losers:      losers,
		Lineup:      []model.PlayerID(lineup),
		PlayedAt:    e.clock.Now(),
	}
	e.history.Append(record)

	return record, nil
}

// ResolveAllPending resolves every court with a selected winner, in court
// index order. Courts with TeamNone are skipped.
func (e *Engine) ResolveAllPending(pending map[int]model.Team) []PendingOutcome {
	courts := make([]int, 0, len(pending))
	for idx, team := range pending {
		if team == model.TeamNone {
			continue
		}
		courts = append(courts, idx)
	}
	sort.Ints(courts)

	outcomes := make([]PendingOutcome, 0, len(courts))
	for _, idx := range courts {
		team := pending[idx]
		outcome := PendingOutcome{Court: idx, Team: team}
		record, err := e.ResolveResult(idx, team)
		if err != nil {
			outcome.Err = err
		} else {
			outcome.Record = &record
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// AddPlayers registers new players and appends them to the back of the queue.
// Blank and already registered names are skipped. Names beyond the player cap
// are dropped and ErrSessionFull is returned alongside the players added.
func (e *Engine) AddPlayers(names []string) ([]model.PlayerID, error) {
	if len(names) == 0 {
		return nil, model.ErrNoPlayers
	}

	added := []model.PlayerID{}
	capped := false
	for _, raw := range names {
		id := model.NormalizePlayerID(raw)
		if id == "" || e.session.HasPlayer(id) {
			continue
		}
		if len(e.session.Players) >= e.session.Config.MaxPlayers {
			capped = true
			continue
		}
		e.session.Players = append(e.session.Players, id)
		e.registry.RecordReset(id)
		e.enqueue(id)
		added = append(added, id)
	}

	if capped {
		return added, model.ErrSessionFull
	}
	return added, nil
}

// RemovePlayer removes a player from the session entirely. A court the
// player was on drops back to the filling state.
func (e *Engine) RemovePlayer(playerID model.PlayerID) error {
	if !e.session.HasPlayer(playerID) {
		return model.ErrPlayerNotFound
	}

	e.session.Players = without(e.session.Players, playerID)
	e.session.Queue = without(e.session.Queue, playerID)
	for i, court := range e.session.Courts {
		if court.Contains(playerID) {
			e.session.Courts[i] = model.Court(without(court, playerID))
		}
	}
	e.registry.Forget(playerID)
	return nil
}

// ResetCourt sends every player on the court to the back of the queue with
// their streak reset and empties the court
func (e *Engine) ResetCourt(courtIdx int) error {
	if !e.validCourt(courtIdx) {
		return model.ErrInvalidCourt
	}
	for _, p := range e.session.Courts[courtIdx] {
		e.registry.RecordReset(p)
		e.enqueue(p)
	}
	e.session.Courts[courtIdx] = model.Court{}
	return nil
}

// Resize changes the number of courts. Dropped courts send their players to
// the back of the queue; new courts start empty.
func (e *Engine) Resize(courtCount int) error {
	if courtCount < 1 {
		return model.ErrInvalidConfig
	}

	courts := e.session.Courts
	if courtCount < len(courts) {
		for _, court := range courts[courtCount:] {
			for _, p := range court {
				e.registry.RecordReset(p)
				e.enqueue(p)
			}
		}
		courts = courts[:courtCount]
	}
	for len(courts) < courtCount {
		courts = append(courts, model.Court{})
	}

	e.session.Courts = courts
	e.session.Config.CourtCount = courtCount
	return nil
}

// Reset clears all players, courts, streaks and history
func (e *Engine) Reset() {
	e.session.Players = []model.PlayerID{}
	e.session.Queue = []model.PlayerID{}
	e.session.Courts = make([]model.Court, len(e.session.Courts))
	for i := range e.session.Courts {
		e.session.Courts[i] = model.Court{}
	}
	e.session.Streaks = make(map[model.PlayerID]int)
	e.session.History = []model.MatchRecord{}

	e.registry = NewRegistry(e.session.Streaks)
	e.history = NewHistory(&e.session.History)
}

// Queue returns a copy of the queue, front first
func (e *Engine) Queue() []model.PlayerID {
	result := make([]model.PlayerID, len(e.session.Queue))
	copy(result, e.session.Queue)
	return result
}

// Court returns a copy of the players on a court
func (e *Engine) Court(courtIdx int) (model.Court, error) {
	if !e.validCourt(courtIdx) {
		return nil, model.ErrInvalidCourt
	}
	return e.session.Courts[courtIdx].Clone(), nil
}

// Courts returns a copy of every court
func (e *Engine) Courts() []model.Court {
	result := make([]model.Court, len(e.session.Courts))
	for i, c := range e.session.Courts {
		result[i] = c.Clone()
	}
	return result
}

// RecentHistory returns up to n of the latest match records, oldest first
func (e *Engine) RecentHistory(n int) []model.MatchRecord {
	return e.history.Recent(n)
}

// Streak returns the player's current streak
func (e *Engine) Streak(playerID model.PlayerID) int {
	return e.registry.StreakOf(playerID)
}

// Repeats returns the repeat-pairing count for a group of players
func (e *Engine) Repeats(players []model.PlayerID) int {
	return e.history.Repeats(players)
}

// CheckInvariants verifies that every registered player is in exactly one of
// the queue or a court, and that nothing else is placed
func (e *Engine) CheckInvariants() error {
	seen := make(map[model.PlayerID]int, len(e.session.Players))
	for _, p := range e.session.Players {
		seen[p] = 0
	}

	place := func(p model.PlayerID) error {
		if _, ok := seen[p]; !ok {
			return fmt.Errorf("%w: unregistered player %q placed", ErrInvariantViolation, p)
		}
		seen[p]++
		return nil
	}

	for _, p := range e.session.Queue {
		if err := place(p); err != nil {
			return err
		}
	}
	for i, court := range e.session.Courts {
		if len(court) > model.CourtSize {
			return fmt.Errorf("%w: court %d holds %d players", ErrInvariantViolation, i, len(court))
		}
		for _, p := range court {
			if err := place(p); err != nil {
				return err
			}
		}
	}

	for _, p := range e.session.Players {
		if seen[p] != 1 {
			return fmt.Errorf("%w: player %q placed %d times", ErrInvariantViolation, p, seen[p])
		}
	}
	return nil
}

func (e *Engine) validCourt(courtIdx int) bool {
	return courtIdx >= 0 && courtIdx < len(e.session.Courts)
}

// enqueue appends a player to the back of the queue unless already queued
func (e *Engine) enqueue(playerID model.PlayerID) {
	for _, p := range e.session.Queue {
		if p == playerID {
			return
		}
	}
	e.session.Queue = append(e.session.Queue, playerID)
}

func without(players []model.PlayerID, playerID model.PlayerID) []model.PlayerID {
	result := make([]model.PlayerID, 0, len(players))
	for _, p := range players {
		if p != playerID {
			result = append(result, p)
		}
	}
	return result
}
