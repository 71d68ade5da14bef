package rotation

import "github.com/mcoot/openplay-go/internal/model"

// Registry tracks consecutive-win streaks for players.
// Unseen players have a streak of 0.
type Registry struct {
	streaks map[model.PlayerID]int
}

// NewRegistry creates a registry backed by the given streak map
func NewRegistry(streaks map[model.PlayerID]int) *Registry {
	if streaks == nil {
		streaks = make(map[model.PlayerID]int)
	}
	return &Registry{streaks: streaks}
}

// StreakOf returns the player's current streak
func (r *Registry) StreakOf(playerID model.PlayerID) int {
	return r.streaks[playerID]
}

// RecordWin increments the player's streak
func (r *Registry) RecordWin(playerID model.PlayerID) {
	r.streaks[playerID]++
}

// RecordReset sets the player's streak back to 0
func (r *Registry) RecordReset(playerID model.PlayerID) {
	r.streaks[playerID] = 0
}

// Forget removes the player from the registry
func (r *Registry) Forget(playerID model.PlayerID) {
	delete(r.streaks, playerID)
}
