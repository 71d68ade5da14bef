package model

// CourtSize is the number of players on a playable court
const CourtSize = 4

// CourtState represents the fill state of a court
type CourtState string

const (
	CourtStateEmpty    CourtState = "empty"    // No players
	CourtStateFilling  CourtState = "filling"  // 1-3 players, not playable
	CourtStateComplete CourtState = "complete" // 4 players, playable
)

// Court holds the players currently assigned to a court.
// Positions 0-1 are Team 1 and positions 2-3 are Team 2.
type Court []PlayerID

// State returns the fill state of the court
func (c Court) State() CourtState {
	switch {
	case len(c) == 0:
		return CourtStateEmpty
	case len(c) < CourtSize:
		return CourtStateFilling
	default:
		return CourtStateComplete
	}
}

// IsComplete returns true if the court is playable
func (c Court) IsComplete() bool {
	return len(c) == CourtSize
}

// Players returns the two players of the given team, or nil if the court
// is incomplete or the team is invalid
func (c Court) Players(team Team) []PlayerID {
	if !c.IsComplete() {
		return nil
	}
	var side []PlayerID
	switch team {
	case Team1:
		side = c[:2]
	case Team2:
		side = c[2:]
	default:
		return nil
	}
	result := make([]PlayerID, len(side))
	copy(result, side)
	return result
}

// Contains returns true if the player is on this court
func (c Court) Contains(playerID PlayerID) bool {
	for _, p := range c {
		if p == playerID {
			return true
		}
	}
	return false
}

// Clone returns a copy of the court
func (c Court) Clone() Court {
	if c == nil {
		return nil
	}
	result := make(Court, len(c))
	copy(result, c)
	return result
}
