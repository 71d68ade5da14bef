package model

import "strings"

// Team identifies one side of a court
type Team string

const (
	TeamNone Team = ""      // No winner selected
	Team1    Team = "team1" // Court positions 0-1
	Team2    Team = "team2" // Court positions 2-3
)

// IsValid returns true for Team1 and Team2
func (t Team) IsValid() bool {
	return t == Team1 || t == Team2
}

// Other returns the opposing team, or TeamNone for an invalid team
func (t Team) Other() Team {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	default:
		return TeamNone
	}
}

// ParseTeam accepts "team1", "Team 1", "1" and the equivalents for team 2
func ParseTeam(raw string) (Team, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "team1", "1":
		return Team1, nil
	case "team2", "2":
		return Team2, nil
	default:
		return TeamNone, ErrInvalidTeam
	}
}
