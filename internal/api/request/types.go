package request

// CreateSessionRequest is the request body for creating a session.
// Omitted fields take the default configuration.
type CreateSessionRequest struct {
	CourtCount *int     `json:"court_count,omitempty"`
	MaxPlayers *int     `json:"max_players,omitempty"`
	AutoFill   bool     `json:"auto_fill,omitempty"`
	Password   string   `json:"password,omitempty"`
	Players    []string `json:"players,omitempty"`
}

// LoginRequest is the request body for organizer login
type LoginRequest struct {
	Password string `json:"password"`
}

// UpdateConfigRequest is the request body for updating session config
type UpdateConfigRequest struct {
	CourtCount *int  `json:"court_count,omitempty"`
	MaxPlayers *int  `json:"max_players,omitempty"`
	AutoFill   *bool `json:"auto_fill,omitempty"`
}

// AddPlayersRequest is the request body for adding players
type AddPlayersRequest struct {
	Players []string `json:"players"`
}

// ResultRequest is the request body for reporting a court result
type ResultRequest struct {
	Winner string `json:"winner"`
}

// UpdateAllRequest is the request body for resolving every selected court.
// Keys are 0-based court indexes, values are teams.
type UpdateAllRequest struct {
	Pending map[string]string `json:"pending"`
}
