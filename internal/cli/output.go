package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/openplay-go/internal/api/apierr"
	"github.com/mcoot/openplay-go/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case response.CreateSessionResponse:
		o.printSession(v.Session)
		o.printToken(v.Token)
		o.printWarning(v.Warning)
	case response.Token:
		o.printToken(v)
	case response.SessionList:
		o.printSessionList(v)
	case response.AddPlayersResponse:
		o.printf("Added: %s\n", joinOrNone(v.Added))
		o.printWarning(v.Warning)
		o.printQueue(v.Session.Queue)
	case response.QueueResponse:
		o.printQueue(v.Queue)
	case response.ResultResponse:
		o.printMatch(v.Match)
		o.printCourts(v.Session.Courts)
		o.printQueue(v.Session.Queue)
	case response.UpdateAllResponse:
		o.printOutcomes(v.Outcomes)
		o.printCourts(v.Session.Courts)
		o.printQueue(v.Session.Queue)
	case response.HistoryResponse:
		o.printHistory(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s\n", s.Code)
	o.printf("Courts: %d  Max players: %d  Auto-fill: %t\n",
		s.Config.CourtCount, s.Config.MaxPlayers, s.Config.AutoFill)
	if s.Protected {
		o.printf("Protected: yes\n")
	}
	o.printf("Players: %d  Matches played: %d\n", len(s.Players), s.MatchesPlayed)
	o.printCourts(s.Courts)
	o.printQueue(s.Queue)
}

func (o *Output) printCourts(courts []response.Court) {
	for _, c := range courts {
		switch c.State {
		case "complete":
			o.printf("Court %d: %s vs %s\n", c.Index, strings.Join(c.Team1, " & "), strings.Join(c.Team2, " & "))
		case "filling":
			o.printf("Court %d: %s (waiting for players)\n", c.Index, strings.Join(c.Players, ", "))
		default:
			o.printf("Court %d: empty\n", c.Index)
		}
	}
}

func (o *Output) printQueue(queue []response.QueueEntry) {
	if len(queue) == 0 {
		o.printf("Queue: empty\n")
		return
	}
	o.printf("Queue (%d):\n", len(queue))
	for _, e := range queue {
		streak := ""
		if e.Streak > 0 {
			streak = fmt.Sprintf(" [streak %d]", e.Streak)
		}
		o.printf("  %d. %s%s\n", e.Position, e.PlayerID, streak)
	}
}

func (o *Output) printMatch(m response.Match) {
	o.printf("Match #%d on court %d: %s beat %s\n",
		m.Ordinal, m.Court, strings.Join(m.Winners, " & "), strings.Join(m.Losers, " & "))
}

func (o *Output) printOutcomes(outcomes []response.Outcome) {
	for _, out := range outcomes {
		if out.Error != nil {
			o.printf("Court %d: rejected: %s (%s)\n", out.Court, out.Error.Message, out.Error.Code)
			continue
		}
		o.printMatch(*out.Match)
	}
}

func (o *Output) printHistory(h response.HistoryResponse) {
	if len(h.Matches) == 0 {
		o.printf("No matches played\n")
		return
	}
	for _, m := range h.Matches {
		o.printMatch(m)
	}
}

func (o *Output) printSessionList(l response.SessionList) {
	if len(l.Sessions) == 0 {
		o.printf("No sessions\n")
		return
	}
	for _, code := range l.Sessions {
		o.printf("%s\n", code)
	}
}

func (o *Output) printToken(t response.Token) {
	o.printf("Token: %s (expires %s)\n", t.Token, t.ExpiresAt.Format("2006-01-02 15:04"))
}

func (o *Output) printWarning(w *apierr.APIError) {
	if w != nil {
		o.printf("Warning: %s (%s)\n", w.Message, w.Code)
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
