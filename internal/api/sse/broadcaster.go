package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/openplay-go/internal/api/response"
	"github.com/mcoot/openplay-go/internal/model"
)

// Message is the JSON body of a broadcast event
type Message struct {
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	SessionCode string    `json:"session_code"`
	Payload     any       `json:"payload,omitempty"`
}

// Broadcaster publishes session events to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends an event to every client watching the session. A deleted
// session's hub is closed after the event is queued.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.SessionCode)
	if hub == nil {
		return
	}

	data, err := json.Marshal(Message{
		Type:        string(event.Type),
		Timestamp:   event.Timestamp,
		SessionCode: string(event.SessionCode),
		Payload:     payloadFor(event.Payload),
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session_code", string(event.SessionCode)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))

	if event.Type == model.EventSessionDeleted {
		b.hubManager.RemoveHub(event.SessionCode)
	}
}

// payloadFor converts model payloads to their API representation
func payloadFor(payload any) any {
	switch p := payload.(type) {
	case *model.Session:
		return response.SessionFromModel(p)
	case model.MatchRecord:
		return response.MatchFromModel(p)
	default:
		return p
	}
}
