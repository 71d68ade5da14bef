package model

import "time"

// EventType identifies the type of session event
type EventType string

const (
	EventSessionUpdated EventType = "session-updated"
	EventMatchRecorded  EventType = "match-recorded"
	EventSessionDeleted EventType = "session-deleted"
)

// Event describes a change to a session, published to live subscribers
type Event struct {
	Type        EventType
	Timestamp   time.Time
	SessionCode SessionCode
	Payload     any // Type-specific data
}
