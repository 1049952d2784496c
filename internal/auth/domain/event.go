package domain

import "time"

// AuthEventType names an auth lifecycle event published to the event bus.
type AuthEventType string

const (
	EventSessionCreated   AuthEventType = "auth.session.created"
	EventSessionDestroyed AuthEventType = "auth.session.destroyed"
)

// AuthEvent is the payload published for session lifecycle changes. The
// session is referenced by its token fingerprint, never the bearer token.
type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserID     string        `json:"userId,omitempty"`
	SessionRef string        `json:"sessionRef"`
	Method     string        `json:"method,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
