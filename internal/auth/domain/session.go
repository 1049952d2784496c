package domain

import "time"

// Session is a server-side login session. Only TokenHash is persisted; Token
// is populated when the session is minted or presented by a client.
type Session struct {
	Token     string
	TokenHash string
	UserID    string
	Handle    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
