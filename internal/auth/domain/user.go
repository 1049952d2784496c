package domain

import "time"

// User is the identity a session is minted for. Handles are unique.
type User struct {
	ID          string
	Handle      string
	DisplayName string
	CreatedAt   time.Time
}

// Account is the credential-holding record attached to a user. Passkeys hang
// off the account, not the user. Email is stored lower-cased and is unique.
type Account struct {
	ID          string
	UserID      string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// AccountRef joins an account with the handle of the user it belongs to.
type AccountRef struct {
	AccountID string
	UserID    string
	Handle    string
	Email     string
}
